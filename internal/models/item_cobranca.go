package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemCobranca represents a recurring charge line attached to a contract
type ItemCobranca struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	ContratoID uint            `gorm:"not null;index" json:"contrato_id"`
	Tipo       string          `gorm:"not null" json:"tipo"`
	Descricao  *string         `json:"descricao"`
	Valor      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor"`
	TipoValor  string          `gorm:"default:fixo;not null" json:"tipo_valor"`
	Ativo      bool            `gorm:"default:true;index" json:"ativo"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Associations
	Contrato *Contrato `gorm:"foreignKey:ContratoID" json:"-"`
}

// TableName specifies the table name for ItemCobranca
func (ItemCobranca) TableName() string {
	return "itens_cobranca"
}

// Item type constants
const (
	ItemTipoAluguel    = "aluguel"
	ItemTipoCondominio = "condominio"
	ItemTipoIPTU       = "iptu"
	ItemTipoAgua       = "agua"
	ItemTipoLuz        = "luz"
	ItemTipoOutros     = "outros"
)

// Value kind constants
const (
	TipoValorFixo       = "fixo"
	TipoValorPercentual = "percentual" // percentual sobre o valor do aluguel
)

// ResolverValor resolves the item amount against the contract's rent.
// Fixed items return their own value; percentage items return pct x aluguel.
func (i *ItemCobranca) ResolverValor(valorAluguel decimal.Decimal) decimal.Decimal {
	if i.TipoValor == TipoValorPercentual {
		return valorAluguel.Mul(i.Valor).Div(decimal.NewFromInt(100)).Round(2)
	}
	return i.Valor
}

// ItemCobrancaResponse is the JSON response format for billing items
type ItemCobrancaResponse struct {
	ID        uint            `json:"id"`
	Tipo      string          `json:"tipo"`
	Descricao *string         `json:"descricao"`
	Valor     decimal.Decimal `json:"valor"`
	TipoValor string          `json:"tipo_valor"`
	Ativo     bool            `json:"ativo"`
}

// ToResponse converts ItemCobranca to ItemCobrancaResponse
func (i *ItemCobranca) ToResponse() ItemCobrancaResponse {
	return ItemCobrancaResponse{
		ID:        i.ID,
		Tipo:      i.Tipo,
		Descricao: i.Descricao,
		Valor:     i.Valor,
		TipoValor: i.TipoValor,
		Ativo:     i.Ativo,
	}
}
