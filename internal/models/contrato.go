package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contrato represents a lease contract between owner and tenant
type Contrato struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	ImovelID            uint            `gorm:"not null;index" json:"imovel_id"`
	InquilinoID         uint            `gorm:"not null;index" json:"inquilino_id"`
	ProprietarioID      uint            `gorm:"not null;index" json:"proprietario_id"`
	CriadorID           *uint           `gorm:"index" json:"criador_id"`
	DiaVencimento       int             `gorm:"not null" json:"dia_vencimento"` // 1-31
	ValorAluguel        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_aluguel"`
	TaxaAdminPercentual *decimal.Decimal `gorm:"type:decimal(5,2)" json:"taxa_admin_percentual"`
	Status              string          `gorm:"default:ativo;index" json:"status"`
	Ativo               bool            `gorm:"default:true;index" json:"ativo"`
	CobrancaAutomatica  bool            `gorm:"default:true" json:"cobranca_automatica"`
	EmailAutomatico     bool            `gorm:"default:true" json:"email_automatico"`
	DataInicio          time.Time       `gorm:"type:date;not null" json:"data_inicio"`
	DataFim             *time.Time      `gorm:"type:date" json:"data_fim"`
	EncerradoEm         *time.Time      `json:"encerrado_em"`
	MotivoEncerramento  *string         `gorm:"type:text" json:"motivo_encerramento"`
	Observacao          *string         `gorm:"type:text" json:"observacao"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	// Associations
	Imovel        Imovel         `gorm:"foreignKey:ImovelID" json:"imovel,omitempty"`
	Inquilino     Pessoa         `gorm:"foreignKey:InquilinoID" json:"inquilino,omitempty"`
	Proprietario  Pessoa         `gorm:"foreignKey:ProprietarioID" json:"proprietario,omitempty"`
	Criador       *Usuario       `gorm:"foreignKey:CriadorID" json:"criador,omitempty"`
	ItensCobranca []ItemCobranca `gorm:"foreignKey:ContratoID" json:"itens_cobranca,omitempty"`
	Cobrancas     []Cobranca     `gorm:"foreignKey:ContratoID" json:"cobrancas,omitempty"`
}

// TableName specifies the table name for Contrato
func (Contrato) TableName() string {
	return "contratos"
}

// Contrato status constants
const (
	ContratoStatusAtivo     = "ativo"
	ContratoStatusSuspenso  = "suspenso"
	ContratoStatusEncerrado = "encerrado"
)

// MayEncerrar returns true if the contract can be closed
func (c *Contrato) MayEncerrar() bool {
	return c.Status == ContratoStatusAtivo || c.Status == ContratoStatusSuspenso
}

// MaySuspender returns true if the contract can be suspended
func (c *Contrato) MaySuspender() bool {
	return c.Status == ContratoStatusAtivo
}

// MayReativar returns true if the contract can be reactivated
func (c *Contrato) MayReativar() bool {
	return c.Status == ContratoStatusSuspenso
}

// IsVigente returns true when the contract is active and inside its validity window
func (c *Contrato) IsVigente(ref time.Time) bool {
	if c.Status != ContratoStatusAtivo || !c.Ativo {
		return false
	}
	if ref.Before(c.DataInicio) {
		return false
	}
	if c.DataFim != nil && ref.After(*c.DataFim) {
		return false
	}
	return true
}

// TaxaAdmin returns the contract's admin fee percentage, falling back to padrao
func (c *Contrato) TaxaAdmin(padrao decimal.Decimal) decimal.Decimal {
	if c.TaxaAdminPercentual != nil && !c.TaxaAdminPercentual.IsZero() {
		return *c.TaxaAdminPercentual
	}
	return padrao
}

// ContratoResponse is the JSON response format for contracts
type ContratoResponse struct {
	ID                  uint             `json:"id"`
	ImovelID            uint             `json:"imovel_id"`
	ImovelCodigo        string           `json:"imovel_codigo"`
	ImovelEndereco      string           `json:"imovel_endereco"`
	InquilinoID         uint             `json:"inquilino_id"`
	InquilinoNome       string           `json:"inquilino_nome"`
	ProprietarioID      uint             `json:"proprietario_id"`
	ProprietarioNome    string           `json:"proprietario_nome"`
	DiaVencimento       int              `json:"dia_vencimento"`
	ValorAluguel        decimal.Decimal  `json:"valor_aluguel"`
	TaxaAdminPercentual *decimal.Decimal `json:"taxa_admin_percentual"`
	Status              string           `json:"status"`
	CobrancaAutomatica  bool             `json:"cobranca_automatica"`
	EmailAutomatico     bool             `json:"email_automatico"`
	DataInicio          time.Time        `json:"data_inicio"`
	DataFim             *time.Time       `json:"data_fim"`
	EncerradoEm         *time.Time       `json:"encerrado_em"`
	Observacao          *string          `json:"observacao"`
	ItensCobranca       []ItemCobrancaResponse `json:"itens_cobranca,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// ToResponse converts Contrato to ContratoResponse
func (c *Contrato) ToResponse() ContratoResponse {
	resp := ContratoResponse{
		ID:                  c.ID,
		ImovelID:            c.ImovelID,
		InquilinoID:         c.InquilinoID,
		ProprietarioID:      c.ProprietarioID,
		DiaVencimento:       c.DiaVencimento,
		ValorAluguel:        c.ValorAluguel,
		TaxaAdminPercentual: c.TaxaAdminPercentual,
		Status:              c.Status,
		CobrancaAutomatica:  c.CobrancaAutomatica,
		EmailAutomatico:     c.EmailAutomatico,
		DataInicio:          c.DataInicio,
		DataFim:             c.DataFim,
		EncerradoEm:         c.EncerradoEm,
		Observacao:          c.Observacao,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}

	if c.Imovel.ID != 0 {
		resp.ImovelCodigo = c.Imovel.Codigo
		resp.ImovelEndereco = c.Imovel.EnderecoCompleto()
	}
	if c.Inquilino.ID != 0 {
		resp.InquilinoNome = c.Inquilino.Nome
	}
	if c.Proprietario.ID != 0 {
		resp.ProprietarioNome = c.Proprietario.Nome
	}
	for _, item := range c.ItensCobranca {
		resp.ItensCobranca = append(resp.ItensCobranca, item.ToResponse())
	}

	return resp
}
