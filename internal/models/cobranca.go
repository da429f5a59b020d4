package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// Cobranca represents a monthly charge generated for a contract.
// At most one charge exists per (contrato, competencia).
type Cobranca struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ContratoID         uint            `gorm:"not null;index:idx_cobranca_competencia,unique" json:"contrato_id"`
	Competencia        string          `gorm:"size:7;not null;index:idx_cobranca_competencia,unique" json:"competencia"` // "YYYY-MM"
	PeriodoInicio      time.Time       `gorm:"type:date;not null" json:"periodo_inicio"`
	PeriodoFim         time.Time       `gorm:"type:date;not null" json:"periodo_fim"`
	DataVencimento     time.Time       `gorm:"type:date;not null;index" json:"data_vencimento"`
	Detalhamento       string          `gorm:"type:text" json:"detalhamento"` // JSON breakdown per item
	ValorTotal         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_total"`
	Status             string          `gorm:"default:pendente;not null;index" json:"status"`
	BoletoID           *uint           `gorm:"index" json:"boleto_id"`
	TipoEnvio          string          `gorm:"default:automatico" json:"tipo_envio"`
	EnviadaEm          *time.Time      `json:"enviada_em"`
	BloquearAutomatica bool            `gorm:"default:false" json:"bloquear_automatica"`
	CriadorID          *uint           `gorm:"index" json:"criador_id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Associations
	Contrato Contrato `gorm:"foreignKey:ContratoID" json:"contrato,omitempty"`
	Boleto   *Boleto  `gorm:"foreignKey:BoletoID" json:"boleto,omitempty"`
	Criador  *Usuario `gorm:"foreignKey:CriadorID" json:"criador,omitempty"`
}

// TableName specifies the table name for Cobranca
func (Cobranca) TableName() string {
	return "cobrancas"
}

// Cobranca status constants
const (
	CobrancaStatusPendente     = "pendente"
	CobrancaStatusBoletoGerado = "boleto_gerado"
	CobrancaStatusEnviada      = "enviada"
	CobrancaStatusPaga         = "paga"
	CobrancaStatusCancelada    = "cancelada"
)

// Send type constants
const (
	EnvioAutomatico = "automatico"
	EnvioManual     = "manual"
)

// MayCancelar returns true if the charge can still be cancelled
func (c *Cobranca) MayCancelar() bool {
	return c.Status == CobrancaStatusPendente ||
		c.Status == CobrancaStatusBoletoGerado ||
		c.Status == CobrancaStatusEnviada
}

// MayGerarBoleto returns true if a boleto can be attached
func (c *Cobranca) MayGerarBoleto() bool {
	return c.Status == CobrancaStatusPendente
}

// MayMarcarEnviada returns true if the charge can be flagged as sent
func (c *Cobranca) MayMarcarEnviada() bool {
	return c.Status == CobrancaStatusBoletoGerado
}

// MayMarcarPaga returns true if the charge can be settled
func (c *Cobranca) MayMarcarPaga() bool {
	return c.Status == CobrancaStatusBoletoGerado || c.Status == CobrancaStatusEnviada
}

// GetValorTotalFormatado renders the total as Brazilian currency
func (c *Cobranca) GetValorTotalFormatado() string {
	return moeda.Formatar(c.ValorTotal)
}

// CobrancaResponse is the JSON response format for charges
type CobrancaResponse struct {
	ID                  uint            `json:"id"`
	ContratoID          uint            `json:"contrato_id"`
	Competencia         string          `json:"competencia"`
	PeriodoInicio       time.Time       `json:"periodo_inicio"`
	PeriodoFim          time.Time       `json:"periodo_fim"`
	DataVencimento      time.Time       `json:"data_vencimento"`
	Detalhamento        string          `json:"detalhamento"`
	ValorTotal          decimal.Decimal `json:"valor_total"`
	ValorTotalFormatado string          `json:"valor_total_formatado"`
	Status              string          `json:"status"`
	BoletoID            *uint           `json:"boleto_id"`
	TipoEnvio           string          `json:"tipo_envio"`
	EnviadaEm           *time.Time      `json:"enviada_em"`
	InquilinoNome       string          `json:"inquilino_nome,omitempty"`
	ImovelEndereco      string          `json:"imovel_endereco,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

// ToResponse converts Cobranca to CobrancaResponse
func (c *Cobranca) ToResponse() CobrancaResponse {
	resp := CobrancaResponse{
		ID:                  c.ID,
		ContratoID:          c.ContratoID,
		Competencia:         c.Competencia,
		PeriodoInicio:       c.PeriodoInicio,
		PeriodoFim:          c.PeriodoFim,
		DataVencimento:      c.DataVencimento,
		Detalhamento:        c.Detalhamento,
		ValorTotal:          c.ValorTotal,
		ValorTotalFormatado: c.GetValorTotalFormatado(),
		Status:              c.Status,
		BoletoID:            c.BoletoID,
		TipoEnvio:           c.TipoEnvio,
		EnviadaEm:           c.EnviadaEm,
		CreatedAt:           c.CreatedAt,
	}

	if c.Contrato.ID != 0 {
		if c.Contrato.Inquilino.ID != 0 {
			resp.InquilinoNome = c.Contrato.Inquilino.Nome
		}
		if c.Contrato.Imovel.ID != 0 {
			resp.ImovelEndereco = c.Contrato.Imovel.EnderecoCompleto()
		}
	}

	return resp
}
