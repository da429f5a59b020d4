package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// Baixa represents a write-off (payment settlement) against a posting
type Baixa struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	LancamentoID  uint   `gorm:"not null;index" json:"lancamento_id"`
	ContaBancaria string `gorm:"not null" json:"conta_bancaria"`

	DataPagamento time.Time `gorm:"type:date;not null" json:"data_pagamento"`

	// Amounts; nil sub-fields are treated as zero when totalling
	ValorPago     decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"valor_pago"`
	MultaPaga     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"multa_paga"`
	JurosPagos    *decimal.Decimal `gorm:"type:decimal(15,2)" json:"juros_pagos"`
	ValorDesconto *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_desconto"`
	ValorTotal    decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"valor_total"`

	FormaPagamento string `gorm:"size:20;not null" json:"forma_pagamento"`

	// Reversal bookkeeping
	Estornada     bool       `gorm:"default:false;index" json:"estornada"`
	EstornadaEm   *time.Time `json:"estornada_em"`
	MotivoEstorno *string    `gorm:"type:text" json:"motivo_estorno"`

	NumeroDocumento     *string `json:"numero_documento"`
	NumeroAutenticacao  *string `json:"numero_autenticacao"`

	CriadorID *uint     `gorm:"index" json:"criador_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Lancamento *Lancamento `gorm:"foreignKey:LancamentoID" json:"-"`
	Criador    *Usuario    `gorm:"foreignKey:CriadorID" json:"criador,omitempty"`
}

// TableName specifies the table name for Baixa
func (Baixa) TableName() string {
	return "baixas"
}

// Payment method constants
const (
	FormaPagamentoBoleto        = "boleto"
	FormaPagamentoPix           = "pix"
	FormaPagamentoTransferencia = "transferencia"
	FormaPagamentoDinheiro      = "dinheiro"
	FormaPagamentoCheque        = "cheque"
)

// CalcularTotal computes the write-off total:
// pago + multa + juros - desconto. Nil sub-fields count as 0; negative
// inputs are summed as given.
func (b *Baixa) CalcularTotal() decimal.Decimal {
	total := b.ValorPago.
		Add(moeda.ValorOuZero(b.MultaPaga)).
		Add(moeda.ValorOuZero(b.JurosPagos)).
		Sub(moeda.ValorOuZero(b.ValorDesconto))
	return total.Round(2)
}

// MayEstornar returns true while the write-off has not been reversed
func (b *Baixa) MayEstornar() bool {
	return !b.Estornada
}

// Estornar marks the write-off as reversed. The caller must recompute the
// parent posting's paid/balance inside the same transaction.
func (b *Baixa) Estornar(motivo string) {
	agora := time.Now()
	b.Estornada = true
	b.EstornadaEm = &agora
	b.MotivoEstorno = &motivo
}

// BaixaResponse is the JSON response format for write-offs
type BaixaResponse struct {
	ID             uint             `json:"id"`
	LancamentoID   uint             `json:"lancamento_id"`
	ContaBancaria  string           `json:"conta_bancaria"`
	DataPagamento  time.Time        `json:"data_pagamento"`
	ValorPago      decimal.Decimal  `json:"valor_pago"`
	MultaPaga      *decimal.Decimal `json:"multa_paga"`
	JurosPagos     *decimal.Decimal `json:"juros_pagos"`
	ValorDesconto  *decimal.Decimal `json:"valor_desconto"`
	ValorTotal     decimal.Decimal  `json:"valor_total"`
	TotalFormatado string           `json:"total_formatado"`
	FormaPagamento string           `json:"forma_pagamento"`
	Estornada      bool             `json:"estornada"`
	EstornadaEm    *time.Time       `json:"estornada_em"`
	MotivoEstorno  *string          `json:"motivo_estorno"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ToResponse converts Baixa to BaixaResponse
func (b *Baixa) ToResponse() BaixaResponse {
	return BaixaResponse{
		ID:             b.ID,
		LancamentoID:   b.LancamentoID,
		ContaBancaria:  b.ContaBancaria,
		DataPagamento:  b.DataPagamento,
		ValorPago:      b.ValorPago,
		MultaPaga:      b.MultaPaga,
		JurosPagos:     b.JurosPagos,
		ValorDesconto:  b.ValorDesconto,
		ValorTotal:     b.ValorTotal,
		TotalFormatado: moeda.Formatar(b.ValorTotal),
		FormaPagamento: b.FormaPagamento,
		Estornada:      b.Estornada,
		EstornadaEm:    b.EstornadaEm,
		MotivoEstorno:  b.MotivoEstorno,
		CreatedAt:      b.CreatedAt,
	}
}
