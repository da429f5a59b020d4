package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// Lancamento represents a payable/receivable financial posting
type Lancamento struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ContratoID     *uint  `gorm:"index" json:"contrato_id"`
	ImovelID       *uint  `gorm:"index" json:"imovel_id"`
	InquilinoID    *uint  `gorm:"index" json:"inquilino_id"`
	ProprietarioID *uint  `gorm:"index" json:"proprietario_id"`
	ContaContabil  string `gorm:"size:20" json:"conta_contabil"`
	Natureza       string `gorm:"default:receber;not null;index" json:"natureza"`
	Descricao      string `gorm:"not null" json:"descricao"`

	Competencia    string    `gorm:"size:7;index" json:"competencia"`
	DataVencimento time.Time `gorm:"type:date;not null;index" json:"data_vencimento"`

	// Value components
	ValorPrincipal decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"valor_principal"`
	ValorJuros     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_juros"`
	ValorMulta     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_multa"`
	ValorDesconto  *decimal.Decimal `gorm:"type:decimal(15,2)" json:"valor_desconto"`
	Abatimento     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"abatimento"`

	ValorTotal decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_total"`
	ValorPago  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"valor_pago"`
	Saldo      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"saldo"`

	Status          string `gorm:"default:aberto;not null;index" json:"status"`
	GeradoAutomatico bool  `gorm:"default:false" json:"gerado_automatico"`
	Enviado         bool   `gorm:"default:false" json:"enviado"`
	Impresso        bool   `gorm:"default:false" json:"impresso"`
	CriadorID       *uint  `gorm:"index" json:"criador_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Contrato     *Contrato `gorm:"foreignKey:ContratoID" json:"contrato,omitempty"`
	Imovel       *Imovel   `gorm:"foreignKey:ImovelID" json:"imovel,omitempty"`
	Inquilino    *Pessoa   `gorm:"foreignKey:InquilinoID" json:"inquilino,omitempty"`
	Proprietario *Pessoa   `gorm:"foreignKey:ProprietarioID" json:"proprietario,omitempty"`
	Baixas       []Baixa   `gorm:"foreignKey:LancamentoID" json:"baixas,omitempty"`
}

// TableName specifies the table name for Lancamento
func (Lancamento) TableName() string {
	return "lancamentos"
}

// Lancamento status constants
const (
	LancamentoStatusAberto    = "aberto"
	LancamentoStatusPago      = "pago"
	LancamentoStatusParcial   = "parcial"
	LancamentoStatusCancelado = "cancelado"
)

// Natureza constants
const (
	NaturezaReceber = "receber"
	NaturezaPagar   = "pagar"
)

// CalcularTotal computes the posting total from its value components:
// principal + juros + multa - desconto - abatimento. Nil components count as 0.
func (l *Lancamento) CalcularTotal() decimal.Decimal {
	total := l.ValorPrincipal.
		Add(moeda.ValorOuZero(l.ValorJuros)).
		Add(moeda.ValorOuZero(l.ValorMulta)).
		Sub(moeda.ValorOuZero(l.ValorDesconto)).
		Sub(moeda.ValorOuZero(l.Abatimento))
	return total.Round(2)
}

// CalcularSaldo computes the open balance: total - pago.
func (l *Lancamento) CalcularSaldo() decimal.Decimal {
	return l.CalcularTotal().Sub(l.ValorPago).Round(2)
}

// IsEmAtraso returns true only when the posting is open and strictly past due
func (l *Lancamento) IsEmAtraso() bool {
	if l.Status != LancamentoStatusAberto {
		return false
	}
	hoje := time.Now().Truncate(24 * time.Hour)
	return l.DataVencimento.Before(hoje)
}

// GetDiasAtraso returns the day count since due date when in arrears, else 0
func (l *Lancamento) GetDiasAtraso() int {
	if !l.IsEmAtraso() {
		return 0
	}
	return int(time.Since(l.DataVencimento).Hours() / 24)
}

// IsPago returns true when the posting is settled. The balance check tolerates
// rounding and manual overrides that never flipped the status.
func (l *Lancamento) IsPago() bool {
	return l.Status == LancamentoStatusPago || l.CalcularSaldo().LessThanOrEqual(decimal.Zero)
}

// GetValorTotalFormatado renders the total as Brazilian currency
func (l *Lancamento) GetValorTotalFormatado() string {
	return moeda.Formatar(l.ValorTotal)
}

// LancamentoResponse is the JSON response format for postings
type LancamentoResponse struct {
	ID               uint            `json:"id"`
	ContratoID       *uint           `json:"contrato_id"`
	Natureza         string          `json:"natureza"`
	Descricao        string          `json:"descricao"`
	Competencia      string          `json:"competencia"`
	DataVencimento   time.Time       `json:"data_vencimento"`
	ValorTotal       decimal.Decimal `json:"valor_total"`
	ValorPago        decimal.Decimal `json:"valor_pago"`
	Saldo            decimal.Decimal `json:"saldo"`
	TotalFormatado   string          `json:"total_formatado"`
	Status           string          `json:"status"`
	DiasAtraso       int             `json:"dias_atraso"`
	InquilinoNome    string          `json:"inquilino_nome,omitempty"`
	ProprietarioNome string          `json:"proprietario_nome,omitempty"`
	Baixas           []BaixaResponse `json:"baixas,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToResponse converts Lancamento to LancamentoResponse
func (l *Lancamento) ToResponse() LancamentoResponse {
	resp := LancamentoResponse{
		ID:             l.ID,
		ContratoID:     l.ContratoID,
		Natureza:       l.Natureza,
		Descricao:      l.Descricao,
		Competencia:    l.Competencia,
		DataVencimento: l.DataVencimento,
		ValorTotal:     l.ValorTotal,
		ValorPago:      l.ValorPago,
		Saldo:          l.Saldo,
		TotalFormatado: l.GetValorTotalFormatado(),
		Status:         l.Status,
		DiasAtraso:     l.GetDiasAtraso(),
		CreatedAt:      l.CreatedAt,
	}

	if l.Inquilino != nil {
		resp.InquilinoNome = l.Inquilino.Nome
	}
	if l.Proprietario != nil {
		resp.ProprietarioNome = l.Proprietario.Nome
	}
	for _, b := range l.Baixas {
		resp.Baixas = append(resp.Baixas, b.ToResponse())
	}

	return resp
}
