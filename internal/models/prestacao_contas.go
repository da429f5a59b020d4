package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// PrestacaoContas represents an owner settlement statement for a period
type PrestacaoContas struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ProprietarioID uint      `gorm:"not null;index" json:"proprietario_id"`
	ContratoID     *uint     `gorm:"index" json:"contrato_id"`
	Periodicidade  string    `gorm:"default:mensal;not null" json:"periodicidade"`
	PeriodoInicio  time.Time `gorm:"type:date;not null" json:"periodo_inicio"`
	PeriodoFim     time.Time `gorm:"type:date;not null" json:"periodo_fim"`

	TotalReceitas decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_receitas"`
	TotalDespesas decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_despesas"`
	TaxaAdmin     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"taxa_admin"`
	ValorRepasse  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor_repasse"`

	Status      string     `gorm:"default:aberta;not null;index" json:"status"`
	FechadaEm   *time.Time `json:"fechada_em"`
	EnviadaEm   *time.Time `json:"enviada_em"`
	ArquivoPDF  *string    `json:"arquivo_pdf"`
	Observacao  *string    `gorm:"type:text" json:"observacao"`
	CriadorID   *uint      `gorm:"index" json:"criador_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Associations
	Proprietario Pessoa                `gorm:"foreignKey:ProprietarioID" json:"proprietario,omitempty"`
	Contrato     *Contrato             `gorm:"foreignKey:ContratoID" json:"contrato,omitempty"`
	Itens        []PrestacaoContasItem `gorm:"foreignKey:PrestacaoID" json:"itens,omitempty"`
}

// TableName specifies the table name for PrestacaoContas
func (PrestacaoContas) TableName() string {
	return "prestacoes_contas"
}

// Periodicidade constants
const (
	PeriodicidadeMensal    = "mensal"
	PeriodicidadeQuinzenal = "quinzenal"
	PeriodicidadeSemanal   = "semanal"
)

// PrestacaoContas status constants
const (
	PrestacaoStatusAberta    = "aberta"
	PrestacaoStatusFechada   = "fechada"
	PrestacaoStatusEnviada   = "enviada"
	PrestacaoStatusRepassada = "repassada"
	PrestacaoStatusCancelada = "cancelada"
)

// MayFechar returns true while the statement is still open
func (p *PrestacaoContas) MayFechar() bool {
	return p.Status == PrestacaoStatusAberta
}

// MayEnviar returns true once the statement is closed
func (p *PrestacaoContas) MayEnviar() bool {
	return p.Status == PrestacaoStatusFechada
}

// MayRegistrarRepasse returns true for closed or sent statements
func (p *PrestacaoContas) MayRegistrarRepasse() bool {
	return p.Status == PrestacaoStatusFechada || p.Status == PrestacaoStatusEnviada
}

// MayCancelar returns true before the payout happens
func (p *PrestacaoContas) MayCancelar() bool {
	return p.Status == PrestacaoStatusAberta || p.Status == PrestacaoStatusFechada
}

// CalcularRepasse computes the owner payout: receitas - despesas - taxa admin
func (p *PrestacaoContas) CalcularRepasse() decimal.Decimal {
	return p.TotalReceitas.Sub(p.TotalDespesas).Sub(p.TaxaAdmin).Round(2)
}

// PrestacaoContasItem is one line of a settlement statement
type PrestacaoContasItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	PrestacaoID  uint            `gorm:"not null;index" json:"prestacao_id"`
	LancamentoID *uint           `gorm:"index" json:"lancamento_id"`
	BaixaID      *uint           `gorm:"index" json:"baixa_id"`
	Tipo         string          `gorm:"size:20;not null" json:"tipo"`
	Descricao    string          `gorm:"not null" json:"descricao"`
	Data         time.Time       `gorm:"type:date;not null" json:"data"`
	Valor        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"valor"`
	CreatedAt    time.Time       `json:"created_at"`

	// Associations
	Lancamento *Lancamento `gorm:"foreignKey:LancamentoID" json:"lancamento,omitempty"`
	Baixa      *Baixa      `gorm:"foreignKey:BaixaID" json:"baixa,omitempty"`
}

// TableName specifies the table name for PrestacaoContasItem
func (PrestacaoContasItem) TableName() string {
	return "prestacao_contas_itens"
}

// Statement item type constants
const (
	ItemTipoReceita   = "receita"
	ItemTipoDespesa   = "despesa"
	ItemTipoTaxaAdmin = "taxa_admin"
)

// IsReceita returns true for lines that add to the owner payout
func (i *PrestacaoContasItem) IsReceita() bool {
	return i.Tipo == ItemTipoReceita
}

// PrestacaoContasResponse is the JSON response format for settlement statements
type PrestacaoContasResponse struct {
	ID                     uint            `json:"id"`
	ProprietarioID         uint            `json:"proprietario_id"`
	ProprietarioNome       string          `json:"proprietario_nome,omitempty"`
	ContratoID             *uint           `json:"contrato_id"`
	Periodicidade          string          `json:"periodicidade"`
	PeriodoInicio          time.Time       `json:"periodo_inicio"`
	PeriodoFim             time.Time       `json:"periodo_fim"`
	TotalReceitas          decimal.Decimal `json:"total_receitas"`
	TotalDespesas          decimal.Decimal `json:"total_despesas"`
	TaxaAdmin              decimal.Decimal `json:"taxa_admin"`
	ValorRepasse           decimal.Decimal `json:"valor_repasse"`
	ValorRepasseFormatado  string          `json:"valor_repasse_formatado"`
	Status                 string          `json:"status"`
	FechadaEm              *time.Time      `json:"fechada_em"`
	EnviadaEm              *time.Time      `json:"enviada_em"`
	Itens                  []PrestacaoContasItem `json:"itens,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// ToResponse converts PrestacaoContas to PrestacaoContasResponse
func (p *PrestacaoContas) ToResponse() PrestacaoContasResponse {
	resp := PrestacaoContasResponse{
		ID:                    p.ID,
		ProprietarioID:        p.ProprietarioID,
		ContratoID:            p.ContratoID,
		Periodicidade:         p.Periodicidade,
		PeriodoInicio:         p.PeriodoInicio,
		PeriodoFim:            p.PeriodoFim,
		TotalReceitas:         p.TotalReceitas,
		TotalDespesas:         p.TotalDespesas,
		TaxaAdmin:             p.TaxaAdmin,
		ValorRepasse:          p.ValorRepasse,
		ValorRepasseFormatado: moeda.Formatar(p.ValorRepasse),
		Status:                p.Status,
		FechadaEm:             p.FechadaEm,
		EnviadaEm:             p.EnviadaEm,
		Itens:                 p.Itens,
		CreatedAt:             p.CreatedAt,
	}

	if p.Proprietario.ID != 0 {
		resp.ProprietarioNome = p.Proprietario.Nome
	}

	return resp
}
