package models

import "time"

// EmailLog records every outbound notification email
type EmailLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Destinatario string    `gorm:"not null;index" json:"destinatario"`
	Assunto      string    `gorm:"not null" json:"assunto"`
	Template     string    `gorm:"size:50;not null;index" json:"template"`
	CobrancaID   *uint     `gorm:"index" json:"cobranca_id"`
	PrestacaoID  *uint     `gorm:"index" json:"prestacao_id"`
	Sucesso      bool      `gorm:"index" json:"sucesso"`
	ProvedorID   *string   `json:"provedor_id"`
	Erro         *string   `gorm:"type:text" json:"erro"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for EmailLog
func (EmailLog) TableName() string {
	return "email_logs"
}

// Email template name constants
const (
	TemplateBoletoEmitido       = "boleto_emitido"
	TemplateLembreteVencimento  = "lembrete_vencimento"
	TemplateCobrancaCancelada   = "cobranca_cancelada"
	TemplatePrestacaoDisponivel = "prestacao_disponivel"
)
