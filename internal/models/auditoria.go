package models

import (
	"time"
)

// Auditoria represents a system audit entry
type Auditoria struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsuarioID uint      `gorm:"not null" json:"usuario_id"`
	Acao      string    `gorm:"size:50;not null" json:"acao"`     // CREATE, UPDATE, DELETE, LOGIN, ESTORNO
	Entidade  string    `gorm:"size:50;not null" json:"entidade"` // Contrato, Cobranca, Boleto, Baixa, etc.
	EntidadeID uint     `json:"entidade_id"`
	Detalhes  string    `gorm:"type:text" json:"detalhes"` // JSON or text description
	IPAddress string    `gorm:"size:45" json:"ip_address"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Usuario Usuario `gorm:"foreignKey:UsuarioID" json:"-"`
}

// TableName specifies the table name for Auditoria
func (Auditoria) TableName() string {
	return "auditorias"
}

// Audit action constants
const (
	AcaoCreate  = "CREATE"
	AcaoUpdate  = "UPDATE"
	AcaoDelete  = "DELETE"
	AcaoLogin   = "LOGIN"
	AcaoEstorno = "ESTORNO"
	AcaoBaixa   = "BAIXA"
)
