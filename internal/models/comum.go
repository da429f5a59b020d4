package models

import (
	"time"
)

// Notificacao represents an in-app notification for a user
type Notificacao struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UsuarioID uint       `gorm:"not null;index" json:"usuario_id"`
	Titulo    string     `gorm:"not null" json:"titulo"`
	Mensagem  string     `gorm:"not null" json:"mensagem"`
	Tipo      *string    `gorm:"index" json:"tipo"`
	LidaEm    *time.Time `gorm:"index" json:"lida_em"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	Usuario Usuario `gorm:"foreignKey:UsuarioID" json:"-"`
}

// TableName specifies the table name for Notificacao
func (Notificacao) TableName() string {
	return "notificacoes"
}

// Notificacao type constants
const (
	NotificacaoTipoBoletoErro          = "boleto_erro"
	NotificacaoTipoBoletoPago          = "boleto_pago"
	NotificacaoTipoCobrancaGerada      = "cobranca_gerada"
	NotificacaoTipoCobrancaCancelada   = "cobranca_cancelada"
	NotificacaoTipoCertificadoVencendo = "certificado_vencendo"
	NotificacaoTipoLancamentoAtrasado  = "lancamento_atrasado"
	NotificacaoTipoContratoEncerrado   = "contrato_encerrado"
	NotificacaoTipoPrestacaoFechada    = "prestacao_fechada"
	NotificacaoTipoErroSistema         = "erro_sistema"
)

// IsLida returns true if the notification has been read
func (n *Notificacao) IsLida() bool {
	return n.LidaEm != nil
}

// MarcarLida marks the notification as read
func (n *Notificacao) MarcarLida() {
	agora := time.Now()
	n.LidaEm = &agora
}

// NotificacaoResponse is the JSON response format
type NotificacaoResponse struct {
	ID        uint       `json:"id"`
	Titulo    string     `json:"titulo"`
	Mensagem  string     `json:"mensagem"`
	Tipo      *string    `json:"tipo"`
	Lida      bool       `json:"lida"`
	LidaEm    *time.Time `json:"lida_em"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse converts Notificacao to NotificacaoResponse
func (n *Notificacao) ToResponse() NotificacaoResponse {
	return NotificacaoResponse{
		ID:        n.ID,
		Titulo:    n.Titulo,
		Mensagem:  n.Mensagem,
		Tipo:      n.Tipo,
		Lida:      n.IsLida(),
		LidaEm:    n.LidaEm,
		CreatedAt: n.CreatedAt,
	}
}

// RefreshToken represents a JWT refresh token
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UsuarioID uint       `gorm:"not null;index" json:"usuario_id"`
	Token     string     `json:"token"`
	ExpiraEm  *time.Time `json:"expira_em"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Associations
	Usuario Usuario `gorm:"foreignKey:UsuarioID" json:"-"`
}

// TableName specifies the table name for RefreshToken
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsExpirado returns true if the refresh token has expired
func (r *RefreshToken) IsExpirado() bool {
	if r.ExpiraEm == nil {
		return false
	}
	return time.Now().After(*r.ExpiraEm)
}
