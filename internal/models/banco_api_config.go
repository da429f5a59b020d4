package models

import (
	"time"
)

// TokenMargemSeguranca is the safety window before token expiry.
// A cached token closer than this to expiry is considered invalid.
const TokenMargemSeguranca = 5 * time.Minute

// BancoAPIConfig holds per-bank-account credentials for the collection API.
// The access token is cached on the row itself; correctness under concurrent
// requests relies on database transaction isolation.
type BancoAPIConfig struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	Banco               string     `gorm:"not null" json:"banco"`
	ContaBancaria       string     `gorm:"not null" json:"conta_bancaria"`
	ClientID            string     `json:"-"`
	ClientSecret        string     `json:"-"`
	CertificadoCaminho  string     `json:"certificado_caminho"`
	CertificadoSenha    string     `json:"-"`
	CertificadoValidade *time.Time `json:"certificado_validade"`
	Ambiente            string     `gorm:"default:sandbox" json:"ambiente"`
	AccessToken         string     `json:"-"`
	TokenExpiraEm       *time.Time `json:"-"`
	WorkspaceID         string     `json:"workspace_id"`
	Convenio            string     `gorm:"not null" json:"convenio"`
	Carteira            string     `json:"carteira"`
	Ativo               bool       `gorm:"default:true;index" json:"ativo"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TableName specifies the table name for BancoAPIConfig
func (BancoAPIConfig) TableName() string {
	return "banco_api_configs"
}

// Ambiente constants
const (
	AmbienteSandbox  = "sandbox"
	AmbienteProducao = "producao"
)

// TokenValido returns true when the cached token can still be used,
// i.e. it is non-empty and expires beyond the safety margin.
func (c *BancoAPIConfig) TokenValido() bool {
	if c.AccessToken == "" || c.TokenExpiraEm == nil {
		return false
	}
	return time.Until(*c.TokenExpiraEm) > TokenMargemSeguranca
}

// IsProducao returns true when the config points at the production endpoints
func (c *BancoAPIConfig) IsProducao() bool {
	return c.Ambiente == AmbienteProducao
}

// CertificadoVencido returns true when the registered certificate expiry has passed
func (c *BancoAPIConfig) CertificadoVencido() bool {
	return c.CertificadoValidade != nil && time.Now().After(*c.CertificadoValidade)
}
