package models

import (
	"time"

	"gorm.io/gorm"
)

// Usuario represents a back-office user
type Usuario struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Email             string     `gorm:"uniqueIndex;not null" json:"email"`
	SenhaCriptografada string    `gorm:"column:senha_criptografada;not null" json:"-"`
	Nome              string     `json:"nome"`
	Telefone          string     `json:"telefone"`
	Perfil            string     `gorm:"default:leitura" json:"perfil"`
	Status            string     `gorm:"default:ativo" json:"status"`
	DescartadoEm      *time.Time `gorm:"index" json:"-"`
	CriadoPor         *uint      `json:"criado_por"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Associations
	Criador      *Usuario      `gorm:"foreignKey:CriadoPor" json:"criador,omitempty"`
	Notificacoes []Notificacao `gorm:"foreignKey:UsuarioID" json:"notificacoes,omitempty"`
}

// TableName specifies the table name for Usuario
func (Usuario) TableName() string {
	return "usuarios"
}

// BeforeCreate hook for setting defaults
func (u *Usuario) BeforeCreate(tx *gorm.DB) error {
	if u.Perfil == "" {
		u.Perfil = PerfilLeitura
	}
	if u.Status == "" {
		u.Status = StatusUsuarioAtivo
	}
	return nil
}

// Perfil constants
const (
	PerfilAdmin   = "admin"
	PerfilGestor  = "gestor"
	PerfilLeitura = "leitura"
)

// Status constants
const (
	StatusUsuarioAtivo    = "ativo"
	StatusUsuarioInativo  = "inativo"
	StatusUsuarioSuspenso = "suspenso"
)

// IsAdmin returns true if user has admin role
func (u *Usuario) IsAdmin() bool {
	return u.Perfil == PerfilAdmin
}

// IsGestor returns true if user can manage billing
func (u *Usuario) IsGestor() bool {
	return u.Perfil == PerfilGestor
}

// IsAtivo returns true if user can authenticate
func (u *Usuario) IsAtivo() bool {
	return u.Status == StatusUsuarioAtivo && u.DescartadoEm == nil
}

// UsuarioResponse is the JSON response format for users
type UsuarioResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Nome      string    `json:"nome"`
	Telefone  string    `json:"telefone"`
	Perfil    string    `json:"perfil"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse converts Usuario to UsuarioResponse
func (u *Usuario) ToResponse() UsuarioResponse {
	return UsuarioResponse{
		ID:        u.ID,
		Email:     u.Email,
		Nome:      u.Nome,
		Telefone:  u.Telefone,
		Perfil:    u.Perfil,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
