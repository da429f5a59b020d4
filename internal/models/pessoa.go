package models

import (
	"time"
)

// Pessoa represents a tenant, owner or guarantor
type Pessoa struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Nome       string    `gorm:"not null" json:"nome"`
	Documento  string    `gorm:"uniqueIndex;not null" json:"documento"` // CPF ou CNPJ
	Email      string    `json:"email"`
	Telefone   string    `json:"telefone"`
	Tipo       string    `gorm:"default:inquilino;index" json:"tipo"`
	CEP        string    `gorm:"size:9" json:"cep"`
	Logradouro string    `json:"logradouro"`
	Numero     string    `json:"numero"`
	Bairro     string    `json:"bairro"`
	Cidade     string    `json:"cidade"`
	UF         string    `gorm:"size:2" json:"uf"`
	Ativo      bool      `gorm:"default:true;index" json:"ativo"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for Pessoa
func (Pessoa) TableName() string {
	return "pessoas"
}

// Tipo constants
const (
	TipoPessoaInquilino    = "inquilino"
	TipoPessoaProprietario = "proprietario"
	TipoPessoaFiador       = "fiador"
)

// IsPessoaJuridica returns true when the document is a CNPJ (14 digits)
func (p *Pessoa) IsPessoaJuridica() bool {
	digitos := 0
	for _, c := range p.Documento {
		if c >= '0' && c <= '9' {
			digitos++
		}
	}
	return digitos == 14
}
