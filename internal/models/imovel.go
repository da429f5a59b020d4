package models

import (
	"time"
)

// Imovel represents a managed property
type Imovel struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Codigo         string    `gorm:"uniqueIndex" json:"codigo"`
	Tipo           string    `gorm:"default:apartamento" json:"tipo"`
	ProprietarioID uint      `gorm:"not null;index" json:"proprietario_id"`
	CEP            string    `gorm:"size:9" json:"cep"`
	Logradouro     string    `json:"logradouro"`
	Numero         string    `json:"numero"`
	Complemento    *string   `json:"complemento"`
	Bairro         string    `json:"bairro"`
	Cidade         string    `json:"cidade"`
	UF             string    `gorm:"size:2" json:"uf"`
	Ativo          bool      `gorm:"default:true;index" json:"ativo"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Associations
	Proprietario Pessoa `gorm:"foreignKey:ProprietarioID" json:"proprietario,omitempty"`
}

// TableName specifies the table name for Imovel
func (Imovel) TableName() string {
	return "imoveis"
}

// Tipo constants
const (
	TipoImovelApartamento = "apartamento"
	TipoImovelCasa        = "casa"
	TipoImovelComercial   = "comercial"
	TipoImovelTerreno     = "terreno"
)

// EnderecoCompleto returns the formatted address for reports
func (i *Imovel) EnderecoCompleto() string {
	endereco := i.Logradouro
	if i.Numero != "" {
		endereco += ", " + i.Numero
	}
	if i.Complemento != nil && *i.Complemento != "" {
		endereco += " - " + *i.Complemento
	}
	if i.Bairro != "" {
		endereco += ", " + i.Bairro
	}
	if i.Cidade != "" {
		endereco += ", " + i.Cidade
	}
	if i.UF != "" {
		endereco += "/" + i.UF
	}
	return endereco
}
