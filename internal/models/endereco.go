package models

import "time"

// EnderecoCEP caches a postal-code lookup so repeated queries skip the
// external service
type EnderecoCEP struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CEP         string    `gorm:"size:8;uniqueIndex;not null" json:"cep"`
	Logradouro  string    `json:"logradouro"`
	Complemento string    `json:"complemento"`
	Bairro      string    `json:"bairro"`
	Cidade      string    `json:"cidade"`
	UF          string    `gorm:"size:2" json:"uf"`
	IBGE        string    `gorm:"size:7" json:"ibge"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for EnderecoCEP
func (EnderecoCEP) TableName() string {
	return "enderecos_cep"
}

// IsExpirado reports whether the cached lookup is older than the given TTL
func (e *EnderecoCEP) IsExpirado(ttl time.Duration) bool {
	return time.Since(e.UpdatedAt) > ttl
}
