package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBancoAPIConfigTokenValido(t *testing.T) {
	futuro := time.Now().Add(1 * time.Hour)
	foraDaMargem := time.Now().Add(10 * time.Minute)
	dentroDaMargem := time.Now().Add(2 * time.Minute)
	passado := time.Now().Add(-1 * time.Minute)

	tests := []struct {
		name     string
		config   BancoAPIConfig
		expected bool
	}{
		{"No token", BancoAPIConfig{}, false},
		{"Token without expiry", BancoAPIConfig{AccessToken: "tok"}, false},
		{"Valid token", BancoAPIConfig{AccessToken: "tok", TokenExpiraEm: &futuro}, true},
		{"Valid just outside margin", BancoAPIConfig{AccessToken: "tok", TokenExpiraEm: &foraDaMargem}, true},
		{"Expiring inside safety margin", BancoAPIConfig{AccessToken: "tok", TokenExpiraEm: &dentroDaMargem}, false},
		{"Expired token", BancoAPIConfig{AccessToken: "tok", TokenExpiraEm: &passado}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.TokenValido())
		})
	}
}

func TestBancoAPIConfigCertificadoVencido(t *testing.T) {
	semValidade := BancoAPIConfig{}
	assert.False(t, semValidade.CertificadoVencido())

	futuro := time.Now().AddDate(0, 6, 0)
	vigente := BancoAPIConfig{CertificadoValidade: &futuro}
	assert.False(t, vigente.CertificadoVencido())

	passado := time.Now().AddDate(0, -1, 0)
	vencido := BancoAPIConfig{CertificadoValidade: &passado}
	assert.True(t, vencido.CertificadoVencido())
}

func TestBancoAPIConfigIsProducao(t *testing.T) {
	assert.False(t, (&BancoAPIConfig{Ambiente: AmbienteSandbox}).IsProducao())
	assert.True(t, (&BancoAPIConfig{Ambiente: AmbienteProducao}).IsProducao())
}
