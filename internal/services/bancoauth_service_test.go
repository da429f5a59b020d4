package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gestimo/gestimo-api/internal/bancoapi"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// Mock BancoConfigRepository
type mockBancoConfigRepository struct {
	repository.BancoConfigRepository
	mockFindByID    func(ctx context.Context, id uint) (*models.BancoAPIConfig, error)
	mockSalvarToken func(ctx context.Context, config *models.BancoAPIConfig) error
}

func (m *mockBancoConfigRepository) FindByID(ctx context.Context, id uint) (*models.BancoAPIConfig, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockBancoConfigRepository) SalvarToken(ctx context.Context, config *models.BancoAPIConfig) error {
	if m.mockSalvarToken != nil {
		return m.mockSalvarToken(ctx, config)
	}
	return nil
}

// criarCertificadoFake drops a placeholder certificate file under dir and
// returns its file name
func criarCertificadoFake(t *testing.T, dir string) string {
	t.Helper()
	nome := "cert.pem"
	err := os.WriteFile(filepath.Join(dir, nome), []byte("not a real certificate"), 0o600)
	assert.NoError(t, err)
	return nome
}

func TestValidarConfiguracao(t *testing.T) {
	dir := t.TempDir()
	certNome := criarCertificadoFake(t, dir)
	service := NewBancoAuthService(&mockBancoConfigRepository{}, bancoapi.NewClient(dir))

	campoDoErro := func(err error) string {
		var cfgErr *ErrConfiguracao
		if errors.As(err, &cfgErr) {
			return cfgErr.Campo
		}
		return ""
	}

	config := &models.BancoAPIConfig{}
	assert.Equal(t, "client_id não informado", campoDoErro(service.ValidarConfiguracao(config)))

	config.ClientID = "abc"
	assert.Equal(t, "client_secret não informado", campoDoErro(service.ValidarConfiguracao(config)))

	config.ClientSecret = "xyz"
	assert.Equal(t, "caminho do certificado não informado", campoDoErro(service.ValidarConfiguracao(config)))

	config.CertificadoCaminho = "inexistente.pem"
	err := service.ValidarConfiguracao(config)
	assert.Error(t, err)
	assert.Contains(t, campoDoErro(err), "certificado não encontrado")

	config.CertificadoCaminho = certNome
	assert.NoError(t, service.ValidarConfiguracao(config))
}

func TestObterAccessToken_ReutilizaTokenCacheado(t *testing.T) {
	dir := t.TempDir()
	certNome := criarCertificadoFake(t, dir)

	salvarChamado := false
	mockRepo := &mockBancoConfigRepository{
		mockSalvarToken: func(ctx context.Context, config *models.BancoAPIConfig) error {
			salvarChamado = true
			return nil
		},
	}
	service := NewBancoAuthService(mockRepo, bancoapi.NewClient(dir))

	expiraEm := time.Now().Add(1 * time.Hour)
	config := &models.BancoAPIConfig{
		ID:                 1,
		ClientID:           "abc",
		ClientSecret:       "xyz",
		CertificadoCaminho: certNome,
		AccessToken:        "token-em-cache",
		TokenExpiraEm:      &expiraEm,
	}

	token, err := service.ObterAccessToken(context.Background(), config)
	assert.NoError(t, err)
	assert.Equal(t, "token-em-cache", token)
	assert.False(t, salvarChamado, "a cached valid token must not trigger a new grant")
}

func TestObterAccessToken_TokenDentroDaMargem(t *testing.T) {
	dir := t.TempDir()
	certNome := criarCertificadoFake(t, dir)
	service := NewBancoAuthService(&mockBancoConfigRepository{}, bancoapi.NewClient(dir))

	// Expires inside the safety margin, so a refresh is forced. The
	// placeholder certificate cannot be loaded, which proves the cached
	// token was not reused.
	expiraEm := time.Now().Add(2 * time.Minute)
	config := &models.BancoAPIConfig{
		ID:                 1,
		ClientID:           "abc",
		ClientSecret:       "xyz",
		CertificadoCaminho: certNome,
		AccessToken:        "token-quase-vencido",
		TokenExpiraEm:      &expiraEm,
	}

	_, err := service.ObterAccessToken(context.Background(), config)
	assert.Error(t, err)
}
