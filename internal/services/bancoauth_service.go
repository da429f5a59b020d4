package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/bancoapi"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// BancoAuthService manages OAuth2 tokens for the bank collection API
type BancoAuthService struct {
	configRepo repository.BancoConfigRepository
	client     *bancoapi.Client
}

// NewBancoAuthService creates a new bank auth service
func NewBancoAuthService(configRepo repository.BancoConfigRepository, client *bancoapi.Client) *BancoAuthService {
	return &BancoAuthService{
		configRepo: configRepo,
		client:     client,
	}
}

// ValidarConfiguracao checks the config fields needed before any network
// call. Fields are validated in a fixed order so the first missing one is
// reported: client id, client secret, certificate path, certificate file.
func (s *BancoAuthService) ValidarConfiguracao(config *models.BancoAPIConfig) error {
	if config.ClientID == "" {
		return NovoErrConfiguracao("client_id não informado")
	}
	if config.ClientSecret == "" {
		return NovoErrConfiguracao("client_secret não informado")
	}
	if config.CertificadoCaminho == "" {
		return NovoErrConfiguracao("caminho do certificado não informado")
	}
	caminho := s.client.ResolverCaminhoCertificado(config)
	if _, err := os.Stat(caminho); err != nil {
		return NovoErrConfiguracao(fmt.Sprintf("certificado não encontrado em %s", caminho))
	}
	return nil
}

// ObterAccessToken returns a valid access token for the config, reusing the
// cached one while it stays outside the expiry safety margin
func (s *BancoAuthService) ObterAccessToken(ctx context.Context, config *models.BancoAPIConfig) (string, error) {
	if err := s.ValidarConfiguracao(config); err != nil {
		return "", err
	}

	if config.TokenValido() {
		return config.AccessToken, nil
	}

	token, err := s.client.ObterToken(ctx, config)
	if err != nil {
		return "", fmt.Errorf("obtenção de token para config %d: %w", config.ID, err)
	}

	expiraEm := time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	config.AccessToken = token.AccessToken
	config.TokenExpiraEm = &expiraEm

	if err := s.configRepo.SalvarToken(ctx, config); err != nil {
		// Token still usable for this request; only the cache write failed
		logger.Warn("Falha ao persistir token da API bancária", "config_id", config.ID, "error", err)
	}

	return token.AccessToken, nil
}

// Request performs an authenticated call against the bank API, resolving the
// token first. Config failures surface before any network traffic.
func (s *BancoAuthService) Request(ctx context.Context, config *models.BancoAPIConfig, method, path string, payload any) (int, []byte, error) {
	token, err := s.ObterAccessToken(ctx, config)
	if err != nil {
		return 0, nil, err
	}
	return s.client.Request(ctx, config, token, method, path, payload)
}

// ResultadoTeste is the outcome of a connectivity check
type ResultadoTeste struct {
	Sucesso  bool   `json:"sucesso"`
	Mensagem string `json:"mensagem"`
	Detalhes string `json:"detalhes,omitempty"`
}

// TestarConexao checks credentials, certificate and token issuance for a
// config. It never returns an error; every failure mode is wrapped into the
// result so the admin screen can show it.
func (s *BancoAuthService) TestarConexao(ctx context.Context, configID uint) *ResultadoTeste {
	config, err := s.configRepo.FindByID(ctx, configID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ResultadoTeste{Sucesso: false, Mensagem: "Configuração não encontrada"}
		}
		return &ResultadoTeste{Sucesso: false, Mensagem: "Falha ao carregar configuração", Detalhes: err.Error()}
	}

	if err := s.ValidarConfiguracao(config); err != nil {
		return &ResultadoTeste{Sucesso: false, Mensagem: "Configuração inválida", Detalhes: err.Error()}
	}

	if config.CertificadoVencido() {
		return &ResultadoTeste{
			Sucesso:  false,
			Mensagem: "Certificado vencido",
			Detalhes: fmt.Sprintf("validade: %s", config.CertificadoValidade.Format("02/01/2006")),
		}
	}

	// Forces a fresh grant even when a cached token exists
	config.AccessToken = ""
	config.TokenExpiraEm = nil

	if _, err := s.ObterAccessToken(ctx, config); err != nil {
		return &ResultadoTeste{Sucesso: false, Mensagem: "Falha na autenticação com o banco", Detalhes: err.Error()}
	}

	return &ResultadoTeste{
		Sucesso:  true,
		Mensagem: fmt.Sprintf("Conexão com %s (%s) estabelecida", config.Banco, config.Ambiente),
	}
}
