package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/bancoapi"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// BancoConfigService manages bank API credentials
type BancoConfigService struct {
	configRepo  repository.BancoConfigRepository
	bancoAuth   *BancoAuthService
	client      *bancoapi.Client
	notificacao *NotificacaoService
	auditoria   *AuditoriaService
}

// NewBancoConfigService creates a new bank config service
func NewBancoConfigService(
	configRepo repository.BancoConfigRepository,
	bancoAuth *BancoAuthService,
	client *bancoapi.Client,
	notificacao *NotificacaoService,
	auditoria *AuditoriaService,
) *BancoConfigService {
	return &BancoConfigService{
		configRepo:  configRepo,
		bancoAuth:   bancoAuth,
		client:      client,
		notificacao: notificacao,
		auditoria:   auditoria,
	}
}

// Criar validates and registers a bank API configuration
func (s *BancoConfigService) Criar(ctx context.Context, config *models.BancoAPIConfig, usuarioID *uint) (*models.BancoAPIConfig, error) {
	if err := s.bancoAuth.ValidarConfiguracao(config); err != nil {
		return nil, err
	}

	config.Ativo = true
	if config.Ambiente == "" {
		config.Ambiente = models.AmbienteSandbox
	}

	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoCreate, "BancoAPIConfig", config.ID,
		fmt.Sprintf("%s conta %s (%s)", config.Banco, config.ContaBancaria, config.Ambiente))

	return config, nil
}

// Atualizar persists changes to a configuration. Any cached token and mTLS
// client are dropped since the credentials may have changed.
func (s *BancoConfigService) Atualizar(ctx context.Context, config *models.BancoAPIConfig, usuarioID *uint) (*models.BancoAPIConfig, error) {
	if _, err := s.BuscarPorID(ctx, config.ID); err != nil {
		return nil, err
	}
	if err := s.bancoAuth.ValidarConfiguracao(config); err != nil {
		return nil, err
	}

	config.AccessToken = ""
	config.TokenExpiraEm = nil
	s.client.InvalidarClient(config.ID)

	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "BancoAPIConfig", config.ID, "configuração atualizada")

	return config, nil
}

// BuscarPorID returns a configuration
func (s *BancoConfigService) BuscarPorID(ctx context.Context, id uint) (*models.BancoAPIConfig, error) {
	config, err := s.configRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return config, nil
}

// Listar returns the active configurations
func (s *BancoConfigService) Listar(ctx context.Context) ([]models.BancoAPIConfig, error) {
	return s.configRepo.FindAtivas(ctx)
}

// TestarConexao exercises the full credential chain against the bank
func (s *BancoConfigService) TestarConexao(ctx context.Context, id uint) *ResultadoTeste {
	return s.bancoAuth.TestarConexao(ctx, id)
}

// VerificarCertificados warns admins about certificates expiring within the
// next 30 days. Runs daily.
func (s *BancoConfigService) VerificarCertificados(ctx context.Context) error {
	configs, err := s.configRepo.FindCertificadosVencendo(ctx, 30)
	if err != nil {
		return err
	}

	for i := range configs {
		config := &configs[i]
		validade := ""
		if config.CertificadoValidade != nil {
			validade = config.CertificadoValidade.Format("02/01/2006")
		}
		logger.Warn("Certificado bancário próximo do vencimento",
			"config_id", config.ID, "banco", config.Banco, "validade", validade)
		s.notificacao.NotificarAdminsAsync(
			"Certificado bancário vencendo",
			fmt.Sprintf("O certificado da conta %s (%s) vence em %s.", config.ContaBancaria, config.Banco, validade),
			models.NotificacaoTipoCertificadoVencendo)
	}

	return nil
}
