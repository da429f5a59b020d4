package services

import (
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/bancoapi"
	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth        *AuthService
	Usuario     *UsuarioService
	Pessoa      *PessoaService
	Imovel      *ImovelService
	Contrato    *ContratoService
	Cobranca    *CobrancaService
	Boleto      *BoletoService
	BancoAuth   *BancoAuthService
	BancoConfig *BancoConfigService
	Lancamento  *LancamentoService
	Prestacao   *PrestacaoService
	Relatorio   *RelatorioService
	Export      *ExportService
	Email       *EmailService
	Notificacao *NotificacaoService
	Auditoria   *AuditoriaService
	Cep         *CepService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, st *storage.LocalStorage, cfg *config.Config, db *gorm.DB) *Services {
	bancoClient := bancoapi.NewClient(cfg.CertificadosPath)

	auditoriaSvc := NewAuditoriaService(repos.Auditoria, worker)
	notificacaoSvc := NewNotificacaoService(repos.Notificacao, repos.Usuario, worker)
	emailSvc := NewEmailService(cfg, repos.EmailLog)
	cepSvc := NewCepService(repos.Endereco, cfg.ViaCEPBaseURL)

	bancoAuthSvc := NewBancoAuthService(repos.BancoConfig, bancoClient)
	boletoSvc := NewBoletoService(repos.Boleto, repos.BancoConfig, repos.Pessoa, bancoAuthSvc, bancoClient, auditoriaSvc, notificacaoSvc)
	relatorioSvc := NewRelatorioService(repos.Lancamento, repos.Prestacao, repos.Pessoa)
	exportSvc := NewExportService(relatorioSvc, repos.Prestacao)

	return &Services{
		Auth:        NewAuthService(repos.Usuario, repos.RefreshToken, cfg),
		Usuario:     NewUsuarioService(repos.Usuario, auditoriaSvc),
		Pessoa:      NewPessoaService(repos.Pessoa, cepSvc, auditoriaSvc),
		Imovel:      NewImovelService(repos.Imovel, repos.Contrato, cepSvc, auditoriaSvc),
		Contrato:    NewContratoService(repos.Contrato, repos.ItemCobranca, repos.Pessoa, repos.Imovel, auditoriaSvc, notificacaoSvc),
		Cobranca:    NewCobrancaService(repos.Cobranca, repos.Contrato, auditoriaSvc, notificacaoSvc, emailSvc, boletoSvc, worker),
		Boleto:      boletoSvc,
		BancoAuth:   bancoAuthSvc,
		BancoConfig: NewBancoConfigService(repos.BancoConfig, bancoAuthSvc, bancoClient, notificacaoSvc, auditoriaSvc),
		Lancamento:  NewLancamentoService(repos.Lancamento, repos.Baixa, auditoriaSvc, notificacaoSvc),
		Prestacao:   NewPrestacaoService(repos.Prestacao, repos.Lancamento, repos.Contrato, repos.Pessoa, auditoriaSvc, emailSvc, exportSvc, st, cfg),
		Relatorio:   relatorioSvc,
		Export:      exportSvc,
		Email:       emailSvc,
		Notificacao: notificacaoSvc,
		Auditoria:   auditoriaSvc,
		Cep:         cepSvc,
	}
}
