package handlers

import (
	"github.com/gestimo/gestimo-api/internal/services"
)

// Handlers aggregates every HTTP handler for route registration
type Handlers struct {
	Health      *HealthHandler
	Auth        *AuthHandler
	Usuario     *UsuarioHandler
	Pessoa      *PessoaHandler
	Imovel      *ImovelHandler
	Contrato    *ContratoHandler
	Cobranca    *CobrancaHandler
	Boleto      *BoletoHandler
	Lancamento  *LancamentoHandler
	Prestacao   *PrestacaoHandler
	Relatorio   *RelatorioHandler
	BancoConfig *BancoConfigHandler
	Endereco    *EnderecoHandler
	Notificacao *NotificacaoHandler
	Auditoria   *AuditoriaHandler
}

// NewHandlers wires every handler to its services
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Auth:        NewAuthHandler(svcs.Auth),
		Usuario:     NewUsuarioHandler(svcs.Usuario),
		Pessoa:      NewPessoaHandler(svcs.Pessoa),
		Imovel:      NewImovelHandler(svcs.Imovel),
		Contrato:    NewContratoHandler(svcs.Contrato),
		Cobranca:    NewCobrancaHandler(svcs.Cobranca, svcs.Contrato),
		Boleto:      NewBoletoHandler(svcs.Boleto),
		Lancamento:  NewLancamentoHandler(svcs.Lancamento),
		Prestacao:   NewPrestacaoHandler(svcs.Prestacao, svcs.Export),
		Relatorio:   NewRelatorioHandler(svcs.Relatorio, svcs.Export),
		BancoConfig: NewBancoConfigHandler(svcs.BancoConfig),
		Endereco:    NewEnderecoHandler(svcs.Cep),
		Notificacao: NewNotificacaoHandler(svcs.Notificacao),
		Auditoria:   NewAuditoriaHandler(svcs.Auditoria),
	}
}
