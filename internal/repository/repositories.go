package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Usuario      UsuarioRepository
	Pessoa       PessoaRepository
	Imovel       ImovelRepository
	Contrato     ContratoRepository
	ItemCobranca ItemCobrancaRepository
	Cobranca     CobrancaRepository
	Boleto       BoletoRepository
	BancoConfig  BancoConfigRepository
	Lancamento   LancamentoRepository
	Baixa        BaixaRepository
	Prestacao    PrestacaoRepository
	Endereco     EnderecoRepository
	Notificacao  NotificacaoRepository
	RefreshToken RefreshTokenRepository
	EmailLog     EmailLogRepository
	Auditoria    AuditoriaRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Usuario:      NewUsuarioRepository(db),
		Pessoa:       NewPessoaRepository(db),
		Imovel:       NewImovelRepository(db),
		Contrato:     NewContratoRepository(db),
		ItemCobranca: NewItemCobrancaRepository(db),
		Cobranca:     NewCobrancaRepository(db),
		Boleto:       NewBoletoRepository(db),
		BancoConfig:  NewBancoConfigRepository(db),
		Lancamento:   NewLancamentoRepository(db),
		Baixa:        NewBaixaRepository(db),
		Prestacao:    NewPrestacaoRepository(db),
		Endereco:     NewEnderecoRepository(db),
		Notificacao:  NewNotificacaoRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		EmailLog:     NewEmailLogRepository(db),
		Auditoria:    NewAuditoriaRepository(db),
	}
}
