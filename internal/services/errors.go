package services

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	ErrNotFound            = errors.New("registro não encontrado")
	ErrSenhaInvalida       = errors.New("senha inválida")
	ErrNaoAutorizado       = errors.New("não autorizado")
	ErrInvalidState        = errors.New("transição de estado inválida")
	ErrDuplicate           = errors.New("registro duplicado")
	ErrCobrancaDuplicada   = errors.New("já existe cobrança para este contrato nesta competência")
	ErrContratoNaoAtivo    = errors.New("contrato não está ativo")
	ErrBoletoNaoEncontrado = errors.New("boleto não encontrado")
	ErrBoletoNaoPendente   = errors.New("boleto já enviado ao banco não pode ser excluído")
	ErrBaixaJaEstornada    = errors.New("baixa já foi estornada")
	ErrLancamentoCancelado = errors.New("lançamento cancelado não aceita baixa")
)

// ErrConfiguracao indicates an invalid or missing bank API config field,
// detected before any network call
type ErrConfiguracao struct {
	Campo string
}

func (e *ErrConfiguracao) Error() string {
	return fmt.Sprintf("configuração bancária inválida: %s", e.Campo)
}

// NovoErrConfiguracao creates a config error for the named field
func NovoErrConfiguracao(campo string) error {
	return &ErrConfiguracao{Campo: campo}
}
