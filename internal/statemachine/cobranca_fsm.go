package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// CobrancaFSM wraps a monthly charge with its state machine
type CobrancaFSM struct {
	cobranca *models.Cobranca
	fsm      *fsm.FSM
}

// NewCobrancaFSM creates a new charge state machine
func NewCobrancaFSM(cobranca *models.Cobranca) *CobrancaFSM {
	cfsm := &CobrancaFSM{
		cobranca: cobranca,
	}

	cfsm.fsm = fsm.NewFSM(
		cobranca.Status,
		fsm.Events{
			// pendente → boleto_gerado
			{Name: "gerar_boleto", Src: []string{models.CobrancaStatusPendente}, Dst: models.CobrancaStatusBoletoGerado},

			// boleto_gerado → enviada
			{Name: "enviar", Src: []string{models.CobrancaStatusBoletoGerado}, Dst: models.CobrancaStatusEnviada},

			// boleto_gerado/enviada → paga
			{Name: "pagar", Src: []string{models.CobrancaStatusBoletoGerado, models.CobrancaStatusEnviada}, Dst: models.CobrancaStatusPaga},

			// pendente/boleto_gerado/enviada → cancelada
			{Name: "cancelar", Src: []string{models.CobrancaStatusPendente, models.CobrancaStatusBoletoGerado, models.CobrancaStatusEnviada}, Dst: models.CobrancaStatusCancelada},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// GerarBoleto transitions the charge to boleto_gerado
func (c *CobrancaFSM) GerarBoleto(ctx context.Context) error {
	if !c.cobranca.MayGerarBoleto() {
		return fmt.Errorf("cobrança não permite gerar boleto no estado atual: %s", c.cobranca.Status)
	}

	if err := c.fsm.Event(ctx, "gerar_boleto"); err != nil {
		return fmt.Errorf("falha ao marcar boleto gerado: %w", err)
	}

	c.cobranca.Status = c.fsm.Current()
	return nil
}

// Enviar transitions the charge to enviada
func (c *CobrancaFSM) Enviar(ctx context.Context) error {
	if !c.cobranca.MayMarcarEnviada() {
		return fmt.Errorf("cobrança não pode ser marcada como enviada no estado atual: %s", c.cobranca.Status)
	}

	if err := c.fsm.Event(ctx, "enviar"); err != nil {
		return fmt.Errorf("falha ao marcar cobrança enviada: %w", err)
	}

	c.cobranca.Status = c.fsm.Current()
	return nil
}

// Pagar transitions the charge to paga
func (c *CobrancaFSM) Pagar(ctx context.Context) error {
	if !c.cobranca.MayMarcarPaga() {
		return fmt.Errorf("cobrança não pode ser marcada como paga no estado atual: %s", c.cobranca.Status)
	}

	if err := c.fsm.Event(ctx, "pagar"); err != nil {
		return fmt.Errorf("falha ao marcar cobrança paga: %w", err)
	}

	c.cobranca.Status = c.fsm.Current()
	return nil
}

// Cancelar transitions the charge to cancelada
func (c *CobrancaFSM) Cancelar(ctx context.Context) error {
	if !c.cobranca.MayCancelar() {
		return fmt.Errorf("cobrança não pode ser cancelada no estado atual: %s", c.cobranca.Status)
	}

	if err := c.fsm.Event(ctx, "cancelar"); err != nil {
		return fmt.Errorf("falha ao cancelar cobrança: %w", err)
	}

	c.cobranca.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *CobrancaFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *CobrancaFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
