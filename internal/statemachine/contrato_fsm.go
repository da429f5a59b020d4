package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// ContratoFSM wraps a lease contract with its state machine
type ContratoFSM struct {
	contrato *models.Contrato
	fsm      *fsm.FSM
}

// NewContratoFSM creates a new contract state machine
func NewContratoFSM(contrato *models.Contrato) *ContratoFSM {
	cfsm := &ContratoFSM{
		contrato: contrato,
	}

	cfsm.fsm = fsm.NewFSM(
		contrato.Status,
		fsm.Events{
			// ativo/suspenso → encerrado
			{Name: "encerrar", Src: []string{models.ContratoStatusAtivo, models.ContratoStatusSuspenso}, Dst: models.ContratoStatusEncerrado},

			// ativo → suspenso
			{Name: "suspender", Src: []string{models.ContratoStatusAtivo}, Dst: models.ContratoStatusSuspenso},

			// suspenso → ativo
			{Name: "reativar", Src: []string{models.ContratoStatusSuspenso}, Dst: models.ContratoStatusAtivo},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Encerrar transitions the contract to encerrado
func (c *ContratoFSM) Encerrar(ctx context.Context) error {
	if !c.contrato.MayEncerrar() {
		return fmt.Errorf("contrato não pode ser encerrado no status atual: %s", c.contrato.Status)
	}

	if err := c.fsm.Event(ctx, "encerrar"); err != nil {
		return fmt.Errorf("falha ao encerrar contrato: %w", err)
	}

	c.contrato.Status = c.fsm.Current()
	return nil
}

// Suspender transitions the contract to suspenso
func (c *ContratoFSM) Suspender(ctx context.Context) error {
	if !c.contrato.MaySuspender() {
		return fmt.Errorf("contrato não pode ser suspenso no status atual: %s", c.contrato.Status)
	}

	if err := c.fsm.Event(ctx, "suspender"); err != nil {
		return fmt.Errorf("falha ao suspender contrato: %w", err)
	}

	c.contrato.Status = c.fsm.Current()
	return nil
}

// Reativar transitions the contract back to ativo
func (c *ContratoFSM) Reativar(ctx context.Context) error {
	if !c.contrato.MayReativar() {
		return fmt.Errorf("contrato não pode ser reativado no status atual: %s", c.contrato.Status)
	}

	if err := c.fsm.Event(ctx, "reativar"); err != nil {
		return fmt.Errorf("falha ao reativar contrato: %w", err)
	}

	c.contrato.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContratoFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContratoFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
