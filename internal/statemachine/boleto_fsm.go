package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// BoletoFSM wraps a boleto with its state machine
type BoletoFSM struct {
	boleto *models.Boleto
	fsm    *fsm.FSM
}

// NewBoletoFSM creates a new boleto state machine
func NewBoletoFSM(boleto *models.Boleto) *BoletoFSM {
	bfsm := &BoletoFSM{
		boleto: boleto,
	}

	bfsm.fsm = fsm.NewFSM(
		boleto.Status,
		fsm.Events{
			// pendente/erro → registrado
			{Name: "registrar", Src: []string{models.BoletoStatusPendente, models.BoletoStatusErro}, Dst: models.BoletoStatusRegistrado},

			// pendente/erro → erro (failed registration attempt)
			{Name: "falhar", Src: []string{models.BoletoStatusPendente, models.BoletoStatusErro}, Dst: models.BoletoStatusErro},

			// registrado/vencido → pago
			{Name: "pagar", Src: []string{models.BoletoStatusRegistrado, models.BoletoStatusVencido}, Dst: models.BoletoStatusPago},

			// registrado → vencido
			{Name: "vencer", Src: []string{models.BoletoStatusRegistrado}, Dst: models.BoletoStatusVencido},

			// registrado/vencido → baixado
			{Name: "baixar", Src: []string{models.BoletoStatusRegistrado, models.BoletoStatusVencido}, Dst: models.BoletoStatusBaixado},

			// vencido → protestado
			{Name: "protestar", Src: []string{models.BoletoStatusVencido}, Dst: models.BoletoStatusProtestado},
		},
		fsm.Callbacks{},
	)

	return bfsm
}

// Registrar transitions the boleto to registrado
func (b *BoletoFSM) Registrar(ctx context.Context) error {
	if !b.boleto.MayRegistrar() {
		return fmt.Errorf("boleto não pode ser registrado no estado atual: %s", b.boleto.Status)
	}

	if err := b.fsm.Event(ctx, "registrar"); err != nil {
		return fmt.Errorf("falha ao registrar boleto: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Falhar records a failed registration attempt
func (b *BoletoFSM) Falhar(ctx context.Context) error {
	if err := b.fsm.Event(ctx, "falhar"); err != nil {
		return fmt.Errorf("falha ao marcar erro de registro: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Pagar transitions the boleto to pago
func (b *BoletoFSM) Pagar(ctx context.Context) error {
	if err := b.fsm.Event(ctx, "pagar"); err != nil {
		return fmt.Errorf("falha ao marcar boleto pago: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Vencer transitions the boleto to vencido
func (b *BoletoFSM) Vencer(ctx context.Context) error {
	if err := b.fsm.Event(ctx, "vencer"); err != nil {
		return fmt.Errorf("falha ao marcar boleto vencido: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Baixar transitions the boleto to baixado
func (b *BoletoFSM) Baixar(ctx context.Context) error {
	if !b.boleto.MayBaixar() {
		return fmt.Errorf("boleto não pode ser baixado no estado atual: %s", b.boleto.Status)
	}

	if err := b.fsm.Event(ctx, "baixar"); err != nil {
		return fmt.Errorf("falha ao baixar boleto: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Protestar transitions the boleto to protestado
func (b *BoletoFSM) Protestar(ctx context.Context) error {
	if !b.boleto.MayProtestar() {
		return fmt.Errorf("boleto não pode ser protestado no estado atual: %s", b.boleto.Status)
	}

	if err := b.fsm.Event(ctx, "protestar"); err != nil {
		return fmt.Errorf("falha ao protestar boleto: %w", err)
	}

	b.boleto.Status = b.fsm.Current()
	return nil
}

// Current returns the current state
func (b *BoletoFSM) Current() string {
	return b.fsm.Current()
}

// Can checks if a transition is possible
func (b *BoletoFSM) Can(event string) bool {
	return b.fsm.Can(event)
}
