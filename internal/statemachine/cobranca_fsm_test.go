package statemachine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gestimo/gestimo-api/internal/models"
)

func TestCobrancaFSM_CicloCompleto(t *testing.T) {
	ctx := context.Background()
	cobranca := &models.Cobranca{Status: models.CobrancaStatusPendente}
	csm := NewCobrancaFSM(cobranca)

	assert.NoError(t, csm.GerarBoleto(ctx))
	assert.Equal(t, models.CobrancaStatusBoletoGerado, cobranca.Status)

	assert.NoError(t, csm.Enviar(ctx))
	assert.Equal(t, models.CobrancaStatusEnviada, cobranca.Status)

	assert.NoError(t, csm.Pagar(ctx))
	assert.Equal(t, models.CobrancaStatusPaga, cobranca.Status)
}

func TestCobrancaFSM_TransicoesInvalidas(t *testing.T) {
	ctx := context.Background()

	// A paid charge is final
	paga := &models.Cobranca{Status: models.CobrancaStatusPaga}
	csm := NewCobrancaFSM(paga)
	assert.Error(t, csm.Cancelar(ctx))
	assert.Error(t, csm.GerarBoleto(ctx))
	assert.Equal(t, models.CobrancaStatusPaga, paga.Status)

	// Cannot flag as sent before the boleto exists
	pendente := &models.Cobranca{Status: models.CobrancaStatusPendente}
	csm = NewCobrancaFSM(pendente)
	assert.Error(t, csm.Enviar(ctx))
	assert.Error(t, csm.Pagar(ctx))
	assert.Equal(t, models.CobrancaStatusPendente, pendente.Status)
}

func TestCobrancaFSM_CancelarAposEnvio(t *testing.T) {
	ctx := context.Background()
	cobranca := &models.Cobranca{Status: models.CobrancaStatusEnviada}
	csm := NewCobrancaFSM(cobranca)

	assert.NoError(t, csm.Cancelar(ctx))
	assert.Equal(t, models.CobrancaStatusCancelada, cobranca.Status)
}

func TestBoletoFSM_Registro(t *testing.T) {
	ctx := context.Background()

	boleto := &models.Boleto{Status: models.BoletoStatusPendente}
	bsm := NewBoletoFSM(boleto)
	assert.NoError(t, bsm.Registrar(ctx))
	assert.Equal(t, models.BoletoStatusRegistrado, boleto.Status)

	// A failed attempt may be retried
	comErro := &models.Boleto{Status: models.BoletoStatusErro}
	bsm = NewBoletoFSM(comErro)
	assert.NoError(t, bsm.Registrar(ctx))
	assert.Equal(t, models.BoletoStatusRegistrado, comErro.Status)
}

func TestBoletoFSM_Liquidacao(t *testing.T) {
	ctx := context.Background()

	boleto := &models.Boleto{Status: models.BoletoStatusRegistrado}
	bsm := NewBoletoFSM(boleto)
	assert.NoError(t, bsm.Pagar(ctx))
	assert.Equal(t, models.BoletoStatusPago, boleto.Status)

	// Paid is final
	assert.Error(t, bsm.Baixar(ctx))
	assert.Error(t, bsm.Vencer(ctx))
	assert.Equal(t, models.BoletoStatusPago, boleto.Status)
}

func TestBoletoFSM_VencimentoEBaixa(t *testing.T) {
	ctx := context.Background()

	boleto := &models.Boleto{Status: models.BoletoStatusRegistrado}
	bsm := NewBoletoFSM(boleto)
	assert.NoError(t, bsm.Vencer(ctx))
	assert.Equal(t, models.BoletoStatusVencido, boleto.Status)

	// An overdue boleto can still be paid late or written off
	assert.NoError(t, bsm.Baixar(ctx))
	assert.Equal(t, models.BoletoStatusBaixado, boleto.Status)
}
