package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestLancamentoCalcularTotal(t *testing.T) {
	lancamento := Lancamento{
		ValorPrincipal: decimal.NewFromInt(1000),
		ValorJuros:     dec("50"),
		ValorMulta:     dec("20"),
		ValorDesconto:  dec("30"),
		Abatimento:     dec("10"),
	}
	assert.Equal(t, "1030.00", lancamento.CalcularTotal().StringFixed(2))

	// Nil components count as zero
	somentePrincipal := Lancamento{ValorPrincipal: decimal.NewFromFloat(750.25)}
	assert.Equal(t, "750.25", somentePrincipal.CalcularTotal().StringFixed(2))
}

func TestLancamentoCalcularSaldo(t *testing.T) {
	lancamento := Lancamento{
		ValorPrincipal: decimal.NewFromInt(1000),
		ValorPago:      decimal.NewFromInt(400),
	}
	assert.Equal(t, "600.00", lancamento.CalcularSaldo().StringFixed(2))
}

func TestLancamentoIsPago(t *testing.T) {
	// Explicit status
	pago := Lancamento{Status: LancamentoStatusPago, ValorPrincipal: decimal.NewFromInt(100)}
	assert.True(t, pago.IsPago())

	// Balance settled even though the status never flipped
	quitado := Lancamento{
		Status:         LancamentoStatusAberto,
		ValorPrincipal: decimal.NewFromInt(100),
		ValorPago:      decimal.NewFromInt(100),
	}
	assert.True(t, quitado.IsPago())

	aberto := Lancamento{
		Status:         LancamentoStatusAberto,
		ValorPrincipal: decimal.NewFromInt(100),
		ValorPago:      decimal.NewFromInt(40),
	}
	assert.False(t, aberto.IsPago())
}

func TestLancamentoIsEmAtraso(t *testing.T) {
	ontem := time.Now().AddDate(0, 0, -1)
	amanha := time.Now().AddDate(0, 0, 1)

	vencido := Lancamento{Status: LancamentoStatusAberto, DataVencimento: ontem}
	assert.True(t, vencido.IsEmAtraso())
	assert.Equal(t, 1, vencido.GetDiasAtraso())

	aVencer := Lancamento{Status: LancamentoStatusAberto, DataVencimento: amanha}
	assert.False(t, aVencer.IsEmAtraso())

	// Settled postings are never in arrears, no matter the due date
	pago := Lancamento{Status: LancamentoStatusPago, DataVencimento: ontem}
	assert.False(t, pago.IsEmAtraso())
	assert.Equal(t, 0, pago.GetDiasAtraso())
}

func TestBaixaCalcularTotal(t *testing.T) {
	baixa := Baixa{
		ValorPago:     decimal.NewFromInt(100),
		MultaPaga:     dec("20"),
		JurosPagos:    dec("30"),
		ValorDesconto: dec("5"),
	}
	assert.Equal(t, "145.00", baixa.CalcularTotal().StringFixed(2))

	semAcrescimos := Baixa{ValorPago: decimal.NewFromFloat(99.90)}
	assert.Equal(t, "99.90", semAcrescimos.CalcularTotal().StringFixed(2))
}

func TestBaixaEstornar(t *testing.T) {
	baixa := Baixa{ValorPago: decimal.NewFromInt(100)}
	assert.True(t, baixa.MayEstornar())

	baixa.Estornar("pagamento devolvido pelo banco")

	assert.True(t, baixa.Estornada)
	assert.False(t, baixa.MayEstornar())
	assert.NotNil(t, baixa.EstornadaEm)
	assert.Equal(t, "pagamento devolvido pelo banco", *baixa.MotivoEstorno)
}
