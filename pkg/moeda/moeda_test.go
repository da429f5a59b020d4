package moeda

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatar(t *testing.T) {
	tests := []struct {
		name     string
		valor    decimal.Decimal
		expected string
	}{
		{"Zero", decimal.Zero, "R$ 0,00"},
		{"Small value", decimal.NewFromFloat(9.9), "R$ 9,90"},
		{"Hundreds", decimal.NewFromFloat(150.00), "R$ 150,00"},
		{"Thousands separator", decimal.NewFromFloat(1234.56), "R$ 1.234,56"},
		{"Exact thousand", decimal.NewFromInt(1000), "R$ 1.000,00"},
		{"Millions", decimal.NewFromFloat(1234567.89), "R$ 1.234.567,89"},
		{"Negative", decimal.NewFromFloat(-1234.56), "-R$ 1.234,56"},
		{"Rounds to two places", decimal.RequireFromString("10.005"), "R$ 10,01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Formatar(tt.valor))
		})
	}
}

func TestFormatarPtr(t *testing.T) {
	assert.Equal(t, "R$ 0,00", FormatarPtr(nil))

	v := decimal.NewFromFloat(42.5)
	assert.Equal(t, "R$ 42,50", FormatarPtr(&v))
}

func TestValorOuZero(t *testing.T) {
	assert.True(t, ValorOuZero(nil).IsZero())

	v := decimal.NewFromFloat(123.45)
	assert.True(t, ValorOuZero(&v).Equal(v))
}

func TestPercentual(t *testing.T) {
	base := decimal.NewFromInt(1000)

	assert.Equal(t, "100.00", Percentual(base, decimal.NewFromInt(10)).StringFixed(2))
	assert.Equal(t, "0.00", Percentual(base, decimal.Zero).StringFixed(2))

	// Rounds half up at the second decimal place
	assert.Equal(t, "33.33", Percentual(decimal.NewFromFloat(333.33), decimal.NewFromInt(10)).StringFixed(2))
	assert.Equal(t, "12.35", Percentual(decimal.NewFromFloat(123.45), decimal.NewFromInt(10)).StringFixed(2))
}
