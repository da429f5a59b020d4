// Package moeda centralizes fixed-precision money handling. All monetary
// values in the system are decimal.Decimal; float64 is never used for money
// to avoid rounding drift across sums and reports.
package moeda

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Formatar renders a value as Brazilian currency: 1234.56 -> "R$ 1.234,56".
func Formatar(valor decimal.Decimal) string {
	negativo := valor.IsNegative()
	s := valor.Abs().StringFixed(2)

	partes := strings.SplitN(s, ".", 2)
	inteiro, fracao := partes[0], partes[1]

	var b strings.Builder
	pre := len(inteiro) % 3
	if pre > 0 {
		b.WriteString(inteiro[:pre])
		if len(inteiro) > 3 {
			b.WriteByte('.')
		}
	}
	for i := pre; i < len(inteiro); i += 3 {
		b.WriteString(inteiro[i : i+3])
		if i+3 < len(inteiro) {
			b.WriteByte('.')
		}
	}

	resultado := "R$ " + b.String() + "," + fracao
	if negativo {
		resultado = "-" + resultado
	}
	return resultado
}

// FormatarPtr formats a nullable value, rendering nil as zero.
func FormatarPtr(valor *decimal.Decimal) string {
	return Formatar(ValorOuZero(valor))
}

// ValorOuZero resolves a nullable money field, treating nil as 0.
func ValorOuZero(valor *decimal.Decimal) decimal.Decimal {
	if valor == nil {
		return decimal.Zero
	}
	return *valor
}

// Percentual applies a percentage to a base value: Percentual(1000, 10) = 100.00.
func Percentual(base decimal.Decimal, percentual decimal.Decimal) decimal.Decimal {
	return base.Mul(percentual).Div(decimal.NewFromInt(100)).Round(2)
}
