package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/models"
)

func newPrestacaoServiceForTest(contratoRepo *mockContratoRepository) *PrestacaoService {
	cfg := &config.Config{TaxaAdminPadrao: 10.0}
	return NewPrestacaoService(nil, nil, contratoRepo, nil, nil, nil, nil, nil, cfg)
}

func TestCalcularPeriodo(t *testing.T) {
	service := newPrestacaoServiceForTest(&mockContratoRepository{})

	// A Wednesday in the second half of March
	dataRef := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		tipo   string
		inicio time.Time
		fim    time.Time
	}{
		{"Diario", PeriodoDiario,
			time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)},
		{"Semanal runs Monday through Sunday", PeriodoSemanal,
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)},
		{"Quinzenal second half", PeriodoQuinzenal,
			time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"Mensal", PeriodoMensal,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
		{"Semestral first half", PeriodoSemestral,
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)},
		{"Anual", PeriodoAnual,
			time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inicio, fim, err := service.CalcularPeriodo(tt.tipo, dataRef)
			assert.NoError(t, err)
			assert.Equal(t, tt.inicio, inicio)
			assert.Equal(t, tt.fim, fim)
		})
	}
}

func TestCalcularPeriodo_QuinzenalPrimeiraMetade(t *testing.T) {
	service := newPrestacaoServiceForTest(&mockContratoRepository{})

	inicio, fim, err := service.CalcularPeriodo(PeriodoQuinzenal, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), inicio)
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), fim)
}

func TestCalcularPeriodo_SemestralSegundaMetade(t *testing.T) {
	service := newPrestacaoServiceForTest(&mockContratoRepository{})

	inicio, fim, err := service.CalcularPeriodo(PeriodoSemestral, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), inicio)
	assert.Equal(t, time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), fim)
}

func TestCalcularPeriodo_TipoInvalido(t *testing.T) {
	service := newPrestacaoServiceForTest(&mockContratoRepository{})

	_, _, err := service.CalcularPeriodo("bimestral", time.Now())
	assert.Error(t, err)
}

func TestCalcularTaxaAdmin(t *testing.T) {
	taxaContrato := decimal.NewFromInt(8)
	mockContratoRepo := &mockContratoRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Contrato, error) {
			switch id {
			case 1:
				return &models.Contrato{ID: 1, TaxaAdminPercentual: &taxaContrato}, nil
			case 2:
				return &models.Contrato{ID: 2}, nil
			default:
				return nil, gorm.ErrRecordNotFound
			}
		},
	}
	service := newPrestacaoServiceForTest(mockContratoRepo)

	ctx := context.Background()
	valor := decimal.NewFromInt(1000)
	comTaxaPropria := uint(1)
	semTaxaPropria := uint(2)
	inexistente := uint(99)

	// Contract's own percentage wins
	taxa, err := service.CalcularTaxaAdmin(ctx, valor, &comTaxaPropria)
	assert.NoError(t, err)
	assert.Equal(t, "80.00", taxa.StringFixed(2))

	// Falls back to the configured default
	taxa, err = service.CalcularTaxaAdmin(ctx, valor, &semTaxaPropria)
	assert.NoError(t, err)
	assert.Equal(t, "100.00", taxa.StringFixed(2))

	// Zero amount and missing contract both yield zero
	taxa, err = service.CalcularTaxaAdmin(ctx, decimal.Zero, &comTaxaPropria)
	assert.NoError(t, err)
	assert.True(t, taxa.IsZero())

	taxa, err = service.CalcularTaxaAdmin(ctx, valor, nil)
	assert.NoError(t, err)
	assert.True(t, taxa.IsZero())

	taxa, err = service.CalcularTaxaAdmin(ctx, valor, &inexistente)
	assert.NoError(t, err)
	assert.True(t, taxa.IsZero())
}
