package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// Mock BoletoRepository (using embedding to avoid implementing all methods)
type mockBoletoRepository struct {
	repository.BoletoRepository
	mockFindByID         func(ctx context.Context, id uint) (*models.Boleto, error)
	mockProximaSequencia func(ctx context.Context, configID uint) (int64, error)
	mockDelete           func(ctx context.Context, id uint) error
}

func (m *mockBoletoRepository) FindByID(ctx context.Context, id uint) (*models.Boleto, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockBoletoRepository) ProximaSequencia(ctx context.Context, configID uint) (int64, error) {
	if m.mockProximaSequencia != nil {
		return m.mockProximaSequencia(ctx, configID)
	}
	return 1, nil
}
func (m *mockBoletoRepository) Delete(ctx context.Context, id uint) error {
	if m.mockDelete != nil {
		return m.mockDelete(ctx, id)
	}
	return nil
}

func TestFormatarNossoNumero(t *testing.T) {
	tests := []struct {
		name      string
		convenio  string
		sequencia int64
		expected  string
	}{
		{"First sequence", "1234567", 1, "00000012345670000001"},
		{"Larger sequence", "1234567", 4321, "00000012345670004321"},
		{"Short convenio is zero padded", "99", 5, "00000000000990000005"},
		{"Oversized convenio keeps rightmost digits", "99887766554433221100", 7, "65544332211000000007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resultado := FormatarNossoNumero(tt.convenio, tt.sequencia)
			assert.Len(t, resultado, NossoNumeroTamanho)
			assert.Equal(t, tt.expected, resultado)
		})
	}
}

func TestGerarNossoNumero(t *testing.T) {
	mockRepo := &mockBoletoRepository{
		mockProximaSequencia: func(ctx context.Context, configID uint) (int64, error) {
			assert.Equal(t, uint(3), configID)
			return 42, nil
		},
	}
	service := NewBoletoService(mockRepo, nil, nil, nil, nil, nil, nil)

	nossoNumero, err := service.GerarNossoNumero(context.Background(), &models.BancoAPIConfig{ID: 3, Convenio: "7654321"})
	assert.NoError(t, err)
	assert.Equal(t, "00000076543210000042", nossoNumero)
}

func TestDeletarBoleto(t *testing.T) {
	deleteCalled := false
	mockRepo := &mockBoletoRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Boleto, error) {
			return &models.Boleto{ID: id, Status: models.BoletoStatusPendente}, nil
		},
		mockDelete: func(ctx context.Context, id uint) error {
			deleteCalled = true
			return nil
		},
	}
	service := NewBoletoService(mockRepo, nil, nil, nil, nil, nil, nil)

	err := service.DeletarBoleto(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, deleteCalled)
}

func TestDeletarBoleto_NaoEncontrado(t *testing.T) {
	mockRepo := &mockBoletoRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Boleto, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	service := NewBoletoService(mockRepo, nil, nil, nil, nil, nil, nil)

	err := service.DeletarBoleto(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBoletoNaoEncontrado)
}

func TestDeletarBoleto_JaRegistrado(t *testing.T) {
	mockRepo := &mockBoletoRepository{
		mockFindByID: func(ctx context.Context, id uint) (*models.Boleto, error) {
			return &models.Boleto{ID: id, Status: models.BoletoStatusRegistrado}, nil
		},
	}
	service := NewBoletoService(mockRepo, nil, nil, nil, nil, nil, nil)

	err := service.DeletarBoleto(context.Background(), 1)
	assert.ErrorIs(t, err, ErrBoletoNaoPendente)
}

func TestRegistrarLote_Vazio(t *testing.T) {
	service := NewBoletoService(&mockBoletoRepository{}, nil, nil, nil, nil, nil, nil)

	resultado := service.RegistrarLote(context.Background(), nil)
	assert.Equal(t, 0, resultado.Total)
	assert.Equal(t, 0, resultado.Sucessos)
	assert.Equal(t, 0, resultado.Erros)
	assert.Empty(t, resultado.Detalhes)
}
