package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// Mock EnderecoRepository
type mockEnderecoRepository struct {
	mockFindByCEP func(ctx context.Context, cep string) (*models.EnderecoCEP, error)
	mockUpsert    func(ctx context.Context, endereco *models.EnderecoCEP) error
}

func (m *mockEnderecoRepository) FindByCEP(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
	if m.mockFindByCEP != nil {
		return m.mockFindByCEP(ctx, cep)
	}
	return nil, gorm.ErrRecordNotFound
}
func (m *mockEnderecoRepository) Upsert(ctx context.Context, endereco *models.EnderecoCEP) error {
	if m.mockUpsert != nil {
		return m.mockUpsert(ctx, endereco)
	}
	return nil
}

func TestBuscarCEP_FormatoInvalido(t *testing.T) {
	service := NewCepService(&mockEnderecoRepository{}, "http://viacep.invalid")

	for _, cep := range []string{"", "123", "12345-678", "abcdefgh", "123456789"} {
		_, err := service.Buscar(context.Background(), cep)
		assert.ErrorIs(t, err, ErrCEPInvalido, "cep %q", cep)
	}
}

func TestBuscarCEP_CacheValido(t *testing.T) {
	requisicoes := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requisicoes++
	}))
	defer server.Close()

	mockRepo := &mockEnderecoRepository{
		mockFindByCEP: func(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
			return &models.EnderecoCEP{
				CEP:        cep,
				Logradouro: "Rua do Cache",
				Cidade:     "São Paulo",
				UF:         "SP",
				UpdatedAt:  time.Now(),
			}, nil
		},
	}
	service := NewCepService(mockRepo, server.URL)

	endereco, err := service.Buscar(context.Background(), "01310100")
	assert.NoError(t, err)
	assert.Equal(t, "Rua do Cache", endereco.Logradouro)
	assert.Equal(t, 0, requisicoes, "a fresh cache entry must not hit ViaCEP")
}

func TestBuscarCEP_ConsultaViaCEP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ws/01310100/json/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"cep": "01310-100",
			"logradouro": "Avenida Paulista",
			"bairro": "Bela Vista",
			"localidade": "São Paulo",
			"uf": "SP",
			"ibge": "3550308"
		}`)
	}))
	defer server.Close()

	upsertCalled := false
	mockRepo := &mockEnderecoRepository{
		mockUpsert: func(ctx context.Context, endereco *models.EnderecoCEP) error {
			upsertCalled = true
			return nil
		},
	}
	service := NewCepService(mockRepo, server.URL)

	endereco, err := service.Buscar(context.Background(), "01310100")
	assert.NoError(t, err)
	assert.Equal(t, "01310100", endereco.CEP)
	assert.Equal(t, "Avenida Paulista", endereco.Logradouro)
	assert.Equal(t, "Bela Vista", endereco.Bairro)
	assert.Equal(t, "São Paulo", endereco.Cidade)
	assert.Equal(t, "SP", endereco.UF)
	assert.Equal(t, "3550308", endereco.IBGE)
	assert.True(t, upsertCalled, "a resolved address must be cached")
}

func TestBuscarCEP_NaoEncontrado(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"erro": true}`)
	}))
	defer server.Close()

	service := NewCepService(&mockEnderecoRepository{}, server.URL)

	_, err := service.Buscar(context.Background(), "99999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuscarCEP_CacheExpiradoComViaCEPFora(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	mockRepo := &mockEnderecoRepository{
		mockFindByCEP: func(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
			return &models.EnderecoCEP{
				CEP:        cep,
				Logradouro: "Rua Antiga",
				UpdatedAt:  time.Now().AddDate(0, -2, 0),
			}, nil
		},
	}
	service := NewCepService(mockRepo, server.URL)

	endereco, err := service.Buscar(context.Background(), "01310100")
	assert.NoError(t, err, "a stale entry still beats an unavailable ViaCEP")
	assert.Equal(t, "Rua Antiga", endereco.Logradouro)
}
