package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// Mock CobrancaRepository (using embedding to avoid implementing all methods)
type mockCobrancaRepository struct {
	repository.CobrancaRepository
	mockFindByIDWithDetails func(ctx context.Context, id uint) (*models.Cobranca, error)
	mockExisteCobranca      func(ctx context.Context, contratoID uint, competencia string) (bool, error)
	mockCreate              func(ctx context.Context, cobranca *models.Cobranca) error
	mockUpdate              func(ctx context.Context, cobranca *models.Cobranca) error
}

func (m *mockCobrancaRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Cobranca, error) {
	if m.mockFindByIDWithDetails != nil {
		return m.mockFindByIDWithDetails(ctx, id)
	}
	return nil, nil
}
func (m *mockCobrancaRepository) ExisteCobranca(ctx context.Context, contratoID uint, competencia string) (bool, error) {
	if m.mockExisteCobranca != nil {
		return m.mockExisteCobranca(ctx, contratoID, competencia)
	}
	return false, nil
}
func (m *mockCobrancaRepository) Create(ctx context.Context, cobranca *models.Cobranca) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, cobranca)
	}
	return nil
}
func (m *mockCobrancaRepository) Update(ctx context.Context, cobranca *models.Cobranca) error {
	if m.mockUpdate != nil {
		return m.mockUpdate(ctx, cobranca)
	}
	return nil
}

// Mock ContratoRepository
type mockContratoRepository struct {
	repository.ContratoRepository
	mockFindByID                 func(ctx context.Context, id uint) (*models.Contrato, error)
	mockFindVigentesParaCobranca func(ctx context.Context, ref time.Time) ([]models.Contrato, error)
}

func (m *mockContratoRepository) FindByID(ctx context.Context, id uint) (*models.Contrato, error) {
	if m.mockFindByID != nil {
		return m.mockFindByID(ctx, id)
	}
	return nil, nil
}
func (m *mockContratoRepository) FindVigentesParaCobranca(ctx context.Context, ref time.Time) ([]models.Contrato, error) {
	if m.mockFindVigentesParaCobranca != nil {
		return m.mockFindVigentesParaCobranca(ctx, ref)
	}
	return nil, nil
}

// Mock AuditoriaRepository
type mockAuditoriaRepository struct {
	mockCreate func(ctx context.Context, entrada *models.Auditoria) error
}

func (m *mockAuditoriaRepository) Create(ctx context.Context, entrada *models.Auditoria) error {
	if m.mockCreate != nil {
		return m.mockCreate(ctx, entrada)
	}
	return nil
}
func (m *mockAuditoriaRepository) FindByEntidade(ctx context.Context, entidade string, entidadeID uint) ([]models.Auditoria, error) {
	return nil, nil
}

func newCobrancaServiceForTest(cobrancaRepo repository.CobrancaRepository, contratoRepo repository.ContratoRepository, worker *jobs.Worker) *CobrancaService {
	auditoria := NewAuditoriaService(&mockAuditoriaRepository{}, worker)
	return NewCobrancaService(cobrancaRepo, contratoRepo, auditoria, nil, nil, nil, worker)
}

func contratoDeTeste() *models.Contrato {
	return &models.Contrato{
		ID:            1,
		DiaVencimento: 10,
		ValorAluguel:  decimal.NewFromInt(2000),
		Status:        models.ContratoStatusAtivo,
		Ativo:         true,
		DataInicio:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCalcularCompetencia(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()
	service := newCobrancaServiceForTest(&mockCobrancaRepository{}, &mockContratoRepository{}, worker)

	contrato := contratoDeTeste() // vence dia 10

	tests := []struct {
		name     string
		dataRef  time.Time
		expected string
	}{
		{"Before due day stays in the month", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), "2026-03"},
		{"On due day rolls to next month", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "2026-04"},
		{"After due day rolls to next month", time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), "2026-04"},
		{"December rolls into next year", time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC), "2027-01"},
		{"January 30 lands in February", time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC), "2026-02"},
		{"January 31 lands in February", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), "2026-02"},
		{"December 31 lands in January", time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), "2027-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.CalcularCompetencia(contrato, tt.dataRef))
		})
	}
}

func TestCalcularVencimento(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()
	service := newCobrancaServiceForTest(&mockCobrancaRepository{}, &mockContratoRepository{}, worker)

	contrato := contratoDeTeste()
	vencimento, err := service.CalcularVencimento(contrato, "2026-03")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), vencimento)

	// Day 31 clamps to the month's last day
	contrato.DiaVencimento = 31
	vencimento, err = service.CalcularVencimento(contrato, "2026-02")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), vencimento)

	_, err = service.CalcularVencimento(contrato, "fevereiro")
	assert.Error(t, err)
}

func TestCalcularValores(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()
	service := newCobrancaServiceForTest(&mockCobrancaRepository{}, &mockContratoRepository{}, worker)

	descricaoCondominio := "Condomínio Edifício Central"
	contrato := contratoDeTeste()
	contrato.ItensCobranca = []models.ItemCobranca{
		{Tipo: models.ItemTipoAluguel, Valor: decimal.NewFromInt(100), TipoValor: models.TipoValorPercentual, Ativo: true},
		{Tipo: models.ItemTipoCondominio, Descricao: &descricaoCondominio, Valor: decimal.NewFromFloat(350.50), TipoValor: models.TipoValorFixo, Ativo: true},
		{Tipo: models.ItemTipoIPTU, Valor: decimal.NewFromInt(120), TipoValor: models.TipoValorFixo, Ativo: false},
	}

	itens, total := service.CalcularValores(contrato)

	assert.Len(t, itens, 2, "inactive items must be skipped")
	assert.Equal(t, "2350.50", total.StringFixed(2))

	// Percentage item resolves against the rent
	assert.Equal(t, models.ItemTipoAluguel, itens[0].Descricao)
	assert.Equal(t, "2000.00", itens[0].Valor.StringFixed(2))

	// Custom description wins over the type label
	assert.Equal(t, descricaoCondominio, itens[1].Descricao)
	assert.Equal(t, "350.50", itens[1].Valor.StringFixed(2))
}

func TestCalcularValores_SomaTodosOsItens(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()
	service := newCobrancaServiceForTest(&mockCobrancaRepository{}, &mockContratoRepository{}, worker)

	// Every active line adds to the charge; there is no subtracting kind
	contrato := contratoDeTeste()
	contrato.ItensCobranca = []models.ItemCobranca{
		{Tipo: models.ItemTipoAluguel, Valor: decimal.NewFromFloat(100.00), TipoValor: models.TipoValorFixo, Ativo: true},
		{Tipo: models.ItemTipoCondominio, Valor: decimal.NewFromFloat(20.00), TipoValor: models.TipoValorFixo, Ativo: true},
		{Tipo: models.ItemTipoIPTU, Valor: decimal.NewFromFloat(30.00), TipoValor: models.TipoValorFixo, Ativo: true},
		{Tipo: models.ItemTipoAgua, Valor: decimal.NewFromFloat(5.00), TipoValor: models.TipoValorFixo, Ativo: true},
		{Tipo: models.ItemTipoLuz, Valor: decimal.NewFromFloat(5.00), TipoValor: models.TipoValorFixo, Ativo: true},
	}

	itens, total := service.CalcularValores(contrato)
	assert.Len(t, itens, 5)
	assert.Equal(t, "160.00", total.StringFixed(2))
}

func TestCriarCobranca(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()

	mockCobrancaRepo := &mockCobrancaRepository{}
	service := newCobrancaServiceForTest(mockCobrancaRepo, &mockContratoRepository{}, worker)

	contrato := contratoDeTeste()
	contrato.ItensCobranca = []models.ItemCobranca{
		{Tipo: models.ItemTipoAluguel, Valor: decimal.NewFromInt(100), TipoValor: models.TipoValorPercentual, Ativo: true},
	}
	dataRef := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	var criada *models.Cobranca
	mockCobrancaRepo.mockCreate = func(ctx context.Context, cobranca *models.Cobranca) error {
		criada = cobranca
		return nil
	}

	criadorID := uint(7)
	cobranca, err := service.CriarCobranca(context.Background(), contrato, dataRef, &criadorID, models.EnvioManual)
	assert.NoError(t, err)
	assert.NotNil(t, criada)

	assert.Equal(t, "2026-03", cobranca.Competencia)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), cobranca.DataVencimento)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), cobranca.PeriodoInicio)
	assert.Equal(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), cobranca.PeriodoFim)
	assert.Equal(t, "2000.00", cobranca.ValorTotal.StringFixed(2))
	assert.Equal(t, models.CobrancaStatusPendente, cobranca.Status)
	assert.Equal(t, models.EnvioManual, cobranca.TipoEnvio)

	var detalhamento []DetalhamentoItem
	assert.NoError(t, json.Unmarshal([]byte(cobranca.Detalhamento), &detalhamento))
	assert.Len(t, detalhamento, 1)
}

func TestCriarCobranca_Duplicada(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()

	mockCobrancaRepo := &mockCobrancaRepository{
		mockExisteCobranca: func(ctx context.Context, contratoID uint, competencia string) (bool, error) {
			return true, nil
		},
	}
	service := newCobrancaServiceForTest(mockCobrancaRepo, &mockContratoRepository{}, worker)

	_, err := service.CriarCobranca(context.Background(), contratoDeTeste(),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), nil, models.EnvioAutomatico)
	assert.ErrorIs(t, err, ErrCobrancaDuplicada)
}

func TestCriarCobranca_ContratoNaoVigente(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()
	service := newCobrancaServiceForTest(&mockCobrancaRepository{}, &mockContratoRepository{}, worker)

	contrato := contratoDeTeste()
	contrato.Status = models.ContratoStatusSuspenso

	_, err := service.CriarCobranca(context.Background(), contrato,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), nil, models.EnvioAutomatico)
	assert.ErrorIs(t, err, ErrContratoNaoAtivo)
}

func TestCancelarCobranca(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()

	cobranca := &models.Cobranca{ID: 10, Status: models.CobrancaStatusPendente}
	updateCalled := false
	mockCobrancaRepo := &mockCobrancaRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Cobranca, error) {
			return cobranca, nil
		},
		mockUpdate: func(ctx context.Context, c *models.Cobranca) error {
			updateCalled = true
			return nil
		},
	}
	service := newCobrancaServiceForTest(mockCobrancaRepo, &mockContratoRepository{}, worker)

	cancelada, err := service.CancelarCobranca(context.Background(), 10, nil)
	assert.NoError(t, err)
	assert.Equal(t, models.CobrancaStatusCancelada, cancelada.Status)
	assert.True(t, updateCalled)
}

func TestCancelarCobranca_JaPaga(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()

	mockCobrancaRepo := &mockCobrancaRepository{
		mockFindByIDWithDetails: func(ctx context.Context, id uint) (*models.Cobranca, error) {
			return &models.Cobranca{ID: 10, Status: models.CobrancaStatusPaga}, nil
		},
	}
	service := newCobrancaServiceForTest(mockCobrancaRepo, &mockContratoRepository{}, worker)

	_, err := service.CancelarCobranca(context.Background(), 10, nil)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestGerarCobrancasMensais(t *testing.T) {
	worker := jobs.NewWorker(0)
	defer worker.Shutdown()

	primeiro := *contratoDeTeste()
	segundo := *contratoDeTeste()
	segundo.ID = 2

	mockContratoRepo := &mockContratoRepository{
		mockFindVigentesParaCobranca: func(ctx context.Context, ref time.Time) ([]models.Contrato, error) {
			return []models.Contrato{primeiro, segundo}, nil
		},
	}
	criadas := 0
	mockCobrancaRepo := &mockCobrancaRepository{
		// Contract 1 is already billed for the month
		mockExisteCobranca: func(ctx context.Context, contratoID uint, competencia string) (bool, error) {
			return contratoID == 1, nil
		},
		mockCreate: func(ctx context.Context, cobranca *models.Cobranca) error {
			criadas++
			assert.Equal(t, models.EnvioAutomatico, cobranca.TipoEnvio)
			return nil
		},
	}
	service := newCobrancaServiceForTest(mockCobrancaRepo, mockContratoRepo, worker)

	resultado, err := service.GerarCobrancasMensais(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, resultado.Processados)
	assert.Equal(t, 1, resultado.Criadas)
	assert.Equal(t, 1, resultado.Puladas)
	assert.Equal(t, 0, resultado.Erros)
	assert.Equal(t, 1, criadas)
}
