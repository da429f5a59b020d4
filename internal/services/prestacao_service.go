package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/storage"
	"github.com/gestimo/gestimo-api/pkg/logger"
	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// Periodicidade values accepted by CalcularPeriodo
const (
	PeriodoDiario    = "diario"
	PeriodoSemanal   = "semanal"
	PeriodoQuinzenal = "quinzenal"
	PeriodoMensal    = "mensal"
	PeriodoSemestral = "semestral"
	PeriodoAnual     = "anual"
)

// PrestacaoService builds owner settlement statements
type PrestacaoService struct {
	prestacaoRepo  repository.PrestacaoRepository
	lancamentoRepo repository.LancamentoRepository
	contratoRepo   repository.ContratoRepository
	pessoaRepo     repository.PessoaRepository
	auditoria      *AuditoriaService
	emailSvc       *EmailService
	exportSvc      *ExportService
	storage        *storage.LocalStorage
	cfg            *config.Config
}

// NewPrestacaoService creates a new settlement statement service
func NewPrestacaoService(
	prestacaoRepo repository.PrestacaoRepository,
	lancamentoRepo repository.LancamentoRepository,
	contratoRepo repository.ContratoRepository,
	pessoaRepo repository.PessoaRepository,
	auditoria *AuditoriaService,
	emailSvc *EmailService,
	exportSvc *ExportService,
	st *storage.LocalStorage,
	cfg *config.Config,
) *PrestacaoService {
	return &PrestacaoService{
		prestacaoRepo:  prestacaoRepo,
		lancamentoRepo: lancamentoRepo,
		contratoRepo:   contratoRepo,
		pessoaRepo:     pessoaRepo,
		auditoria:      auditoria,
		emailSvc:       emailSvc,
		exportSvc:      exportSvc,
		storage:        st,
		cfg:            cfg,
	}
}

// CalcularPeriodo maps a periodicity onto the fixed calendar window that
// contains dataRef. Quinzenal splits the month at day 15; mensal runs first
// to last day.
func (s *PrestacaoService) CalcularPeriodo(tipo string, dataRef time.Time) (inicio, fim time.Time, err error) {
	ano, mes, dia := dataRef.Date()
	loc := dataRef.Location()

	switch tipo {
	case PeriodoDiario:
		inicio = time.Date(ano, mes, dia, 0, 0, 0, 0, loc)
		fim = inicio
	case PeriodoSemanal:
		// Monday through Sunday
		diaSemana := int(dataRef.Weekday())
		if diaSemana == 0 {
			diaSemana = 7
		}
		inicio = time.Date(ano, mes, dia-diaSemana+1, 0, 0, 0, 0, loc)
		fim = inicio.AddDate(0, 0, 6)
	case PeriodoQuinzenal:
		if dia <= 15 {
			inicio = time.Date(ano, mes, 1, 0, 0, 0, 0, loc)
			fim = time.Date(ano, mes, 15, 0, 0, 0, 0, loc)
		} else {
			inicio = time.Date(ano, mes, 16, 0, 0, 0, 0, loc)
			fim = time.Date(ano, mes, 1, 0, 0, 0, 0, loc).AddDate(0, 1, -1)
		}
	case PeriodoMensal:
		inicio = time.Date(ano, mes, 1, 0, 0, 0, 0, loc)
		fim = inicio.AddDate(0, 1, -1)
	case PeriodoSemestral:
		if mes <= 6 {
			inicio = time.Date(ano, 1, 1, 0, 0, 0, 0, loc)
			fim = time.Date(ano, 6, 30, 0, 0, 0, 0, loc)
		} else {
			inicio = time.Date(ano, 7, 1, 0, 0, 0, 0, loc)
			fim = time.Date(ano, 12, 31, 0, 0, 0, 0, loc)
		}
	case PeriodoAnual:
		inicio = time.Date(ano, 1, 1, 0, 0, 0, 0, loc)
		fim = time.Date(ano, 12, 31, 0, 0, 0, 0, loc)
	default:
		err = fmt.Errorf("periodicidade inválida: %q", tipo)
	}
	return inicio, fim, err
}

// CalcularTaxaAdmin computes the management fee over a settled amount.
// Returns zero when the amount is zero or the contract is absent; otherwise
// applies the contract's percentage, falling back to the configured default.
func (s *PrestacaoService) CalcularTaxaAdmin(ctx context.Context, valor decimal.Decimal, contratoID *uint) (decimal.Decimal, error) {
	if valor.IsZero() || contratoID == nil {
		return decimal.Zero, nil
	}

	contrato, err := s.contratoRepo.FindByID(ctx, *contratoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	padrao := decimal.NewFromFloat(s.cfg.TaxaAdminPadrao)
	return moeda.Percentual(valor, contrato.TaxaAdmin(padrao)), nil
}

// GerarPrestacao aggregates the owner's settled postings in the period into a
// statement: receitas and despesas lines, taxa de administração, repasse.
func (s *PrestacaoService) GerarPrestacao(ctx context.Context, proprietarioID uint, periodicidade string, dataRef time.Time, criadorID *uint) (*models.PrestacaoContas, error) {
	proprietario, err := s.pessoaRepo.FindByID(ctx, proprietarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	inicio, fim, err := s.CalcularPeriodo(periodicidade, dataRef)
	if err != nil {
		return nil, err
	}

	existe, err := s.prestacaoRepo.ExistePrestacao(ctx, proprietarioID, inicio, fim)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, ErrDuplicate
	}

	lancamentos, err := s.lancamentoRepo.FindPorPeriodo(ctx, proprietarioID, inicio, fim)
	if err != nil {
		return nil, err
	}

	prestacao := &models.PrestacaoContas{
		ProprietarioID: proprietarioID,
		Periodicidade:  periodicidade,
		PeriodoInicio:  inicio,
		PeriodoFim:     fim,
		Status:         models.PrestacaoStatusAberta,
		CriadorID:      criadorID,
	}

	var itens []models.PrestacaoContasItem
	for i := range lancamentos {
		l := &lancamentos[i]
		for j := range l.Baixas {
			b := &l.Baixas[j]
			if b.Estornada {
				continue
			}
			tipo := models.ItemTipoReceita
			if l.Natureza == models.NaturezaPagar {
				tipo = models.ItemTipoDespesa
			}
			lancamentoID := l.ID
			baixaID := b.ID
			itens = append(itens, models.PrestacaoContasItem{
				LancamentoID: &lancamentoID,
				BaixaID:      &baixaID,
				Tipo:         tipo,
				Descricao:    l.Descricao,
				Data:         b.DataPagamento,
				Valor:        b.ValorTotal,
			})

			if tipo == models.ItemTipoReceita {
				taxa, err := s.CalcularTaxaAdmin(ctx, b.ValorTotal, l.ContratoID)
				if err != nil {
					return nil, err
				}
				if !taxa.IsZero() {
					itens = append(itens, models.PrestacaoContasItem{
						LancamentoID: &lancamentoID,
						BaixaID:      &baixaID,
						Tipo:         models.ItemTipoTaxaAdmin,
						Descricao:    fmt.Sprintf("Taxa de administração sobre %s", l.Descricao),
						Data:         b.DataPagamento,
						Valor:        taxa,
					})
				}
			}
		}
	}

	s.recalcularTotais(prestacao, itens)

	err = s.prestacaoRepo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(prestacao).Error; err != nil {
			return err
		}
		for i := range itens {
			itens[i].PrestacaoID = prestacao.ID
		}
		if len(itens) > 0 {
			if err := tx.Create(&itens).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	prestacao.Itens = itens

	s.auditoria.RegistrarAsync(criadorID, models.AcaoCreate, "PrestacaoContas", prestacao.ID,
		fmt.Sprintf("prestação %s de %s, repasse %s", periodicidade, proprietario.Nome,
			moeda.Formatar(prestacao.ValorRepasse)))

	logger.Info("Prestação de contas gerada",
		"prestacao_id", prestacao.ID,
		"proprietario_id", proprietarioID,
		"itens", len(itens),
		"repasse", prestacao.ValorRepasse.StringFixed(2))

	return prestacao, nil
}

// recalcularTotais derives the statement totals from its item lines via the
// receita/despesa predicate
func (s *PrestacaoService) recalcularTotais(prestacao *models.PrestacaoContas, itens []models.PrestacaoContasItem) {
	receitas := decimal.Zero
	despesas := decimal.Zero
	taxa := decimal.Zero

	for i := range itens {
		item := &itens[i]
		switch {
		case item.IsReceita():
			receitas = receitas.Add(item.Valor)
		case item.Tipo == models.ItemTipoTaxaAdmin:
			taxa = taxa.Add(item.Valor)
		default:
			despesas = despesas.Add(item.Valor)
		}
	}

	prestacao.TotalReceitas = receitas.Round(2)
	prestacao.TotalDespesas = despesas.Round(2)
	prestacao.TaxaAdmin = taxa.Round(2)
	prestacao.ValorRepasse = prestacao.CalcularRepasse()
}

// Fechar approves a statement, freezing its lines
func (s *PrestacaoService) Fechar(ctx context.Context, id uint, usuarioID *uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prestacao.MayFechar() {
		return nil, ErrInvalidState
	}

	agora := time.Now()
	prestacao.Status = models.PrestacaoStatusFechada
	prestacao.FechadaEm = &agora

	if err := s.prestacaoRepo.Update(ctx, prestacao); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "PrestacaoContas", prestacao.ID, "prestação fechada")
	return prestacao, nil
}

// MarcarEnviada flags the statement as delivered to the owner
func (s *PrestacaoService) MarcarEnviada(ctx context.Context, id uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prestacao.MayEnviar() {
		return nil, ErrInvalidState
	}

	agora := time.Now()
	prestacao.Status = models.PrestacaoStatusEnviada
	prestacao.EnviadaEm = &agora

	if err := s.prestacaoRepo.Update(ctx, prestacao); err != nil {
		return nil, err
	}
	return prestacao, nil
}

// Enviar generates the statement PDF, stores it, emails the owner and flags
// the statement as delivered
func (s *PrestacaoService) Enviar(ctx context.Context, id uint, usuarioID *uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.prestacaoRepo.FindByIDWithItens(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !prestacao.MayEnviar() {
		return nil, ErrInvalidState
	}

	pdf, filename, err := s.exportSvc.GerarPrestacaoPDF(ctx, prestacao.ID)
	if err != nil {
		return nil, err
	}

	caminho, err := s.storage.UploadFromBytes(pdf, filename, storage.DirPrestacoes)
	if err != nil {
		logger.Warn("Falha ao armazenar PDF da prestação", "prestacao_id", prestacao.ID, "error", err)
	} else {
		prestacao.ArquivoPDF = &caminho
	}

	if err := s.emailSvc.EnviarPrestacaoDisponivel(ctx, prestacao, pdf); err != nil {
		return nil, err
	}

	atualizada, err := s.MarcarEnviada(ctx, prestacao.ID)
	if err != nil {
		return nil, err
	}
	if prestacao.ArquivoPDF != nil {
		atualizada.ArquivoPDF = prestacao.ArquivoPDF
		if err := s.prestacaoRepo.Update(ctx, atualizada); err != nil {
			return nil, err
		}
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "PrestacaoContas", prestacao.ID, "prestação enviada ao proprietário")

	return atualizada, nil
}

// RegistrarRepasse records the payout to the owner
func (s *PrestacaoService) RegistrarRepasse(ctx context.Context, id uint, usuarioID *uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prestacao.MayRegistrarRepasse() {
		return nil, ErrInvalidState
	}

	prestacao.Status = models.PrestacaoStatusRepassada
	if err := s.prestacaoRepo.Update(ctx, prestacao); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "PrestacaoContas", prestacao.ID,
		fmt.Sprintf("repasse de %s registrado", moeda.Formatar(prestacao.ValorRepasse)))
	return prestacao, nil
}

// Cancelar voids a statement before payout
func (s *PrestacaoService) Cancelar(ctx context.Context, id uint, usuarioID *uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !prestacao.MayCancelar() {
		return nil, ErrInvalidState
	}

	prestacao.Status = models.PrestacaoStatusCancelada
	if err := s.prestacaoRepo.Update(ctx, prestacao); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "PrestacaoContas", prestacao.ID, "prestação cancelada")
	return prestacao, nil
}

func (s *PrestacaoService) buscar(ctx context.Context, id uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.prestacaoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prestacao, nil
}

// BuscarPorID returns a statement with its item lines
func (s *PrestacaoService) BuscarPorID(ctx context.Context, id uint) (*models.PrestacaoContas, error) {
	prestacao, err := s.prestacaoRepo.FindByIDWithItens(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return prestacao, nil
}

// Listar returns statements matching the query
func (s *PrestacaoService) Listar(ctx context.Context, query *repository.PrestacaoQuery) ([]models.PrestacaoContas, int64, error) {
	return s.prestacaoRepo.List(ctx, query)
}
