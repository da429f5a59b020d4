package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/statemachine"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// CobrancaService generates and manages monthly charges
type CobrancaService struct {
	cobrancaRepo repository.CobrancaRepository
	contratoRepo repository.ContratoRepository
	auditoria    *AuditoriaService
	notificacao  *NotificacaoService
	emailSvc     *EmailService
	boletoSvc    *BoletoService
	worker       *jobs.Worker
}

// NewCobrancaService creates a new charge service
func NewCobrancaService(
	cobrancaRepo repository.CobrancaRepository,
	contratoRepo repository.ContratoRepository,
	auditoria *AuditoriaService,
	notificacao *NotificacaoService,
	emailSvc *EmailService,
	boletoSvc *BoletoService,
	worker *jobs.Worker,
) *CobrancaService {
	return &CobrancaService{
		cobrancaRepo: cobrancaRepo,
		contratoRepo: contratoRepo,
		auditoria:    auditoria,
		notificacao:  notificacao,
		emailSvc:     emailSvc,
		boletoSvc:    boletoSvc,
		worker:       worker,
	}
}

// CalcularCompetencia determines the accrual month ("YYYY-MM") for a charge
// generated at dataRef. If the reference day already reached the contract's
// due day, the charge belongs to the next month. The month is advanced
// arithmetically: AddDate would normalize Jan 30/31 into March.
func (s *CobrancaService) CalcularCompetencia(contrato *models.Contrato, dataRef time.Time) string {
	if dataRef.Day() < contrato.DiaVencimento {
		return dataRef.Format("2006-01")
	}
	proximo := time.Date(dataRef.Year(), dataRef.Month()+1, 1, 0, 0, 0, 0, dataRef.Location())
	return proximo.Format("2006-01")
}

// CalcularVencimento returns the due date inside the accrual month, clamping
// the due day to the month's length (e.g. day 31 in February).
func (s *CobrancaService) CalcularVencimento(contrato *models.Contrato, competencia string) (time.Time, error) {
	base, err := time.Parse("2006-01", competencia)
	if err != nil {
		return time.Time{}, fmt.Errorf("competência inválida %q: %w", competencia, err)
	}
	ultimoDia := base.AddDate(0, 1, -1).Day()
	dia := contrato.DiaVencimento
	if dia > ultimoDia {
		dia = ultimoDia
	}
	return time.Date(base.Year(), base.Month(), dia, 0, 0, 0, 0, time.UTC), nil
}

// DetalhamentoItem is one line of the charge breakdown
type DetalhamentoItem struct {
	Descricao string          `json:"descricao"`
	Tipo      string          `json:"tipo"`
	Valor     decimal.Decimal `json:"valor"`
}

// CalcularValores resolves each active charge item against the contract's
// rent and returns the breakdown plus total
func (s *CobrancaService) CalcularValores(contrato *models.Contrato) ([]DetalhamentoItem, decimal.Decimal) {
	var itens []DetalhamentoItem
	total := decimal.Zero

	for _, item := range contrato.ItensCobranca {
		if !item.Ativo {
			continue
		}
		valor := item.ResolverValor(contrato.ValorAluguel)
		descricao := item.Tipo
		if item.Descricao != nil && *item.Descricao != "" {
			descricao = *item.Descricao
		}
		itens = append(itens, DetalhamentoItem{
			Descricao: descricao,
			Tipo:      item.Tipo,
			Valor:     valor,
		})
		total = total.Add(valor)
	}

	return itens, total.Round(2)
}

// ExisteCobranca reports whether the contract already has a charge for the
// accrual month
func (s *CobrancaService) ExisteCobranca(ctx context.Context, contratoID uint, competencia string) (bool, error) {
	return s.cobrancaRepo.ExisteCobranca(ctx, contratoID, competencia)
}

// CriarCobranca generates a pending charge for the contract at the reference
// date. Returns ErrCobrancaDuplicada when the accrual month is already billed
// and ErrContratoNaoAtivo when the contract is not in force.
func (s *CobrancaService) CriarCobranca(ctx context.Context, contrato *models.Contrato, dataRef time.Time, criadorID *uint, tipoEnvio string) (*models.Cobranca, error) {
	if !contrato.IsVigente(dataRef) {
		return nil, ErrContratoNaoAtivo
	}

	competencia := s.CalcularCompetencia(contrato, dataRef)

	existe, err := s.cobrancaRepo.ExisteCobranca(ctx, contrato.ID, competencia)
	if err != nil {
		return nil, err
	}
	if existe {
		return nil, ErrCobrancaDuplicada
	}

	vencimento, err := s.CalcularVencimento(contrato, competencia)
	if err != nil {
		return nil, err
	}

	itens, total := s.CalcularValores(contrato)
	detalhamento, err := json.Marshal(itens)
	if err != nil {
		return nil, err
	}

	inicio := time.Date(vencimento.Year(), vencimento.Month(), 1, 0, 0, 0, 0, time.UTC)
	fim := inicio.AddDate(0, 1, -1)

	cobranca := &models.Cobranca{
		ContratoID:     contrato.ID,
		Competencia:    competencia,
		PeriodoInicio:  inicio,
		PeriodoFim:     fim,
		DataVencimento: vencimento,
		Detalhamento:   string(detalhamento),
		ValorTotal:     total,
		Status:         models.CobrancaStatusPendente,
		TipoEnvio:      tipoEnvio,
		CriadorID:      criadorID,
	}

	if err := s.cobrancaRepo.Create(ctx, cobranca); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(criadorID, models.AcaoCreate, "Cobranca", cobranca.ID,
		fmt.Sprintf("competência %s, valor %s", competencia, cobranca.GetValorTotalFormatado()))

	return cobranca, nil
}

// CancelarCobranca cancels a charge that has not been paid yet
func (s *CobrancaService) CancelarCobranca(ctx context.Context, id uint, usuarioID *uint) (*models.Cobranca, error) {
	cobranca, err := s.cobrancaRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	csm := statemachine.NewCobrancaFSM(cobranca)
	if err := csm.Cancelar(ctx); err != nil {
		return nil, ErrInvalidState
	}

	if err := s.cobrancaRepo.Update(ctx, cobranca); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Cobranca", cobranca.ID, "cobrança cancelada")

	// Tenant already received the boleto, warn them not to pay it
	if cobranca.EnviadaEm != nil {
		c := cobranca
		s.worker.EnqueueAsync(func(ctx context.Context) error {
			return s.emailSvc.EnviarCobrancaCancelada(ctx, c)
		})
	}

	return cobranca, nil
}

// MarcarEnviada flags a charge as emailed to the tenant
func (s *CobrancaService) MarcarEnviada(ctx context.Context, id uint) (*models.Cobranca, error) {
	cobranca, err := s.cobrancaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	csm := statemachine.NewCobrancaFSM(cobranca)
	if err := csm.Enviar(ctx); err != nil {
		return nil, ErrInvalidState
	}

	agora := time.Now()
	cobranca.EnviadaEm = &agora

	if err := s.cobrancaRepo.Update(ctx, cobranca); err != nil {
		return nil, err
	}
	return cobranca, nil
}

// GerarBoleto creates the boleto for a pending charge and links the two
func (s *CobrancaService) GerarBoleto(ctx context.Context, id, configID uint, usuarioID *uint) (*models.Cobranca, error) {
	cobranca, err := s.cobrancaRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !cobranca.MayGerarBoleto() {
		return nil, ErrInvalidState
	}

	boleto, err := s.boletoSvc.CriarBoleto(ctx, configID, cobranca.Contrato.InquilinoID,
		cobranca.ValorTotal, cobranca.DataVencimento, nil)
	if err != nil {
		return nil, err
	}

	csm := statemachine.NewCobrancaFSM(cobranca)
	if err := csm.GerarBoleto(ctx); err != nil {
		return nil, ErrInvalidState
	}
	cobranca.BoletoID = &boleto.ID
	cobranca.Boleto = boleto

	if err := s.cobrancaRepo.Update(ctx, cobranca); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Cobranca", cobranca.ID,
		fmt.Sprintf("boleto %s gerado", boleto.NossoNumero))

	return cobranca, nil
}

// ResultadoGeracao tallies one scheduled billing run
type ResultadoGeracao struct {
	Processados int      `json:"processados"`
	Criadas     int      `json:"criadas"`
	Puladas     int      `json:"puladas"`
	Erros       int      `json:"erros"`
	Detalhes    []string `json:"detalhes,omitempty"`
}

// GerarCobrancasMensais iterates contracts with automatic billing and creates
// the charge for the current accrual month, skipping duplicates. Runs daily;
// the uniqueness guard makes the pass idempotent.
func (s *CobrancaService) GerarCobrancasMensais(ctx context.Context) (*ResultadoGeracao, error) {
	hoje := time.Now()
	contratos, err := s.contratoRepo.FindVigentesParaCobranca(ctx, hoje)
	if err != nil {
		return nil, err
	}

	resultado := &ResultadoGeracao{}
	for i := range contratos {
		contrato := &contratos[i]
		resultado.Processados++

		_, err := s.CriarCobranca(ctx, contrato, hoje, nil, models.EnvioAutomatico)
		switch {
		case err == nil:
			resultado.Criadas++
		case errors.Is(err, ErrCobrancaDuplicada), errors.Is(err, ErrContratoNaoAtivo):
			resultado.Puladas++
		default:
			resultado.Erros++
			resultado.Detalhes = append(resultado.Detalhes,
				fmt.Sprintf("contrato %d: %v", contrato.ID, err))
			logger.Error("Falha ao gerar cobrança", "contrato_id", contrato.ID, "error", err)
		}
	}

	logger.Info("Geração de cobranças concluída",
		"processados", resultado.Processados,
		"criadas", resultado.Criadas,
		"puladas", resultado.Puladas,
		"erros", resultado.Erros)

	return resultado, nil
}

// ResultadoEnvio tallies one email dispatch run
type ResultadoEnvio struct {
	Processadas int `json:"processadas"`
	Enviadas    int `json:"enviadas"`
	Erros       int `json:"erros"`
}

// EnviarCobrancas emails tenants their freshly registered boletos and flags
// each charge as sent. Only contracts with automatic email opt-in qualify.
func (s *CobrancaService) EnviarCobrancas(ctx context.Context) (*ResultadoEnvio, error) {
	cobrancas, err := s.cobrancaRepo.FindParaEnvio(ctx)
	if err != nil {
		return nil, err
	}

	resultado := &ResultadoEnvio{}
	for i := range cobrancas {
		cobranca := &cobrancas[i]
		resultado.Processadas++

		if cobranca.Boleto == nil {
			continue
		}
		if err := s.emailSvc.EnviarBoletoEmitido(ctx, cobranca, cobranca.Boleto); err != nil {
			resultado.Erros++
			logger.Error("Falha ao enviar cobrança", "cobranca_id", cobranca.ID, "error", err)
			continue
		}
		if _, err := s.MarcarEnviada(ctx, cobranca.ID); err != nil {
			logger.Error("Falha ao marcar cobrança como enviada", "cobranca_id", cobranca.ID, "error", err)
		}
		resultado.Enviadas++
	}

	logger.Info("Envio de cobranças concluído",
		"processadas", resultado.Processadas,
		"enviadas", resultado.Enviadas,
		"erros", resultado.Erros)

	return resultado, nil
}

// EnviarLembretes emails a reminder for every boleto due today
func (s *CobrancaService) EnviarLembretes(ctx context.Context) (*ResultadoEnvio, error) {
	hoje := time.Now()
	cobrancas, err := s.cobrancaRepo.FindVencendoEm(ctx, hoje)
	if err != nil {
		return nil, err
	}

	resultado := &ResultadoEnvio{}
	for i := range cobrancas {
		cobranca := &cobrancas[i]
		resultado.Processadas++

		if cobranca.Boleto == nil || !cobranca.Contrato.EmailAutomatico {
			continue
		}
		if err := s.emailSvc.EnviarLembreteVencimento(ctx, cobranca, cobranca.Boleto); err != nil {
			resultado.Erros++
			logger.Error("Falha ao enviar lembrete", "cobranca_id", cobranca.ID, "error", err)
			continue
		}
		resultado.Enviadas++
	}

	logger.Info("Lembretes de vencimento enviados",
		"processadas", resultado.Processadas,
		"enviadas", resultado.Enviadas,
		"erros", resultado.Erros)

	return resultado, nil
}

// BuscarPorID returns a charge with its contract and boleto loaded
func (s *CobrancaService) BuscarPorID(ctx context.Context, id uint) (*models.Cobranca, error) {
	cobranca, err := s.cobrancaRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return cobranca, nil
}

// Listar returns charges matching the query
func (s *CobrancaService) Listar(ctx context.Context, query *repository.CobrancaQuery) ([]models.Cobranca, int64, error) {
	return s.cobrancaRepo.List(ctx, query)
}
