package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/bancoapi"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/statemachine"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// NossoNumeroTamanho is the fixed length of a generated nosso número
const NossoNumeroTamanho = 20

// Sequence digits appended after the zero-padded convênio
const nossoNumeroSequenciaDigitos = 7

// BoletoService creates boletos and drives their lifecycle against the bank
type BoletoService struct {
	boletoRepo  repository.BoletoRepository
	configRepo  repository.BancoConfigRepository
	pessoaRepo  repository.PessoaRepository
	bancoAuth   *BancoAuthService
	client      *bancoapi.Client
	auditoria   *AuditoriaService
	notificacao *NotificacaoService
}

// NewBoletoService creates a new boleto service
func NewBoletoService(
	boletoRepo repository.BoletoRepository,
	configRepo repository.BancoConfigRepository,
	pessoaRepo repository.PessoaRepository,
	bancoAuth *BancoAuthService,
	client *bancoapi.Client,
	auditoria *AuditoriaService,
	notificacao *NotificacaoService,
) *BoletoService {
	return &BoletoService{
		boletoRepo:  boletoRepo,
		configRepo:  configRepo,
		pessoaRepo:  pessoaRepo,
		bancoAuth:   bancoAuth,
		client:      client,
		auditoria:   auditoria,
		notificacao: notificacao,
	}
}

// GerarNossoNumero builds the bank identifier: zero-padded convênio followed
// by a 7-digit zero-padded per-config sequence, 20 characters total.
func (s *BoletoService) GerarNossoNumero(ctx context.Context, config *models.BancoAPIConfig) (string, error) {
	seq, err := s.boletoRepo.ProximaSequencia(ctx, config.ID)
	if err != nil {
		return "", err
	}
	return FormatarNossoNumero(config.Convenio, seq), nil
}

// FormatarNossoNumero renders convênio + sequence into the fixed 20-char
// layout. The convênio is left-padded with zeros to fill the prefix.
func FormatarNossoNumero(convenio string, sequencia int64) string {
	prefixoTamanho := NossoNumeroTamanho - nossoNumeroSequenciaDigitos
	prefixo := convenio
	if len(prefixo) > prefixoTamanho {
		prefixo = prefixo[len(prefixo)-prefixoTamanho:]
	}
	prefixo = strings.Repeat("0", prefixoTamanho-len(prefixo)) + prefixo
	return fmt.Sprintf("%s%0*d", prefixo, nossoNumeroSequenciaDigitos, sequencia)
}

// OpcoesBoleto carries optional fields for boleto creation
type OpcoesBoleto struct {
	ValorMulta     *decimal.Decimal
	JurosDiario    *decimal.Decimal
	ValorDesconto  *decimal.Decimal
	LimiteDesconto *time.Time
	Mensagem       *string
	LancamentoID   *uint
}

// CriarBoleto creates a pending boleto ready for registration
func (s *BoletoService) CriarBoleto(ctx context.Context, configID, pagadorID uint, valor decimal.Decimal, vencimento time.Time, opts *OpcoesBoleto) (*models.Boleto, error) {
	config, err := s.configRepo.FindByID(ctx, configID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if _, err := s.pessoaRepo.FindByID(ctx, pagadorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	nossoNumero, err := s.GerarNossoNumero(ctx, config)
	if err != nil {
		return nil, err
	}

	boleto := &models.Boleto{
		BancoConfigID:  config.ID,
		PagadorID:      pagadorID,
		NossoNumero:    nossoNumero,
		SeuNumero:      uuid.NewString(),
		ValorNominal:   valor.Round(2),
		DataEmissao:    time.Now(),
		DataVencimento: vencimento,
		Status:         models.BoletoStatusPendente,
	}

	if opts != nil {
		boleto.ValorMulta = opts.ValorMulta
		boleto.JurosDiario = opts.JurosDiario
		boleto.ValorDesconto = opts.ValorDesconto
		boleto.LimiteDesconto = opts.LimiteDesconto
		boleto.Mensagem = opts.Mensagem
		boleto.LancamentoID = opts.LancamentoID
	}

	if err := s.boletoRepo.Create(ctx, boleto); err != nil {
		return nil, err
	}
	return boleto, nil
}

// ResultadoRegistro reports a single registration attempt
type ResultadoRegistro struct {
	BoletoID       uint   `json:"boleto_id"`
	NossoNumero    string `json:"nosso_numero"`
	Sucesso        bool   `json:"sucesso"`
	LinhaDigitavel string `json:"linha_digitavel,omitempty"`
	Erro           string `json:"erro,omitempty"`
}

// RegistrarBoleto sends a pending boleto to the bank. Every attempt is logged
// to BoletoAPILog; failures increment tentativas_registro and keep the boleto
// eligible for the next scheduled pass. No in-process retry.
func (s *BoletoService) RegistrarBoleto(ctx context.Context, id uint) (*ResultadoRegistro, error) {
	boleto, err := s.boletoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoletoNaoEncontrado
		}
		return nil, err
	}

	if !boleto.MayRegistrar() {
		return nil, ErrInvalidState
	}

	config := &boleto.BancoConfig
	token, err := s.bancoAuth.ObterAccessToken(ctx, config)
	if err != nil {
		return s.registrarFalha(ctx, boleto, 0, "", err)
	}

	payload := s.montarPayloadRegistro(boleto)
	resp, status, body, err := s.client.Registrar(ctx, config, token, payload)
	if err != nil {
		return s.registrarFalha(ctx, boleto, status, string(body), err)
	}

	bsm := statemachine.NewBoletoFSM(boleto)
	if err := bsm.Registrar(ctx); err != nil {
		return nil, err
	}

	agora := time.Now()
	boleto.DataRegistro = &agora
	boleto.CodigoBarras = &resp.CodigoBarras
	boleto.LinhaDigitavel = &resp.LinhaDigitavel
	if resp.PixTxID != "" {
		boleto.PixTxID = &resp.PixTxID
		boleto.PixQRCode = &resp.PixQRCode
	}
	boleto.UltimoErro = nil

	if err := s.boletoRepo.Update(ctx, boleto); err != nil {
		return nil, err
	}

	s.logOperacao(ctx, boleto.ID, models.OperacaoRegistro, payload, string(body), status, true, nil)

	return &ResultadoRegistro{
		BoletoID:       boleto.ID,
		NossoNumero:    boleto.NossoNumero,
		Sucesso:        true,
		LinhaDigitavel: resp.LinhaDigitavel,
	}, nil
}

func (s *BoletoService) montarPayloadRegistro(boleto *models.Boleto) *bancoapi.RegistroBoletoRequest {
	payload := &bancoapi.RegistroBoletoRequest{
		NossoNumero:    boleto.NossoNumero,
		SeuNumero:      boleto.SeuNumero,
		Convenio:       boleto.BancoConfig.Convenio,
		Carteira:       boleto.BancoConfig.Carteira,
		ValorNominal:   boleto.ValorNominal.StringFixed(2),
		DataVencimento: boleto.DataVencimento.Format("2006-01-02"),
		DataEmissao:    boleto.DataEmissao.Format("2006-01-02"),
		Pagador: bancoapi.Pagador{
			Nome:      boleto.Pagador.Nome,
			Documento: boleto.Pagador.Documento,
			Endereco:  boleto.Pagador.Logradouro,
			CEP:       boleto.Pagador.CEP,
			Cidade:    boleto.Pagador.Cidade,
			UF:        boleto.Pagador.UF,
		},
		Mensagem: boleto.Mensagem,
		GerarPix: true,
	}
	if boleto.ValorMulta != nil {
		payload.ValorMulta = boleto.ValorMulta.StringFixed(2)
	}
	if boleto.JurosDiario != nil {
		payload.JurosDiario = boleto.JurosDiario.StringFixed(4)
	}
	if boleto.ValorDesconto != nil {
		payload.ValorDesconto = boleto.ValorDesconto.StringFixed(2)
	}
	if boleto.LimiteDesconto != nil {
		payload.LimiteDesconto = boleto.LimiteDesconto.Format("2006-01-02")
	}
	return payload
}

func (s *BoletoService) registrarFalha(ctx context.Context, boleto *models.Boleto, httpStatus int, body string, causa error) (*ResultadoRegistro, error) {
	msg := causa.Error()
	boleto.Status = models.BoletoStatusErro
	boleto.TentativasRegistro++
	boleto.UltimoErro = &msg

	if err := s.boletoRepo.Update(ctx, boleto); err != nil {
		return nil, err
	}
	s.logOperacao(ctx, boleto.ID, models.OperacaoRegistro, nil, body, httpStatus, false, &msg)

	logger.Error("Falha no registro de boleto",
		"boleto_id", boleto.ID,
		"nosso_numero", boleto.NossoNumero,
		"tentativas", boleto.TentativasRegistro,
		"error", causa)

	return &ResultadoRegistro{
		BoletoID:    boleto.ID,
		NossoNumero: boleto.NossoNumero,
		Sucesso:     false,
		Erro:        msg,
	}, nil
}

func (s *BoletoService) logOperacao(ctx context.Context, boletoID uint, operacao string, payload any, respBody string, httpStatus int, sucesso bool, mensagemErro *string) {
	reqBody := ""
	if payload != nil {
		reqBody = fmt.Sprintf("%+v", payload)
	}
	entry := &models.BoletoAPILog{
		BoletoID:     boletoID,
		Operacao:     operacao,
		RequestBody:  reqBody,
		ResponseBody: respBody,
		HTTPStatus:   httpStatus,
		Sucesso:      sucesso,
		MensagemErro: mensagemErro,
	}
	if err := s.boletoRepo.LogOperacao(ctx, entry); err != nil {
		logger.Warn("Falha ao gravar log de operação bancária", "boleto_id", boletoID, "error", err)
	}
}

// ResultadoLote tallies a batch registration run
type ResultadoLote struct {
	Total    int                 `json:"total"`
	Sucessos int                 `json:"sucessos"`
	Erros    int                 `json:"erros"`
	Detalhes []ResultadoRegistro `json:"detalhes,omitempty"`
}

// RegistrarLote registers a batch of boletos, tallying per-item outcomes.
// Empty input returns zeroed counters.
func (s *BoletoService) RegistrarLote(ctx context.Context, ids []uint) *ResultadoLote {
	resultado := &ResultadoLote{}
	for _, id := range ids {
		resultado.Total++
		res, err := s.RegistrarBoleto(ctx, id)
		if err != nil {
			resultado.Erros++
			resultado.Detalhes = append(resultado.Detalhes, ResultadoRegistro{
				BoletoID: id,
				Sucesso:  false,
				Erro:     err.Error(),
			})
			continue
		}
		if res.Sucesso {
			resultado.Sucessos++
		} else {
			resultado.Erros++
		}
		resultado.Detalhes = append(resultado.Detalhes, *res)
	}
	return resultado
}

// RegistrarPendentes picks up boletos awaiting registration and sends them in
// a batch. Scheduled hourly; the external scheduler is the retry mechanism.
func (s *BoletoService) RegistrarPendentes(ctx context.Context, limite int) (*ResultadoLote, error) {
	boletos, err := s.boletoRepo.FindPendentesRegistro(ctx, limite)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(boletos))
	for _, b := range boletos {
		ids = append(ids, b.ID)
	}
	return s.RegistrarLote(ctx, ids), nil
}

// AtualizarStatusBoletos polls the bank for status transitions on registered
// boletos (liquidation, write-off, protest), logging each query
func (s *BoletoService) AtualizarStatusBoletos(ctx context.Context) (int, error) {
	configs, err := s.configRepo.FindAtivas(ctx)
	if err != nil {
		return 0, err
	}

	atualizados := 0
	for i := range configs {
		config := &configs[i]
		boletos, err := s.boletoRepo.FindRegistradosParaConsulta(ctx, config.ID)
		if err != nil {
			logger.Error("Falha ao listar boletos para consulta", "config_id", config.ID, "error", err)
			continue
		}
		if len(boletos) == 0 {
			continue
		}

		token, err := s.bancoAuth.ObterAccessToken(ctx, config)
		if err != nil {
			logger.Error("Falha de autenticação na consulta de boletos", "config_id", config.ID, "error", err)
			continue
		}

		for j := range boletos {
			boleto := &boletos[j]
			consulta, status, body, err := s.client.Consultar(ctx, config, token, boleto.NossoNumero)
			if err != nil {
				msg := err.Error()
				s.logOperacao(ctx, boleto.ID, models.OperacaoConsulta, nil, string(body), status, false, &msg)
				continue
			}
			s.logOperacao(ctx, boleto.ID, models.OperacaoConsulta, nil, string(body), status, true, nil)

			if s.aplicarSituacao(ctx, boleto, consulta) {
				atualizados++
			}
		}
	}
	return atualizados, nil
}

// aplicarSituacao maps the bank situação onto the boleto state machine and
// persists the transition. Returns true when the status changed.
func (s *BoletoService) aplicarSituacao(ctx context.Context, boleto *models.Boleto, consulta *bancoapi.ConsultaBoletoResponse) bool {
	bsm := statemachine.NewBoletoFSM(boleto)
	anterior := boleto.Status

	switch consulta.Situacao {
	case "LIQUIDADO":
		if err := bsm.Pagar(ctx); err != nil {
			return false
		}
		if consulta.DataPagamento != "" {
			if data, err := time.Parse("2006-01-02", consulta.DataPagamento); err == nil {
				boleto.DataPagamento = &data
			}
		}
	case "VENCIDO":
		if err := bsm.Vencer(ctx); err != nil {
			return false
		}
	case "BAIXADO":
		if err := bsm.Baixar(ctx); err != nil {
			return false
		}
		agora := time.Now()
		boleto.DataBaixa = &agora
	case "PROTESTADO":
		if err := bsm.Protestar(ctx); err != nil {
			return false
		}
	default:
		return false
	}

	if boleto.Status == anterior {
		return false
	}
	if err := s.boletoRepo.Update(ctx, boleto); err != nil {
		logger.Error("Falha ao atualizar status do boleto", "boleto_id", boleto.ID, "error", err)
		return false
	}

	logger.Info("Status de boleto atualizado",
		"boleto_id", boleto.ID,
		"nosso_numero", boleto.NossoNumero,
		"de", anterior,
		"para", boleto.Status)
	return true
}

// BaixarBoleto requests the write-off of a registered boleto at the bank
func (s *BoletoService) BaixarBoleto(ctx context.Context, id uint, usuarioID *uint) error {
	boleto, err := s.boletoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoletoNaoEncontrado
		}
		return err
	}

	if !boleto.MayBaixar() {
		return ErrInvalidState
	}

	config := &boleto.BancoConfig
	token, err := s.bancoAuth.ObterAccessToken(ctx, config)
	if err != nil {
		return err
	}

	status, body, err := s.client.Baixar(ctx, config, token, boleto.NossoNumero)
	if err != nil {
		msg := err.Error()
		s.logOperacao(ctx, boleto.ID, models.OperacaoBaixa, nil, string(body), status, false, &msg)
		return err
	}
	s.logOperacao(ctx, boleto.ID, models.OperacaoBaixa, nil, string(body), status, true, nil)

	bsm := statemachine.NewBoletoFSM(boleto)
	if err := bsm.Baixar(ctx); err != nil {
		return err
	}
	agora := time.Now()
	boleto.DataBaixa = &agora

	if err := s.boletoRepo.Update(ctx, boleto); err != nil {
		return err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoBaixa, "Boleto", boleto.ID,
		fmt.Sprintf("baixa do nosso número %s", boleto.NossoNumero))
	return nil
}

// DeletarBoleto removes a boleto that never reached the bank.
// ErrBoletoNaoEncontrado when absent; ErrBoletoNaoPendente once registered.
func (s *BoletoService) DeletarBoleto(ctx context.Context, id uint) error {
	boleto, err := s.boletoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoletoNaoEncontrado
		}
		return err
	}

	if !boleto.MayDeletar() {
		return ErrBoletoNaoPendente
	}

	return s.boletoRepo.Delete(ctx, id)
}

// BuscarPorID returns a boleto with its config and payer loaded
func (s *BoletoService) BuscarPorID(ctx context.Context, id uint) (*models.Boleto, error) {
	boleto, err := s.boletoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoletoNaoEncontrado
		}
		return nil, err
	}
	return boleto, nil
}

// Listar returns boletos matching the query
func (s *BoletoService) Listar(ctx context.Context, query *repository.BoletoQuery) ([]models.Boleto, int64, error) {
	return s.boletoRepo.List(ctx, query)
}

// Logs returns the API operation trail for one boleto
func (s *BoletoService) Logs(ctx context.Context, boletoID uint) ([]models.BoletoAPILog, error) {
	if _, err := s.BuscarPorID(ctx, boletoID); err != nil {
		return nil, err
	}
	return s.boletoRepo.FindLogsByBoleto(ctx, boletoID)
}

// Estatisticas summarizes the boleto portfolio per status
type Estatisticas struct {
	Pendentes   int64 `json:"pendentes"`
	Registrados int64 `json:"registrados"`
	Pagos       int64 `json:"pagos"`
	Vencidos    int64 `json:"vencidos"`
	ComErro     int64 `json:"com_erro"`
}

// GetEstatisticas counts boletos per lifecycle status
func (s *BoletoService) GetEstatisticas(ctx context.Context) (*Estatisticas, error) {
	stats := &Estatisticas{}
	contagens := map[string]*int64{
		models.BoletoStatusPendente:   &stats.Pendentes,
		models.BoletoStatusRegistrado: &stats.Registrados,
		models.BoletoStatusPago:       &stats.Pagos,
		models.BoletoStatusVencido:    &stats.Vencidos,
		models.BoletoStatusErro:       &stats.ComErro,
	}
	for status, destino := range contagens {
		_, total, err := s.boletoRepo.List(ctx, &repository.BoletoQuery{
			ListQuery: &repository.ListQuery{PerPage: 1, Page: 1},
			Status:    status,
		})
		if err != nil {
			return nil, err
		}
		*destino = total
	}
	return stats, nil
}
