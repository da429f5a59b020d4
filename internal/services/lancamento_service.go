package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// LancamentoService manages financial postings and their write-offs
type LancamentoService struct {
	lancamentoRepo repository.LancamentoRepository
	baixaRepo      repository.BaixaRepository
	auditoria      *AuditoriaService
	notificacao    *NotificacaoService
}

// NewLancamentoService creates a new posting service
func NewLancamentoService(
	lancamentoRepo repository.LancamentoRepository,
	baixaRepo repository.BaixaRepository,
	auditoria *AuditoriaService,
	notificacao *NotificacaoService,
) *LancamentoService {
	return &LancamentoService{
		lancamentoRepo: lancamentoRepo,
		baixaRepo:      baixaRepo,
		auditoria:      auditoria,
		notificacao:    notificacao,
	}
}

// Criar persists a posting, computing total and opening balance from the
// value components
func (s *LancamentoService) Criar(ctx context.Context, lancamento *models.Lancamento) (*models.Lancamento, error) {
	lancamento.ValorTotal = lancamento.CalcularTotal()
	lancamento.Saldo = lancamento.ValorTotal
	lancamento.ValorPago = decimal.Zero
	if lancamento.Status == "" {
		lancamento.Status = models.LancamentoStatusAberto
	}

	if err := s.lancamentoRepo.Create(ctx, lancamento); err != nil {
		return nil, err
	}
	return lancamento, nil
}

// DadosBaixa carries the write-off input
type DadosBaixa struct {
	ContaBancaria  string           `json:"conta_bancaria" binding:"required"`
	DataPagamento  time.Time        `json:"data_pagamento" binding:"required"`
	ValorPago      decimal.Decimal  `json:"valor_pago" binding:"required"`
	MultaPaga      *decimal.Decimal `json:"multa_paga"`
	JurosPagos     *decimal.Decimal `json:"juros_pagos"`
	ValorDesconto  *decimal.Decimal `json:"valor_desconto"`
	FormaPagamento string           `json:"forma_pagamento" binding:"required"`
	NumeroDocumento *string         `json:"numero_documento"`
}

// RegistrarBaixa settles (part of) a posting. The baixa row and the posting's
// pago/saldo/status all change in one transaction.
func (s *LancamentoService) RegistrarBaixa(ctx context.Context, lancamentoID uint, dados *DadosBaixa, usuarioID *uint) (*models.Baixa, error) {
	lancamento, err := s.lancamentoRepo.FindByID(ctx, lancamentoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if lancamento.Status == models.LancamentoStatusCancelado {
		return nil, ErrLancamentoCancelado
	}

	baixa := &models.Baixa{
		LancamentoID:    lancamento.ID,
		ContaBancaria:   dados.ContaBancaria,
		DataPagamento:   dados.DataPagamento,
		ValorPago:       dados.ValorPago,
		MultaPaga:       dados.MultaPaga,
		JurosPagos:      dados.JurosPagos,
		ValorDesconto:   dados.ValorDesconto,
		FormaPagamento:  dados.FormaPagamento,
		NumeroDocumento: dados.NumeroDocumento,
		CriadorID:       usuarioID,
	}
	baixa.ValorTotal = baixa.CalcularTotal()

	err = s.lancamentoRepo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(baixa).Error; err != nil {
			return err
		}
		return s.recalcularLancamento(tx, lancamento)
	})
	if err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoBaixa, "Lancamento", lancamento.ID,
		fmt.Sprintf("baixa de %s via %s", moeda.Formatar(baixa.ValorTotal), baixa.FormaPagamento))

	logger.Info("Baixa registrada",
		"lancamento_id", lancamento.ID,
		"baixa_id", baixa.ID,
		"valor", baixa.ValorTotal.StringFixed(2),
		"status", lancamento.Status)

	return baixa, nil
}

// recalcularLancamento recomputes pago/saldo/status from the posting's
// non-reversed baixas inside tx
func (s *LancamentoService) recalcularLancamento(tx *gorm.DB, lancamento *models.Lancamento) error {
	var baixas []models.Baixa
	if err := tx.Where("lancamento_id = ? AND estornada = ?", lancamento.ID, false).
		Find(&baixas).Error; err != nil {
		return err
	}

	pago := decimal.Zero
	for _, b := range baixas {
		pago = pago.Add(b.ValorTotal)
	}

	lancamento.ValorPago = pago.Round(2)
	lancamento.Saldo = lancamento.CalcularSaldo()

	switch {
	case lancamento.Saldo.LessThanOrEqual(decimal.Zero) && pago.GreaterThan(decimal.Zero):
		lancamento.Status = models.LancamentoStatusPago
	case pago.GreaterThan(decimal.Zero):
		lancamento.Status = models.LancamentoStatusParcial
	default:
		lancamento.Status = models.LancamentoStatusAberto
	}

	return tx.Save(lancamento).Error
}

// EstornarBaixa reverses a write-off. The estorno flags and the parent
// posting's recomputed pago/saldo/status commit in the same transaction.
func (s *LancamentoService) EstornarBaixa(ctx context.Context, baixaID uint, motivo string, usuarioID *uint) (*models.Baixa, error) {
	baixa, err := s.baixaRepo.FindByID(ctx, baixaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !baixa.MayEstornar() {
		return nil, ErrBaixaJaEstornada
	}

	lancamento, err := s.lancamentoRepo.FindByID(ctx, baixa.LancamentoID)
	if err != nil {
		return nil, err
	}

	baixa.Estornar(motivo)

	err = s.lancamentoRepo.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Save(baixa).Error; err != nil {
			return err
		}
		return s.recalcularLancamento(tx, lancamento)
	})
	if err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoEstorno, "Baixa", baixa.ID,
		fmt.Sprintf("estorno de %s: %s", moeda.Formatar(baixa.ValorTotal), motivo))

	logger.Info("Baixa estornada",
		"baixa_id", baixa.ID,
		"lancamento_id", lancamento.ID,
		"novo_status", lancamento.Status)

	return baixa, nil
}

// MarcarVencidos notifies admins about postings past due. Runs daily.
func (s *LancamentoService) MarcarVencidos(ctx context.Context) (int, error) {
	vencidos, err := s.lancamentoRepo.FindEmAtraso(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	for i := range vencidos {
		l := &vencidos[i]
		s.notificacao.NotificarAdminsAsync(
			"Lançamento em atraso",
			fmt.Sprintf("Lançamento #%d (%s) vencido há %d dia(s), saldo %s",
				l.ID, l.Descricao, l.GetDiasAtraso(), moeda.Formatar(l.Saldo)),
			models.NotificacaoTipoLancamentoAtrasado,
		)
	}

	return len(vencidos), nil
}

// BuscarPorID returns a posting with its write-offs loaded
func (s *LancamentoService) BuscarPorID(ctx context.Context, id uint) (*models.Lancamento, error) {
	lancamento, err := s.lancamentoRepo.FindByIDWithBaixas(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lancamento, nil
}

// Listar returns postings matching the query
func (s *LancamentoService) Listar(ctx context.Context, query *repository.LancamentoQuery) ([]models.Lancamento, int64, error) {
	return s.lancamentoRepo.List(ctx, query)
}
