package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// LancamentoRepository defines the interface for financial posting data access
type LancamentoRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lancamento, error)
	FindByIDWithBaixas(ctx context.Context, id uint) (*models.Lancamento, error)
	FindEmAtraso(ctx context.Context, ref time.Time) ([]models.Lancamento, error)
	FindPorPeriodo(ctx context.Context, proprietarioID uint, inicio, fim time.Time) ([]models.Lancamento, error)
	Create(ctx context.Context, lancamento *models.Lancamento) error
	Update(ctx context.Context, lancamento *models.Lancamento) error
	List(ctx context.Context, query *LancamentoQuery) ([]models.Lancamento, int64, error)
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// LancamentoQuery extends ListQuery with posting-specific filters
type LancamentoQuery struct {
	*ListQuery
	ContratoID     uint
	InquilinoID    uint
	ProprietarioID uint
	Natureza       string
	Status         string
	Competencia    string
	VencimentoDe   *time.Time
	VencimentoAte  *time.Time
}

type lancamentoRepository struct {
	db *gorm.DB
}

// NewLancamentoRepository creates a new posting repository
func NewLancamentoRepository(db *gorm.DB) LancamentoRepository {
	return &lancamentoRepository{db: db}
}

func (r *lancamentoRepository) FindByID(ctx context.Context, id uint) (*models.Lancamento, error) {
	var lancamento models.Lancamento
	err := r.db.WithContext(ctx).First(&lancamento, id).Error
	if err != nil {
		return nil, err
	}
	return &lancamento, nil
}

func (r *lancamentoRepository) FindByIDWithBaixas(ctx context.Context, id uint) (*models.Lancamento, error) {
	var lancamento models.Lancamento
	err := r.db.WithContext(ctx).
		Preload("Baixas", func(db *gorm.DB) *gorm.DB {
			return db.Order("data_pagamento ASC")
		}).
		Preload("Inquilino").
		Preload("Proprietario").
		First(&lancamento, id).Error
	if err != nil {
		return nil, err
	}
	return &lancamento, nil
}

func (r *lancamentoRepository) FindEmAtraso(ctx context.Context, ref time.Time) ([]models.Lancamento, error) {
	var lancamentos []models.Lancamento
	err := r.db.WithContext(ctx).
		Where("status = ? AND data_vencimento < ?", models.LancamentoStatusAberto, ref.Format("2006-01-02")).
		Preload("Inquilino").
		Preload("Imovel").
		Preload("Contrato").
		Order("data_vencimento ASC").
		Find(&lancamentos).Error
	return lancamentos, err
}

// FindPorPeriodo returns the owner's postings with payment date inside the
// period, estornadas excluded. Feeds the settlement statement.
func (r *lancamentoRepository) FindPorPeriodo(ctx context.Context, proprietarioID uint, inicio, fim time.Time) ([]models.Lancamento, error) {
	var lancamentos []models.Lancamento
	err := r.db.WithContext(ctx).
		Joins("JOIN baixas ON baixas.lancamento_id = lancamentos.id AND baixas.estornada = FALSE").
		Where("lancamentos.proprietario_id = ?", proprietarioID).
		Where("baixas.data_pagamento BETWEEN ? AND ?", inicio.Format("2006-01-02"), fim.Format("2006-01-02")).
		Preload("Baixas", "estornada = ?", false).
		Preload("Contrato").
		Preload("Inquilino").
		Preload("Imovel").
		Distinct().
		Find(&lancamentos).Error
	return lancamentos, err
}

func (r *lancamentoRepository) Create(ctx context.Context, lancamento *models.Lancamento) error {
	return r.db.WithContext(ctx).Create(lancamento).Error
}

func (r *lancamentoRepository) Update(ctx context.Context, lancamento *models.Lancamento) error {
	return r.db.WithContext(ctx).Save(lancamento).Error
}

func (r *lancamentoRepository) List(ctx context.Context, query *LancamentoQuery) ([]models.Lancamento, int64, error) {
	var lancamentos []models.Lancamento
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lancamento{})

	if query.ContratoID > 0 {
		db = db.Where("contrato_id = ?", query.ContratoID)
	}
	if query.InquilinoID > 0 {
		db = db.Where("inquilino_id = ?", query.InquilinoID)
	}
	if query.ProprietarioID > 0 {
		db = db.Where("proprietario_id = ?", query.ProprietarioID)
	}
	if query.Natureza != "" {
		db = db.Where("natureza = ?", query.Natureza)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Competencia != "" {
		db = db.Where("competencia = ?", query.Competencia)
	}
	if query.VencimentoDe != nil {
		db = db.Where("data_vencimento >= ?", query.VencimentoDe.Format("2006-01-02"))
	}
	if query.VencimentoAte != nil {
		db = db.Where("data_vencimento <= ?", query.VencimentoAte.Format("2006-01-02"))
	}
	if query.Search != "" {
		db = db.Where("descricao ILIKE ?", "%"+query.Search+"%")
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("data_vencimento DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Inquilino").
		Preload("Proprietario").
		Find(&lancamentos).Error
	return lancamentos, total, err
}

// WithTransaction runs fn inside a database transaction. Write-off and
// reversal flows mutate posting and baixa rows atomically through it.
func (r *lancamentoRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// BaixaRepository defines the interface for write-off data access
type BaixaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Baixa, error)
	FindByLancamento(ctx context.Context, lancamentoID uint) ([]models.Baixa, error)
	FindPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]models.Baixa, error)
	Create(ctx context.Context, baixa *models.Baixa) error
	Update(ctx context.Context, baixa *models.Baixa) error
}

type baixaRepository struct {
	db *gorm.DB
}

// NewBaixaRepository creates a new write-off repository
func NewBaixaRepository(db *gorm.DB) BaixaRepository {
	return &baixaRepository{db: db}
}

func (r *baixaRepository) FindByID(ctx context.Context, id uint) (*models.Baixa, error) {
	var baixa models.Baixa
	err := r.db.WithContext(ctx).
		Preload("Lancamento").
		First(&baixa, id).Error
	if err != nil {
		return nil, err
	}
	return &baixa, nil
}

func (r *baixaRepository) FindByLancamento(ctx context.Context, lancamentoID uint) ([]models.Baixa, error) {
	var baixas []models.Baixa
	err := r.db.WithContext(ctx).
		Where("lancamento_id = ?", lancamentoID).
		Order("data_pagamento ASC").
		Find(&baixas).Error
	return baixas, err
}

func (r *baixaRepository) FindPorPeriodo(ctx context.Context, inicio, fim time.Time) ([]models.Baixa, error) {
	var baixas []models.Baixa
	err := r.db.WithContext(ctx).
		Where("estornada = ? AND data_pagamento BETWEEN ? AND ?", false,
			inicio.Format("2006-01-02"), fim.Format("2006-01-02")).
		Preload("Lancamento").
		Find(&baixas).Error
	return baixas, err
}

func (r *baixaRepository) Create(ctx context.Context, baixa *models.Baixa) error {
	return r.db.WithContext(ctx).Create(baixa).Error
}

func (r *baixaRepository) Update(ctx context.Context, baixa *models.Baixa) error {
	return r.db.WithContext(ctx).Save(baixa).Error
}
