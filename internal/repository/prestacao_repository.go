package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// PrestacaoRepository defines the interface for settlement statement data access
type PrestacaoRepository interface {
	FindByID(ctx context.Context, id uint) (*models.PrestacaoContas, error)
	FindByIDWithItens(ctx context.Context, id uint) (*models.PrestacaoContas, error)
	ExistePrestacao(ctx context.Context, proprietarioID uint, inicio, fim time.Time) (bool, error)
	Create(ctx context.Context, prestacao *models.PrestacaoContas) error
	Update(ctx context.Context, prestacao *models.PrestacaoContas) error
	List(ctx context.Context, query *PrestacaoQuery) ([]models.PrestacaoContas, int64, error)
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PrestacaoQuery extends ListQuery with statement-specific filters
type PrestacaoQuery struct {
	*ListQuery
	ProprietarioID uint
	Status         string
}

type prestacaoRepository struct {
	db *gorm.DB
}

// NewPrestacaoRepository creates a new settlement statement repository
func NewPrestacaoRepository(db *gorm.DB) PrestacaoRepository {
	return &prestacaoRepository{db: db}
}

func (r *prestacaoRepository) FindByID(ctx context.Context, id uint) (*models.PrestacaoContas, error) {
	var prestacao models.PrestacaoContas
	err := r.db.WithContext(ctx).
		Preload("Proprietario").
		First(&prestacao, id).Error
	if err != nil {
		return nil, err
	}
	return &prestacao, nil
}

func (r *prestacaoRepository) FindByIDWithItens(ctx context.Context, id uint) (*models.PrestacaoContas, error) {
	var prestacao models.PrestacaoContas
	err := r.db.WithContext(ctx).
		Preload("Proprietario").
		Preload("Itens", func(db *gorm.DB) *gorm.DB {
			return db.Order("data ASC, id ASC")
		}).
		First(&prestacao, id).Error
	if err != nil {
		return nil, err
	}
	return &prestacao, nil
}

// ExistePrestacao reports whether the owner already has a statement whose
// period overlaps the given window
func (r *prestacaoRepository) ExistePrestacao(ctx context.Context, proprietarioID uint, inicio, fim time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PrestacaoContas{}).
		Where("proprietario_id = ?", proprietarioID).
		Where("periodo_inicio <= ? AND periodo_fim >= ?", fim.Format("2006-01-02"), inicio.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
}

func (r *prestacaoRepository) Create(ctx context.Context, prestacao *models.PrestacaoContas) error {
	return r.db.WithContext(ctx).Create(prestacao).Error
}

func (r *prestacaoRepository) Update(ctx context.Context, prestacao *models.PrestacaoContas) error {
	return r.db.WithContext(ctx).Save(prestacao).Error
}

func (r *prestacaoRepository) List(ctx context.Context, query *PrestacaoQuery) ([]models.PrestacaoContas, int64, error) {
	var prestacoes []models.PrestacaoContas
	var total int64

	db := r.db.WithContext(ctx).Model(&models.PrestacaoContas{})

	if query.ProprietarioID > 0 {
		db = db.Where("proprietario_id = ?", query.ProprietarioID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("periodo_inicio DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Proprietario").
		Find(&prestacoes).Error
	return prestacoes, total, err
}

func (r *prestacaoRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
