package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// ContratoRepository defines the interface for lease contract data access
type ContratoRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Contrato, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Contrato, error)
	FindByImovel(ctx context.Context, imovelID uint) ([]models.Contrato, error)
	FindByProprietario(ctx context.Context, proprietarioID uint) ([]models.Contrato, error)
	FindVigentesParaCobranca(ctx context.Context, ref time.Time) ([]models.Contrato, error)
	Create(ctx context.Context, contrato *models.Contrato) error
	Update(ctx context.Context, contrato *models.Contrato) error
	List(ctx context.Context, query *ContratoQuery) ([]models.Contrato, int64, error)
	HasContratoAtivo(ctx context.Context, imovelID uint) (bool, error)
}

// ContratoQuery extends ListQuery with contract-specific filters
type ContratoQuery struct {
	*ListQuery
	Status         string
	ImovelID       uint
	ProprietarioID uint
	InquilinoID    uint
}

type contratoRepository struct {
	db *gorm.DB
}

// NewContratoRepository creates a new contract repository
func NewContratoRepository(db *gorm.DB) ContratoRepository {
	return &contratoRepository{db: db}
}

func (r *contratoRepository) FindByID(ctx context.Context, id uint) (*models.Contrato, error) {
	var contrato models.Contrato
	err := r.db.WithContext(ctx).First(&contrato, id).Error
	if err != nil {
		return nil, err
	}
	return &contrato, nil
}

func (r *contratoRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Contrato, error) {
	var contrato models.Contrato
	// Imovel, Inquilino and Proprietario load via Joins in one query; the
	// one-to-many associations stay as Preloads.
	err := r.db.WithContext(ctx).
		Joins("Imovel").
		Joins("Inquilino").
		Joins("Proprietario").
		Preload("ItensCobranca", func(db *gorm.DB) *gorm.DB {
			return db.Where("ativo = ?", true).Order("id ASC")
		}).
		Preload("Cobrancas", func(db *gorm.DB) *gorm.DB {
			return db.Order("competencia DESC")
		}).
		First(&contrato, id).Error
	if err != nil {
		return nil, err
	}
	return &contrato, nil
}

func (r *contratoRepository) FindByImovel(ctx context.Context, imovelID uint) ([]models.Contrato, error) {
	var contratos []models.Contrato
	err := r.db.WithContext(ctx).
		Where("imovel_id = ?", imovelID).
		Preload("Inquilino").
		Find(&contratos).Error
	return contratos, err
}

func (r *contratoRepository) FindByProprietario(ctx context.Context, proprietarioID uint) ([]models.Contrato, error) {
	var contratos []models.Contrato
	err := r.db.WithContext(ctx).
		Where("proprietario_id = ?", proprietarioID).
		Preload("Imovel").
		Preload("Inquilino").
		Find(&contratos).Error
	return contratos, err
}

// FindVigentesParaCobranca returns active contracts with automatic billing
// enabled whose validity window covers the reference date.
func (r *contratoRepository) FindVigentesParaCobranca(ctx context.Context, ref time.Time) ([]models.Contrato, error) {
	var contratos []models.Contrato
	err := r.db.WithContext(ctx).
		Where("status = ? AND ativo = ? AND cobranca_automatica = ?", models.ContratoStatusAtivo, true, true).
		Where("data_inicio <= ?", ref).
		Where("data_fim IS NULL OR data_fim >= ?", ref).
		Preload("ItensCobranca", "ativo = ?", true).
		Preload("Inquilino").
		Preload("Imovel").
		Find(&contratos).Error
	return contratos, err
}

func (r *contratoRepository) Create(ctx context.Context, contrato *models.Contrato) error {
	return r.db.WithContext(ctx).Create(contrato).Error
}

func (r *contratoRepository) Update(ctx context.Context, contrato *models.Contrato) error {
	return r.db.WithContext(ctx).Save(contrato).Error
}

func (r *contratoRepository) List(ctx context.Context, query *ContratoQuery) ([]models.Contrato, int64, error) {
	var contratos []models.Contrato
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Contrato{})

	if query.Status != "" {
		db = db.Where("contratos.status = ?", query.Status)
	}
	if query.ImovelID > 0 {
		db = db.Where("contratos.imovel_id = ?", query.ImovelID)
	}
	if query.ProprietarioID > 0 {
		db = db.Where("contratos.proprietario_id = ?", query.ProprietarioID)
	}
	if query.InquilinoID > 0 {
		db = db.Where("contratos.inquilino_id = ?", query.InquilinoID)
	}

	// Search across tenant name and property code
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Joins("JOIN pessoas ON pessoas.id = contratos.inquilino_id").
			Joins("JOIN imoveis ON imoveis.id = contratos.imovel_id").
			Where("pessoas.nome ILIKE ? OR imoveis.codigo ILIKE ?", search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := "contratos." + query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("contratos.created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Imovel").
		Preload("Inquilino").
		Preload("Proprietario").
		Find(&contratos).Error
	return contratos, total, err
}

func (r *contratoRepository) HasContratoAtivo(ctx context.Context, imovelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contrato{}).
		Where("imovel_id = ? AND status = ?", imovelID, models.ContratoStatusAtivo).
		Count(&count).Error
	return count > 0, err
}

// ItemCobrancaRepository defines the interface for recurring charge line data access
type ItemCobrancaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.ItemCobranca, error)
	FindByContrato(ctx context.Context, contratoID uint) ([]models.ItemCobranca, error)
	Create(ctx context.Context, item *models.ItemCobranca) error
	Update(ctx context.Context, item *models.ItemCobranca) error
	Delete(ctx context.Context, id uint) error
}

type itemCobrancaRepository struct {
	db *gorm.DB
}

// NewItemCobrancaRepository creates a new recurring charge line repository
func NewItemCobrancaRepository(db *gorm.DB) ItemCobrancaRepository {
	return &itemCobrancaRepository{db: db}
}

func (r *itemCobrancaRepository) FindByID(ctx context.Context, id uint) (*models.ItemCobranca, error) {
	var item models.ItemCobranca
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemCobrancaRepository) FindByContrato(ctx context.Context, contratoID uint) ([]models.ItemCobranca, error) {
	var itens []models.ItemCobranca
	err := r.db.WithContext(ctx).
		Where("contrato_id = ?", contratoID).
		Order("created_at ASC").
		Find(&itens).Error
	return itens, err
}

func (r *itemCobrancaRepository) Create(ctx context.Context, item *models.ItemCobranca) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *itemCobrancaRepository) Update(ctx context.Context, item *models.ItemCobranca) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *itemCobrancaRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ItemCobranca{}, id).Error
}
