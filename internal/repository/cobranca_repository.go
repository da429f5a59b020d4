package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// CobrancaRepository defines the interface for monthly charge data access
type CobrancaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Cobranca, error)
	FindByIDWithDetails(ctx context.Context, id uint) (*models.Cobranca, error)
	FindByContratoECompetencia(ctx context.Context, contratoID uint, competencia string) (*models.Cobranca, error)
	ExisteCobranca(ctx context.Context, contratoID uint, competencia string) (bool, error)
	FindPendentesSemBoleto(ctx context.Context) ([]models.Cobranca, error)
	FindParaEnvio(ctx context.Context) ([]models.Cobranca, error)
	FindVencendoEm(ctx context.Context, data time.Time) ([]models.Cobranca, error)
	Create(ctx context.Context, cobranca *models.Cobranca) error
	Update(ctx context.Context, cobranca *models.Cobranca) error
	List(ctx context.Context, query *CobrancaQuery) ([]models.Cobranca, int64, error)
}

// CobrancaQuery extends ListQuery with charge-specific filters
type CobrancaQuery struct {
	*ListQuery
	ContratoID  uint
	Competencia string
	Status      string
}

type cobrancaRepository struct {
	db *gorm.DB
}

// NewCobrancaRepository creates a new charge repository
func NewCobrancaRepository(db *gorm.DB) CobrancaRepository {
	return &cobrancaRepository{db: db}
}

func (r *cobrancaRepository) FindByID(ctx context.Context, id uint) (*models.Cobranca, error) {
	var cobranca models.Cobranca
	err := r.db.WithContext(ctx).First(&cobranca, id).Error
	if err != nil {
		return nil, err
	}
	return &cobranca, nil
}

func (r *cobrancaRepository) FindByIDWithDetails(ctx context.Context, id uint) (*models.Cobranca, error) {
	var cobranca models.Cobranca
	err := r.db.WithContext(ctx).
		Preload("Contrato.Inquilino").
		Preload("Contrato.Imovel").
		Preload("Boleto").
		First(&cobranca, id).Error
	if err != nil {
		return nil, err
	}
	return &cobranca, nil
}

func (r *cobrancaRepository) FindByContratoECompetencia(ctx context.Context, contratoID uint, competencia string) (*models.Cobranca, error) {
	var cobranca models.Cobranca
	err := r.db.WithContext(ctx).
		Where("contrato_id = ? AND competencia = ?", contratoID, competencia).
		First(&cobranca).Error
	if err != nil {
		return nil, err
	}
	return &cobranca, nil
}

// ExisteCobranca reports whether any charge (cancelled included) exists for
// the contract and accrual month. Cancelled charges block regeneration so a
// manual review is forced.
func (r *cobrancaRepository) ExisteCobranca(ctx context.Context, contratoID uint, competencia string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Cobranca{}).
		Where("contrato_id = ? AND competencia = ?", contratoID, competencia).
		Count(&count).Error
	return count > 0, err
}

func (r *cobrancaRepository) FindPendentesSemBoleto(ctx context.Context) ([]models.Cobranca, error) {
	var cobrancas []models.Cobranca
	err := r.db.WithContext(ctx).
		Where("status = ? AND boleto_id IS NULL", models.CobrancaStatusPendente).
		Preload("Contrato.Inquilino").
		Find(&cobrancas).Error
	return cobrancas, err
}

// FindParaEnvio returns charges with a registered boleto not yet emailed,
// limited to contracts with automatic email enabled.
func (r *cobrancaRepository) FindParaEnvio(ctx context.Context) ([]models.Cobranca, error) {
	var cobrancas []models.Cobranca
	err := r.db.WithContext(ctx).
		Joins("JOIN contratos ON contratos.id = cobrancas.contrato_id").
		Where("cobrancas.status = ? AND cobrancas.enviada_em IS NULL", models.CobrancaStatusBoletoGerado).
		Where("contratos.email_automatico = ?", true).
		Where("cobrancas.bloquear_automatica = ?", false).
		Preload("Contrato.Inquilino").
		Preload("Boleto").
		Find(&cobrancas).Error
	return cobrancas, err
}

func (r *cobrancaRepository) FindVencendoEm(ctx context.Context, data time.Time) ([]models.Cobranca, error) {
	var cobrancas []models.Cobranca
	err := r.db.WithContext(ctx).
		Where("data_vencimento = ? AND status IN ?", data.Format("2006-01-02"),
			[]string{models.CobrancaStatusBoletoGerado, models.CobrancaStatusEnviada}).
		Preload("Contrato.Inquilino").
		Preload("Boleto").
		Find(&cobrancas).Error
	return cobrancas, err
}

func (r *cobrancaRepository) Create(ctx context.Context, cobranca *models.Cobranca) error {
	return r.db.WithContext(ctx).Create(cobranca).Error
}

func (r *cobrancaRepository) Update(ctx context.Context, cobranca *models.Cobranca) error {
	return r.db.WithContext(ctx).Save(cobranca).Error
}

func (r *cobrancaRepository) List(ctx context.Context, query *CobrancaQuery) ([]models.Cobranca, int64, error) {
	var cobrancas []models.Cobranca
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Cobranca{})

	if query.ContratoID > 0 {
		db = db.Where("contrato_id = ?", query.ContratoID)
	}
	if query.Competencia != "" {
		db = db.Where("competencia = ?", query.Competencia)
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
		db = db.Order("data_vencimento DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Contrato.Inquilino").
		Preload("Boleto").
		Find(&cobrancas).Error
	return cobrancas, total, err
}
