package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// BoletoRepository defines the interface for boleto data access
type BoletoRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Boleto, error)
	FindByNossoNumero(ctx context.Context, nossoNumero string) (*models.Boleto, error)
	FindPendentesRegistro(ctx context.Context, limite int) ([]models.Boleto, error)
	FindRegistradosParaConsulta(ctx context.Context, configID uint) ([]models.Boleto, error)
	ProximaSequencia(ctx context.Context, configID uint) (int64, error)
	Create(ctx context.Context, boleto *models.Boleto) error
	Update(ctx context.Context, boleto *models.Boleto) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *BoletoQuery) ([]models.Boleto, int64, error)
	LogOperacao(ctx context.Context, log *models.BoletoAPILog) error
	FindLogsByBoleto(ctx context.Context, boletoID uint) ([]models.BoletoAPILog, error)
}

// BoletoQuery extends ListQuery with boleto-specific filters
type BoletoQuery struct {
	*ListQuery
	BancoConfigID uint
	PagadorID     uint
	Status        string
}

type boletoRepository struct {
	db *gorm.DB
}

// NewBoletoRepository creates a new boleto repository
func NewBoletoRepository(db *gorm.DB) BoletoRepository {
	return &boletoRepository{db: db}
}

func (r *boletoRepository) FindByID(ctx context.Context, id uint) (*models.Boleto, error) {
	var boleto models.Boleto
	err := r.db.WithContext(ctx).
		Preload("BancoConfig").
		Preload("Pagador").
		First(&boleto, id).Error
	if err != nil {
		return nil, err
	}
	return &boleto, nil
}

func (r *boletoRepository) FindByNossoNumero(ctx context.Context, nossoNumero string) (*models.Boleto, error) {
	var boleto models.Boleto
	err := r.db.WithContext(ctx).
		Where("nosso_numero = ?", nossoNumero).
		First(&boleto).Error
	if err != nil {
		return nil, err
	}
	return &boleto, nil
}

func (r *boletoRepository) FindPendentesRegistro(ctx context.Context, limite int) ([]models.Boleto, error) {
	var boletos []models.Boleto
	db := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.BoletoStatusPendente, models.BoletoStatusErro}).
		Preload("BancoConfig").
		Preload("Pagador").
		Order("created_at ASC")
	if limite > 0 {
		db = db.Limit(limite)
	}
	err := db.Find(&boletos).Error
	return boletos, err
}

func (r *boletoRepository) FindRegistradosParaConsulta(ctx context.Context, configID uint) ([]models.Boleto, error) {
	var boletos []models.Boleto
	err := r.db.WithContext(ctx).
		Where("banco_config_id = ? AND status IN ?", configID,
			[]string{models.BoletoStatusRegistrado, models.BoletoStatusVencido}).
		Find(&boletos).Error
	return boletos, err
}

// ProximaSequencia reserves the next nosso número sequence for a bank config.
// A dedicated counter row is locked and incremented so concurrent issuers
// never share a number.
func (r *boletoRepository) ProximaSequencia(ctx context.Context, configID uint) (int64, error) {
	var seq int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Raw(`
			INSERT INTO boleto_sequencias (banco_config_id, ultimo_numero)
			VALUES (?, 1)
			ON CONFLICT (banco_config_id)
			DO UPDATE SET ultimo_numero = boleto_sequencias.ultimo_numero + 1
			RETURNING ultimo_numero
		`, configID).Row()
		if row == nil {
			return errors.New("falha ao reservar sequência de nosso número")
		}
		return row.Scan(&seq)
	})
	if err != nil {
		return 0, fmt.Errorf("sequência do convênio %d: %w", configID, err)
	}
	return seq, nil
}

func (r *boletoRepository) Create(ctx context.Context, boleto *models.Boleto) error {
	return r.db.WithContext(ctx).Create(boleto).Error
}

func (r *boletoRepository) Update(ctx context.Context, boleto *models.Boleto) error {
	return r.db.WithContext(ctx).Save(boleto).Error
}

func (r *boletoRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Boleto{}, id).Error
}

func (r *boletoRepository) List(ctx context.Context, query *BoletoQuery) ([]models.Boleto, int64, error) {
	var boletos []models.Boleto
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Boleto{})

	if query.BancoConfigID > 0 {
		db = db.Where("banco_config_id = ?", query.BancoConfigID)
	}
	if query.PagadorID > 0 {
		db = db.Where("pagador_id = ?", query.PagadorID)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nosso_numero ILIKE ? OR seu_numero ILIKE ?", search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.
		Preload("Pagador").
		Find(&boletos).Error
	return boletos, total, err
}

func (r *boletoRepository) LogOperacao(ctx context.Context, log *models.BoletoAPILog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *boletoRepository) FindLogsByBoleto(ctx context.Context, boletoID uint) ([]models.BoletoAPILog, error) {
	var logs []models.BoletoAPILog
	err := r.db.WithContext(ctx).
		Where("boleto_id = ?", boletoID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// BancoConfigRepository defines the interface for bank API config data access
type BancoConfigRepository interface {
	FindByID(ctx context.Context, id uint) (*models.BancoAPIConfig, error)
	FindAtivas(ctx context.Context) ([]models.BancoAPIConfig, error)
	Create(ctx context.Context, config *models.BancoAPIConfig) error
	Update(ctx context.Context, config *models.BancoAPIConfig) error
	SalvarToken(ctx context.Context, config *models.BancoAPIConfig) error
	FindCertificadosVencendo(ctx context.Context, dias int) ([]models.BancoAPIConfig, error)
}

type bancoConfigRepository struct {
	db *gorm.DB
}

// NewBancoConfigRepository creates a new bank config repository
func NewBancoConfigRepository(db *gorm.DB) BancoConfigRepository {
	return &bancoConfigRepository{db: db}
}

func (r *bancoConfigRepository) FindByID(ctx context.Context, id uint) (*models.BancoAPIConfig, error) {
	var config models.BancoAPIConfig
	err := r.db.WithContext(ctx).First(&config, id).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *bancoConfigRepository) FindAtivas(ctx context.Context) ([]models.BancoAPIConfig, error) {
	var configs []models.BancoAPIConfig
	err := r.db.WithContext(ctx).
		Where("ativo = ?", true).
		Find(&configs).Error
	return configs, err
}

func (r *bancoConfigRepository) Create(ctx context.Context, config *models.BancoAPIConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}

func (r *bancoConfigRepository) Update(ctx context.Context, config *models.BancoAPIConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// SalvarToken persists only the cached token columns
func (r *bancoConfigRepository) SalvarToken(ctx context.Context, config *models.BancoAPIConfig) error {
	return r.db.WithContext(ctx).
		Model(&models.BancoAPIConfig{}).
		Where("id = ?", config.ID).
		Select("AccessToken", "TokenExpiraEm").
		Updates(config).Error
}

func (r *bancoConfigRepository) FindCertificadosVencendo(ctx context.Context, dias int) ([]models.BancoAPIConfig, error) {
	var configs []models.BancoAPIConfig
	err := r.db.WithContext(ctx).
		Where("ativo = ? AND certificado_validade IS NOT NULL", true).
		Where("certificado_validade <= NOW() + make_interval(days => ?)", dias).
		Find(&configs).Error
	return configs, err
}
