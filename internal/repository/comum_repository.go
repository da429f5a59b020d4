package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// NotificacaoRepository defines the interface for notification data access
type NotificacaoRepository interface {
	FindByUsuario(ctx context.Context, usuarioID uint, query *ListQuery) ([]models.Notificacao, int64, error)
	Create(ctx context.Context, notificacao *models.Notificacao) error
	MarcarLida(ctx context.Context, id, usuarioID uint) error
	MarcarTodasLidas(ctx context.Context, usuarioID uint) error
	CountNaoLidas(ctx context.Context, usuarioID uint) (int64, error)
}

type notificacaoRepository struct {
	db *gorm.DB
}

// NewNotificacaoRepository creates a new notification repository
func NewNotificacaoRepository(db *gorm.DB) NotificacaoRepository {
	return &notificacaoRepository{db: db}
}

func (r *notificacaoRepository) FindByUsuario(ctx context.Context, usuarioID uint, query *ListQuery) ([]models.Notificacao, int64, error) {
	var notificacoes []models.Notificacao
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Notificacao{}).Where("usuario_id = ?", usuarioID)

	if query.Filters["nao_lidas"] == "true" {
		db = db.Where("lida_em IS NULL")
	}

	db.Count(&total)

	db = db.Order("created_at DESC")
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&notificacoes).Error
	return notificacoes, total, err
}

func (r *notificacaoRepository) Create(ctx context.Context, notificacao *models.Notificacao) error {
	return r.db.WithContext(ctx).Create(notificacao).Error
}

func (r *notificacaoRepository) MarcarLida(ctx context.Context, id, usuarioID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Notificacao{}).
		Where("id = ? AND usuario_id = ?", id, usuarioID).
		Update("lida_em", time.Now()).Error
}

func (r *notificacaoRepository) MarcarTodasLidas(ctx context.Context, usuarioID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Notificacao{}).
		Where("usuario_id = ? AND lida_em IS NULL", usuarioID).
		Update("lida_em", time.Now()).Error
}

func (r *notificacaoRepository) CountNaoLidas(ctx context.Context, usuarioID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notificacao{}).
		Where("usuario_id = ? AND lida_em IS NULL", usuarioID).
		Count(&count).Error
	return count, err
}

// RefreshTokenRepository defines the interface for refresh token data access
type RefreshTokenRepository interface {
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Create(ctx context.Context, refreshToken *models.RefreshToken) error
	Delete(ctx context.Context, token string) error
	DeleteByUsuario(ctx context.Context, usuarioID uint) error
	DeleteExpirados(ctx context.Context) error
}

type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&refreshToken).Error
	if err != nil {
		return nil, err
	}
	return &refreshToken, nil
}

func (r *refreshTokenRepository) Create(ctx context.Context, refreshToken *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(refreshToken).Error
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteByUsuario(ctx context.Context, usuarioID uint) error {
	return r.db.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Delete(&models.RefreshToken{}).Error
}

func (r *refreshTokenRepository) DeleteExpirados(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expira_em < ?", time.Now()).
		Delete(&models.RefreshToken{}).Error
}

// EmailLogRepository defines the interface for email log data access
type EmailLogRepository interface {
	Create(ctx context.Context, log *models.EmailLog) error
	FindByCobranca(ctx context.Context, cobrancaID uint) ([]models.EmailLog, error)
}

type emailLogRepository struct {
	db *gorm.DB
}

// NewEmailLogRepository creates a new email log repository
func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Create(ctx context.Context, log *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *emailLogRepository) FindByCobranca(ctx context.Context, cobrancaID uint) ([]models.EmailLog, error) {
	var logs []models.EmailLog
	err := r.db.WithContext(ctx).
		Where("cobranca_id = ?", cobrancaID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

// AuditoriaRepository defines the interface for audit log data access
type AuditoriaRepository interface {
	Create(ctx context.Context, entrada *models.Auditoria) error
	FindByEntidade(ctx context.Context, entidade string, entidadeID uint) ([]models.Auditoria, error)
}

type auditoriaRepository struct {
	db *gorm.DB
}

// NewAuditoriaRepository creates a new audit log repository
func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository {
	return &auditoriaRepository{db: db}
}

func (r *auditoriaRepository) Create(ctx context.Context, entrada *models.Auditoria) error {
	return r.db.WithContext(ctx).Create(entrada).Error
}

func (r *auditoriaRepository) FindByEntidade(ctx context.Context, entidade string, entidadeID uint) ([]models.Auditoria, error) {
	var entradas []models.Auditoria
	err := r.db.WithContext(ctx).
		Where("entidade = ? AND entidade_id = ?", entidade, entidadeID).
		Order("created_at DESC").
		Find(&entradas).Error
	return entradas, err
}
