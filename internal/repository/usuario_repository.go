package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// UsuarioRepository defines the interface for user data access
type UsuarioRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*models.Usuario, error)
	Create(ctx context.Context, usuario *models.Usuario) error
	Update(ctx context.Context, usuario *models.Usuario) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Usuario, int64, error)
	FindAdmins(ctx context.Context) ([]models.Usuario, error)
}

type usuarioRepository struct {
	db *gorm.DB
}

// NewUsuarioRepository creates a new user repository
func NewUsuarioRepository(db *gorm.DB) UsuarioRepository {
	return &usuarioRepository{db: db}
}

func (r *usuarioRepository) FindByID(ctx context.Context, id uint) (*models.Usuario, error) {
	var usuario models.Usuario
	err := r.db.WithContext(ctx).
		Where("descartado_em IS NULL").
		First(&usuario, id).Error
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepository) FindByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	var usuario models.Usuario
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND descartado_em IS NULL", email).
		First(&usuario).Error
	if err != nil {
		return nil, err
	}
	return &usuario, nil
}

func (r *usuarioRepository) Create(ctx context.Context, usuario *models.Usuario) error {
	if err := r.db.WithContext(ctx).Create(usuario).Error; err != nil {
		if isDuplicateKeyError(err, "usuarios_email_key") {
			return errors.New("Já existe um usuário com este e-mail")
		}
		return err
	}
	return nil
}

func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
	}
	return false
}

func (r *usuarioRepository) Update(ctx context.Context, usuario *models.Usuario) error {
	return r.db.WithContext(ctx).Save(usuario).Error
}

func (r *usuarioRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("id = ?", id).
		Update("descartado_em", gorm.Expr("NOW()")).Error
}

func (r *usuarioRepository) Restore(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Usuario{}).
		Where("id = ?", id).
		Update("descartado_em", nil).Error
}

func (r *usuarioRepository) List(ctx context.Context, query *ListQuery) ([]models.Usuario, int64, error) {
	var usuarios []models.Usuario
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Usuario{}).Where("descartado_em IS NULL")

	// Apply search
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nome ILIKE ? OR email ILIKE ?", search, search)
	}

	// Apply profile filter
	if query.Filters["perfil"] != "" {
		db = db.Where("perfil = ?", query.Filters["perfil"])
	}

	// Apply status filter
	if query.Filters["status"] != "" {
		db = db.Where("status = ?", query.Filters["status"])
	}

	// Count total
	db.Count(&total)

	// Apply sorting
	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("created_at DESC")
	}

	// Apply pagination
	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&usuarios).Error
	return usuarios, total, err
}

func (r *usuarioRepository) FindAdmins(ctx context.Context) ([]models.Usuario, error) {
	var usuarios []models.Usuario
	err := r.db.WithContext(ctx).
		Where("perfil = ? AND status = ? AND descartado_em IS NULL", models.PerfilAdmin, models.StatusUsuarioAtivo).
		Find(&usuarios).Error
	return usuarios, err
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}
