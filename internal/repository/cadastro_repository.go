package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
)

// PessoaRepository defines the interface for person data access
type PessoaRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Pessoa, error)
	FindByDocumento(ctx context.Context, documento string) (*models.Pessoa, error)
	Create(ctx context.Context, pessoa *models.Pessoa) error
	Update(ctx context.Context, pessoa *models.Pessoa) error
	List(ctx context.Context, query *PessoaQuery) ([]models.Pessoa, int64, error)
	FindProprietarios(ctx context.Context) ([]models.Pessoa, error)
}

// PessoaQuery extends ListQuery with person-specific filters
type PessoaQuery struct {
	*ListQuery
	Tipo string
}

type pessoaRepository struct {
	db *gorm.DB
}

// NewPessoaRepository creates a new person repository
func NewPessoaRepository(db *gorm.DB) PessoaRepository {
	return &pessoaRepository{db: db}
}

func (r *pessoaRepository) FindByID(ctx context.Context, id uint) (*models.Pessoa, error) {
	var pessoa models.Pessoa
	err := r.db.WithContext(ctx).First(&pessoa, id).Error
	if err != nil {
		return nil, err
	}
	return &pessoa, nil
}

func (r *pessoaRepository) FindByDocumento(ctx context.Context, documento string) (*models.Pessoa, error) {
	var pessoa models.Pessoa
	err := r.db.WithContext(ctx).
		Where("documento = ?", documento).
		First(&pessoa).Error
	if err != nil {
		return nil, err
	}
	return &pessoa, nil
}

func (r *pessoaRepository) Create(ctx context.Context, pessoa *models.Pessoa) error {
	if err := r.db.WithContext(ctx).Create(pessoa).Error; err != nil {
		if isDuplicateKeyError(err, "pessoas_documento_key") {
			return errors.New("Já existe uma pessoa com este documento")
		}
		return err
	}
	return nil
}

func (r *pessoaRepository) Update(ctx context.Context, pessoa *models.Pessoa) error {
	return r.db.WithContext(ctx).Save(pessoa).Error
}

func (r *pessoaRepository) List(ctx context.Context, query *PessoaQuery) ([]models.Pessoa, int64, error) {
	var pessoas []models.Pessoa
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Pessoa{})

	if query.Tipo != "" {
		db = db.Where("tipo = ?", query.Tipo)
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("nome ILIKE ? OR documento ILIKE ? OR email ILIKE ?", search, search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("nome ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Find(&pessoas).Error
	return pessoas, total, err
}

func (r *pessoaRepository) FindProprietarios(ctx context.Context) ([]models.Pessoa, error) {
	var pessoas []models.Pessoa
	err := r.db.WithContext(ctx).
		Where("tipo = ?", models.TipoPessoaProprietario).
		Order("nome ASC").
		Find(&pessoas).Error
	return pessoas, err
}

// ImovelRepository defines the interface for property data access
type ImovelRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Imovel, error)
	FindByCodigo(ctx context.Context, codigo string) (*models.Imovel, error)
	Create(ctx context.Context, imovel *models.Imovel) error
	Update(ctx context.Context, imovel *models.Imovel) error
	List(ctx context.Context, query *ListQuery) ([]models.Imovel, int64, error)
}

type imovelRepository struct {
	db *gorm.DB
}

// NewImovelRepository creates a new property repository
func NewImovelRepository(db *gorm.DB) ImovelRepository {
	return &imovelRepository{db: db}
}

func (r *imovelRepository) FindByID(ctx context.Context, id uint) (*models.Imovel, error) {
	var imovel models.Imovel
	err := r.db.WithContext(ctx).
		Preload("Proprietario").
		First(&imovel, id).Error
	if err != nil {
		return nil, err
	}
	return &imovel, nil
}

func (r *imovelRepository) FindByCodigo(ctx context.Context, codigo string) (*models.Imovel, error) {
	var imovel models.Imovel
	err := r.db.WithContext(ctx).
		Where("codigo = ?", codigo).
		First(&imovel).Error
	if err != nil {
		return nil, err
	}
	return &imovel, nil
}

func (r *imovelRepository) Create(ctx context.Context, imovel *models.Imovel) error {
	if err := r.db.WithContext(ctx).Create(imovel).Error; err != nil {
		if isDuplicateKeyError(err, "imoveis_codigo_key") {
			return errors.New("Já existe um imóvel com este código")
		}
		return err
	}
	return nil
}

func (r *imovelRepository) Update(ctx context.Context, imovel *models.Imovel) error {
	return r.db.WithContext(ctx).Save(imovel).Error
}

func (r *imovelRepository) List(ctx context.Context, query *ListQuery) ([]models.Imovel, int64, error) {
	var imoveis []models.Imovel
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Imovel{})

	if query.Filters["tipo"] != "" {
		db = db.Where("tipo = ?", query.Filters["tipo"])
	}
	if query.Filters["proprietario_id"] != "" {
		db = db.Where("proprietario_id = ?", query.Filters["proprietario_id"])
	}
	if query.Search != "" {
		search := "%" + query.Search + "%"
		db = db.Where("codigo ILIKE ? OR logradouro ILIKE ? OR bairro ILIKE ?", search, search, search)
	}

	db.Count(&total)

	if query.SortBy != "" {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order("codigo ASC")
	}

	if query.PerPage > 0 {
		db = db.Offset((query.Page - 1) * query.PerPage).Limit(query.PerPage)
	}

	err := db.Preload("Proprietario").Find(&imoveis).Error
	return imoveis, total, err
}

// EnderecoRepository defines the interface for the postal-code cache
type EnderecoRepository interface {
	FindByCEP(ctx context.Context, cep string) (*models.EnderecoCEP, error)
	Upsert(ctx context.Context, endereco *models.EnderecoCEP) error
}

type enderecoRepository struct {
	db *gorm.DB
}

// NewEnderecoRepository creates a new postal-code cache repository
func NewEnderecoRepository(db *gorm.DB) EnderecoRepository {
	return &enderecoRepository{db: db}
}

func (r *enderecoRepository) FindByCEP(ctx context.Context, cep string) (*models.EnderecoCEP, error) {
	var endereco models.EnderecoCEP
	err := r.db.WithContext(ctx).
		Where("cep = ?", cep).
		First(&endereco).Error
	if err != nil {
		return nil, err
	}
	return &endereco, nil
}

func (r *enderecoRepository) Upsert(ctx context.Context, endereco *models.EnderecoCEP) error {
	var existente models.EnderecoCEP
	err := r.db.WithContext(ctx).Where("cep = ?", endereco.CEP).First(&existente).Error
	if err == nil {
		endereco.ID = existente.ID
		endereco.CreatedAt = existente.CreatedAt
		return r.db.WithContext(ctx).Save(endereco).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Create(endereco).Error
	}
	return err
}
