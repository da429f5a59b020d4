package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// ErrDocumentoDuplicado indicates another person already carries the document
var ErrDocumentoDuplicado = errors.New("já existe uma pessoa com este documento")

// PessoaService manages tenants, owners and guarantors
type PessoaService struct {
	pessoaRepo repository.PessoaRepository
	cepSvc     *CepService
	auditoria  *AuditoriaService
}

// NewPessoaService creates a new person service
func NewPessoaService(pessoaRepo repository.PessoaRepository, cepSvc *CepService, auditoria *AuditoriaService) *PessoaService {
	return &PessoaService{
		pessoaRepo: pessoaRepo,
		cepSvc:     cepSvc,
		auditoria:  auditoria,
	}
}

// Criar registers a person, filling the address from the CEP cache when the
// street was not provided
func (s *PessoaService) Criar(ctx context.Context, pessoa *models.Pessoa, usuarioID *uint) (*models.Pessoa, error) {
	existente, err := s.pessoaRepo.FindByDocumento(ctx, pessoa.Documento)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existente != nil {
		return nil, ErrDocumentoDuplicado
	}

	s.preencherEndereco(ctx, pessoa)

	pessoa.Ativo = true
	if err := s.pessoaRepo.Create(ctx, pessoa); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoCreate, "Pessoa", pessoa.ID,
		fmt.Sprintf("%s (%s)", pessoa.Nome, pessoa.Tipo))

	return pessoa, nil
}

// Atualizar persists changes to a person
func (s *PessoaService) Atualizar(ctx context.Context, pessoa *models.Pessoa, usuarioID *uint) (*models.Pessoa, error) {
	atual, err := s.BuscarPorID(ctx, pessoa.ID)
	if err != nil {
		return nil, err
	}
	if pessoa.Documento != atual.Documento {
		outra, err := s.pessoaRepo.FindByDocumento(ctx, pessoa.Documento)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if outra != nil && outra.ID != pessoa.ID {
			return nil, ErrDocumentoDuplicado
		}
	}

	s.preencherEndereco(ctx, pessoa)

	if err := s.pessoaRepo.Update(ctx, pessoa); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Pessoa", pessoa.ID, "pessoa atualizada")

	return pessoa, nil
}

// BuscarPorID returns a person
func (s *PessoaService) BuscarPorID(ctx context.Context, id uint) (*models.Pessoa, error) {
	pessoa, err := s.pessoaRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return pessoa, nil
}

// Listar returns people matching the query
func (s *PessoaService) Listar(ctx context.Context, query *repository.PessoaQuery) ([]models.Pessoa, int64, error) {
	return s.pessoaRepo.List(ctx, query)
}

func (s *PessoaService) preencherEndereco(ctx context.Context, pessoa *models.Pessoa) {
	if pessoa.CEP == "" || pessoa.Logradouro != "" || s.cepSvc == nil {
		return
	}
	endereco, err := s.cepSvc.Buscar(ctx, somenteDigitos(pessoa.CEP))
	if err != nil {
		return
	}
	pessoa.Logradouro = endereco.Logradouro
	pessoa.Bairro = endereco.Bairro
	pessoa.Cidade = endereco.Cidade
	pessoa.UF = endereco.UF
}

func somenteDigitos(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// ImovelService manages properties
type ImovelService struct {
	imovelRepo   repository.ImovelRepository
	contratoRepo repository.ContratoRepository
	cepSvc       *CepService
	auditoria    *AuditoriaService
}

// NewImovelService creates a new property service
func NewImovelService(
	imovelRepo repository.ImovelRepository,
	contratoRepo repository.ContratoRepository,
	cepSvc *CepService,
	auditoria *AuditoriaService,
) *ImovelService {
	return &ImovelService{
		imovelRepo:   imovelRepo,
		contratoRepo: contratoRepo,
		cepSvc:       cepSvc,
		auditoria:    auditoria,
	}
}

// Criar registers a property
func (s *ImovelService) Criar(ctx context.Context, imovel *models.Imovel, usuarioID *uint) (*models.Imovel, error) {
	if imovel.Codigo != "" {
		existente, err := s.imovelRepo.FindByCodigo(ctx, imovel.Codigo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existente != nil {
			return nil, ErrDuplicate
		}
	}

	s.preencherEndereco(ctx, imovel)

	imovel.Ativo = true
	if err := s.imovelRepo.Create(ctx, imovel); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoCreate, "Imovel", imovel.ID, imovel.EnderecoCompleto())

	return imovel, nil
}

// Atualizar persists changes to a property
func (s *ImovelService) Atualizar(ctx context.Context, imovel *models.Imovel, usuarioID *uint) (*models.Imovel, error) {
	if _, err := s.BuscarPorID(ctx, imovel.ID); err != nil {
		return nil, err
	}

	s.preencherEndereco(ctx, imovel)

	if err := s.imovelRepo.Update(ctx, imovel); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Imovel", imovel.ID, "imóvel atualizado")

	return imovel, nil
}

// BuscarPorID returns a property
func (s *ImovelService) BuscarPorID(ctx context.Context, id uint) (*models.Imovel, error) {
	imovel, err := s.imovelRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return imovel, nil
}

// Listar returns properties matching the query
func (s *ImovelService) Listar(ctx context.Context, query *repository.ListQuery) ([]models.Imovel, int64, error) {
	return s.imovelRepo.List(ctx, query)
}

// Contratos returns the property's lease history
func (s *ImovelService) Contratos(ctx context.Context, imovelID uint) ([]models.Contrato, error) {
	if _, err := s.BuscarPorID(ctx, imovelID); err != nil {
		return nil, err
	}
	return s.contratoRepo.FindByImovel(ctx, imovelID)
}

func (s *ImovelService) preencherEndereco(ctx context.Context, imovel *models.Imovel) {
	if imovel.CEP == "" || imovel.Logradouro != "" || s.cepSvc == nil {
		return
	}
	endereco, err := s.cepSvc.Buscar(ctx, somenteDigitos(imovel.CEP))
	if err != nil {
		return
	}
	imovel.Logradouro = endereco.Logradouro
	imovel.Bairro = endereco.Bairro
	imovel.Cidade = endereco.Cidade
	imovel.UF = endereco.UF
}
