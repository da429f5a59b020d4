package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
)

// ErrEmailDuplicado indicates another account already uses the email
var ErrEmailDuplicado = errors.New("já existe um usuário com este email")

// UsuarioService manages back-office accounts
type UsuarioService struct {
	usuarioRepo repository.UsuarioRepository
	auditoria   *AuditoriaService
}

// NewUsuarioService creates a new user service
func NewUsuarioService(usuarioRepo repository.UsuarioRepository, auditoria *AuditoriaService) *UsuarioService {
	return &UsuarioService{
		usuarioRepo: usuarioRepo,
		auditoria:   auditoria,
	}
}

// DadosUsuario carries the fields accepted on account creation
type DadosUsuario struct {
	Nome     string `json:"nome" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Senha    string `json:"senha" binding:"required,min=8"`
	Telefone string `json:"telefone"`
	Perfil   string `json:"perfil" binding:"omitempty,oneof=admin gestor leitura"`
}

// Criar registers a back-office account
func (s *UsuarioService) Criar(ctx context.Context, dados *DadosUsuario, criadorID *uint) (*models.Usuario, error) {
	existente, err := s.usuarioRepo.FindByEmail(ctx, dados.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existente != nil {
		return nil, ErrEmailDuplicado
	}

	hash, err := HashPassword(dados.Senha)
	if err != nil {
		return nil, err
	}

	usuario := &models.Usuario{
		Nome:               dados.Nome,
		Email:              dados.Email,
		SenhaCriptografada: hash,
		Telefone:           dados.Telefone,
		Perfil:             dados.Perfil,
		CriadoPor:          criadorID,
	}

	if err := s.usuarioRepo.Create(ctx, usuario); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(criadorID, models.AcaoCreate, "Usuario", usuario.ID, usuario.Email)

	return usuario, nil
}

// AtualizacaoUsuario carries the mutable account fields
type AtualizacaoUsuario struct {
	Nome     *string `json:"nome"`
	Telefone *string `json:"telefone"`
	Perfil   *string `json:"perfil" binding:"omitempty,oneof=admin gestor leitura"`
	Status   *string `json:"status" binding:"omitempty,oneof=ativo inativo suspenso"`
	Senha    *string `json:"senha" binding:"omitempty,min=8"`
}

// Atualizar applies a partial update to an account
func (s *UsuarioService) Atualizar(ctx context.Context, id uint, dados *AtualizacaoUsuario, usuarioID *uint) (*models.Usuario, error) {
	usuario, err := s.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}

	if dados.Nome != nil {
		usuario.Nome = *dados.Nome
	}
	if dados.Telefone != nil {
		usuario.Telefone = *dados.Telefone
	}
	if dados.Perfil != nil {
		usuario.Perfil = *dados.Perfil
	}
	if dados.Status != nil {
		usuario.Status = *dados.Status
	}
	if dados.Senha != nil {
		hash, err := HashPassword(*dados.Senha)
		if err != nil {
			return nil, err
		}
		usuario.SenhaCriptografada = hash
	}

	if err := s.usuarioRepo.Update(ctx, usuario); err != nil {
		return nil, err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Usuario", usuario.ID, "usuário atualizado")

	return usuario, nil
}

// Desativar soft-deletes an account
func (s *UsuarioService) Desativar(ctx context.Context, id uint, usuarioID *uint) error {
	if _, err := s.BuscarPorID(ctx, id); err != nil {
		return err
	}
	if err := s.usuarioRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoDelete, "Usuario", id, "usuário desativado")

	return nil
}

// Restaurar reverses a soft delete
func (s *UsuarioService) Restaurar(ctx context.Context, id uint, usuarioID *uint) error {
	if err := s.usuarioRepo.Restore(ctx, id); err != nil {
		return err
	}

	s.auditoria.RegistrarAsync(usuarioID, models.AcaoUpdate, "Usuario", id, "usuário restaurado")

	return nil
}

// BuscarPorID returns an account
func (s *UsuarioService) BuscarPorID(ctx context.Context, id uint) (*models.Usuario, error) {
	usuario, err := s.usuarioRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return usuario, nil
}

// Listar returns accounts matching the query
func (s *UsuarioService) Listar(ctx context.Context, query *repository.ListQuery) ([]models.Usuario, int64, error) {
	return s.usuarioRepo.List(ctx, query)
}
