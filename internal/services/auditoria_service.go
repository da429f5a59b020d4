package services

import (
	"context"

	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// AuditoriaService records who did what to which entity
type AuditoriaService struct {
	repo   repository.AuditoriaRepository
	worker *jobs.Worker
}

// NewAuditoriaService creates a new audit service
func NewAuditoriaService(repo repository.AuditoriaRepository, worker *jobs.Worker) *AuditoriaService {
	return &AuditoriaService{repo: repo, worker: worker}
}

// Registrar writes an audit entry synchronously
func (s *AuditoriaService) Registrar(ctx context.Context, entrada *models.Auditoria) error {
	return s.repo.Create(ctx, entrada)
}

// RegistrarAsync writes an audit entry off the request path. A nil usuarioID
// means a scheduled job acted (recorded as user 0).
func (s *AuditoriaService) RegistrarAsync(usuarioID *uint, acao, entidade string, entidadeID uint, detalhes string) {
	var uid uint
	if usuarioID != nil {
		uid = *usuarioID
	}
	entrada := &models.Auditoria{
		UsuarioID:  uid,
		Acao:       acao,
		Entidade:   entidade,
		EntidadeID: entidadeID,
		Detalhes:   detalhes,
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.repo.Create(ctx, entrada); err != nil {
			logger.Error("Falha ao gravar auditoria", "entidade", entidade, "error", err)
			return err
		}
		return nil
	})
}

// BuscarPorEntidade returns the audit trail for one entity
func (s *AuditoriaService) BuscarPorEntidade(ctx context.Context, entidade string, entidadeID uint) ([]models.Auditoria, error) {
	return s.repo.FindByEntidade(ctx, entidade, entidadeID)
}
