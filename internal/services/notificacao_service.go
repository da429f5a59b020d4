package services

import (
	"context"

	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// NotificacaoService delivers in-app notifications
type NotificacaoService struct {
	notificacaoRepo repository.NotificacaoRepository
	usuarioRepo     repository.UsuarioRepository
	worker          *jobs.Worker
}

// NewNotificacaoService creates a new notification service
func NewNotificacaoService(
	notificacaoRepo repository.NotificacaoRepository,
	usuarioRepo repository.UsuarioRepository,
	worker *jobs.Worker,
) *NotificacaoService {
	return &NotificacaoService{
		notificacaoRepo: notificacaoRepo,
		usuarioRepo:     usuarioRepo,
		worker:          worker,
	}
}

// Notificar creates a notification for one user
func (s *NotificacaoService) Notificar(ctx context.Context, usuarioID uint, titulo, mensagem, tipo string) error {
	return s.notificacaoRepo.Create(ctx, &models.Notificacao{
		UsuarioID: usuarioID,
		Titulo:    titulo,
		Mensagem:  mensagem,
		Tipo:      &tipo,
	})
}

// NotificarAdminsAsync fans a notification out to every active admin without
// blocking the caller
func (s *NotificacaoService) NotificarAdminsAsync(titulo, mensagem, tipo string) {
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		admins, err := s.usuarioRepo.FindAdmins(ctx)
		if err != nil {
			logger.Error("Falha ao listar admins para notificação", "error", err)
			return err
		}
		for _, admin := range admins {
			if err := s.Notificar(ctx, admin.ID, titulo, mensagem, tipo); err != nil {
				logger.Error("Falha ao criar notificação", "usuario_id", admin.ID, "error", err)
			}
		}
		return nil
	})
}

// Listar returns a user's notifications
func (s *NotificacaoService) Listar(ctx context.Context, usuarioID uint, query *repository.ListQuery) ([]models.Notificacao, int64, error) {
	return s.notificacaoRepo.FindByUsuario(ctx, usuarioID, query)
}

// MarcarLida marks one notification as read
func (s *NotificacaoService) MarcarLida(ctx context.Context, id, usuarioID uint) error {
	return s.notificacaoRepo.MarcarLida(ctx, id, usuarioID)
}

// MarcarTodasLidas marks all of a user's notifications as read
func (s *NotificacaoService) MarcarTodasLidas(ctx context.Context, usuarioID uint) error {
	return s.notificacaoRepo.MarcarTodasLidas(ctx, usuarioID)
}

// CountNaoLidas returns the unread badge count
func (s *NotificacaoService) CountNaoLidas(ctx context.Context, usuarioID uint) (int64, error) {
	return s.notificacaoRepo.CountNaoLidas(ctx, usuarioID)
}
