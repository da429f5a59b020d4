package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/middleware"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type NotificacaoHandler struct {
	notificacaoService *services.NotificacaoService
}

func NewNotificacaoHandler(notificacaoService *services.NotificacaoService) *NotificacaoHandler {
	return &NotificacaoHandler{notificacaoService: notificacaoService}
}

// @Summary List Notifications
// @Description List the authenticated user's notifications
// @Tags Notificacoes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /notificacoes [get]
func (h *NotificacaoHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))

	notificacoes, total, err := h.notificacaoService.Listar(c.Request.Context(), middleware.GetUsuarioID(c), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notificacoes": notificacoes,
		"pagination":   pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Mark Notification as Read
// @Tags Notificacoes
// @Produce json
// @Param notificacao_id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notificacoes/{notificacao_id}/lida [post]
func (h *NotificacaoHandler) MarcarLida(c *gin.Context) {
	err := h.notificacaoService.MarcarLida(c.Request.Context(), paramID(c, "notificacao_id"), middleware.GetUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificação marcada como lida"})
}

// @Summary Mark All Notifications as Read
// @Tags Notificacoes
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /notificacoes/marcar-todas [post]
func (h *NotificacaoHandler) MarcarTodasLidas(c *gin.Context) {
	if err := h.notificacaoService.MarcarTodasLidas(c.Request.Context(), middleware.GetUsuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificações marcadas como lidas"})
}

// @Summary Unread Notification Count
// @Tags Notificacoes
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Router /notificacoes/nao-lidas [get]
func (h *NotificacaoHandler) CountNaoLidas(c *gin.Context) {
	count, err := h.notificacaoService.CountNaoLidas(c.Request.Context(), middleware.GetUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nao_lidas": count})
}
