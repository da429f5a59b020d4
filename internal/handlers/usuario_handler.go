package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type UsuarioHandler struct {
	usuarioService *services.UsuarioService
}

func NewUsuarioHandler(usuarioService *services.UsuarioService) *UsuarioHandler {
	return &UsuarioHandler{usuarioService: usuarioService}
}

// @Summary List Users
// @Description Get a paginated list of back-office accounts
// @Tags Usuarios
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name or email"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /usuarios [get]
func (h *UsuarioHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	usuarios, total, err := h.usuarioService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, u := range usuarios {
		responses = append(responses, u.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"usuarios":   responses,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get User
// @Tags Usuarios
// @Produce json
// @Param usuario_id path int true "User ID"
// @Success 200 {object} models.UsuarioResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /usuarios/{usuario_id} [get]
func (h *UsuarioHandler) Show(c *gin.Context) {
	usuario, err := h.usuarioService.BuscarPorID(c.Request.Context(), paramID(c, "usuario_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": usuario.ToResponse()})
}

// @Summary Create User
// @Description Register a back-office account (Admin)
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param request body services.DadosUsuario true "User data"
// @Success 201 {object} models.UsuarioResponse
// @Security BearerAuth
// @Router /usuarios [post]
func (h *UsuarioHandler) Create(c *gin.Context) {
	var dados services.DadosUsuario
	if err := c.ShouldBindJSON(&dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usuario, err := h.usuarioService.Criar(c.Request.Context(), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"usuario": usuario.ToResponse()})
}

// @Summary Update User
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param usuario_id path int true "User ID"
// @Param request body services.AtualizacaoUsuario true "Fields to update"
// @Success 200 {object} models.UsuarioResponse
// @Security BearerAuth
// @Router /usuarios/{usuario_id} [put]
func (h *UsuarioHandler) Update(c *gin.Context) {
	var dados services.AtualizacaoUsuario
	if err := c.ShouldBindJSON(&dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usuario, err := h.usuarioService.Atualizar(c.Request.Context(), paramID(c, "usuario_id"), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": usuario.ToResponse()})
}

// @Summary Deactivate User
// @Description Soft-delete an account (Admin)
// @Tags Usuarios
// @Produce json
// @Param usuario_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /usuarios/{usuario_id} [delete]
func (h *UsuarioHandler) Delete(c *gin.Context) {
	if err := h.usuarioService.Desativar(c.Request.Context(), paramID(c, "usuario_id"), currentUsuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário desativado"})
}

// @Summary Restore User
// @Tags Usuarios
// @Produce json
// @Param usuario_id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /usuarios/{usuario_id}/restaurar [post]
func (h *UsuarioHandler) Restore(c *gin.Context) {
	if err := h.usuarioService.Restaurar(c.Request.Context(), paramID(c, "usuario_id"), currentUsuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário restaurado"})
}
