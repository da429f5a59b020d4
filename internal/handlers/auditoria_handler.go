package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/services"
)

type AuditoriaHandler struct {
	auditoriaService *services.AuditoriaService
}

func NewAuditoriaHandler(auditoriaService *services.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{auditoriaService: auditoriaService}
}

// @Summary Entity Audit Trail
// @Description List the audit entries recorded for one entity (Admin)
// @Tags Auditoria
// @Produce json
// @Param entidade query string true "Entity name (Contrato, Cobranca, Boleto, ...)"
// @Param entidade_id query int true "Entity ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /auditoria [get]
func (h *AuditoriaHandler) Index(c *gin.Context) {
	entidade := c.Query("entidade")
	entidadeID, _ := strconv.ParseUint(c.Query("entidade_id"), 10, 32)
	if entidade == "" || entidadeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entidade e entidade_id são obrigatórios"})
		return
	}

	entradas, err := h.auditoriaService.BuscarPorEntidade(c.Request.Context(), entidade, uint(entidadeID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auditoria": entradas})
}
