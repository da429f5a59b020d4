package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type PrestacaoHandler struct {
	prestacaoService *services.PrestacaoService
	exportService    *services.ExportService
}

func NewPrestacaoHandler(prestacaoService *services.PrestacaoService, exportService *services.ExportService) *PrestacaoHandler {
	return &PrestacaoHandler{
		prestacaoService: prestacaoService,
		exportService:    exportService,
	}
}

// @Summary List Statements
// @Description Get a paginated list of owner settlement statements
// @Tags Prestacoes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param proprietario_id query int false "Filter by owner"
// @Param status query string false "Filter by status" Enums(aberta, fechada, enviada, repassada, cancelada)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /prestacoes [get]
func (h *PrestacaoHandler) Index(c *gin.Context) {
	query := &repository.PrestacaoQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Status = c.Query("status")
	if v, err := strconv.ParseUint(c.Query("proprietario_id"), 10, 32); err == nil {
		query.ProprietarioID = uint(v)
	}

	prestacoes, total, err := h.prestacaoService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prestacoes": prestacoes,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Statement
// @Description Get a statement with its item lines
// @Tags Prestacoes
// @Produce json
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {object} models.PrestacaoContas
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id} [get]
func (h *PrestacaoHandler) Show(c *gin.Context) {
	prestacao, err := h.prestacaoService.BuscarPorID(c.Request.Context(), paramID(c, "prestacao_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prestação não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prestacao": prestacao})
}

type GerarPrestacaoRequest struct {
	ProprietarioID uint       `json:"proprietario_id" binding:"required"`
	Periodicidade  string     `json:"periodicidade" binding:"required,oneof=diario semanal quinzenal mensal semestral anual"`
	DataRef        *time.Time `json:"data_ref"`
}

// @Summary Generate Statement
// @Description Aggregate the owner's settled postings in the period into a
// statement with receitas, despesas, taxa de administração and repasse.
// @Tags Prestacoes
// @Accept json
// @Produce json
// @Param request body GerarPrestacaoRequest true "Statement parameters"
// @Success 201 {object} models.PrestacaoContas
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes [post]
func (h *PrestacaoHandler) Create(c *gin.Context) {
	var req GerarPrestacaoRequest
	if err := BindNestedOrFlat(c, "prestacao", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ProprietarioID == 0 || req.Periodicidade == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Proprietário e periodicidade são obrigatórios"})
		return
	}

	dataRef := time.Now()
	if req.DataRef != nil {
		dataRef = *req.DataRef
	}

	prestacao, err := h.prestacaoService.GerarPrestacao(c.Request.Context(), req.ProprietarioID,
		req.Periodicidade, dataRef, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"prestacao": prestacao})
}

// @Summary Close Statement
// @Description Approve a statement, freezing its lines
// @Tags Prestacoes
// @Produce json
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {object} models.PrestacaoContas
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id}/fechar [post]
func (h *PrestacaoHandler) Fechar(c *gin.Context) {
	prestacao, err := h.prestacaoService.Fechar(c.Request.Context(), paramID(c, "prestacao_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prestacao": prestacao, "message": "Prestação fechada"})
}

// @Summary Send Statement
// @Description Generate the statement PDF, store it and email the owner
// @Tags Prestacoes
// @Produce json
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {object} models.PrestacaoContas
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id}/enviar [post]
func (h *PrestacaoHandler) Enviar(c *gin.Context) {
	prestacao, err := h.prestacaoService.Enviar(c.Request.Context(), paramID(c, "prestacao_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prestacao": prestacao, "message": "Prestação enviada ao proprietário"})
}

// @Summary Register Payout
// @Description Record the repasse to the owner
// @Tags Prestacoes
// @Produce json
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {object} models.PrestacaoContas
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id}/repasse [post]
func (h *PrestacaoHandler) RegistrarRepasse(c *gin.Context) {
	prestacao, err := h.prestacaoService.RegistrarRepasse(c.Request.Context(), paramID(c, "prestacao_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prestacao": prestacao, "message": "Repasse registrado"})
}

// @Summary Cancel Statement
// @Tags Prestacoes
// @Produce json
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {object} models.PrestacaoContas
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id}/cancelar [post]
func (h *PrestacaoHandler) Cancelar(c *gin.Context) {
	prestacao, err := h.prestacaoService.Cancelar(c.Request.Context(), paramID(c, "prestacao_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prestacao": prestacao, "message": "Prestação cancelada"})
}

// @Summary Download Statement PDF
// @Description Render the settlement statement as PDF
// @Tags Prestacoes
// @Produce application/pdf
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /prestacoes/{prestacao_id}/pdf [get]
func (h *PrestacaoHandler) DownloadPDF(c *gin.Context) {
	pdf, filename, err := h.exportService.GerarPrestacaoPDF(c.Request.Context(), paramID(c, "prestacao_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
