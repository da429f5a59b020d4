package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type BoletoHandler struct {
	boletoService *services.BoletoService
}

func NewBoletoHandler(boletoService *services.BoletoService) *BoletoHandler {
	return &BoletoHandler{boletoService: boletoService}
}

// @Summary List Boletos
// @Description Get a paginated list of boletos
// @Tags Boletos
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param banco_config_id query int false "Filter by bank config"
// @Param pagador_id query int false "Filter by payer"
// @Param status query string false "Filter by status" Enums(pendente, registrado, pago, vencido, baixado, protestado, erro)
// @Param search query string false "Search by nosso número or seu número"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /boletos [get]
func (h *BoletoHandler) Index(c *gin.Context) {
	query := &repository.BoletoQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Status = c.Query("status")
	if v, err := strconv.ParseUint(c.Query("banco_config_id"), 10, 32); err == nil {
		query.BancoConfigID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("pagador_id"), 10, 32); err == nil {
		query.PagadorID = uint(v)
	}

	boletos, total, err := h.boletoService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"boletos":    boletos,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Boleto
// @Tags Boletos
// @Produce json
// @Param boleto_id path int true "Boleto ID"
// @Success 200 {object} models.Boleto
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /boletos/{boleto_id} [get]
func (h *BoletoHandler) Show(c *gin.Context) {
	boleto, err := h.boletoService.BuscarPorID(c.Request.Context(), paramID(c, "boleto_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boleto": boleto})
}

type CriarBoletoRequest struct {
	BancoConfigID  uint             `json:"banco_config_id" binding:"required"`
	PagadorID      uint             `json:"pagador_id" binding:"required"`
	Valor          decimal.Decimal  `json:"valor" binding:"required"`
	DataVencimento time.Time        `json:"data_vencimento" binding:"required"`
	ValorMulta     *decimal.Decimal `json:"valor_multa"`
	JurosDiario    *decimal.Decimal `json:"juros_diario"`
	ValorDesconto  *decimal.Decimal `json:"valor_desconto"`
	LimiteDesconto *time.Time       `json:"limite_desconto"`
	Mensagem       *string          `json:"mensagem"`
}

// @Summary Create Boleto
// @Description Create a boleto awaiting registration at the bank
// @Tags Boletos
// @Accept json
// @Produce json
// @Param request body CriarBoletoRequest true "Boleto data"
// @Success 201 {object} models.Boleto
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /boletos [post]
func (h *BoletoHandler) Create(c *gin.Context) {
	var req CriarBoletoRequest
	if err := BindNestedOrFlat(c, "boleto", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BancoConfigID == 0 || req.PagadorID == 0 || req.Valor.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Configuração bancária, pagador e valor são obrigatórios"})
		return
	}

	opts := &services.OpcoesBoleto{
		ValorMulta:     req.ValorMulta,
		JurosDiario:    req.JurosDiario,
		ValorDesconto:  req.ValorDesconto,
		LimiteDesconto: req.LimiteDesconto,
		Mensagem:       req.Mensagem,
	}

	boleto, err := h.boletoService.CriarBoleto(c.Request.Context(), req.BancoConfigID, req.PagadorID,
		req.Valor, req.DataVencimento, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"boleto": boleto})
}

// @Summary Register Boleto
// @Description Send a pending boleto to the bank API
// @Tags Boletos
// @Produce json
// @Param boleto_id path int true "Boleto ID"
// @Success 200 {object} services.ResultadoRegistro
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /boletos/{boleto_id}/registrar [post]
func (h *BoletoHandler) Registrar(c *gin.Context) {
	resultado, err := h.boletoService.RegistrarBoleto(c.Request.Context(), paramID(c, "boleto_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resultado": resultado})
}

type RegistrarLoteRequest struct {
	BoletoIDs []uint `json:"boleto_ids" binding:"required"`
}

// @Summary Register Boleto Batch
// @Description Register a batch of boletos, reporting per-item outcomes
// @Tags Boletos
// @Accept json
// @Produce json
// @Param request body RegistrarLoteRequest true "Boleto IDs"
// @Success 200 {object} services.ResultadoLote
// @Security BearerAuth
// @Router /boletos/registrar-lote [post]
func (h *BoletoHandler) RegistrarLote(c *gin.Context) {
	var req RegistrarLoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "boleto_ids é obrigatório"})
		return
	}

	resultado := h.boletoService.RegistrarLote(c.Request.Context(), req.BoletoIDs)
	c.JSON(http.StatusOK, gin.H{"resultado": resultado})
}

// @Summary Poll Boleto Statuses
// @Description Query the bank for status transitions on registered boletos
// @Tags Boletos
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /boletos/atualizar-status [post]
func (h *BoletoHandler) AtualizarStatus(c *gin.Context) {
	atualizados, err := h.boletoService.AtualizarStatusBoletos(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"atualizados": atualizados})
}

// @Summary Write Off Boleto
// @Description Request the write-off (baixa) of a registered boleto at the bank
// @Tags Boletos
// @Produce json
// @Param boleto_id path int true "Boleto ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /boletos/{boleto_id}/baixar [post]
func (h *BoletoHandler) Baixar(c *gin.Context) {
	if err := h.boletoService.BaixarBoleto(c.Request.Context(), paramID(c, "boleto_id"), currentUsuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Baixa solicitada ao banco"})
}

// @Summary Delete Boleto
// @Description Remove a boleto that was never registered at the bank
// @Tags Boletos
// @Produce json
// @Param boleto_id path int true "Boleto ID"
// @Success 200 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /boletos/{boleto_id} [delete]
func (h *BoletoHandler) Delete(c *gin.Context) {
	if err := h.boletoService.DeletarBoleto(c.Request.Context(), paramID(c, "boleto_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Boleto removido"})
}

// @Summary Boleto API Log
// @Description List every bank API operation recorded for a boleto
// @Tags Boletos
// @Produce json
// @Param boleto_id path int true "Boleto ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /boletos/{boleto_id}/logs [get]
func (h *BoletoHandler) Logs(c *gin.Context) {
	logs, err := h.boletoService.Logs(c.Request.Context(), paramID(c, "boleto_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// @Summary Boleto Statistics
// @Description Count boletos per lifecycle status
// @Tags Boletos
// @Produce json
// @Success 200 {object} services.Estatisticas
// @Security BearerAuth
// @Router /boletos/estatisticas [get]
func (h *BoletoHandler) Estatisticas(c *gin.Context) {
	stats, err := h.boletoService.GetEstatisticas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estatisticas": stats})
}
