package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type CobrancaHandler struct {
	cobrancaService *services.CobrancaService
	contratoService *services.ContratoService
}

func NewCobrancaHandler(cobrancaService *services.CobrancaService, contratoService *services.ContratoService) *CobrancaHandler {
	return &CobrancaHandler{
		cobrancaService: cobrancaService,
		contratoService: contratoService,
	}
}

// @Summary List Charges
// @Description Get a paginated list of monthly charges
// @Tags Cobrancas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param contrato_id query int false "Filter by contract"
// @Param competencia query string false "Filter by accrual month (YYYY-MM)"
// @Param status query string false "Filter by status" Enums(pendente, boleto_gerado, enviada, paga, cancelada)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /cobrancas [get]
func (h *CobrancaHandler) Index(c *gin.Context) {
	query := &repository.CobrancaQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Competencia = c.Query("competencia")
	query.Status = c.Query("status")
	if v, err := strconv.ParseUint(c.Query("contrato_id"), 10, 32); err == nil {
		query.ContratoID = uint(v)
	}

	cobrancas, total, err := h.cobrancaService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cobrancas":  cobrancas,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Charge
// @Description Get a charge with its contract and boleto
// @Tags Cobrancas
// @Produce json
// @Param cobranca_id path int true "Charge ID"
// @Success 200 {object} models.Cobranca
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /cobrancas/{cobranca_id} [get]
func (h *CobrancaHandler) Show(c *gin.Context) {
	cobranca, err := h.cobrancaService.BuscarPorID(c.Request.Context(), paramID(c, "cobranca_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cobrança não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cobranca": cobranca})
}

type CriarCobrancaRequest struct {
	ContratoID uint       `json:"contrato_id" binding:"required"`
	DataRef    *time.Time `json:"data_ref"`
}

// @Summary Create Charge
// @Description Generate a charge manually for a contract. The accrual month
// and due date are derived from the reference date (today by default).
// @Tags Cobrancas
// @Accept json
// @Produce json
// @Param request body CriarCobrancaRequest true "Charge data"
// @Success 201 {object} models.Cobranca
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cobrancas [post]
func (h *CobrancaHandler) Create(c *gin.Context) {
	var req CriarCobrancaRequest
	if err := BindNestedOrFlat(c, "cobranca", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ContratoID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contrato_id é obrigatório"})
		return
	}

	contrato, err := h.contratoService.BuscarPorID(c.Request.Context(), req.ContratoID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato não encontrado"})
		return
	}

	dataRef := time.Now()
	if req.DataRef != nil {
		dataRef = *req.DataRef
	}

	cobranca, err := h.cobrancaService.CriarCobranca(c.Request.Context(), contrato, dataRef,
		currentUsuarioID(c), models.EnvioManual)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cobranca": cobranca})
}

// @Summary Cancel Charge
// @Description Cancel a charge that has not been paid. If the tenant already
// received the boleto, a cancellation email is sent.
// @Tags Cobrancas
// @Produce json
// @Param cobranca_id path int true "Charge ID"
// @Success 200 {object} models.Cobranca
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cobrancas/{cobranca_id}/cancelar [post]
func (h *CobrancaHandler) Cancelar(c *gin.Context) {
	cobranca, err := h.cobrancaService.CancelarCobranca(c.Request.Context(), paramID(c, "cobranca_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cobranca": cobranca, "message": "Cobrança cancelada"})
}

type GerarBoletoRequest struct {
	BancoConfigID uint `json:"banco_config_id" binding:"required"`
}

// @Summary Generate Boleto
// @Description Issue the boleto for a pending charge against a bank config
// @Tags Cobrancas
// @Accept json
// @Produce json
// @Param cobranca_id path int true "Charge ID"
// @Param request body GerarBoletoRequest true "Bank config"
// @Success 200 {object} models.Cobranca
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cobrancas/{cobranca_id}/gerar-boleto [post]
func (h *CobrancaHandler) GerarBoleto(c *gin.Context) {
	var req GerarBoletoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "banco_config_id é obrigatório"})
		return
	}

	cobranca, err := h.cobrancaService.GerarBoleto(c.Request.Context(), paramID(c, "cobranca_id"),
		req.BancoConfigID, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cobranca": cobranca, "message": "Boleto gerado"})
}

// @Summary Mark Charge as Sent
// @Tags Cobrancas
// @Produce json
// @Param cobranca_id path int true "Charge ID"
// @Success 200 {object} models.Cobranca
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /cobrancas/{cobranca_id}/marcar-enviada [post]
func (h *CobrancaHandler) MarcarEnviada(c *gin.Context) {
	cobranca, err := h.cobrancaService.MarcarEnviada(c.Request.Context(), paramID(c, "cobranca_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cobranca": cobranca, "message": "Cobrança marcada como enviada"})
}

// @Summary Run Monthly Billing
// @Description Trigger the monthly charge generation pass for every contract
// with automatic billing. Idempotent per accrual month.
// @Tags Cobrancas
// @Produce json
// @Success 200 {object} services.ResultadoGeracao
// @Security BearerAuth
// @Router /cobrancas/gerar-mensais [post]
func (h *CobrancaHandler) GerarMensais(c *gin.Context) {
	resultado, err := h.cobrancaService.GerarCobrancasMensais(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resultado": resultado})
}

// @Summary Dispatch Charge Emails
// @Description Email tenants their registered boletos and flag charges as sent
// @Tags Cobrancas
// @Produce json
// @Success 200 {object} services.ResultadoEnvio
// @Security BearerAuth
// @Router /cobrancas/enviar [post]
func (h *CobrancaHandler) Enviar(c *gin.Context) {
	resultado, err := h.cobrancaService.EnviarCobrancas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resultado": resultado})
}
