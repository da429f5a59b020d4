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

type LancamentoHandler struct {
	lancamentoService *services.LancamentoService
}

func NewLancamentoHandler(lancamentoService *services.LancamentoService) *LancamentoHandler {
	return &LancamentoHandler{lancamentoService: lancamentoService}
}

// @Summary List Postings
// @Description Get a paginated list of financial postings
// @Tags Lancamentos
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param contrato_id query int false "Filter by contract"
// @Param inquilino_id query int false "Filter by tenant"
// @Param proprietario_id query int false "Filter by owner"
// @Param natureza query string false "Filter by nature" Enums(receita, despesa)
// @Param status query string false "Filter by status" Enums(aberto, parcial, pago, cancelado)
// @Param competencia query string false "Filter by accrual month (YYYY-MM)"
// @Param vencimento_de query string false "Due date from (YYYY-MM-DD)"
// @Param vencimento_ate query string false "Due date until (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /lancamentos [get]
func (h *LancamentoHandler) Index(c *gin.Context) {
	query := &repository.LancamentoQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Natureza = c.Query("natureza")
	query.Status = c.Query("status")
	query.Competencia = c.Query("competencia")
	if v, err := strconv.ParseUint(c.Query("contrato_id"), 10, 32); err == nil {
		query.ContratoID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("inquilino_id"), 10, 32); err == nil {
		query.InquilinoID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("proprietario_id"), 10, 32); err == nil {
		query.ProprietarioID = uint(v)
	}
	if de, err := time.Parse("2006-01-02", c.Query("vencimento_de")); err == nil {
		query.VencimentoDe = &de
	}
	if ate, err := time.Parse("2006-01-02", c.Query("vencimento_ate")); err == nil {
		query.VencimentoAte = &ate
	}

	lancamentos, total, err := h.lancamentoService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lancamentos": lancamentos,
		"pagination":  pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Posting
// @Description Get a posting with its write-offs
// @Tags Lancamentos
// @Produce json
// @Param lancamento_id path int true "Posting ID"
// @Success 200 {object} models.Lancamento
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /lancamentos/{lancamento_id} [get]
func (h *LancamentoHandler) Show(c *gin.Context) {
	lancamento, err := h.lancamentoService.BuscarPorID(c.Request.Context(), paramID(c, "lancamento_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lançamento não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lancamento": lancamento})
}

// @Summary Create Posting
// @Description Record a financial posting. Total and opening balance are
// computed from the value components.
// @Tags Lancamentos
// @Accept json
// @Produce json
// @Param request body models.Lancamento true "Posting data"
// @Success 201 {object} models.Lancamento
// @Security BearerAuth
// @Router /lancamentos [post]
func (h *LancamentoHandler) Create(c *gin.Context) {
	var lancamento models.Lancamento
	if err := BindNestedOrFlat(c, "lancamento", &lancamento); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if lancamento.Descricao == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Descrição é obrigatória"})
		return
	}
	lancamento.CriadorID = currentUsuarioID(c)

	criado, err := h.lancamentoService.Criar(c.Request.Context(), &lancamento)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"lancamento": criado})
}

// @Summary Register Write-off
// @Description Settle (part of) a posting. Paid value, balance and status are
// recomputed atomically.
// @Tags Lancamentos
// @Accept json
// @Produce json
// @Param lancamento_id path int true "Posting ID"
// @Param request body services.DadosBaixa true "Write-off data"
// @Success 201 {object} models.Baixa
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /lancamentos/{lancamento_id}/baixas [post]
func (h *LancamentoHandler) RegistrarBaixa(c *gin.Context) {
	var dados services.DadosBaixa
	if err := BindNestedOrFlat(c, "baixa", &dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dados.ContaBancaria == "" || dados.FormaPagamento == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Conta bancária e forma de pagamento são obrigatórias"})
		return
	}

	baixa, err := h.lancamentoService.RegistrarBaixa(c.Request.Context(), paramID(c, "lancamento_id"),
		&dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"baixa": baixa})
}

type EstornoRequest struct {
	Motivo string `json:"motivo" binding:"required"`
}

// @Summary Reverse Write-off
// @Description Reverse a write-off and recompute the parent posting
// @Tags Lancamentos
// @Accept json
// @Produce json
// @Param baixa_id path int true "Write-off ID"
// @Param request body EstornoRequest true "Reversal reason"
// @Success 200 {object} models.Baixa
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /baixas/{baixa_id}/estornar [post]
func (h *LancamentoHandler) EstornarBaixa(c *gin.Context) {
	var req EstornoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Motivo do estorno é obrigatório"})
		return
	}

	baixa, err := h.lancamentoService.EstornarBaixa(c.Request.Context(), paramID(c, "baixa_id"),
		req.Motivo, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"baixa": baixa, "message": "Baixa estornada"})
}
