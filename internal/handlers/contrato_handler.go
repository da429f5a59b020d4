package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type ContratoHandler struct {
	contratoService *services.ContratoService
}

func NewContratoHandler(contratoService *services.ContratoService) *ContratoHandler {
	return &ContratoHandler{contratoService: contratoService}
}

// @Summary List Contracts
// @Description Get a paginated list of lease contracts
// @Tags Contratos
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(ativo, suspenso, encerrado)
// @Param imovel_id query int false "Filter by property"
// @Param proprietario_id query int false "Filter by owner"
// @Param inquilino_id query int false "Filter by tenant"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contratos [get]
func (h *ContratoHandler) Index(c *gin.Context) {
	query := &repository.ContratoQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Status = c.Query("status")
	if v, err := strconv.ParseUint(c.Query("imovel_id"), 10, 32); err == nil {
		query.ImovelID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("proprietario_id"), 10, 32); err == nil {
		query.ProprietarioID = uint(v)
	}
	if v, err := strconv.ParseUint(c.Query("inquilino_id"), 10, 32); err == nil {
		query.InquilinoID = uint(v)
	}

	contratos, total, err := h.contratoService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contratos":  contratos,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Contract
// @Description Get a contract with property, tenant, owner and charge lines
// @Tags Contratos
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Success 200 {object} models.Contrato
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /contratos/{contrato_id} [get]
func (h *ContratoHandler) Show(c *gin.Context) {
	contrato, err := h.contratoService.BuscarPorID(c.Request.Context(), paramID(c, "contrato_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contrato não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contrato": contrato})
}

// @Summary Create Contract
// @Description Create a lease contract with its default rent charge line
// @Tags Contratos
// @Accept json
// @Produce json
// @Param request body services.DadosContrato true "Contract data"
// @Success 201 {object} models.Contrato
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contratos [post]
func (h *ContratoHandler) Create(c *gin.Context) {
	var dados services.DadosContrato
	if err := BindNestedOrFlat(c, "contrato", &dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dados.ImovelID == 0 || dados.InquilinoID == 0 || dados.ProprietarioID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Imóvel, inquilino e proprietário são obrigatórios"})
		return
	}
	if dados.DiaVencimento < 1 || dados.DiaVencimento > 31 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dia de vencimento deve estar entre 1 e 31"})
		return
	}

	contrato, err := h.contratoService.Criar(c.Request.Context(), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contrato": contrato})
}

// @Summary Update Contract
// @Tags Contratos
// @Accept json
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Param request body services.AtualizacaoContrato true "Fields to update"
// @Success 200 {object} models.Contrato
// @Security BearerAuth
// @Router /contratos/{contrato_id} [put]
func (h *ContratoHandler) Update(c *gin.Context) {
	var dados services.AtualizacaoContrato
	if err := BindNestedOrFlat(c, "contrato", &dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contrato, err := h.contratoService.Atualizar(c.Request.Context(), paramID(c, "contrato_id"), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contrato": contrato})
}

type EncerrarContratoRequest struct {
	Motivo string `json:"motivo"`
}

// @Summary Close Contract
// @Description Close a contract. Existing charges are kept; no new ones are generated.
// @Tags Contratos
// @Accept json
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Param request body EncerrarContratoRequest false "Closing reason"
// @Success 200 {object} models.Contrato
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contratos/{contrato_id}/encerrar [post]
func (h *ContratoHandler) Encerrar(c *gin.Context) {
	var req EncerrarContratoRequest
	_ = c.ShouldBindJSON(&req)

	contrato, err := h.contratoService.Encerrar(c.Request.Context(), paramID(c, "contrato_id"), req.Motivo, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contrato": contrato, "message": "Contrato encerrado"})
}

// @Summary Suspend Contract
// @Description Pause billing on an active contract
// @Tags Contratos
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Success 200 {object} models.Contrato
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contratos/{contrato_id}/suspender [post]
func (h *ContratoHandler) Suspender(c *gin.Context) {
	contrato, err := h.contratoService.Suspender(c.Request.Context(), paramID(c, "contrato_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contrato": contrato, "message": "Contrato suspenso"})
}

// @Summary Reactivate Contract
// @Description Resume billing on a suspended contract
// @Tags Contratos
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Success 200 {object} models.Contrato
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /contratos/{contrato_id}/reativar [post]
func (h *ContratoHandler) Reativar(c *gin.Context) {
	contrato, err := h.contratoService.Reativar(c.Request.Context(), paramID(c, "contrato_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contrato": contrato, "message": "Contrato reativado"})
}

// @Summary List Charge Lines
// @Description List a contract's recurring charge lines
// @Tags Contratos
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /contratos/{contrato_id}/itens [get]
func (h *ContratoHandler) ListarItens(c *gin.Context) {
	itens, err := h.contratoService.ListarItens(c.Request.Context(), paramID(c, "contrato_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"itens": itens})
}

// @Summary Add Charge Line
// @Description Attach a recurring charge line (condomínio, IPTU, ...) to a contract
// @Tags Contratos
// @Accept json
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Param request body services.DadosItemCobranca true "Charge line data"
// @Success 201 {object} models.ItemCobranca
// @Security BearerAuth
// @Router /contratos/{contrato_id}/itens [post]
func (h *ContratoHandler) AdicionarItem(c *gin.Context) {
	var dados services.DadosItemCobranca
	if err := BindNestedOrFlat(c, "item", &dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dados.Tipo == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo do item é obrigatório"})
		return
	}

	item, err := h.contratoService.AdicionarItem(c.Request.Context(), paramID(c, "contrato_id"), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// @Summary Update Charge Line
// @Tags Contratos
// @Accept json
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Param item_id path int true "Charge line ID"
// @Param request body services.DadosItemCobranca true "Charge line data"
// @Success 200 {object} models.ItemCobranca
// @Security BearerAuth
// @Router /contratos/{contrato_id}/itens/{item_id} [put]
func (h *ContratoHandler) AtualizarItem(c *gin.Context) {
	var dados services.DadosItemCobranca
	if err := BindNestedOrFlat(c, "item", &dados); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.contratoService.AtualizarItem(c.Request.Context(),
		paramID(c, "contrato_id"), paramID(c, "item_id"), &dados, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// @Summary Remove Charge Line
// @Tags Contratos
// @Produce json
// @Param contrato_id path int true "Contract ID"
// @Param item_id path int true "Charge line ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /contratos/{contrato_id}/itens/{item_id} [delete]
func (h *ContratoHandler) RemoverItem(c *gin.Context) {
	err := h.contratoService.RemoverItem(c.Request.Context(),
		paramID(c, "contrato_id"), paramID(c, "item_id"), currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removido"})
}
