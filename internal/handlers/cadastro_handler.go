package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
)

type PessoaHandler struct {
	pessoaService *services.PessoaService
}

func NewPessoaHandler(pessoaService *services.PessoaService) *PessoaHandler {
	return &PessoaHandler{pessoaService: pessoaService}
}

// @Summary List People
// @Description Get a paginated list of tenants, owners and guarantors
// @Tags Pessoas
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by name, document or email"
// @Param tipo query string false "Filter by type" Enums(inquilino, proprietario, fiador)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pessoas [get]
func (h *PessoaHandler) Index(c *gin.Context) {
	query := &repository.PessoaQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")
	query.Tipo = c.Query("tipo")

	pessoas, total, err := h.pessoaService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pessoas":    pessoas,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Person
// @Tags Pessoas
// @Produce json
// @Param pessoa_id path int true "Person ID"
// @Success 200 {object} models.Pessoa
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /pessoas/{pessoa_id} [get]
func (h *PessoaHandler) Show(c *gin.Context) {
	pessoa, err := h.pessoaService.BuscarPorID(c.Request.Context(), paramID(c, "pessoa_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pessoa não encontrada"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pessoa": pessoa})
}

// @Summary Create Person
// @Description Register a tenant, owner or guarantor. The address is filled
// from the CEP when only the CEP is provided.
// @Tags Pessoas
// @Accept json
// @Produce json
// @Param request body models.Pessoa true "Person data"
// @Success 201 {object} models.Pessoa
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /pessoas [post]
func (h *PessoaHandler) Create(c *gin.Context) {
	var pessoa models.Pessoa
	if err := BindNestedOrFlat(c, "pessoa", &pessoa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if pessoa.Nome == "" || pessoa.Documento == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome e documento são obrigatórios"})
		return
	}

	criada, err := h.pessoaService.Criar(c.Request.Context(), &pessoa, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pessoa": criada})
}

// @Summary Update Person
// @Tags Pessoas
// @Accept json
// @Produce json
// @Param pessoa_id path int true "Person ID"
// @Param request body models.Pessoa true "Person data"
// @Success 200 {object} models.Pessoa
// @Security BearerAuth
// @Router /pessoas/{pessoa_id} [put]
func (h *PessoaHandler) Update(c *gin.Context) {
	var pessoa models.Pessoa
	if err := BindNestedOrFlat(c, "pessoa", &pessoa); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pessoa.ID = paramID(c, "pessoa_id")

	atualizada, err := h.pessoaService.Atualizar(c.Request.Context(), &pessoa, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pessoa": atualizada})
}

type ImovelHandler struct {
	imovelService *services.ImovelService
}

func NewImovelHandler(imovelService *services.ImovelService) *ImovelHandler {
	return &ImovelHandler{imovelService: imovelService}
}

// @Summary List Properties
// @Tags Imoveis
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Search by code or address"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /imoveis [get]
func (h *ImovelHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	imoveis, total, err := h.imovelService.Listar(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imoveis":    imoveis,
		"pagination": pagination(query.Page, query.PerPage, total),
	})
}

// @Summary Get Property
// @Tags Imoveis
// @Produce json
// @Param imovel_id path int true "Property ID"
// @Success 200 {object} models.Imovel
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /imoveis/{imovel_id} [get]
func (h *ImovelHandler) Show(c *gin.Context) {
	imovel, err := h.imovelService.BuscarPorID(c.Request.Context(), paramID(c, "imovel_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Imóvel não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imovel": imovel})
}

// @Summary Create Property
// @Tags Imoveis
// @Accept json
// @Produce json
// @Param request body models.Imovel true "Property data"
// @Success 201 {object} models.Imovel
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /imoveis [post]
func (h *ImovelHandler) Create(c *gin.Context) {
	var imovel models.Imovel
	if err := BindNestedOrFlat(c, "imovel", &imovel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	criado, err := h.imovelService.Criar(c.Request.Context(), &imovel, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"imovel": criado})
}

// @Summary Update Property
// @Tags Imoveis
// @Accept json
// @Produce json
// @Param imovel_id path int true "Property ID"
// @Param request body models.Imovel true "Property data"
// @Success 200 {object} models.Imovel
// @Security BearerAuth
// @Router /imoveis/{imovel_id} [put]
func (h *ImovelHandler) Update(c *gin.Context) {
	var imovel models.Imovel
	if err := BindNestedOrFlat(c, "imovel", &imovel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	imovel.ID = paramID(c, "imovel_id")

	atualizado, err := h.imovelService.Atualizar(c.Request.Context(), &imovel, currentUsuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imovel": atualizado})
}

// @Summary Property Lease History
// @Description List every contract the property has carried
// @Tags Imoveis
// @Produce json
// @Param imovel_id path int true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /imoveis/{imovel_id}/contratos [get]
func (h *ImovelHandler) Contratos(c *gin.Context) {
	contratos, err := h.imovelService.Contratos(c.Request.Context(), paramID(c, "imovel_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contratos": contratos})
}
