package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/services"
)

type EnderecoHandler struct {
	cepService *services.CepService
}

func NewEnderecoHandler(cepService *services.CepService) *EnderecoHandler {
	return &EnderecoHandler{cepService: cepService}
}

// @Summary Lookup CEP
// @Description Resolve a postal code via ViaCEP, serving cached results when fresh
// @Tags Enderecos
// @Produce json
// @Param cep path string true "CEP (with or without dash)"
// @Success 200 {object} models.EnderecoCEP
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /enderecos/cep/{cep} [get]
func (h *EnderecoHandler) BuscarCEP(c *gin.Context) {
	cep := strings.ReplaceAll(c.Param("cep"), "-", "")

	endereco, err := h.cepService.Buscar(c.Request.Context(), cep)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"endereco": endereco})
}
