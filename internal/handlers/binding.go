package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/middleware"
	"github.com/gestimo/gestimo-api/internal/services"
)

// BindNestedOrFlat attempts to bind the request body to obj.
// It first checks if the body contains a nested object with the given key
// (e.g. {"contrato": {...}}) and binds that. Otherwise it binds the whole
// body, supporting both nested and flat JSON clients.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	var bodyBytes []byte
	if c.Request.Body != nil {
		bodyBytes, _ = io.ReadAll(c.Request.Body)
	}
	// Restore body for future binding or subsequent reads
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	var nestedMap map[string]json.RawMessage
	if err := json.Unmarshal(bodyBytes, &nestedMap); err == nil {
		if val, ok := nestedMap[key]; ok {
			return json.Unmarshal(val, obj)
		}
	}

	return json.Unmarshal(bodyBytes, obj)
}

// paramID parses a numeric path parameter
func paramID(c *gin.Context, name string) uint {
	id, _ := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id)
}

// currentUsuarioID returns the authenticated user id as a nullable pointer
// for audit bookkeeping
func currentUsuarioID(c *gin.Context) *uint {
	id := middleware.GetUsuarioID(c)
	if id == 0 {
		return nil
	}
	return &id
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var errCfg *services.ErrConfiguracao
	switch {
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrBoletoNaoEncontrado):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCEPInvalido):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState),
		errors.Is(err, services.ErrCobrancaDuplicada),
		errors.Is(err, services.ErrContratoNaoAtivo),
		errors.Is(err, services.ErrBoletoNaoPendente),
		errors.Is(err, services.ErrBaixaJaEstornada),
		errors.Is(err, services.ErrLancamentoCancelado),
		errors.Is(err, services.ErrImovelOcupado),
		errors.Is(err, services.ErrDocumentoDuplicado),
		errors.Is(err, services.ErrEmailDuplicado),
		errors.Is(err, services.ErrDuplicate),
		errors.As(err, &errCfg):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// pagination renders the standard list envelope fields
func pagination(page, perPage int, total int64) gin.H {
	totalPages := int64(0)
	if perPage > 0 {
		totalPages = (total + int64(perPage) - 1) / int64(perPage)
	}
	return gin.H{
		"page":        page,
		"per_page":    perPage,
		"total":       total,
		"total_pages": totalPages,
	}
}
