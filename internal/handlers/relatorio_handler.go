package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gestimo/gestimo-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RelatorioHandler struct {
	relatorioService *services.RelatorioService
	exportService    *services.ExportService
}

func NewRelatorioHandler(relatorioService *services.RelatorioService, exportService *services.ExportService) *RelatorioHandler {
	return &RelatorioHandler{
		relatorioService: relatorioService,
		exportService:    exportService,
	}
}

// @Summary Delinquency Report
// @Description List overdue postings with tenant, property and days late
// @Tags Relatorios
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /relatorios/inadimplencia [get]
func (h *RelatorioHandler) Inadimplencia(c *gin.Context) {
	linhas, err := h.relatorioService.Inadimplencia(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inadimplencia": linhas, "total": len(linhas)})
}

// @Summary Delinquency Report (CSV)
// @Tags Relatorios
// @Produce text/csv
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /relatorios/inadimplencia/csv [get]
func (h *RelatorioHandler) InadimplenciaCSV(c *gin.Context) {
	buf, filename, err := h.relatorioService.GerarInadimplenciaCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Delinquency Report (XLSX)
// @Tags Relatorios
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /relatorios/inadimplencia/xlsx [get]
func (h *RelatorioHandler) InadimplenciaXLSX(c *gin.Context) {
	data, filename, err := h.exportService.GerarInadimplenciaXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// @Summary DIMOB Report
// @Description Annual rent totals per owner and contract for the DIMOB filing
// @Tags Relatorios
// @Produce json
// @Param ano query int false "Base year (previous year by default)"
// @Param proprietario_id query int false "Restrict to one owner"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /relatorios/dimob [get]
func (h *RelatorioHandler) Dimob(c *gin.Context) {
	ano, proprietarioID := h.dimobParams(c)
	linhas, err := h.relatorioService.Dimob(c.Request.Context(), ano, proprietarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dimob": linhas, "ano": ano})
}

// @Summary DIMOB Report (CSV)
// @Tags Relatorios
// @Produce text/csv
// @Param ano query int false "Base year (previous year by default)"
// @Param proprietario_id query int false "Restrict to one owner"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /relatorios/dimob/csv [get]
func (h *RelatorioHandler) DimobCSV(c *gin.Context) {
	ano, proprietarioID := h.dimobParams(c)
	buf, filename, err := h.relatorioService.GerarDimobCSV(c.Request.Context(), ano, proprietarioID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary DIMOB Report (PDF)
// @Tags Relatorios
// @Produce application/pdf
// @Param ano query int false "Base year (previous year by default)"
// @Param proprietario_id query int false "Restrict to one owner"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /relatorios/dimob/pdf [get]
func (h *RelatorioHandler) DimobPDF(c *gin.Context) {
	ano, proprietarioID := h.dimobParams(c)
	data, filename, err := h.exportService.GerarDimobPDF(c.Request.Context(), ano, proprietarioID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Statement Report (PDF)
// @Description Render the settlement statement through the HTML template engine
// @Tags Relatorios
// @Produce application/pdf
// @Param prestacao_id path int true "Statement ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /relatorios/demonstrativo/{prestacao_id} [get]
func (h *RelatorioHandler) Demonstrativo(c *gin.Context) {
	buf, filename, err := h.relatorioService.GerarDemonstrativoPDF(c.Request.Context(), paramID(c, "prestacao_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// dimobParams reads the year and owner filters. DIMOB reports on the closed
// fiscal year, so the default is the previous one.
func (h *RelatorioHandler) dimobParams(c *gin.Context) (int, uint) {
	ano := time.Now().Year() - 1
	if v, err := strconv.Atoi(c.Query("ano")); err == nil && v > 0 {
		ano = v
	}
	var proprietarioID uint
	if v, err := strconv.ParseUint(c.Query("proprietario_id"), 10, 32); err == nil {
		proprietarioID = uint(v)
	}
	return ano, proprietarioID
}
