package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/gestimo/gestimo-api/internal/repository"
)

// ExportService renders reports as XLSX and PDF downloads
type ExportService struct {
	relatorioSvc  *RelatorioService
	prestacaoRepo repository.PrestacaoRepository
}

// NewExportService creates a new export service
func NewExportService(relatorioSvc *RelatorioService, prestacaoRepo repository.PrestacaoRepository) *ExportService {
	return &ExportService{
		relatorioSvc:  relatorioSvc,
		prestacaoRepo: prestacaoRepo,
	}
}

// GerarInadimplenciaXLSX renders the delinquency report as a spreadsheet
func (s *ExportService) GerarInadimplenciaXLSX(ctx context.Context) ([]byte, string, error) {
	linhas, err := s.relatorioSvc.Inadimplencia(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Inadimplência"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	_ = f.SetCellValue(sheet, "A1", "Relatório de Inadimplência")
	_ = f.SetCellValue(sheet, "B1", time.Now().Format("02/01/2006 15:04"))
	_ = f.SetCellStyle(sheet, "A1", "A1", headerStyle)

	colunas := []string{"Inquilino", "Documento", "Imóvel", "Competência", "Vencimento", "Dias em Atraso", "Valor", "Saldo"}
	for i, coluna := range colunas {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, coluna)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, linha := range linhas {
		row := i + 4
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), linha.Inquilino)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), linha.Documento)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), linha.Imovel)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), linha.Competencia)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), linha.Vencimento.Format("02/01/2006"))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), linha.DiasAtraso)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), linha.ValorTotal.InexactFloat64())
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), linha.Saldo.InexactFloat64())
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("inadimplencia_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// GerarDimobPDF renders the DIMOB declaration as PDF, one block per contract
func (s *ExportService) GerarDimobPDF(ctx context.Context, ano int, proprietarioID uint) ([]byte, string, error) {
	linhas, err := s.relatorioSvc.Dimob(ctx, ano, proprietarioID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, fmt.Sprintf("DIMOB - Rendimentos de Aluguel %d", ano))
	pdf.Ln(14)

	for _, linha := range linhas {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 8, fmt.Sprintf("Contrato %d", linha.ContratoID))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 9)
		pdf.Cell(100, 6, fmt.Sprintf("Proprietario: %s (%s)", linha.Proprietario, linha.ProprietarioDocumento))
		pdf.Ln(5)
		pdf.Cell(100, 6, fmt.Sprintf("Inquilino: %s (%s)", linha.Inquilino, linha.InquilinoDocumento))
		pdf.Ln(5)
		pdf.Cell(100, 6, fmt.Sprintf("Imovel: %s", linha.Imovel))
		pdf.Ln(6)

		for mes, valor := range linha.ValoresMensais {
			if valor.IsZero() {
				continue
			}
			pdf.Cell(40, 5, fmt.Sprintf("%02d/%d", mes+1, ano))
			pdf.Cell(40, 5, valor.StringFixed(2))
			pdf.Ln(4)
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.Cell(40, 6, "Total no ano")
		pdf.Cell(40, 6, linha.TotalAno.StringFixed(2))
		pdf.Ln(10)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("dimob_%d.pdf", ano)
	return buf.Bytes(), filename, nil
}

// GerarPrestacaoPDF renders the settlement statement summary as a simple PDF
func (s *ExportService) GerarPrestacaoPDF(ctx context.Context, prestacaoID uint) ([]byte, string, error) {
	prestacao, err := s.prestacaoRepo.FindByIDWithItens(ctx, prestacaoID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Prestacao de Contas")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 6, fmt.Sprintf("Proprietario: %s", prestacao.Proprietario.Nome))
	pdf.Ln(5)
	pdf.Cell(100, 6, fmt.Sprintf("Periodo: %s a %s",
		prestacao.PeriodoInicio.Format("02/01/2006"),
		prestacao.PeriodoFim.Format("02/01/2006")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 9)
	pdf.Cell(25, 6, "Data")
	pdf.Cell(90, 6, "Descricao")
	pdf.Cell(25, 6, "Tipo")
	pdf.Cell(30, 6, "Valor")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	for _, item := range prestacao.Itens {
		pdf.Cell(25, 5, item.Data.Format("02/01/2006"))
		pdf.Cell(90, 5, item.Descricao)
		pdf.Cell(25, 5, item.Tipo)
		pdf.Cell(30, 5, item.Valor.StringFixed(2))
		pdf.Ln(4)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(60, 6, "Total de receitas:")
	pdf.Cell(40, 6, prestacao.TotalReceitas.StringFixed(2))
	pdf.Ln(5)
	pdf.Cell(60, 6, "Total de despesas:")
	pdf.Cell(40, 6, prestacao.TotalDespesas.StringFixed(2))
	pdf.Ln(5)
	pdf.Cell(60, 6, "Taxa de administracao:")
	pdf.Cell(40, 6, prestacao.TaxaAdmin.StringFixed(2))
	pdf.Ln(5)
	pdf.Cell(60, 6, "Valor do repasse:")
	pdf.Cell(40, 6, prestacao.ValorRepasse.StringFixed(2))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("prestacao_%d.pdf", prestacao.ID)
	return buf.Bytes(), filename, nil
}
