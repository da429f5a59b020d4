package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/moeda"
)

// RelatorioService builds the back-office reports: delinquency, DIMOB and the
// owner's settlement statement
type RelatorioService struct {
	lancamentoRepo repository.LancamentoRepository
	prestacaoRepo  repository.PrestacaoRepository
	pessoaRepo     repository.PessoaRepository
}

// NewRelatorioService creates a new report service
func NewRelatorioService(
	lancamentoRepo repository.LancamentoRepository,
	prestacaoRepo repository.PrestacaoRepository,
	pessoaRepo repository.PessoaRepository,
) *RelatorioService {
	return &RelatorioService{
		lancamentoRepo: lancamentoRepo,
		prestacaoRepo:  prestacaoRepo,
		pessoaRepo:     pessoaRepo,
	}
}

// LinhaInadimplencia is one row of the delinquency report
type LinhaInadimplencia struct {
	LancamentoID  uint
	Inquilino     string
	Documento     string
	Imovel        string
	Competencia   string
	Vencimento    time.Time
	DiasAtraso    int
	ValorTotal    decimal.Decimal
	Saldo         decimal.Decimal
}

// Inadimplencia returns the open past-due postings with tenant and property
// context resolved
func (s *RelatorioService) Inadimplencia(ctx context.Context) ([]LinhaInadimplencia, error) {
	lancamentos, err := s.lancamentoRepo.FindEmAtraso(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	linhas := make([]LinhaInadimplencia, 0, len(lancamentos))
	for i := range lancamentos {
		l := &lancamentos[i]
		linha := LinhaInadimplencia{
			LancamentoID: l.ID,
			Competencia:  l.Competencia,
			Vencimento:   l.DataVencimento,
			DiasAtraso:   l.GetDiasAtraso(),
			ValorTotal:   l.ValorTotal,
			Saldo:        l.CalcularSaldo(),
		}
		if l.Inquilino != nil {
			linha.Inquilino = l.Inquilino.Nome
			linha.Documento = l.Inquilino.Documento
		}
		if l.Imovel != nil {
			linha.Imovel = l.Imovel.EnderecoCompleto()
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

// GerarInadimplenciaCSV renders the delinquency report as CSV
func (s *RelatorioService) GerarInadimplenciaCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	linhas, err := s.Inadimplencia(ctx)
	if err != nil {
		return nil, "", err
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	_ = w.Write([]string{"Relatório de Inadimplência", time.Now().Format("02/01/2006 15:04")})
	_ = w.Write([]string{""})
	_ = w.Write([]string{"Inquilino", "Documento", "Imóvel", "Competência", "Vencimento", "Dias em Atraso", "Valor", "Saldo"})

	totalSaldo := decimal.Zero
	for _, linha := range linhas {
		_ = w.Write([]string{
			linha.Inquilino,
			linha.Documento,
			linha.Imovel,
			linha.Competencia,
			linha.Vencimento.Format("02/01/2006"),
			fmt.Sprintf("%d", linha.DiasAtraso),
			linha.ValorTotal.StringFixed(2),
			linha.Saldo.StringFixed(2),
		})
		totalSaldo = totalSaldo.Add(linha.Saldo)
	}

	_ = w.Write([]string{""})
	_ = w.Write([]string{"Total em aberto", "", "", "", "", "", "", totalSaldo.StringFixed(2)})
	w.Flush()

	filename := fmt.Sprintf("inadimplencia_%s.csv", time.Now().Format("2006-01-02"))
	return b, filename, nil
}

// LinhaDimob is one contract's annual income for the DIMOB declaration
type LinhaDimob struct {
	Proprietario         string
	ProprietarioDocumento string
	Inquilino            string
	InquilinoDocumento   string
	Imovel               string
	ContratoID           uint
	ValoresMensais       [12]decimal.Decimal
	TotalAno             decimal.Decimal
}

// Dimob aggregates the rent actually received per owner and contract over a
// calendar year, broken down by month of payment. proprietarioID 0 covers all
// owners.
func (s *RelatorioService) Dimob(ctx context.Context, ano int, proprietarioID uint) ([]LinhaDimob, error) {
	var proprietarios []models.Pessoa
	if proprietarioID != 0 {
		p, err := s.pessoaRepo.FindByID(ctx, proprietarioID)
		if err != nil {
			return nil, ErrNotFound
		}
		proprietarios = []models.Pessoa{*p}
	} else {
		var err error
		proprietarios, err = s.pessoaRepo.FindProprietarios(ctx)
		if err != nil {
			return nil, err
		}
	}

	inicio := time.Date(ano, time.January, 1, 0, 0, 0, 0, time.UTC)
	fim := time.Date(ano, time.December, 31, 0, 0, 0, 0, time.UTC)

	var linhas []LinhaDimob
	for i := range proprietarios {
		proprietario := &proprietarios[i]

		lancamentos, err := s.lancamentoRepo.FindPorPeriodo(ctx, proprietario.ID, inicio, fim)
		if err != nil {
			return nil, err
		}

		porContrato := map[uint]*LinhaDimob{}
		for j := range lancamentos {
			l := &lancamentos[j]
			if l.ContratoID == nil {
				continue
			}

			linha, ok := porContrato[*l.ContratoID]
			if !ok {
				linha = &LinhaDimob{
					Proprietario:          proprietario.Nome,
					ProprietarioDocumento: proprietario.Documento,
					ContratoID:            *l.ContratoID,
				}
				if l.Inquilino != nil {
					linha.Inquilino = l.Inquilino.Nome
					linha.InquilinoDocumento = l.Inquilino.Documento
				}
				if l.Imovel != nil {
					linha.Imovel = l.Imovel.EnderecoCompleto()
				}
				porContrato[*l.ContratoID] = linha
			}

			for _, baixa := range l.Baixas {
				if baixa.Estornada || baixa.DataPagamento.Year() != ano {
					continue
				}
				mes := int(baixa.DataPagamento.Month()) - 1
				linha.ValoresMensais[mes] = linha.ValoresMensais[mes].Add(baixa.ValorTotal)
				linha.TotalAno = linha.TotalAno.Add(baixa.ValorTotal)
			}
		}

		for _, linha := range porContrato {
			linhas = append(linhas, *linha)
		}
	}

	return linhas, nil
}

// GerarDimobCSV renders the DIMOB declaration as CSV, one contract per row
// with the twelve monthly totals
func (s *RelatorioService) GerarDimobCSV(ctx context.Context, ano int, proprietarioID uint) (*bytes.Buffer, string, error) {
	linhas, err := s.Dimob(ctx, ano, proprietarioID)
	if err != nil {
		return nil, "", err
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	_ = w.Write([]string{fmt.Sprintf("DIMOB — Rendimentos de Aluguel %d", ano)})
	_ = w.Write([]string{""})

	header := []string{"Proprietário", "CPF/CNPJ Proprietário", "Inquilino", "CPF/CNPJ Inquilino", "Imóvel", "Contrato"}
	for mes := time.January; mes <= time.December; mes++ {
		header = append(header, fmt.Sprintf("%02d/%d", mes, ano))
	}
	header = append(header, "Total")
	_ = w.Write(header)

	for _, linha := range linhas {
		row := []string{
			linha.Proprietario,
			linha.ProprietarioDocumento,
			linha.Inquilino,
			linha.InquilinoDocumento,
			linha.Imovel,
			fmt.Sprintf("%d", linha.ContratoID),
		}
		for _, valor := range linha.ValoresMensais {
			row = append(row, valor.StringFixed(2))
		}
		row = append(row, linha.TotalAno.StringFixed(2))
		_ = w.Write(row)
	}
	w.Flush()

	filename := fmt.Sprintf("dimob_%d.csv", ano)
	return b, filename, nil
}

// GerarDemonstrativoPDF renders the owner's settlement statement as an HTML
// document converted to PDF
func (s *RelatorioService) GerarDemonstrativoPDF(ctx context.Context, prestacaoID uint) (*bytes.Buffer, string, error) {
	prestacao, err := s.prestacaoRepo.FindByIDWithItens(ctx, prestacaoID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	type itemView struct {
		Data      string
		Descricao string
		Tipo      string
		Valor     string
	}
	data := struct {
		Proprietario  string
		PeriodoInicio string
		PeriodoFim    string
		Itens         []itemView
		TotalReceitas string
		TotalDespesas string
		TaxaAdmin     string
		ValorRepasse  string
		GeradoEm      string
	}{
		Proprietario:  prestacao.Proprietario.Nome,
		PeriodoInicio: prestacao.PeriodoInicio.Format("02/01/2006"),
		PeriodoFim:    prestacao.PeriodoFim.Format("02/01/2006"),
		TotalReceitas: moeda.Formatar(prestacao.TotalReceitas),
		TotalDespesas: moeda.Formatar(prestacao.TotalDespesas),
		TaxaAdmin:     moeda.Formatar(prestacao.TaxaAdmin),
		ValorRepasse:  moeda.Formatar(prestacao.ValorRepasse),
		GeradoEm:      time.Now().Format("02/01/2006 15:04"),
	}
	for _, item := range prestacao.Itens {
		data.Itens = append(data.Itens, itemView{
			Data:      item.Data.Format("02/01/2006"),
			Descricao: item.Descricao,
			Tipo:      item.Tipo,
			Valor:     moeda.Formatar(item.Valor),
		})
	}

	buf, err := s.generatePDF("demonstrativo.html", data)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("demonstrativo_%d.pdf", prestacao.ID)
	return buf, filename, nil
}

func (s *RelatorioService) generatePDF(templateName string, data interface{}) (*bytes.Buffer, error) {
	tmplPath := fmt.Sprintf("internal/services/templates/reports/%s", templateName)
	if _, err := os.Stat(tmplPath); os.IsNotExist(err) {
		tmplPath = fmt.Sprintf("templates/reports/%s", templateName)
	}

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s (path: %s): %w", templateName, tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(buf.Bytes()))
	page.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create pdf: %w", err)
	}

	return pdfg.Buffer(), nil
}
