package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"

	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/pkg/logger"
	"github.com/gestimo/gestimo-api/pkg/moeda"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

// EmailService sends tenant and owner notifications through Resend
type EmailService struct {
	config       *config.Config
	resendClient *resend.Client
	emailLogRepo repository.EmailLogRepository
}

// NewEmailService creates a new email service
func NewEmailService(cfg *config.Config, emailLogRepo repository.EmailLogRepository) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		resendClient: client,
		emailLogRepo: emailLogRepo,
	}
}

func getStringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// EnviarBoletoEmitido mails the tenant the boleto with linha digitável and
// Pix copy-paste code
func (s *EmailService) EnviarBoletoEmitido(ctx context.Context, cobranca *models.Cobranca, boleto *models.Boleto) error {
	inquilino := cobranca.Contrato.Inquilino

	data := struct {
		Nome           string
		Competencia    string
		Valor          string
		Vencimento     string
		LinhaDigitavel string
		PixQRCode      string
	}{
		Nome:           inquilino.Nome,
		Competencia:    cobranca.Competencia,
		Valor:          cobranca.GetValorTotalFormatado(),
		Vencimento:     cobranca.DataVencimento.Format("02/01/2006"),
		LinhaDigitavel: getStringValue(boleto.LinhaDigitavel),
		PixQRCode:      getStringValue(boleto.PixQRCode),
	}

	assunto := fmt.Sprintf("Boleto do aluguel — competência %s", cobranca.Competencia)
	return s.enviar(ctx, inquilino.Email, assunto, models.TemplateBoletoEmitido, data, &cobranca.ID, nil)
}

// EnviarLembreteVencimento nudges the tenant about a boleto due today
func (s *EmailService) EnviarLembreteVencimento(ctx context.Context, cobranca *models.Cobranca, boleto *models.Boleto) error {
	inquilino := cobranca.Contrato.Inquilino

	data := struct {
		Nome           string
		Valor          string
		Vencimento     string
		LinhaDigitavel string
	}{
		Nome:           inquilino.Nome,
		Valor:          cobranca.GetValorTotalFormatado(),
		Vencimento:     cobranca.DataVencimento.Format("02/01/2006"),
		LinhaDigitavel: getStringValue(boleto.LinhaDigitavel),
	}

	assunto := "Lembrete: seu aluguel vence hoje"
	return s.enviar(ctx, inquilino.Email, assunto, models.TemplateLembreteVencimento, data, &cobranca.ID, nil)
}

// EnviarCobrancaCancelada informs the tenant a previously sent charge was voided
func (s *EmailService) EnviarCobrancaCancelada(ctx context.Context, cobranca *models.Cobranca) error {
	inquilino := cobranca.Contrato.Inquilino

	data := struct {
		Nome        string
		Competencia string
		Valor       string
	}{
		Nome:        inquilino.Nome,
		Competencia: cobranca.Competencia,
		Valor:       cobranca.GetValorTotalFormatado(),
	}

	assunto := fmt.Sprintf("Cobrança cancelada — competência %s", cobranca.Competencia)
	return s.enviar(ctx, inquilino.Email, assunto, models.TemplateCobrancaCancelada, data, &cobranca.ID, nil)
}

// EnviarPrestacaoDisponivel tells the owner the settlement statement is ready
func (s *EmailService) EnviarPrestacaoDisponivel(ctx context.Context, prestacao *models.PrestacaoContas, anexoPDF []byte) error {
	proprietario := prestacao.Proprietario

	data := struct {
		Nome          string
		PeriodoInicio string
		PeriodoFim    string
		Receitas      string
		Despesas      string
		TaxaAdmin     string
		Repasse       string
	}{
		Nome:          proprietario.Nome,
		PeriodoInicio: prestacao.PeriodoInicio.Format("02/01/2006"),
		PeriodoFim:    prestacao.PeriodoFim.Format("02/01/2006"),
		Receitas:      moeda.Formatar(prestacao.TotalReceitas),
		Despesas:      moeda.Formatar(prestacao.TotalDespesas),
		TaxaAdmin:     moeda.Formatar(prestacao.TaxaAdmin),
		Repasse:       moeda.Formatar(prestacao.ValorRepasse),
	}

	corpo, err := s.renderTemplate(models.TemplatePrestacaoDisponivel+".html", data)
	if err != nil {
		return err
	}

	assunto := fmt.Sprintf("Prestação de contas — %s a %s", data.PeriodoInicio, data.PeriodoFim)
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{proprietario.Email},
		Subject: assunto,
		Html:    corpo,
	}
	if len(anexoPDF) > 0 {
		params.Attachments = []*resend.Attachment{{
			Filename: fmt.Sprintf("prestacao-%d.pdf", prestacao.ID),
			Content:  anexoPDF,
		}}
	}

	_, err = s.resendClient.Emails.Send(params)
	s.registrarLog(ctx, proprietario.Email, assunto, models.TemplatePrestacaoDisponivel, nil, &prestacao.ID, err)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", proprietario.Email, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", proprietario.Email, assunto))
	return nil
}

// enviar renders the template, sends and persists the outcome to EmailLog
func (s *EmailService) enviar(ctx context.Context, destinatario, assunto, templateName string, data any, cobrancaID, prestacaoID *uint) error {
	corpo, err := s.renderTemplate(templateName+".html", data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{destinatario},
		Subject: assunto,
		Html:    corpo,
	}
	_, err = s.resendClient.Emails.Send(params)
	s.registrarLog(ctx, destinatario, assunto, templateName, cobrancaID, prestacaoID, err)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to send email to %s: %v", destinatario, err))
		return err
	}

	logger.Info(fmt.Sprintf("📧 [Email Sent] To: %s | Subject: %s", destinatario, assunto))
	return nil
}

func (s *EmailService) registrarLog(ctx context.Context, destinatario, assunto, templateName string, cobrancaID, prestacaoID *uint, envioErr error) {
	// CLI tooling runs without a database
	if s.emailLogRepo == nil {
		return
	}
	entry := &models.EmailLog{
		Destinatario: destinatario,
		Assunto:      assunto,
		Template:     templateName,
		CobrancaID:   cobrancaID,
		PrestacaoID:  prestacaoID,
		Sucesso:      envioErr == nil,
	}
	if envioErr != nil {
		msg := envioErr.Error()
		entry.Erro = &msg
	}
	if err := s.emailLogRepo.Create(ctx, entry); err != nil {
		logger.Warn("Falha ao gravar log de email", "destinatario", destinatario, "error", err)
	}
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
