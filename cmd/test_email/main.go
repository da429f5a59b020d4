package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/models"
	"github.com/gestimo/gestimo-api/internal/services"
	"github.com/gestimo/gestimo-api/pkg/logger"
)

// Sends the boleto and reminder templates to a test inbox so the Resend
// integration can be verified without touching the database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup("development")

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is not set")
	}

	toEmail := os.Getenv("TEST_EMAIL_TO")
	if toEmail == "" {
		toEmail = "teste@example.com"
		log.Println("TEST_EMAIL_TO not set, using teste@example.com. Emails might fail if the domain is not verified.")
	}

	emailService := services.NewEmailService(cfg, nil)

	linhaDigitavel := "00190.00009 01234.567895 67890.123456 7 99990000150000"
	pixQRCode := "00020126580014br.gov.bcb.pix0136frompagto-teste-gestimo5204000053039865802BR"

	cobranca := &models.Cobranca{
		Competencia:    time.Now().Format("2006-01"),
		DataVencimento: time.Now().AddDate(0, 0, 5),
		ValorTotal:     decimal.NewFromFloat(1500.00),
		Contrato: models.Contrato{
			Inquilino: models.Pessoa{
				Nome:  "Inquilino de Teste",
				Email: toEmail,
			},
		},
	}
	boleto := &models.Boleto{
		LinhaDigitavel: &linhaDigitavel,
		PixQRCode:      &pixQRCode,
	}

	log.Printf("Sending boleto email to %s...", toEmail)
	if err := emailService.EnviarBoletoEmitido(context.Background(), cobranca, boleto); err != nil {
		log.Fatalf("Failed to send boleto email: %v", err)
	}
	log.Println("Boleto email sent successfully!")

	log.Printf("Sending due-date reminder email to %s...", toEmail)
	if err := emailService.EnviarLembreteVencimento(context.Background(), cobranca, boleto); err != nil {
		log.Fatalf("Failed to send reminder email: %v", err)
	}
	log.Println("Reminder email sent successfully!")
}
