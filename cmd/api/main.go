package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gestimo/gestimo-api/docs" // Swagger docs
	"github.com/gestimo/gestimo-api/internal/config"
	"github.com/gestimo/gestimo-api/internal/database"
	"github.com/gestimo/gestimo-api/internal/handlers"
	"github.com/gestimo/gestimo-api/internal/jobs"
	"github.com/gestimo/gestimo-api/internal/middleware"
	"github.com/gestimo/gestimo-api/internal/repository"
	"github.com/gestimo/gestimo-api/internal/services"
	"github.com/gestimo/gestimo-api/internal/storage"
	"github.com/gestimo/gestimo-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Gestimo API
// @version 1.0
// @description REST API for the Gestimo property management back office

// @contact.name API Support
// @contact.email suporte@gestimo.app

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	// Sentry is optional; skip silently when no DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set. Boletos and statements will not be emailed.")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, store, cfg, db)

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs)

	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			// Admin-only routes: accounts, bank credentials, audit trail
			admin := protected.Group("")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/usuarios", h.Usuario.Index)
				admin.POST("/usuarios", h.Usuario.Create)
				admin.GET("/usuarios/:usuario_id", h.Usuario.Show)
				admin.PUT("/usuarios/:usuario_id", h.Usuario.Update)
				admin.DELETE("/usuarios/:usuario_id", h.Usuario.Delete)
				admin.POST("/usuarios/:usuario_id/restaurar", h.Usuario.Restore)

				admin.GET("/bancos-config", h.BancoConfig.Index)
				admin.POST("/bancos-config", h.BancoConfig.Create)
				admin.GET("/bancos-config/:config_id", h.BancoConfig.Show)
				admin.PUT("/bancos-config/:config_id", h.BancoConfig.Update)
				admin.POST("/bancos-config/:config_id/testar", h.BancoConfig.Testar)

				admin.GET("/auditoria", h.Auditoria.Index)
			}

			// Mutating financial operations require gestor or admin;
			// leitura users keep the GET routes below
			gestor := protected.Group("")
			gestor.Use(middleware.RequireGestor())
			{
				gestor.POST("/pessoas", h.Pessoa.Create)
				gestor.PUT("/pessoas/:pessoa_id", h.Pessoa.Update)

				gestor.POST("/imoveis", h.Imovel.Create)
				gestor.PUT("/imoveis/:imovel_id", h.Imovel.Update)

				gestor.POST("/contratos", h.Contrato.Create)
				gestor.PUT("/contratos/:contrato_id", h.Contrato.Update)
				gestor.POST("/contratos/:contrato_id/encerrar", h.Contrato.Encerrar)
				gestor.POST("/contratos/:contrato_id/suspender", h.Contrato.Suspender)
				gestor.POST("/contratos/:contrato_id/reativar", h.Contrato.Reativar)
				gestor.POST("/contratos/:contrato_id/itens", h.Contrato.AdicionarItem)
				gestor.PUT("/contratos/:contrato_id/itens/:item_id", h.Contrato.AtualizarItem)
				gestor.DELETE("/contratos/:contrato_id/itens/:item_id", h.Contrato.RemoverItem)

				gestor.POST("/cobrancas", h.Cobranca.Create)
				gestor.POST("/cobrancas/gerar-mensais", h.Cobranca.GerarMensais)
				gestor.POST("/cobrancas/enviar", h.Cobranca.Enviar)
				gestor.POST("/cobrancas/:cobranca_id/cancelar", h.Cobranca.Cancelar)
				gestor.POST("/cobrancas/:cobranca_id/gerar-boleto", h.Cobranca.GerarBoleto)
				gestor.POST("/cobrancas/:cobranca_id/marcar-enviada", h.Cobranca.MarcarEnviada)

				gestor.POST("/boletos", h.Boleto.Create)
				gestor.POST("/boletos/registrar-lote", h.Boleto.RegistrarLote)
				gestor.POST("/boletos/atualizar-status", h.Boleto.AtualizarStatus)
				gestor.POST("/boletos/:boleto_id/registrar", h.Boleto.Registrar)
				gestor.POST("/boletos/:boleto_id/baixar", h.Boleto.Baixar)
				gestor.DELETE("/boletos/:boleto_id", h.Boleto.Delete)

				gestor.POST("/lancamentos", h.Lancamento.Create)
				gestor.POST("/lancamentos/:lancamento_id/baixas", h.Lancamento.RegistrarBaixa)
				gestor.POST("/baixas/:baixa_id/estornar", h.Lancamento.EstornarBaixa)

				gestor.POST("/prestacoes", h.Prestacao.Create)
				gestor.POST("/prestacoes/:prestacao_id/fechar", h.Prestacao.Fechar)
				gestor.POST("/prestacoes/:prestacao_id/enviar", h.Prestacao.Enviar)
				gestor.POST("/prestacoes/:prestacao_id/repasse", h.Prestacao.RegistrarRepasse)
				gestor.POST("/prestacoes/:prestacao_id/cancelar", h.Prestacao.Cancelar)
			}

			// Read access for every authenticated profile
			protected.GET("/pessoas", h.Pessoa.Index)
			protected.GET("/pessoas/:pessoa_id", h.Pessoa.Show)

			protected.GET("/imoveis", h.Imovel.Index)
			protected.GET("/imoveis/:imovel_id", h.Imovel.Show)
			protected.GET("/imoveis/:imovel_id/contratos", h.Imovel.Contratos)

			protected.GET("/contratos", h.Contrato.Index)
			protected.GET("/contratos/:contrato_id", h.Contrato.Show)
			protected.GET("/contratos/:contrato_id/itens", h.Contrato.ListarItens)

			protected.GET("/cobrancas", h.Cobranca.Index)
			protected.GET("/cobrancas/:cobranca_id", h.Cobranca.Show)

			// Static route first so "estatisticas" is not matched as :boleto_id
			protected.GET("/boletos/estatisticas", h.Boleto.Estatisticas)
			protected.GET("/boletos", h.Boleto.Index)
			protected.GET("/boletos/:boleto_id", h.Boleto.Show)
			protected.GET("/boletos/:boleto_id/logs", h.Boleto.Logs)

			protected.GET("/lancamentos", h.Lancamento.Index)
			protected.GET("/lancamentos/:lancamento_id", h.Lancamento.Show)

			protected.GET("/prestacoes", h.Prestacao.Index)
			protected.GET("/prestacoes/:prestacao_id", h.Prestacao.Show)
			protected.GET("/prestacoes/:prestacao_id/pdf", h.Prestacao.DownloadPDF)

			relatorios := protected.Group("/relatorios")
			{
				relatorios.GET("/inadimplencia", h.Relatorio.Inadimplencia)
				relatorios.GET("/inadimplencia/csv", h.Relatorio.InadimplenciaCSV)
				relatorios.GET("/inadimplencia/xlsx", h.Relatorio.InadimplenciaXLSX)
				relatorios.GET("/dimob", h.Relatorio.Dimob)
				relatorios.GET("/dimob/csv", h.Relatorio.DimobCSV)
				relatorios.GET("/dimob/pdf", h.Relatorio.DimobPDF)
				relatorios.GET("/demonstrativo/:prestacao_id", h.Relatorio.Demonstrativo)
			}

			protected.GET("/enderecos/cep/:cep", h.Endereco.BuscarCEP)

			// Static route first so "marcar-todas" is not matched as :notificacao_id
			notificacoes := protected.Group("/notificacoes")
			{
				notificacoes.GET("", h.Notificacao.Index)
				notificacoes.GET("/nao-lidas", h.Notificacao.CountNaoLidas)
				notificacoes.POST("/marcar-todas", h.Notificacao.MarcarTodasLidas)
				notificacoes.POST("/:notificacao_id/lida", h.Notificacao.MarcarLida)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Generate the month's charges for contracts with automatic billing.
	// The per-competência uniqueness guard makes the daily pass idempotent.
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Generating monthly charges...")
		_, err := svcs.Cobranca.GerarCobrancasMensais(ctx)
		return err
	})

	// Register boletos still pending at the bank; the scheduler is the retry
	// mechanism for failed registrations
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Registering pending boletos...")
		_, err := svcs.Boleto.RegistrarPendentes(ctx, 100)
		return err
	})

	// Poll the bank for boleto status transitions (liquidation, write-off)
	worker.ScheduleEvery(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Polling boleto statuses...")
		_, err := svcs.Boleto.AtualizarStatusBoletos(ctx)
		return err
	})

	// Email registered boletos and due-date reminders
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Dispatching charge emails...")
		if _, err := svcs.Cobranca.EnviarCobrancas(ctx); err != nil {
			return err
		}
		_, err := svcs.Cobranca.EnviarLembretes(ctx)
		return err
	})

	// Flag overdue postings and notify admins
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking overdue postings...")
		_, err := svcs.Lancamento.MarcarVencidos(ctx)
		return err
	})

	// Warn about bank certificates close to expiry
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Checking bank certificate expiry...")
		return svcs.BancoConfig.VerificarCertificados(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
