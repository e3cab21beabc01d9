package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/notification"
	"github.com/jhoicas/Almacen-api/internal/application/sales"
	"github.com/jhoicas/Almacen-api/internal/application/scanner"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Almacen-api/internal/interfaces/http"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	articleRepo := postgres.NewArticleRepository(pool)
	batchRepo := postgres.NewStockBatchRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	notificationUC := notification.NewNotificationUseCase(notificationRepo)
	allocateUC := stock.NewAllocateUseCase(txRunner, notificationUC, cfg.Stock.LowStockTrigger)
	registerEntryUC := stock.NewRegisterEntryUseCase(txRunner)
	ledgerUC := stock.NewLedgerUseCase(articleRepo, batchRepo)
	articleUC := usecase.NewArticleUseCase(articleRepo, notificationUC, cfg.Stock.LowStockTrigger)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, articleRepo, saleRepo, allocateUC)
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	salePDFUC := sales.NewPDFUseCase(saleRepo, customerRepo, articleRepo, receiptGenerator)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Scanner de umbrales: corre como goroutine hasta la cancelación del contexto.
	thresholdScanner := scanner.New(articleRepo, notificationUC, scanner.Config{
		Interval:          cfg.Scanner.Interval,
		LowStockThreshold: cfg.Scanner.LowStockThreshold,
		ExpiryHorizonDays: cfg.Scanner.ExpiryHorizonDays,
	}, log)
	go thresholdScanner.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacen API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ArticleUC:      articleUC,
		CustomerUC:     customerUC,
		Allocate:       allocateUC,
		RegisterEntry:  registerEntryUC,
		Ledger:         ledgerUC,
		NotificationUC: notificationUC,
		CreateSale:     createSaleUC,
		SalePDF:        salePDFUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel() // detiene el scanner

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
