package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/impresos/internal/application/auth"
	"github.com/jhoicas/impresos/internal/application/bundle"
	"github.com/jhoicas/impresos/internal/application/dto"
	"github.com/jhoicas/impresos/internal/application/export"
	"github.com/jhoicas/impresos/internal/domain/report"
	"github.com/jhoicas/impresos/internal/infrastructure/cache"
	"github.com/jhoicas/impresos/internal/infrastructure/fixture"
	infrapdf "github.com/jhoicas/impresos/internal/infrastructure/pdf"
	"github.com/jhoicas/impresos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/impresos/internal/interfaces/http"
	"github.com/jhoicas/impresos/pkg/config"
	"github.com/jhoicas/impresos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("quote_layout", cfg.PDF.QuoteLayout).
		Str("lang", cfg.PDF.Lang).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{})
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	if err := txRunner.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	documentRepo := postgres.NewBusinessDocumentRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	catalogRepo := postgres.NewCatalogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	renderer, err := infrapdf.NewRenderer(infrapdf.RendererOptions{
		Layout: cfg.PDF.QuoteLayout,
		Lang:   cfg.PDF.Lang,
		Numbers: report.NumberFormat{
			Decimals:           cfg.PDF.Decimals,
			DecimalSeparator:   cfg.PDF.DecimalSeparator,
			ThousandsSeparator: cfg.PDF.ThousandsSeparator,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de impresión")
	}

	// Caché de PDFs: Redis si está habilitado; si no responde se sigue sin caché.
	var pdfCache export.PDFCache = cache.NoopPDFCache{}
	cacheStatus := "disabled"
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisPDFCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
			cache.WithTTL(time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute),
			cache.WithLogger(log.Component("cache")),
		)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, PDFs sin caché")
			cacheStatus = "unavailable"
		} else {
			defer redisCache.Close()
			pdfCache = redisCache
			cacheStatus = "redis"
		}
	}

	documentPDFUC := export.NewPDFUseCase(
		documentRepo, companyRepo, catalogRepo, catalogRepo.PaymentMethods(), catalogRepo, catalogRepo,
		renderer,
		export.WithCache(pdfCache),
		export.WithLogger(log.Component("pdf")),
	)
	importUC := bundle.NewImportUseCase(txRunner, bundle.WithImportLogger(log.Component("import")))
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30, // un paquete grande tarda en dibujarse
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 * 1024 * 1024,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Impresos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{Status: "ok", Cache: cacheStatus})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		DocumentPDF: documentPDFUC,
		Renderer:    renderer,
		Importer:    importUC,
		Decode: func(r io.Reader) (*bundle.Bundle, error) {
			return fixture.Decode(r)
		},
		JWTSecret: cfg.JWT.Secret,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
