package main

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trustseal/docs"
	"trustseal/internal/config"
	"trustseal/internal/database"
	"trustseal/internal/database/migration"
	handlers "trustseal/internal/http/handler"
	"trustseal/internal/http/middleware"
	"trustseal/internal/ledger"
	ledgerdemo "trustseal/internal/ledger/demo"
	"trustseal/internal/ledger/thor"
	"trustseal/internal/otel"
	"trustseal/internal/payment"
	paymentdemo "trustseal/internal/payment/demo"
	paymentstripe "trustseal/internal/payment/stripe"
	"trustseal/internal/repository"
	"trustseal/internal/repository/memory"
	"trustseal/internal/repository/postgres"
	"trustseal/internal/service"
	"trustseal/internal/storage"
)

// demoOwner is the submitting identity recorded when no signer is configured.
const demoOwner = "0xDemo1234567890123456789012345678901234567890"

// @title TrustSeal Notary API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local
	ctx := context.Background()

	// Capability resolution happens exactly once, here. Every collaborator
	// below is chosen by the resolved capability, never re-checked per request.
	caps := cfg.Capabilities()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Durable store: PostgreSQL when configured, in-memory otherwise.
	// Capability resolution degrades ledger and store together, so the
	// in-memory branch here always pairs with the synthetic ledger below:
	// demo records never reach notary_records.
	var db *sql.DB
	var repo repository.NotaryRepository
	if caps.Store == config.Configured {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		repo = postgres.NewNotaryPostgres(db)
	} else {
		log.Println("demo mode: records held in memory only")
		repo = memory.NewNotaryMemory()
	}

	// Ledger gateway: real node client when configured, synthetic otherwise.
	var lg ledger.Gateway
	owner := demoOwner
	if caps.Ledger == config.Configured {
		lg, err = thor.New(cfg.Ledger)
		if err != nil {
			log.Fatalf("failed to initialize ledger client: %v", err)
		}
		owner = cfg.Ledger.SignerAddress
	} else {
		log.Println("demo mode: attestations are synthetic")
		lg = ledgerdemo.NewGateway()
	}

	// Payment gateway: Stripe when a secret key is present. Anything less
	// keeps the payment endpoints alive on the in-memory gateway, and the
	// notarization gate stays open.
	var pay payment.Gateway
	if caps.Payments == config.Configured {
		pay, err = paymentstripe.New(cfg.Payment)
		if err != nil {
			log.Fatalf("failed to initialize payment gateway: %v", err)
		}
	} else {
		pay = paymentdemo.NewGateway(cfg.Payment.PriceCents, cfg.Payment.Currency)
	}

	// Optional document archive (S3-compatible, MinIO-supported).
	var archive storage.Archive
	if caps.Archive == config.Configured {
		archive, err = storage.NewMinIO(cfg.Archive)
		if err != nil {
			log.Fatalf("failed to initialize document archive: %v", err)
		}
	}

	svc := service.NewNotaryService(lg, repo, pay, archive, service.Options{
		OwnerIdentity: owner,
		Demo:          caps.DemoMode(),
		PaymentGate:   caps.Payments == config.Configured,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, svc, caps, cfg.Environment)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
