package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nerdycapuchino/playgrid-sports/internal/config"
	"github.com/nerdycapuchino/playgrid-sports/internal/middleware"
	"github.com/nerdycapuchino/playgrid-sports/internal/notification"
	"github.com/nerdycapuchino/playgrid-sports/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. When DB or Cache
// are nil in development, the corresponding in-memory store backs the
// service instead.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	var store wallet.Store
	if d.DB != nil {
		store = wallet.NewPostgresStore(d.DB)
	} else {
		store = wallet.NewMemoryStore()
	}

	var holds wallet.HoldStore
	if d.Cache != nil {
		holds = wallet.NewRedisHoldStore(d.Cache)
	} else {
		holds = wallet.NewMemoryHoldStore()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	walletSvc := wallet.NewService(store, holds, notifier, d.Logger).WithHoldTTL(d.Cfg.HoldTTL)
	walletHandler := wallet.NewHandler(walletSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	RegisterWalletRoutes(api, walletHandler)

	return nil
}
