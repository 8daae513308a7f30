package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/notegenius/server/internal/config"
	"github.com/notegenius/server/internal/middleware"
	"github.com/notegenius/server/internal/notes"
	"github.com/notegenius/server/internal/notification"
	"github.com/notegenius/server/internal/session"
	"github.com/notegenius/server/internal/verification"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Verification flow wiring.
	var issuer verification.Issuer
	switch d.Cfg.VerificationMode {
	case config.ModeDemo:
		issuer = verification.FixedIssuer{
			EmailCode: d.Cfg.DemoEmailCode,
			PhoneCode: d.Cfg.DemoPhoneCode,
		}
	default:
		issuer = verification.RandomIssuer{}
	}

	rules := verification.ClassicRules()
	if d.Cfg.RequireName {
		rules = verification.DefaultRules()
	}

	sessions := session.NewService(session.NewMemoryRegistry(), d.Logger)
	notifier := notification.NewLoggerNotifier(d.Logger)
	verifySvc := verification.NewService(verification.ServiceConfig{
		Rules:         rules,
		Issuer:        issuer,
		Notifier:      notifier,
		Logger:        d.Logger,
		DeliveryDelay: d.Cfg.DeliveryDelay,
		OnVerified:    sessions.Activate,
	})
	verifyHandler := verification.NewHandler(verifySvc, d.Logger, session.DashboardPath)

	// Notes wiring. Postgres when configured, in-memory otherwise.
	var noteRepo notes.Repository
	if d.DB != nil {
		noteRepo = notes.NewPostgresRepository(d.DB)
	} else {
		noteRepo = notes.NewMemoryRepository()
		if d.Cfg.IsDev() {
			if err := notes.Seed(context.Background(), noteRepo); err != nil {
				return fmt.Errorf("seed notes: %w", err)
			}
		}
	}
	noteSvc := notes.NewService(noteRepo, d.Logger, d.Cfg.SummaryDelay)
	noteHandler := notes.NewHandler(noteSvc)

	api := app.Group("/api/v1")

	// Public routes
	RegisterVerificationRoutes(api, verifyHandler)

	// Protected routes
	protected := api.Group("", middleware.RequireVerified(sessions))
	protected.Get("/me", func(c *fiber.Ctx) error {
		sess, _ := c.Locals(middleware.SessionLocal).(session.Session)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"session_id":  sess.ID,
			"name":        sess.Name,
			"channel":     sess.Channel,
			"contact":     sess.Contact,
			"verified_at": sess.VerifiedAt,
		})
	})
	RegisterNoteRoutes(protected, noteHandler)

	return nil
}
