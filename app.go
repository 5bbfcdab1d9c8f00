package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"yamdb/internal/apperror"
	"yamdb/internal/config"
	"yamdb/internal/database"
	"yamdb/internal/handlers"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/pkg/mailer"
	"yamdb/pkg/rabbitmq"
)

// App is the assembled service: the HTTP app and the resources it owns.
type App struct {
	Fiber *fiber.App
	db    *gorm.DB
	mq    *rabbitmq.Client
}

// NewApp connects to the database and, when configured, to RabbitMQ, then
// builds the HTTP app.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}

	mail := mailer.New(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.MailFrom,
	})

	// Without a broker, codes are mailed from the request goroutine.
	var sender services.ConfirmationSender = mailer.NewDirect(mail)
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueue})
		if err != nil {
			return nil, err
		}
		if err := mqClient.ConsumeConfirmationEvents(deliverConfirmation(mail)); err != nil {
			mqClient.Close()
			return nil, err
		}
		sender = mqClient
	}

	app, err := newApp(cfg, db, sender)
	if err != nil {
		if mqClient != nil {
			mqClient.Close()
		}
		return nil, err
	}
	app.mq = mqClient
	return app, nil
}

// deliverConfirmation mails a queued confirmation event.
func deliverConfirmation(m mailer.Mailer) func(rabbitmq.ConfirmationEvent) error {
	return func(event rabbitmq.ConfirmationEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return m.Send(ctx, mailer.ConfirmationMessage(event.Email, event.Username, event.Code))
	}
}

// newApp wires repositories, services and handlers on an open database.
func newApp(cfg *config.Config, db *gorm.DB, sender services.ConfirmationSender) (*App, error) {
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	genreRepo := repositories.NewGORMGenreRepository(db)
	titleRepo := repositories.NewGORMTitleRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	if cfg.AdminUsername != "" {
		if err := seedSuperuser(context.Background(), userRepo, cfg.AdminUsername, cfg.AdminEmail); err != nil {
			return nil, err
		}
	}

	if cfg.CodeTTL == 0 && !cfg.CodeSingleUse {
		log.Warn().Msg("confirmation codes never expire and can be reused; set CODE_TTL or CODE_SINGLE_USE")
	}

	authService := services.NewAuthService(userRepo, sender, cfg.JWTSecret,
		services.WithTokenTTL(cfg.TokenTTL),
		services.WithCodeTTL(cfg.CodeTTL),
		services.WithSingleUseCodes(cfg.CodeSingleUse),
	)

	app := fiber.New(fiber.Config{
		AppName:      "yamdb",
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", healthCheck(db))

	handlers.Register(app.Group("/v1"), handlers.Services{
		Auth:       authService,
		Users:      services.NewUserService(userRepo),
		Categories: services.NewCategoryService(categoryRepo),
		Genres:     services.NewGenreService(genreRepo),
		Titles:     services.NewTitleService(titleRepo, genreRepo, categoryRepo),
		Reviews:    services.NewReviewService(reviewRepo, titleRepo),
		Comments:   services.NewCommentService(commentRepo, reviewRepo),
	}, cfg.PageSize)

	return &App{Fiber: app, db: db}, nil
}

func healthCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log.Error().Err(err).Msg("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "unavailable",
			})
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "connected",
		})
	}
}

// Close releases the broker connection and the database pool.
func (a *App) Close() error {
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			log.Error().Err(err).Msg("error closing RabbitMQ client")
		}
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access database pool: %w", err)
	}
	return sqlDB.Close()
}

// seedSuperuser makes sure the configured administrator exists. An existing
// user with that username is promoted. The administrator signs in through the
// regular confirmation-code flow.
func seedSuperuser(ctx context.Context, repo repositories.UserRepository, username, email string) error {
	user, err := repo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Email != email {
			return fmt.Errorf("superuser %s exists with a different email", username)
		}
		if user.IsSuperuser && user.Role == models.RoleAdmin {
			return nil
		}
		user.IsSuperuser = true
		user.Role = models.RoleAdmin
		if err := repo.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to promote superuser %s: %w", username, err)
		}
		log.Info().Str("username", username).Msg("existing user promoted to superuser")
		return nil
	case apperror.Is(err, apperror.KindNotFound):
		user = &models.User{Username: username, Email: email, Role: models.RoleAdmin, IsSuperuser: true}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create superuser %s: %w", username, err)
		}
		log.Info().Str("username", username).Msg("superuser created")
		return nil
	default:
		return fmt.Errorf("failed to look up superuser %s: %w", username, err)
	}
}
