package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"minesweeper-service/config"
	"minesweeper-service/handlers"
	"minesweeper-service/middleware"
	"minesweeper-service/models"
	"minesweeper-service/services"
	"minesweeper-service/utils"
	"minesweeper-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	translator, err := services.NewTranslator(cfg.DefaultLocale, cfg.I18nDir)
	if err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}

	var objects *utils.ObjectStore
	if cfg.NeedsR2() {
		objects, err = utils.InitR2(ctx, utils.R2Options{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			AccessKeySecret: cfg.R2AccessKeySecret,
			Bucket:          cfg.R2Bucket,
		})
		if err != nil {
			log.Fatalf("failed to initialize R2 client: %v", err)
		}
	}

	var scores services.ScoreStore
	switch cfg.ScoreBackend {
	case config.BackendR2:
		scores = services.NewBlobScoreStore(objects, cfg.ScoreObjectKey)
		log.Infof("✅ Scores kept in R2 object %s/%s", cfg.R2Bucket, cfg.ScoreObjectKey)
	default:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := db.AutoMigrate(&models.ScoreRecord{}); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		scores = services.NewGormScoreStore(db)
		log.Info("✅ Scores kept in postgres")
	}

	clock := clockwork.NewRealClock()
	sessions := services.NewSessionRegistry(clock)
	gameService := services.NewGameService(sessions, scores, translator)
	scoreService := services.NewScoreService(scores)

	reaper, err := sessions.StartReaper(cfg.SessionTTL, cfg.SessionReapInterval)
	if err != nil {
		log.Fatalf("failed to start session reaper: %v", err)
	}

	if cfg.ScoreBackupInterval > 0 {
		workers.NewScoreBackupWorker(scores, objects, clock, cfg.ScoreBackupInterval).Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      "minesweeper-service",
		ReadTimeout:  30 * time.Second,
		IdleTimeout:  2 * time.Minute,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// 🔐❗ GLOBAL: Only Gateway requests allowed
	app.Use(middleware.GatewayAuthMiddleware(cfg.ServiceToken))

	allowedOrigins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Accept-Language, Authorization, X-Requested-With, X-Request-ID, X-Player-ID, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Language, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(middleware.PlayerContextMiddleware())
	app.Use(middleware.LocaleMiddleware(translator))

	handlers.SetupGameRoutes(app, gameService)
	handlers.SetupScoreRoutes(app, scoreService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorf("Server error: %v", err)
		}
	}()

	log.Infof("✅ Server running on http://localhost:%s", cfg.Port)
	log.Infof("✅ CORS configured for origins: %s", allowedOrigins)

	<-ctx.Done()
	log.Info("Shutting down server...")

	if err := reaper.Shutdown(); err != nil {
		log.Warnf("scheduler shutdown: %v", err)
	}
	sessions.CloseAll()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Warnf("server shutdown: %v", err)
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Errorf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
