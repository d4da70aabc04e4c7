package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/dealroom-api/internal/bootstrap"
	"github.com/jhoicas/dealroom-api/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/dealroom-api/internal/interfaces/http"
	"github.com/jhoicas/dealroom-api/pkg/config"
	"github.com/jhoicas/dealroom-api/pkg/logger"
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
		Str("mark_policy", cfg.Closing.MarkPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()
	c, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer c.Close()

	// Barrido automático de cierres vencidos
	var jobs *scheduler.Manager
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.NewManager(log)
		if err != nil {
			log.Fatal().Err(err).Msg("crear scheduler")
		}
		interval := time.Duration(cfg.Scheduler.IntervalSeconds) * time.Second
		if err := jobs.Register(scheduler.NewCloseSweepJob(c.Sweeper, interval, log)); err != nil {
			log.Fatal().Err(err).Msg("registrar barrido de cierres")
		}
		jobs.Start()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Minute * 5, // un cierre grande puede tardar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Closer:       c.Processor,
		Readiness:    c.Sweeper,
		History:      c.History,
		Certificates: c.Certificates,
		JWTSecret:    cfg.JWT.Secret,
		Logger:       log,
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

	if jobs != nil {
		if err := jobs.Stop(); err != nil {
			log.Error().Err(err).Msg("apagado del scheduler")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
