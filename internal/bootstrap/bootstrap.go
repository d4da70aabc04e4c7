// Package bootstrap arma el grafo de dependencias compartido por el servidor HTTP y el CLI de cierres.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/dealroom-api/internal/application/certificate"
	"github.com/jhoicas/dealroom-api/internal/application/closing"
	"github.com/jhoicas/dealroom-api/internal/application/notification"
	"github.com/jhoicas/dealroom-api/internal/application/ports"
	"github.com/jhoicas/dealroom-api/internal/infrastructure/events"
	"github.com/jhoicas/dealroom-api/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/dealroom-api/internal/infrastructure/pdf"
	"github.com/jhoicas/dealroom-api/internal/infrastructure/postgres"
	"github.com/jhoicas/dealroom-api/pkg/config"
	"github.com/jhoicas/dealroom-api/pkg/logger"
)

// Container servicios listos para usar. Close libera todo en orden inverso.
type Container struct {
	Pool         *pgxpool.Pool
	Processor    *closing.Processor
	Sweeper      *closing.Sweeper
	History      *closing.HistoryUseCase
	Certificates *certificate.Service

	events events.Publisher
	redis  *redis.Client
	log    *logger.Logger
}

// New conecta PostgreSQL, Redis (si REDIS_ADDR) y el bus de eventos, y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	c := &Container{Pool: pool, log: log}

	publisher, err := events.New(cfg.Events, cfg.App.Name, log.Component("events"))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("bus de eventos: %w", err)
	}
	c.events = publisher

	var locker ports.Locker
	if cfg.Redis.Addr != "" {
		c.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := c.redis.Ping(ctx).Err(); err != nil {
			c.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		locker = lock.NewRedisLocker(c.redis)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: lock de cierre en memoria (una sola instancia)")
		locker = lock.NewLocalLocker()
	}

	dealRepo := postgres.NewDealRepository(pool)
	termsheetRepo := postgres.NewTermsheetRepository(pool)
	membershipRepo := postgres.NewDealMembershipRepository(pool)
	feePlanRepo := postgres.NewFeePlanRepository(pool)
	entityUserRepo := postgres.NewEntityUserRepository(pool)
	closeRunRepo := postgres.NewCloseRunRepository(pool)

	certs, err := certificate.NewService(
		postgres.NewCertificateRepository(pool),
		infrapdf.NewMarotoCertificateGenerator(cfg.App.Name),
		cfg.Closing.CertificateWorkers,
		cfg.Closing.SnowflakeNode,
		log,
	)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Certificates = certs

	notifier := notification.NewService(postgres.NewNotificationRepository(pool), publisher, log)
	commissions := closing.NewCommissionCalculator(
		membershipRepo, feePlanRepo,
		postgres.NewCommissionRepository(pool),
		postgres.NewIntroducerAgreementRepository(pool),
		entityUserRepo,
		notifier,
		postgres.NewAuditLogRepository(pool),
		publisher,
		log,
	)

	c.Processor = closing.NewProcessor(closing.Deps{
		Deals:         dealRepo,
		Termsheets:    termsheetRepo,
		Subscriptions: postgres.NewSubscriptionRepository(pool),
		Positions:     postgres.NewPositionRepository(pool),
		Memberships:   membershipRepo,
		FeePlans:      feePlanRepo,
		EntityUsers:   entityUserRepo,
		Profiles:      postgres.NewProfileRepository(pool),
		TxRunner:      postgres.NewTxRunner(pool),
		Commissions:   commissions,
		Certificates:  certs,
		Notifier:      notifier,
		Events:        publisher,
		Locker:        locker,
		Logger:        log,
	}, closing.Options{
		MarkOnErrors: cfg.Closing.MarkPolicy == config.MarkPolicyAlways,
		LockTTL:      time.Duration(cfg.Closing.LockTTLSeconds) * time.Second,
	})
	c.Sweeper = closing.NewSweeper(dealRepo, termsheetRepo, c.Processor, log)
	c.History = closing.NewHistoryUseCase(closeRunRepo)
	return c, nil
}

// Close espera los certificados pendientes y cierra conexiones.
func (c *Container) Close() {
	if c.Certificates != nil {
		if err := c.Certificates.Close(30 * time.Second); err != nil {
			c.log.Error().Err(err).Msg("cerrar pool de certificados")
		}
	}
	if c.events != nil {
		if err := c.events.Close(); err != nil {
			c.log.Error().Err(err).Msg("cerrar bus de eventos")
		}
	}
	if c.redis != nil {
		_ = c.redis.Close()
	}
	if c.Pool != nil {
		c.Pool.Close()
	}
}
