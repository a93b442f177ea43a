package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/study-room-reservation/internal/config"
	"github.com/iliyamo/study-room-reservation/internal/database"
	"github.com/iliyamo/study-room-reservation/internal/handler"
	"github.com/iliyamo/study-room-reservation/internal/logging"
	"github.com/iliyamo/study-room-reservation/internal/popularity"
	"github.com/iliyamo/study-room-reservation/internal/queue"
	"github.com/iliyamo/study-room-reservation/internal/repository"
	"github.com/iliyamo/study-room-reservation/internal/router"
	"github.com/iliyamo/study-room-reservation/internal/service"
	"github.com/iliyamo/study-room-reservation/internal/session"
)

const sessionPruneInterval = 15 * time.Minute

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)
	sqlSessions := repository.NewSessionRepo(db)

	sessions := session.NewManager(sessionStore(cfg, rdb, sqlSessions, logger), session.Options{
		Secret:     cfg.SessionSecret,
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.IsProduction(),
	})

	auth := service.NewAuthService(users, cfg.BcryptCost, logger)
	if cfg.AdminUsername != "" {
		if _, err := auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			return err
		}
	}

	// popularity: reads go through the Redis cache, hits go straight to the
	// counter and evict the cached value
	client := popularity.NewClient(cfg.PopularityBaseURL, cfg.PopularityNamespace, cfg.PopularityTimeout)
	counter := popularity.NewCachedCounter(client, rdb, cfg.PopularityCacheTTL, logger)
	direct := popularity.NewDirectRecorder(client, cfg.PopularityTimeout, logger)
	direct.OnHit(func(room string) { counter.Forget(context.Background(), room) })

	var hits service.HitRecorder = direct
	if cfg.QueueEnabled {
		hits = queue.NewRecorder(queue.NewPublisher(cfg.RabbitMQURL, logger), direct, logger)
		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.BookingLogPath, direct, logger)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("booking consumer exited", zap.Error(err))
			}
		}()
	}

	booking := service.NewBookingService(reservations, rooms, hits, service.BookingOptions{
		Location:    cfg.Location,
		RequireRoom: cfg.BookingRequireRoom,
	}, logger)
	stats := service.NewStatsService(reservations, rooms, counter, logger)

	go pruneSessions(ctx, sqlSessions, logger)

	e := router.NewEcho(logger, sessions, auth, cfg.StaticDir)
	router.RegisterRoutes(e, router.Deps{
		Auth:         handler.NewAuthHandler(auth, sessions),
		Reservations: handler.NewReservationHandler(booking, stats),
		Rooms:        handler.NewRoomHandler(service.NewRoomService(rooms)),
		Health:       handler.Health(db),
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
		Log:          logger,
	})

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, cfg config.Config, logger *zap.Logger) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case database.DriverSQLite:
		db, err = database.OpenSQLite(cfg.SQLitePath)
	default:
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, cfg.DBDriver); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.SeedDefaultRooms {
		n, err := database.SeedRooms(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		if n > 0 {
			logger.Info("seeded default rooms", zap.Int("count", n))
		}
	}
	logger.Info("database ready", zap.String("driver", cfg.DBDriver))
	return db, nil
}

func sessionStore(cfg config.Config, rdb *redis.Client, sqlStore session.Store, logger *zap.Logger) session.Store {
	switch {
	case cfg.SessionStore == "sql":
	case rdb != nil:
		logger.Info("sessions stored in redis")
		return session.NewRedisStore(rdb, "")
	case cfg.SessionStore == "redis":
		logger.Warn("SESSION_STORE=redis but redis is unavailable; using sql sessions")
	}
	return sqlStore
}

func pruneSessions(ctx context.Context, repo *repository.SessionRepo, logger *zap.Logger) {
	t := time.NewTicker(sessionPruneInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PruneExpired(ctx, now)
			if err != nil {
				logger.Warn("session prune failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("pruned sessions", zap.Int64("count", n))
			}
		}
	}
}
