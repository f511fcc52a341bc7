package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/draftarena/tcg-draft-backend/internal/catalog"
	"github.com/draftarena/tcg-draft-backend/internal/config"
	"github.com/draftarena/tcg-draft-backend/internal/httpapi"
	"github.com/draftarena/tcg-draft-backend/internal/hub"
	"github.com/draftarena/tcg-draft-backend/internal/room"
	"github.com/draftarena/tcg-draft-backend/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger := newLogger(cfg.AppEnv)
	defer func() { _ = logger.Sync() }()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	st := store.New(db, logger)
	if err := st.AutoMigrate(); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.NewHub(ctx, room.Deps{
		Saver: st,
		Log:   logger,
		Timers: room.Timers{
			TurnSec:    cfg.TurnTimerSec,
			ReserveSec: cfg.ReserveSec,
		},
		Pool:      catalog.IDs(),
		Retention: cfg.MatchRetention,
	})

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: httpapi.SetupRoutes(h, st, logger),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Idle sweep: expire rooms nobody has touched in a while.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.IdleSweep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				h.Inbox() <- hub.SweepIdle{MaxAge: cfg.IdleMaxAge}
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shut down cleanly")
}

func newLogger(appEnv string) *zap.Logger {
	if appEnv == "development" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
