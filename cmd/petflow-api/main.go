package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pawsuite/petflow/internal/config"
	"github.com/pawsuite/petflow/internal/domain/roster"
	v1 "github.com/pawsuite/petflow/internal/handler/v1"
	"github.com/pawsuite/petflow/internal/repository/gormstore"
	"github.com/pawsuite/petflow/internal/service"
	"github.com/pawsuite/petflow/pkg/auth"
	"github.com/pawsuite/petflow/pkg/clock"
	"github.com/pawsuite/petflow/pkg/database"
	"github.com/pawsuite/petflow/pkg/logger"
	"github.com/pawsuite/petflow/pkg/metrics"
	"github.com/pawsuite/petflow/pkg/tracer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "petflow-api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	log.Info("starting petflow-api",
		zap.String("environment", cfg.App.Environment),
		zap.String("db_driver", cfg.Database.Driver),
	)

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(cfg.Tracing)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				log.Warn("tracer shutdown failed", zap.Error(err))
			}
		}()
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(db, log); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	collector := metrics.NewCollector(cfg.App.Name)
	if err := database.InstrumentQueries(db, collector); err != nil {
		return fmt.Errorf("instrumenting database: %w", err)
	}
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go database.MonitorConnections(monitorCtx, db, collector, 15*time.Second)

	jwtManager := auth.NewJWTManager(cfg.JWT)

	apptRepo := gormstore.NewAppointmentRepository(db)
	petRepo := gormstore.NewPetRepository(db)
	catalogRepo := gormstore.NewCatalogRepository(db)
	rosterRepo := gormstore.NewRosterRepository(db)
	userRepo := gormstore.NewUserRepository(db)
	auditRepo := gormstore.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, log, collector)
	defer auditSvc.Shutdown()

	schedulingSvc := service.NewSchedulingService(
		apptRepo,
		petRepo,
		catalogRepo,
		roster.NewScheduleSource(rosterRepo),
		auditSvc,
		clock.System(),
		log,
		service.SchedulingOptions{
			DefaultSlot:       cfg.Scheduling.DefaultSlotDuration(),
			ReminderLookahead: cfg.Scheduling.ReminderLookahead,
			WeekStart:         cfg.Scheduling.WeekStartDay(),
		},
	)

	router := v1.NewRouter(v1.RouterDeps{
		Config:            cfg,
		Log:               log,
		Collector:         collector,
		JWTManager:        jwtManager,
		AuthService:       service.NewAuthService(userRepo, jwtManager, log),
		SchedulingService: schedulingSvc,
		PetService:        service.NewPetService(petRepo, auditSvc, log),
		CatalogService:    service.NewCatalogService(catalogRepo, log),
		RosterService:     service.NewRosterService(rosterRepo, log),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
