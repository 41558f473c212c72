package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hoopsleague/api"
	"hoopsleague/application"
	"hoopsleague/config"
	"hoopsleague/database"
	"hoopsleague/domain/services"
	"hoopsleague/infrastructure"
	"hoopsleague/infrastructure/observability"
	"hoopsleague/repository"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API and the scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// app holds everything the commands share
type app struct {
	db        *database.DB
	nats      *infrastructure.NATSClient
	metrics   *observability.Service
	league    *application.LeagueService
	scheduler *application.SchedulerWorker
}

func (a *app) close() {
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}
	log.Info("Closing database connection...")
	a.db.Close()
}

// buildApp wires the database, event publishing, metrics and services
func buildApp(ctx context.Context, cfg *config.Config, registerer prometheus.Registerer) (*app, error) {
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	a := &app{db: db}

	if cfg.NATSServers != "" {
		log.WithField("servers", cfg.NATSServers).Info("Connecting to NATS...")
		client := infrastructure.NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.nats = client
	} else {
		log.Warn("NATS_SERVERS not set, events are handled locally only")
	}

	publisher := infrastructure.NewNATSEventPublisher(a.nats, infrastructure.NewEventSubjectMapper())
	if err := publisher.EnsureDomainEventStream(); err != nil {
		a.close()
		return nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	a.metrics = observability.NewService(registerer)
	infrastructure.RegisterNotificationHandler(
		publisher,
		infrastructure.NewDatabaseNotificationSink(repository.NewNotificationRepository(db)),
		a.metrics,
	)
	infrastructure.RegisterBalanceChangeMetrics(publisher, a.metrics)

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, publisher)

	log.Info("Initializing services...")
	ledger := services.NewLedger()
	fees := services.NewFeePolicy(cfg.TeamCreationFee)
	lifecycle := services.NewTournamentLifecycle(ledger, fees)
	standings := services.NewStandingsEngine()
	lineups := services.NewLineupAutoFiller(repository.NewAthleteRepository(db))
	advancer := services.NewPlayoffAdvancer(lineups)

	a.league = application.NewLeagueService(uowFactory, lifecycle, standings, advancer, a.metrics)
	a.scheduler = application.NewSchedulerWorker(uowFactory, lifecycle, standings, advancer, lineups, a.metrics, application.SchedulerSettings{
		Interval:       cfg.SchedulerInterval,
		LineupDeadline: cfg.LineupDeadline,
	})
	log.Info("Services initialized successfully")

	return a, nil
}

// Run starts the scheduler and the admin API and blocks until ctx is cancelled
func Run(ctx context.Context) error {
	log.Info("Starting hoopsleague...")

	cfg := config.Get()
	a, err := buildApp(ctx, cfg, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer a.close()

	stopScheduler := a.scheduler.Start(ctx)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(api.NewHandler(a.league, a.scheduler), observability.NewMetricsHandler()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("Admin API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	log.Infof("Service is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down gracefully...")
	case err := <-serverErr:
		if err != nil {
			stopScheduler()
			return fmt.Errorf("admin API failed: %w", err)
		}
	}

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down admin API: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}
