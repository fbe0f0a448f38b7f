package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	apiserver "github.com/HizanLi/learn-textbook-with-ai/internal/api_server"
	"github.com/HizanLi/learn-textbook-with-ai/internal/config"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/pkg/log"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		zap.S().Fatalw("reading configuration", "error", err)
	}

	undo := log.Setup(cfg.Service.LogLevel)
	defer undo()

	logger := zap.S().Named("learner-api")
	logger.Info("Starting API service")
	defer logger.Info("API service stopped")

	logger.Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		logger.Fatalw("initializing data store", "error", err)
	}

	st := store.NewStore(db)
	defer st.Close()

	if err := st.InitialMigration(); err != nil {
		logger.Fatalw("running initial migration", "error", err)
	}

	// Runs claimed by a previous process cannot resume; fail them so
	// callers can retry instead of seeing them processing forever.
	recovered, err := st.Project().FailInterrupted(context.Background(), "processing interrupted by service restart")
	if err != nil {
		logger.Fatalw("recovering interrupted runs", "error", err)
	}
	if recovered > 0 {
		logger.Infow("recovered interrupted runs", "count", recovered)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	go func() {
		defer cancel()
		listener, err := newListener(cfg.Service.Address)
		if err != nil {
			logger.Fatalw("creating listener", "error", err)
		}

		server := apiserver.New(cfg, st, listener)
		if err := server.Run(ctx); err != nil {
			logger.Fatalw("running api server", "error", err)
		}
	}()

	go func() {
		defer cancel()
		listener, err := newListener(cfg.Service.MetricsAddress)
		if err != nil {
			logger.Fatalw("creating metrics listener", "error", err)
		}

		metricsServer := apiserver.NewMetricServer(cfg.Service.MetricsAddress, listener, st)
		if err := metricsServer.Run(ctx); err != nil {
			logger.Fatalw("running metrics server", "error", err)
		}
	}()

	<-ctx.Done()
}

func newListener(address string) (net.Listener, error) {
	if address == "" {
		address = "localhost:0"
	}
	return net.Listen("tcp", address)
}
