package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/HizanLi/learn-textbook-with-ai/internal/config"
	handlers "github.com/HizanLi/learn-textbook-with-ai/internal/handlers/v1alpha1"
	"github.com/HizanLi/learn-textbook-with-ai/internal/pipeline"
	"github.com/HizanLi/learn-textbook-with-ai/internal/service"
	"github.com/HizanLi/learn-textbook-with-ai/internal/store"
	"github.com/HizanLi/learn-textbook-with-ai/pkg/metrics"
	"github.com/HizanLi/learn-textbook-with-ai/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg      *config.Config
	store    store.Store
	listener net.Listener
}

// New returns a new instance of the learner API server.
func New(
	cfg *config.Config,
	store store.Store,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		listener: listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	pipelineClient := pipeline.NewClient(
		s.cfg.Pipeline.URL,
		s.cfg.Pipeline.ProbeTimeout,
		s.cfg.Pipeline.StageTimeout,
	)

	h := handlers.NewServiceHandler(
		service.NewProjectService(s.store, s.cfg.Service.DataDir),
		service.NewProcessingService(s.store, pipelineClient),
		service.NewSearchService(s.store, pipelineClient),
	)
	h.RegisterRoutes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
