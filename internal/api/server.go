package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/internal/api/handler"
	"github.com/vfg2006/creative-performance-api/internal/api/handler/router"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/usecases/authenticating"
	"github.com/vfg2006/creative-performance-api/internal/usecases/connecting"
	"github.com/vfg2006/creative-performance-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	connectionService connecting.ConnectionService,
	authenticator authenticating.Authenticator,
	triggerStatus handler.TriggerStatusProvider,
) (*Server, error) {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Connections(connectionService)...),
		router.WithRoutes(handler.Scheduler(triggerStatus)...),
	)

	// Downloaded creatives are served straight from disk under the same
	// prefix the harmonized rows reference.
	rt.ServeStatic(config.Assets.ServedPrefix, http.Dir(config.Assets.CreativesDir))

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server stopped unexpectedly")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("interrupt signal received")
	case <-ctx.Done():
		logrus.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("error during server shutdown")
		return err
	}

	logrus.Info("server shut down cleanly")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
