package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/de-tools/license-atlas/pkg/handlers/session"
	atlasmiddleware "github.com/de-tools/license-atlas/pkg/server/middleware"
	"github.com/de-tools/license-atlas/pkg/services/session"
	reportstore "github.com/de-tools/license-atlas/pkg/store/duckdb/report"
)

type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
}

type Dependencies struct {
	Sessions *session.Manager
	Runner   handlers.Runner
	Reports  reportstore.Store
}

type Config struct {
	Addr         string
	CORSOrigins  []string
	Dependencies Dependencies
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	sessionHandler := handlers.NewHandler(
		config.Dependencies.Sessions,
		config.Dependencies.Runner,
		config.Dependencies.Reports,
	)

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(atlasmiddleware.CORS(config.CORSOrigins))

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Get("/sessions/{sessionID}", sessionHandler.GetSession)
		r.Get("/sessions/{sessionID}/progress", sessionHandler.GetProgress)
		r.Get("/reports/{reportID}", sessionHandler.GetReport)
	})

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:    config.Addr,
			Handler: router,
		},
	}
}

// Router exposes the assembled mux, mainly for tests.
func (w *WebAPI) Router() http.Handler {
	return w.router
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
