package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewRouter wires the game routes.
func NewRouter(logger *slog.Logger, sessions sessionManager) http.Handler {
	handlers := newGameHandlers(logger, sessions)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/ping", handlers.ping)

	router.Post("/sessions", handlers.create)
	router.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", handlers.state)
		r.Delete("/", handlers.delete)
		r.Post("/start", handlers.start)
		r.Post("/moves", handlers.move)
		r.Post("/ai-move", handlers.aiMove)
		r.Put("/mode", handlers.setMode)
		r.Put("/difficulty", handlers.setDifficulty)
		r.Get("/score", handlers.score)
		r.Delete("/score", handlers.resetScore)
	})

	return router
}

// Start serves handler on port until ctx is canceled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}
