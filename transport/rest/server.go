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

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

type gameUseCase interface {
	CreateGame(ctx context.Context, gameType string, humanMark tictactoe.Cell) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID string) error

	MakeTurn(ctx context.Context, gameID string, action tictactoe.Action) (*entity.Game, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Action, error)

	Analyze(board tictactoe.Board) (*usecase.Analysis, error)
}

type Server struct {
	logger *slog.Logger
	router chi.Router

	gameUseCase gameUseCase
}

// New - builds the HTTP API; ws, when not nil, is mounted at /ws.
func New(logger *slog.Logger, gameUseCase gameUseCase, ws http.Handler) *Server {
	that := &Server{
		logger:      logger.With("component", "rest"),
		router:      chi.NewRouter(),
		gameUseCase: gameUseCase,
	}

	that.router.Use(middleware.RequestID)
	that.router.Use(middleware.RealIP)
	that.router.Use(that.logRequests)
	that.router.Use(middleware.Recoverer)

	that.router.Get("/ping", that.handlePing)

	that.router.Route("/api", func(r chi.Router) {
		r.Post("/analyze", that.handleAnalyze)

		r.Route("/games", func(r chi.Router) {
			r.Post("/", that.handleCreateGame)

			r.Route("/{gameID}", func(r chi.Router) {
				r.Get("/", that.handleGetGame)
				r.Delete("/", that.handleDeleteGame)
				r.Post("/turns", that.handleMakeTurn)
				r.Get("/hint", that.handleHint)
			})
		})
	})

	if ws != nil {
		that.router.Handle("/ws", ws)
	}

	return that
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start - serves HTTP until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		that.logger.Info("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
