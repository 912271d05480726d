package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

const internalErrorMessage = "internal error"

type gameUseCase interface {
	CreateGame(ctx context.Context, gameType string, humanMark tictactoe.Cell) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, gameID string, action tictactoe.Action) (*entity.Game, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Action, error)

	Analyze(board tictactoe.Board) (*usecase.Analysis, error)
}

type handlerFunc func(ctx context.Context, payload *Payload) (*Payload, error)

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	pongWait   time.Duration
	pingPeriod time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		pongWait:   pongWait,
		pingPeriod: pingPeriod,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameGet] = server.handleGetGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameHint] = server.handleGameHint
	server.handlers[actionBoardAnalyze] = server.handleAnalyze

	return server
}

// ServeHTTP - upgrades the connection and serves messages until the client leaves.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	done := make(chan struct{})
	defer close(done)

	go that.keepAlive(conn, done)

	if err = that.handleMessages(r.Context(), conn); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn) error {
	log := that.logger.With("method", "handleMessages")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(that.pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(that.pongWait))
	})

	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("WebSocket connection closed")
				return nil
			}

			var (
				syntaxErr *json.SyntaxError
				typeErr   *json.UnmarshalTypeError
			)
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if err = that.sendError(conn, "", fmt.Errorf("%w: %w", errBadMessage, err)); err != nil {
					return err
				}
				continue
			}

			return fmt.Errorf("failed to read message: %w", err)
		}

		_ = conn.SetReadDeadline(time.Now().Add(that.pongWait))

		if err := that.dispatch(ctx, conn, &message); err != nil {
			return err
		}
	}
}

// keepAlive - pings the client until done is closed or a ping can't be written.
// WriteControl may run concurrently with the message writes of handleMessages.
func (that *Server) keepAlive(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(that.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				that.logger.Debug("failed to ping client", "error", err)
				return
			}
		}
	}
}

func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return that.sendError(conn, message.Action, fmt.Errorf("%w: %q", errUnknownAction, message.Action))
	}

	var payload Payload
	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return that.sendError(conn, message.Action, fmt.Errorf("%w: %w", errBadMessage, err))
		}
	}

	response, err := handler(ctx, &payload)
	if err != nil {
		return that.sendError(conn, message.Action, err)
	}

	return that.sendMessage(conn, message.Action, response)
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload *Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err = conn.WriteJSON(Message{Action: action, Payload: data}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(conn *websocket.Conn, action string, err error) error {
	if !isClientError(err) {
		that.logger.Error("request failed", "action", action, "error", err)
		return that.sendMessage(conn, action, &Payload{Error: internalErrorMessage})
	}

	that.logger.Warn("request rejected", "action", action, "error", err)

	return that.sendMessage(conn, action, &Payload{Error: err.Error()})
}

func isClientError(err error) bool {
	for _, target := range []error{
		errBadMessage,
		errUnknownAction,
		errMissingGameID,
		errMissingAction,
		errMissingBoard,
		errMissingGameType,
		repository.ErrGameNotFound,
		apperror.ErrInvalidAction,
		apperror.ErrInvalidBoard,
		apperror.ErrInvalidMark,
		apperror.ErrUnknownGameType,
		apperror.ErrGameFinished,
		apperror.ErrNotYourTurn,
	} {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
