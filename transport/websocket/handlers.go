package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

const (
	actionGameNew      = "game:new"
	actionGameGet      = "game:get"
	actionGameTurn     = "game:turn"
	actionGameHint     = "game:hint"
	actionBoardAnalyze = "board:analyze"
)

var (
	errBadMessage      = errors.New("bad message")
	errUnknownAction   = errors.New("unknown action")
	errMissingGameID   = errors.New("game_id is required")
	errMissingAction   = errors.New("action is required")
	errMissingBoard    = errors.New("board is required")
	errMissingGameType = errors.New("type is required")
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses, each action reads only the fields it needs.
type Payload struct {
	GameID string            `json:"game_id,omitempty"`
	Type   string            `json:"type,omitempty"`
	Mark   tictactoe.Cell    `json:"mark,omitempty"`
	Action *tictactoe.Action `json:"action,omitempty"`
	Board  *tictactoe.Board  `json:"board,omitempty"`

	Game     *entity.Game      `json:"game,omitempty"`
	Analysis *usecase.Analysis `json:"analysis,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (that *Server) handleNewGame(ctx context.Context, payload *Payload) (*Payload, error) {
	if payload.Type == "" {
		return nil, errMissingGameType
	}

	game, err := that.gameUseCase.CreateGame(ctx, payload.Type, payload.Mark)
	if err != nil {
		return nil, err
	}

	that.logger.Info("game created", "gameID", game.ID, "type", game.Type)

	return &Payload{Game: game}, nil
}

func (that *Server) handleGetGame(ctx context.Context, payload *Payload) (*Payload, error) {
	if payload.GameID == "" {
		return nil, errMissingGameID
	}

	game, err := that.gameUseCase.GetGame(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleGameTurn(ctx context.Context, payload *Payload) (*Payload, error) {
	if payload.GameID == "" {
		return nil, errMissingGameID
	}

	if payload.Action == nil {
		return nil, errMissingAction
	}

	game, err := that.gameUseCase.MakeTurn(ctx, payload.GameID, *payload.Action)
	if err != nil {
		return nil, err
	}

	return &Payload{Game: game}, nil
}

func (that *Server) handleGameHint(ctx context.Context, payload *Payload) (*Payload, error) {
	if payload.GameID == "" {
		return nil, errMissingGameID
	}

	action, err := that.gameUseCase.Hint(ctx, payload.GameID)
	if err != nil {
		return nil, err
	}

	return &Payload{GameID: payload.GameID, Action: &action}, nil
}

func (that *Server) handleAnalyze(_ context.Context, payload *Payload) (*Payload, error) {
	if payload.Board == nil {
		return nil, errMissingBoard
	}

	analysis, err := that.gameUseCase.Analyze(*payload.Board)
	if err != nil {
		return nil, err
	}

	return &Payload{Analysis: analysis}, nil
}
