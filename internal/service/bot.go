package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

type BotService interface {
	MakeTurn(game *entity.Game) error
	BestMove(board tictactoe.Board) (tictactoe.Action, error)
}

type botService struct {
	logger *slog.Logger
}

// NewBotService - the bot plays the minimax move for whichever side is to move.
func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

func (that *botService) BestMove(board tictactoe.Board) (tictactoe.Action, error) {
	started := time.Now()

	action, ok := tictactoe.Minimax(board)
	if !ok {
		return tictactoe.Action{}, ErrNoAvailableMoves
	}

	that.logger.Debug("minimax search finished",
		"player", tictactoe.Player(board).String(),
		"action", action.String(),
		"elapsed", time.Since(started),
	)

	return action, nil
}

func (that *botService) MakeTurn(game *entity.Game) error {
	action, err := that.BestMove(game.Board)
	if err != nil {
		return err
	}

	if err = game.MakeTurn(game.BotMark, action); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}
