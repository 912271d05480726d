package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBotService_MakeTurn(t *testing.T) {
	t.Run("Bot completes its line", func(t *testing.T) {
		// Given: the bot plays X and can win on the top row
		game := &entity.Game{
			Type:   entity.WithBotType,
			Status: entity.StatusOngoing,
			Board: tictactoe.Board{
				{tictactoe.MarkX, tictactoe.MarkX, tictactoe.Empty},
				{tictactoe.MarkO, tictactoe.MarkO, tictactoe.Empty},
				{tictactoe.Empty, tictactoe.Empty, tictactoe.Empty},
			},
			Turn:      tictactoe.MarkX,
			BotMark:   tictactoe.MarkX,
			HumanMark: tictactoe.MarkO,
		}

		// When: the bot moves
		err := NewBotService(newTestLogger()).MakeTurn(game)

		// Then: it wins the game
		require.NoError(t, err)
		assert.True(t, game.IsFinished())
		assert.Equal(t, "X", game.Winner)
	})

	t.Run("Bot refuses to move out of turn", func(t *testing.T) {
		// Given: it is the human's turn
		game := entity.NewGame("1", entity.WithBotType)
		game.HumanMark, game.BotMark = tictactoe.MarkX, tictactoe.MarkO

		// When: the bot is asked to move
		err := NewBotService(newTestLogger()).MakeTurn(game)

		// Then: the entity rejects the move
		require.Error(t, err)
		assert.Equal(t, tictactoe.Board{}, game.Board)
	})

	t.Run("No move on a finished board", func(t *testing.T) {
		game := &entity.Game{
			Type:   entity.WithBotType,
			Status: entity.StatusFinished,
			Board: tictactoe.Board{
				{tictactoe.MarkX, tictactoe.MarkX, tictactoe.MarkX},
				{tictactoe.MarkO, tictactoe.MarkO, tictactoe.Empty},
				{tictactoe.Empty, tictactoe.Empty, tictactoe.Empty},
			},
			BotMark: tictactoe.MarkO,
		}

		err := NewBotService(newTestLogger()).MakeTurn(game)

		require.ErrorIs(t, err, ErrNoAvailableMoves)
	})
}

func TestBotService_BestMove(t *testing.T) {
	action, err := NewBotService(newTestLogger()).BestMove(tictactoe.InitialState())

	require.NoError(t, err)
	assert.Equal(t, tictactoe.Action{Row: 0, Col: 0}, action)
}
