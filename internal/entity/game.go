package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

const (
	WithBotType = "bot"
	LocalType   = "local"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

type Game struct {
	ID        string          `json:"id"`
	Board     tictactoe.Board `json:"board"`
	Winner    string          `json:"winner"`
	Status    string          `json:"status"`
	Turn      tictactoe.Cell  `json:"player_turn"`
	Type      string          `json:"type"`
	HumanMark tictactoe.Cell  `json:"human_mark,omitempty"`
	BotMark   tictactoe.Cell  `json:"bot_mark,omitempty"`
}

func NewGame(id, gameType string) *Game {
	return &Game{
		ID:     id,
		Board:  tictactoe.InitialState(),
		Turn:   tictactoe.MarkX,
		Status: StatusOngoing,
		Type:   gameType,
	}
}

// ValidateGameType - checks that the game type is one we can host.
func ValidateGameType(gameType string) error {
	switch gameType {
	case WithBotType, LocalType:
		return nil
	default:
		return fmt.Errorf("%w: %q", apperror.ErrUnknownGameType, gameType)
	}
}

// UpdateGameState - derives winner, status and turn from the board.
func (that *Game) UpdateGameState() {
	if !tictactoe.Terminal(that.Board) {
		that.Status = StatusOngoing
		that.Turn = tictactoe.Player(that.Board)
		return
	}

	that.Status = StatusFinished
	that.Turn = tictactoe.Empty

	if winner := tictactoe.Winner(that.Board); winner != tictactoe.Empty {
		that.Winner = winner.String()
		return
	}

	that.Winner = PlayerTie
}

func (that *Game) MakeTurn(mark tictactoe.Cell, action tictactoe.Action) error {
	if that.IsFinished() {
		return apperror.ErrGameFinished
	}

	if tictactoe.Player(that.Board) != mark {
		return apperror.ErrNotYourTurn
	}

	board, err := tictactoe.Result(that.Board, action)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	that.Board = board
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

func (that *Game) IsWithBot() bool {
	return that.Type == WithBotType
}

// IsBotTurn reports whether the bot has to move next.
func (that *Game) IsBotTurn() bool {
	return that.IsWithBot() && that.IsOngoing() && that.Turn == that.BotMark
}
