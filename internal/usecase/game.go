package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GameUseCase interface {
	CreateGame(ctx context.Context, gameType string, humanMark tictactoe.Cell) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	DeleteGame(ctx context.Context, gameID string) error

	MakeTurn(ctx context.Context, gameID string, action tictactoe.Action) (*entity.Game, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Action, error)

	Analyze(board tictactoe.Board) (*Analysis, error)
}

// Analysis is every query of the engine evaluated on one board.
type Analysis struct {
	Board    tictactoe.Board    `json:"board"`
	Player   tictactoe.Cell     `json:"player"`
	Actions  []tictactoe.Action `json:"actions"`
	Terminal bool               `json:"terminal"`
	Winner   tictactoe.Cell     `json:"winner"`
	Utility  int                `json:"utility"`
	BestMove *tictactoe.Action  `json:"best_move"`
}

type gameService interface {
	CreateGame(ctx context.Context, game *entity.Game) (*entity.Game, error)
	GetGameByID(ctx context.Context, id string) (*entity.Game, error)
	UpdateGame(ctx context.Context, game *entity.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

type botService interface {
	MakeTurn(game *entity.Game) error
	BestMove(board tictactoe.Board) (tictactoe.Action, error)
}

type gameUseCase struct {
	logger *slog.Logger

	gameService gameService
	botService  botService
}

func NewGameUseCase(logger *slog.Logger, gameService gameService, botService botService) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "game-usecase"),
		gameService: gameService,
		botService:  botService,
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context, gameType string, humanMark tictactoe.Cell) (*entity.Game, error) {
	if err := entity.ValidateGameType(gameType); err != nil {
		return nil, err
	}

	game := entity.NewGame("", gameType)

	if game.IsWithBot() {
		if humanMark != tictactoe.MarkX && humanMark != tictactoe.MarkO {
			return nil, fmt.Errorf("%w: human must play X or O", apperror.ErrInvalidMark)
		}

		game.HumanMark = humanMark
		game.BotMark = humanMark.Opponent()

		if game.IsBotTurn() {
			if err := that.botService.MakeTurn(game); err != nil {
				return nil, fmt.Errorf("bot failed to make first turn: %w", err)
			}
		}
	}

	game, err := that.gameService.CreateGame(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "type", game.Type)

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) DeleteGame(ctx context.Context, gameID string) error {
	if err := that.gameService.DeleteGame(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

// MakeTurn - plays the action for the human side, then lets the bot answer in bot games.
func (that *gameUseCase) MakeTurn(ctx context.Context, gameID string, action tictactoe.Action) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "gameID", gameID)

	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	mark := game.Turn
	if game.IsWithBot() {
		mark = game.HumanMark
	}

	if err = game.MakeTurn(mark, action); err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	if game.IsBotTurn() {
		if err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if err = that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		log.Info("game finished", "winner", game.Winner)
	}

	return game, nil
}

func (that *gameUseCase) Hint(ctx context.Context, gameID string) (tictactoe.Action, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return tictactoe.Action{}, fmt.Errorf("failed to get game: %w", err)
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return tictactoe.Action{}, err
	}

	action, err := that.botService.BestMove(game.Board)
	if err != nil {
		return tictactoe.Action{}, fmt.Errorf("failed to find best move: %w", err)
	}

	return action, nil
}

func (that *gameUseCase) Analyze(board tictactoe.Board) (*Analysis, error) {
	if !board.Valid() {
		return nil, fmt.Errorf("%w: mark counts can't come from alternating play", apperror.ErrInvalidBoard)
	}

	analysis := &Analysis{
		Board:    board,
		Player:   tictactoe.Player(board),
		Actions:  tictactoe.Actions(board),
		Terminal: tictactoe.Terminal(board),
		Winner:   tictactoe.Winner(board),
		Utility:  tictactoe.Utility(board),
	}

	if action, ok := tictactoe.Minimax(board); ok {
		analysis.BestMove = &action
	}

	return analysis, nil
}
