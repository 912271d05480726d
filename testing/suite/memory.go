package suite

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/usecase"
)

// MemoryGameRepository keeps games in a map, for tests that don't need Redis.
type MemoryGameRepository struct {
	mu    sync.Mutex
	games map[string]entity.Game
}

func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{games: map[string]entity.Game{}}
}

func (that *MemoryGameRepository) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.games[game.ID] = *game

	return nil
}

func (that *MemoryGameRepository) GetByID(_ context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}

	return &game, nil
}

func (that *MemoryGameRepository) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.games[id]; !ok {
		return repository.ErrGameNotFound
	}
	delete(that.games, id)

	return nil
}

// NewGameUseCase - the full use case stack on top of an in-memory repository.
func NewGameUseCase(t *testing.T) (usecase.GameUseCase, *MemoryGameRepository) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewMemoryGameRepository()

	gameUseCase := usecase.NewGameUseCase(logger, service.NewGameService(repo), service.NewBotService(logger))

	return gameUseCase, repo
}
