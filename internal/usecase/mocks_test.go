package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type mockGameService struct {
	mock.Mock
}

func (that *mockGameService) CreateGame(ctx context.Context, game *entity.Game) (*entity.Game, error) {
	args := that.Called(ctx, game)

	switch ret := args.Get(0).(type) {
	case func(*entity.Game) *entity.Game:
		return ret(game), args.Error(1)
	case *entity.Game:
		return ret, args.Error(1)
	default:
		return nil, args.Error(1)
	}
}

func (that *mockGameService) GetGameByID(ctx context.Context, id string) (*entity.Game, error) {
	args := that.Called(ctx, id)

	game, _ := args.Get(0).(*entity.Game)

	return game, args.Error(1)
}

func (that *mockGameService) UpdateGame(ctx context.Context, game *entity.Game) error {
	return that.Called(ctx, game).Error(0)
}

func (that *mockGameService) DeleteGame(ctx context.Context, gameID string) error {
	return that.Called(ctx, gameID).Error(0)
}
