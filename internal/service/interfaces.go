package service

import (
	"context"

	"wh40k-club-tracker/internal/domain"
)

// Store interfaces abstract the SQLite repositories so services can be
// tested against in-memory fakes.

type PlayerStore interface {
	List(ctx context.Context) ([]domain.Player, error)
	Get(ctx context.Context, id string) (*domain.Player, error)
	Insert(ctx context.Context, player *domain.Player) error
	Update(ctx context.Context, player *domain.Player) error
	Delete(ctx context.Context, id string) error
	UpdateStatsBatch(ctx context.Context, stats map[string]domain.PlayerStats) error
	ReplaceAll(ctx context.Context, players []domain.Player) error
	Search(ctx context.Context, query string, limit int) ([]domain.Player, error)
}

type BattleStore interface {
	List(ctx context.Context) ([]domain.Battle, error)
	ListByPlayer(ctx context.Context, playerID string) ([]domain.Battle, error)
	Get(ctx context.Context, id string) (*domain.Battle, error)
	Insert(ctx context.Context, battle *domain.Battle) error
	Clear(ctx context.Context) error
	ReplaceAll(ctx context.Context, battles []domain.Battle) error
	Count(ctx context.Context) (int, error)
}

type SeasonStore interface {
	List(ctx context.Context) ([]domain.Season, error)
	Get(ctx context.Context, id string) (*domain.Season, error)
	Active(ctx context.Context) (*domain.Season, error)
	InsertActive(ctx context.Context, season *domain.Season) error
	FinishActive(ctx context.Context) (*domain.Season, error)
	AttachGame(ctx context.Context, seasonID, gameID string) error
	ReplaceAll(ctx context.Context, seasons []domain.Season) error
}
