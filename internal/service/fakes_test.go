package service

import (
	"context"
	"strings"
	"time"

	"wh40k-club-tracker/internal/config"
	"wh40k-club-tracker/internal/domain"
	"wh40k-club-tracker/internal/sharedstore"

	"github.com/rs/zerolog"
)

// In-memory store fakes so services can be exercised without SQLite.

type fakePlayerStore struct {
	players []domain.Player
}

func (f *fakePlayerStore) List(ctx context.Context) ([]domain.Player, error) {
	out := make([]domain.Player, len(f.players))
	copy(out, f.players)
	return out, nil
}

func (f *fakePlayerStore) Get(ctx context.Context, id string) (*domain.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			out := p
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerStore) Insert(ctx context.Context, player *domain.Player) error {
	f.players = append(f.players, *player)
	return nil
}

func (f *fakePlayerStore) Update(ctx context.Context, player *domain.Player) error {
	for i, p := range f.players {
		if p.ID == player.ID {
			f.players[i] = *player
			return nil
		}
	}
	return nil
}

func (f *fakePlayerStore) Delete(ctx context.Context, id string) error {
	for i, p := range f.players {
		if p.ID == id {
			f.players = append(f.players[:i], f.players[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakePlayerStore) UpdateStatsBatch(ctx context.Context, stats map[string]domain.PlayerStats) error {
	for i, p := range f.players {
		if s, ok := stats[p.ID]; ok {
			f.players[i].Stats = s
		}
	}
	return nil
}

func (f *fakePlayerStore) ReplaceAll(ctx context.Context, players []domain.Player) error {
	f.players = make([]domain.Player, len(players))
	copy(f.players, players)
	return nil
}

func (f *fakePlayerStore) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	var out []domain.Player
	for _, p := range f.players {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeBattleStore struct {
	battles []domain.Battle
}

func (f *fakeBattleStore) List(ctx context.Context) ([]domain.Battle, error) {
	out := make([]domain.Battle, len(f.battles))
	copy(out, f.battles)
	return out, nil
}

func (f *fakeBattleStore) ListByPlayer(ctx context.Context, playerID string) ([]domain.Battle, error) {
	var out []domain.Battle
	for _, b := range f.battles {
		if b.Player1.PlayerID == playerID || b.Player2.PlayerID == playerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBattleStore) Get(ctx context.Context, id string) (*domain.Battle, error) {
	for _, b := range f.battles {
		if b.ID == id {
			out := b
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeBattleStore) Insert(ctx context.Context, battle *domain.Battle) error {
	f.battles = append(f.battles, *battle)
	return nil
}

func (f *fakeBattleStore) Clear(ctx context.Context) error {
	f.battles = nil
	return nil
}

func (f *fakeBattleStore) ReplaceAll(ctx context.Context, battles []domain.Battle) error {
	f.battles = make([]domain.Battle, len(battles))
	copy(f.battles, battles)
	return nil
}

func (f *fakeBattleStore) Count(ctx context.Context) (int, error) {
	return len(f.battles), nil
}

type fakeSeasonStore struct {
	seasons []domain.Season
}

func (f *fakeSeasonStore) List(ctx context.Context) ([]domain.Season, error) {
	out := make([]domain.Season, len(f.seasons))
	copy(out, f.seasons)
	return out, nil
}

func (f *fakeSeasonStore) Get(ctx context.Context, id string) (*domain.Season, error) {
	for _, s := range f.seasons {
		if s.ID == id {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeSeasonStore) Active(ctx context.Context) (*domain.Season, error) {
	for _, s := range f.seasons {
		if s.IsActive {
			out := s
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeSeasonStore) InsertActive(ctx context.Context, season *domain.Season) error {
	if _, err := f.FinishActive(ctx); err != nil {
		return err
	}
	f.seasons = append(f.seasons, *season)
	return nil
}

func (f *fakeSeasonStore) FinishActive(ctx context.Context) (*domain.Season, error) {
	for i := range f.seasons {
		if f.seasons[i].IsActive {
			now := time.Now()
			f.seasons[i].IsActive = false
			f.seasons[i].EndDate = &now
			out := f.seasons[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeSeasonStore) AttachGame(ctx context.Context, seasonID, gameID string) error {
	for i := range f.seasons {
		if f.seasons[i].ID != seasonID {
			continue
		}
		for _, id := range f.seasons[i].GameIDs {
			if id == gameID {
				return nil
			}
		}
		f.seasons[i].GameIDs = append(f.seasons[i].GameIDs, gameID)
	}
	return nil
}

func (f *fakeSeasonStore) ReplaceAll(ctx context.Context, seasons []domain.Season) error {
	f.seasons = make([]domain.Season, len(seasons))
	copy(f.seasons, seasons)
	return nil
}

type testEnv struct {
	playerStore *fakePlayerStore
	battleStore *fakeBattleStore
	seasonStore *fakeSeasonStore
	stats       *StatsService
	players     *PlayerService
	battles     *BattleService
	seasons     *SeasonService
	sync        *SyncService
}

func newTestEnv() *testEnv {
	logger := zerolog.Nop()
	playerStore := &fakePlayerStore{}
	battleStore := &fakeBattleStore{}
	seasonStore := &fakeSeasonStore{}
	statsSvc := NewStatsService(playerStore, battleStore, logger)
	remote := sharedstore.NewClient(&config.Config{})
	return &testEnv{
		playerStore: playerStore,
		battleStore: battleStore,
		seasonStore: seasonStore,
		stats:       statsSvc,
		players:     NewPlayerService(playerStore, statsSvc, logger),
		battles:     NewBattleService(battleStore, playerStore, seasonStore, statsSvc, logger),
		seasons:     NewSeasonService(seasonStore, battleStore, logger),
		sync:        NewSyncService(playerStore, battleStore, seasonStore, statsSvc, remote, logger),
	}
}

func (e *testEnv) seedPlayer(id, name string, armies ...string) {
	e.playerStore.players = append(e.playerStore.players, domain.Player{
		ID:     id,
		Name:   name,
		Armies: armies,
	})
}
