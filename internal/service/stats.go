package service

import (
	"context"
	"math"
	"sort"

	"wh40k-club-tracker/internal/domain"
	"wh40k-club-tracker/internal/stats"

	"github.com/rs/zerolog"
)

// StatsService runs the pure aggregation pipeline over the stored battle
// list and maintains the cached per-player stats on the roster.
type StatsService struct {
	players PlayerStore
	battles BattleStore
	logger  zerolog.Logger
}

func NewStatsService(players PlayerStore, battles BattleStore, logger zerolog.Logger) *StatsService {
	return &StatsService{players: players, battles: battles, logger: logger}
}

func (s *StatsService) PlayerStats(ctx context.Context) ([]stats.PlayerStat, error) {
	players, battles, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ComputePlayerStats(players, battles), nil
}

func (s *StatsService) ArmyStats(ctx context.Context) ([]stats.ArmyStat, error) {
	battles, err := s.battles.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ComputeArmyStats(battles), nil
}

func (s *StatsService) PlayerArmyStats(ctx context.Context) ([]stats.PlayerArmyStat, error) {
	battles, err := s.battles.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ComputePlayerArmyStats(battles), nil
}

// RefreshRoster recomputes every roster player's cached stats from the full
// battle list and persists them together with fresh ranks. Called after
// every battle write. Unlike the aggregate views, the cached roster stats
// cover zero-game players too (zeroed out), and the cached win rate is a
// whole percent.
func (s *StatsService) RefreshRoster(ctx context.Context) error {
	players, battles, err := s.load(ctx)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		return nil
	}

	computed := stats.ComputePlayerStats(players, battles)
	byID := make(map[string]stats.PlayerStat, len(computed))
	for _, stat := range computed {
		byID[stat.PlayerID] = stat
	}

	type entry struct {
		playerID string
		cached   domain.PlayerStats
		name     string
	}
	entries := make([]entry, 0, len(players))
	for _, player := range players {
		cached := domain.PlayerStats{}
		if stat, ok := byID[player.ID]; ok {
			cached = domain.PlayerStats{
				GamesPlayed:    stat.GamesPlayed,
				Wins:           stat.Wins,
				Losses:         stat.Losses,
				WinRate:        math.Round(stat.WinRate),
				MostPlayedArmy: stat.MostPlayed,
			}
		} else if len(player.Armies) > 0 {
			cached.MostPlayedArmy = player.Armies[0]
		}
		entries = append(entries, entry{playerID: player.ID, cached: cached, name: player.Name})
	}

	// Roster-wide ranking: win rate desc, games played desc, name asc.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].cached.WinRate != entries[j].cached.WinRate {
			return entries[i].cached.WinRate > entries[j].cached.WinRate
		}
		if entries[i].cached.GamesPlayed != entries[j].cached.GamesPlayed {
			return entries[i].cached.GamesPlayed > entries[j].cached.GamesPlayed
		}
		return entries[i].name < entries[j].name
	})

	update := make(map[string]domain.PlayerStats, len(entries))
	for i, e := range entries {
		e.cached.Rank = i + 1
		update[e.playerID] = e.cached
	}

	if err := s.players.UpdateStatsBatch(ctx, update); err != nil {
		return err
	}

	s.logger.Debug().
		Int("players", len(update)).
		Int("battles", len(battles)).
		Msg("roster stats refreshed")
	return nil
}

func (s *StatsService) load(ctx context.Context) ([]domain.Player, []domain.Battle, error) {
	players, err := s.players.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	battles, err := s.battles.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return players, battles, nil
}
