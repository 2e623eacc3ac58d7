package service

import (
	"context"
	"fmt"

	"wh40k-club-tracker/internal/constants"
	"wh40k-club-tracker/internal/domain"
	"wh40k-club-tracker/internal/sharedstore"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SyncService mirrors the local database against the optional shared club
// store and owns the full-snapshot export/import path. The shared store
// being down is never fatal: reads fall back to the local copy with a
// logged warning, and pushes are fire-and-forget.
type SyncService struct {
	players PlayerStore
	battles BattleStore
	seasons SeasonStore
	stats   *StatsService
	remote  *sharedstore.Client
	logger  zerolog.Logger
}

func NewSyncService(players PlayerStore, battles BattleStore, seasons SeasonStore, stats *StatsService, remote *sharedstore.Client, logger zerolog.Logger) *SyncService {
	return &SyncService{
		players: players,
		battles: battles,
		seasons: seasons,
		stats:   stats,
		remote:  remote,
		logger:  logger,
	}
}

// Bootstrap pulls the shared snapshot on startup and overwrites the local
// copies when it succeeds. Any failure degrades to the local data.
func (s *SyncService) Bootstrap(ctx context.Context) error {
	if !s.remote.Enabled() {
		s.logger.Debug().Msg("shared store not configured, using local data only")
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, constants.SharedStoreTimeout)
	defer cancel()

	snapshot, err := s.remote.Load(loadCtx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("shared store unavailable, falling back to local data")
		return nil
	}

	if err := s.ImportSnapshot(ctx, snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("shared snapshot rejected, keeping local data")
		return nil
	}

	s.logger.Info().
		Int("players", len(snapshot.Players)).
		Int("games", len(snapshot.Games)).
		Int("seasons", len(snapshot.Seasons)).
		Msg("synced from shared store")
	return nil
}

// ExportSnapshot assembles the full club state for download or push.
func (s *SyncService) ExportSnapshot(ctx context.Context) (*domain.ClubSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	players, err := s.players.List(ctx)
	if err != nil {
		return nil, err
	}
	battles, err := s.battles.List(ctx)
	if err != nil {
		return nil, err
	}
	seasons, err := s.seasons.List(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ClubSnapshot{Players: players, Games: battles, Seasons: seasons}, nil
}

// ImportSnapshot validates and applies a full club snapshot. All three
// slices must pass structural validation before anything is written; any
// violation rejects the whole snapshot and the previous state is retained.
func (s *SyncService) ImportSnapshot(ctx context.Context, snapshot *domain.ClubSnapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: empty snapshot", ErrInvalid)
	}
	if err := validatePlayers(snapshot.Players); err != nil {
		return fmt.Errorf("%w: players: %v", ErrInvalid, err)
	}
	if err := validateBattles(snapshot.Games); err != nil {
		return fmt.Errorf("%w: games: %v", ErrInvalid, err)
	}
	if err := validateSeasons(snapshot.Seasons); err != nil {
		return fmt.Errorf("%w: seasons: %v", ErrInvalid, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.battles.ReplaceAll(ctx, snapshot.Games); err != nil {
		return err
	}
	if err := s.players.ReplaceAll(ctx, snapshot.Players); err != nil {
		return err
	}
	if err := s.seasons.ReplaceAll(ctx, snapshot.Seasons); err != nil {
		return err
	}
	return s.stats.RefreshRoster(ctx)
}

// PushAsync mirrors the current local state to the shared store in the
// background. Last write wins; failures are logged and dropped.
func (s *SyncService) PushAsync() {
	if !s.remote.Enabled() {
		return
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), constants.SharedStoreTimeout)
		defer cancel()

		snapshot, err := s.ExportSnapshot(ctx)
		if err != nil {
			return err
		}
		return s.remote.Save(ctx, sharedstore.TypeFull, snapshot)
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to push to shared store")
		}
	}()
}

func validateSeasons(seasons []domain.Season) error {
	seen := make(map[string]bool, len(seasons))
	activeCount := 0
	for i, season := range seasons {
		if season.ID == "" {
			return fmt.Errorf("season %d: missing id", i)
		}
		if season.Name == "" {
			return fmt.Errorf("season %d (%s): missing name", i, season.ID)
		}
		if seen[season.ID] {
			return fmt.Errorf("season %d: duplicate id %s", i, season.ID)
		}
		seen[season.ID] = true
		if season.IsActive {
			activeCount++
			if season.EndDate != nil {
				return fmt.Errorf("season %s: active but has an end date", season.ID)
			}
		}
	}
	if activeCount > 1 {
		return fmt.Errorf("more than one active season")
	}
	return nil
}
