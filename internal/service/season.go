package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wh40k-club-tracker/internal/constants"
	"wh40k-club-tracker/internal/domain"
	"wh40k-club-tracker/internal/stats"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type SeasonService struct {
	repo    SeasonStore
	battles BattleStore
	logger  zerolog.Logger
}

func NewSeasonService(repo SeasonStore, battles BattleStore, logger zerolog.Logger) *SeasonService {
	return &SeasonService{repo: repo, battles: battles, logger: logger}
}

func (s *SeasonService) List(ctx context.Context) ([]domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

// Active returns the current season, or nil before the first season is
// created. Callers treat nil as "no active season", not an error.
func (s *SeasonService) Active(ctx context.Context) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.Active(ctx)
}

// Create starts a new season, finishing any currently active one first, so
// there is never a moment with two active seasons.
func (s *SeasonService) Create(ctx context.Context, name, description string) (*domain.Season, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: season name is required", ErrInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate season id: %w", err)
	}

	season := &domain.Season{
		ID:          id,
		Name:        name,
		StartDate:   time.Now(),
		IsActive:    true,
		Description: description,
		GameIDs:     []string{},
	}

	if err := s.repo.InsertActive(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

// FinishCurrent closes the active season. Returns nil when no season was
// active.
func (s *SeasonService) FinishCurrent(ctx context.Context) (*domain.Season, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.FinishActive(ctx)
}

// Leaderboard builds the ranked standings for one season. An empty season
// yields an empty slice; an unknown season id is an error.
func (s *SeasonService) Leaderboard(ctx context.Context, seasonID string) ([]stats.SeasonStanding, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.repo.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if season == nil {
		return nil, fmt.Errorf("season %s: %w", seasonID, ErrNotFound)
	}

	battles, err := s.battles.List(ctx)
	if err != nil {
		return nil, err
	}
	return stats.BuildLeaderboard(*season, battles), nil
}

// BattleCount reports how many battles are attached to a season.
func (s *SeasonService) BattleCount(ctx context.Context, seasonID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.repo.Get(ctx, seasonID)
	if err != nil {
		return 0, err
	}
	if season == nil {
		return 0, fmt.Errorf("season %s: %w", seasonID, ErrNotFound)
	}
	return len(season.GameIDs), nil
}

// PlayerCount reports how many distinct players fought in a season.
func (s *SeasonService) PlayerCount(ctx context.Context, seasonID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.repo.Get(ctx, seasonID)
	if err != nil {
		return 0, err
	}
	if season == nil {
		return 0, fmt.Errorf("season %s: %w", seasonID, ErrNotFound)
	}

	battles, err := s.battles.List(ctx)
	if err != nil {
		return 0, err
	}

	inSeason := make(map[string]bool, len(season.GameIDs))
	for _, id := range season.GameIDs {
		inSeason[id] = true
	}

	players := map[string]bool{}
	for _, battle := range battles {
		if !inSeason[battle.ID] {
			continue
		}
		players[battle.Player1.PlayerID] = true
		players[battle.Player2.PlayerID] = true
	}
	return len(players), nil
}
