package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"wh40k-club-tracker/internal/constants"
	"wh40k-club-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PlayerService struct {
	repo   PlayerStore
	stats  *StatsService
	logger zerolog.Logger
}

func NewPlayerService(repo PlayerStore, stats *StatsService, logger zerolog.Logger) *PlayerService {
	return &PlayerService{repo: repo, stats: stats, logger: logger}
}

func (s *PlayerService) List(ctx context.Context) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *PlayerService) Get(ctx context.Context, id string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return player, nil
}

func (s *PlayerService) Add(ctx context.Context, name string, armies []string, avatar string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name is required", ErrInvalid)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate player id: %w", err)
	}

	if avatar == "" {
		r, _ := utf8.DecodeRuneInString(name)
		avatar = strings.ToUpper(string(r))
	}

	mostPlayed := "Unknown"
	if len(armies) > 0 {
		mostPlayed = armies[0]
	}

	existing, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	player := &domain.Player{
		ID:     id,
		Name:   name,
		Armies: armies,
		Avatar: avatar,
		Stats: domain.PlayerStats{
			MostPlayedArmy: mostPlayed,
			Rank:           len(existing) + 1,
		},
	}

	if err := s.repo.Insert(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", id).Str("name", name).Msg("player added")
	return player, nil
}

// Update edits identity fields (name, armies, avatar). Cached stats are
// owned by the stats refresh and left untouched here.
func (s *PlayerService) Update(ctx context.Context, id, name string, armies []string, avatar string) (*domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	player, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}

	if name = strings.TrimSpace(name); name != "" {
		player.Name = name
	}
	if armies != nil {
		player.Armies = armies
	}
	if avatar != "" {
		player.Avatar = avatar
	}

	if err := s.repo.Update(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *PlayerService) Remove(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("player_id", id).Msg("player removed")
	return nil
}

func (s *PlayerService) Search(ctx context.Context, query string) ([]domain.Player, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if strings.TrimSpace(query) == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query, constants.PlayerSearchLimit)
}

// Import replaces the whole roster from a JSON export. Validation is
// all-or-nothing: any structural violation rejects the entire payload and
// the previous roster is retained.
func (s *PlayerService) Import(ctx context.Context, raw []byte) (int, error) {
	var players []domain.Player
	if err := json.Unmarshal(raw, &players); err != nil {
		return 0, fmt.Errorf("%w: invalid JSON: %v", ErrInvalid, err)
	}
	if err := validatePlayers(players); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.ReplaceAll(ctx, players); err != nil {
		return 0, err
	}
	if err := s.stats.RefreshRoster(ctx); err != nil {
		return 0, err
	}

	s.logger.Info().Int("count", len(players)).Msg("players imported")
	return len(players), nil
}

func validatePlayers(players []domain.Player) error {
	seen := make(map[string]bool, len(players))
	for i, player := range players {
		if player.ID == "" {
			return fmt.Errorf("player %d: missing id", i)
		}
		if player.Name == "" {
			return fmt.Errorf("player %d (%s): missing name", i, player.ID)
		}
		if seen[player.ID] {
			return fmt.Errorf("player %d: duplicate id %s", i, player.ID)
		}
		seen[player.ID] = true
		if player.Stats.GamesPlayed < 0 || player.Stats.Wins < 0 || player.Stats.Losses < 0 {
			return fmt.Errorf("player %s: negative stats", player.ID)
		}
		if player.Stats.Wins+player.Stats.Losses > player.Stats.GamesPlayed {
			return fmt.Errorf("player %s: wins+losses exceed games played", player.ID)
		}
	}
	return nil
}
