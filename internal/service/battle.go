package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wh40k-club-tracker/internal/constants"
	"wh40k-club-tracker/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type BattleService struct {
	repo    BattleStore
	players PlayerStore
	seasons SeasonStore
	stats   *StatsService
	logger  zerolog.Logger
}

func NewBattleService(repo BattleStore, players PlayerStore, seasons SeasonStore, stats *StatsService, logger zerolog.Logger) *BattleService {
	return &BattleService{repo: repo, players: players, seasons: seasons, stats: stats, logger: logger}
}

func (s *BattleService) List(ctx context.Context) ([]domain.Battle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.List(ctx)
}

func (s *BattleService) ListByPlayer(ctx context.Context, playerID string) ([]domain.Battle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	return s.repo.ListByPlayer(ctx, playerID)
}

func (s *BattleService) Get(ctx context.Context, id string) (*domain.Battle, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	battle, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if battle == nil {
		return nil, fmt.Errorf("battle %s: %w", id, ErrNotFound)
	}
	return battle, nil
}

// Create validates a battle submission, derives participant results from the
// winner, appends the record, attaches it to the active season (if one
// exists) and recomputes the cached roster stats.
func (s *BattleService) Create(ctx context.Context, form *domain.BattleForm) (*domain.Battle, error) {
	if err := form.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player1, err := s.players.Get(ctx, form.Player1.PlayerID)
	if err != nil {
		return nil, err
	}
	player2, err := s.players.Get(ctx, form.Player2.PlayerID)
	if err != nil {
		return nil, err
	}
	if player1 == nil || player2 == nil {
		return nil, fmt.Errorf("%w: one or both players not found", ErrInvalid)
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate battle id: %w", err)
	}

	date := form.Date
	if date.IsZero() {
		date = time.Now()
	}

	battle := &domain.Battle{
		ID:      id,
		Date:    date,
		Winner:  form.Winner,
		Notes:   form.Notes,
		Player1: buildParticipant(form.Player1, player1.Name, domain.ResultFor(form.Winner, domain.WinnerPlayer1)),
		Player2: buildParticipant(form.Player2, player2.Name, domain.ResultFor(form.Winner, domain.WinnerPlayer2)),
	}

	if err := s.repo.Insert(ctx, battle); err != nil {
		return nil, err
	}

	active, err := s.seasons.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active != nil {
		if err := s.seasons.AttachGame(ctx, active.ID, battle.ID); err != nil {
			return nil, err
		}
	}

	if err := s.stats.RefreshRoster(ctx); err != nil {
		return nil, fmt.Errorf("battle recorded but stats refresh failed: %w", err)
	}

	s.logger.Info().
		Str("battle_id", battle.ID).
		Str("player1", battle.Player1.PlayerName).
		Str("player2", battle.Player2.PlayerName).
		Str("winner", string(battle.Winner)).
		Msg("battle recorded")
	return battle, nil
}

// ClearAll wipes the battle list and zeroes every roster player's cached
// stats without touching the players themselves.
func (s *BattleService) ClearAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	return s.stats.RefreshRoster(ctx)
}

// Import replaces the whole battle list from a JSON export. All-or-nothing.
func (s *BattleService) Import(ctx context.Context, raw []byte) (int, error) {
	var battles []domain.Battle
	if err := json.Unmarshal(raw, &battles); err != nil {
		return 0, fmt.Errorf("%w: invalid JSON: %v", ErrInvalid, err)
	}
	if err := validateBattles(battles); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.repo.ReplaceAll(ctx, battles); err != nil {
		return 0, err
	}
	if err := s.stats.RefreshRoster(ctx); err != nil {
		return 0, err
	}

	s.logger.Info().Int("count", len(battles)).Msg("battles imported")
	return len(battles), nil
}

func buildParticipant(form domain.ParticipantForm, playerName string, result domain.Result) domain.BattleParticipant {
	return domain.BattleParticipant{
		PlayerID:           form.PlayerID,
		PlayerName:         playerName,
		Army:               form.Army,
		Result:             result,
		ArmyList:           form.ArmyList,
		Deployment:         form.Deployment,
		Twists:             form.Twists,
		FullyPaintedPoints: form.FullyPaintedPoints,
		PrimaryPoints:      form.PrimaryPoints,
		SecondaryPoints:    form.SecondaryPoints,
		TotalPoints:        form.TotalPoints(),
	}
}

func validateBattles(battles []domain.Battle) error {
	seen := make(map[string]bool, len(battles))
	for i, battle := range battles {
		if battle.ID == "" {
			return fmt.Errorf("battle %d: missing id", i)
		}
		if seen[battle.ID] {
			return fmt.Errorf("battle %d: duplicate id %s", i, battle.ID)
		}
		seen[battle.ID] = true
		if !battle.Winner.Valid() {
			return fmt.Errorf("battle %s: invalid winner %q", battle.ID, battle.Winner)
		}
		if battle.Player1.PlayerID == "" || battle.Player2.PlayerID == "" {
			return fmt.Errorf("battle %s: missing participant player id", battle.ID)
		}
		if battle.Player1.Army == "" || battle.Player2.Army == "" {
			return fmt.Errorf("battle %s: missing participant army", battle.ID)
		}
		if battle.Player1.Result != domain.ResultFor(battle.Winner, domain.WinnerPlayer1) ||
			battle.Player2.Result != domain.ResultFor(battle.Winner, domain.WinnerPlayer2) {
			return fmt.Errorf("battle %s: participant results inconsistent with winner", battle.ID)
		}
	}
	return nil
}
