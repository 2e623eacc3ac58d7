package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wh40k-club-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type SeasonRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeasonRepository(db *sql.DB, logger zerolog.Logger) *SeasonRepository {
	return &SeasonRepository{db: db, logger: logger}
}

func (r *SeasonRepository) List(ctx context.Context) ([]domain.Season, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, start_date, end_date, is_active, description
		FROM seasons ORDER BY start_date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()

	seasons := []domain.Season{}
	for rows.Next() {
		var season domain.Season
		var endDate sql.NullTime
		if err := rows.Scan(&season.ID, &season.Name, &season.StartDate, &endDate, &season.IsActive, &season.Description); err != nil {
			return nil, err
		}
		if endDate.Valid {
			t := endDate.Time
			season.EndDate = &t
		}
		seasons = append(seasons, season)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range seasons {
		gameIDs, err := r.gameIDs(ctx, seasons[i].ID)
		if err != nil {
			return nil, err
		}
		seasons[i].GameIDs = gameIDs
	}
	return seasons, nil
}

func (r *SeasonRepository) Get(ctx context.Context, id string) (*domain.Season, error) {
	var season domain.Season
	var endDate sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, start_date, end_date, is_active, description
		FROM seasons WHERE id = ?`, id).
		Scan(&season.ID, &season.Name, &season.StartDate, &endDate, &season.IsActive, &season.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season %s: %w", id, err)
	}
	if endDate.Valid {
		t := endDate.Time
		season.EndDate = &t
	}

	gameIDs, err := r.gameIDs(ctx, season.ID)
	if err != nil {
		return nil, err
	}
	season.GameIDs = gameIDs
	return &season, nil
}

func (r *SeasonRepository) Active(ctx context.Context) (*domain.Season, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM seasons WHERE is_active = TRUE`).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active season: %w", err)
	}
	return r.Get(ctx, id)
}

// InsertActive finishes any currently active season and activates the new
// one inside a single transaction, so the single-active invariant holds at
// every commit point.
func (r *SeasonRepository) InsertActive(ctx context.Context, season *domain.Season) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE seasons SET is_active = FALSE, end_date = ? WHERE is_active = TRUE`, now); err != nil {
		return fmt.Errorf("failed to finish active season: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO seasons (id, name, start_date, end_date, is_active, description, created_at)
		VALUES (?, ?, ?, NULL, TRUE, ?, ?)`,
		season.ID, season.Name, season.StartDate, season.Description, now,
	); err != nil {
		return fmt.Errorf("failed to insert season %s: %w", season.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info().Str("season_id", season.ID).Str("name", season.Name).Msg("season started")
	return nil
}

// FinishActive closes the active season, if any. Finishing when no season is
// active is a no-op, matching the "no active season" initial state.
func (r *SeasonRepository) FinishActive(ctx context.Context) (*domain.Season, error) {
	active, err := r.Active(ctx)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, nil
	}

	now := time.Now()
	if _, err := r.db.ExecContext(ctx, `
		UPDATE seasons SET is_active = FALSE, end_date = ? WHERE id = ?`, now, active.ID); err != nil {
		return nil, fmt.Errorf("failed to finish season %s: %w", active.ID, err)
	}

	active.IsActive = false
	active.EndDate = &now
	r.logger.Info().Str("season_id", active.ID).Msg("season finished")
	return active, nil
}

// AttachGame adds a battle to a season's game set. Idempotent.
func (r *SeasonRepository) AttachGame(ctx context.Context, seasonID, gameID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO season_games (season_id, game_id) VALUES (?, ?)
		ON CONFLICT (season_id, game_id) DO NOTHING`,
		seasonID, gameID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach game %s to season %s: %w", gameID, seasonID, err)
	}
	return nil
}

// ReplaceAll swaps all seasons and their game sets in one transaction.
func (r *SeasonRepository) ReplaceAll(ctx context.Context, seasons []domain.Season) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_games`); err != nil {
		return fmt.Errorf("failed to clear season games: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM seasons`); err != nil {
		return fmt.Errorf("failed to clear seasons: %w", err)
	}

	now := time.Now()
	for _, season := range seasons {
		var endDate any
		if season.EndDate != nil {
			endDate = *season.EndDate
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO seasons (id, name, start_date, end_date, is_active, description, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			season.ID, season.Name, season.StartDate, endDate, season.IsActive, season.Description, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert season %s: %w", season.ID, err)
		}
		for _, gameID := range season.GameIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO season_games (season_id, game_id) VALUES (?, ?)
				ON CONFLICT (season_id, game_id) DO NOTHING`,
				season.ID, gameID,
			); err != nil {
				return fmt.Errorf("failed to attach game %s to season %s: %w", gameID, season.ID, err)
			}
		}
	}

	return tx.Commit()
}

func (r *SeasonRepository) gameIDs(ctx context.Context, seasonID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT game_id FROM season_games WHERE season_id = ? ORDER BY game_id`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game ids for season %s: %w", seasonID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
