package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wh40k-club-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type BattleRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewBattleRepository(db *sql.DB, logger zerolog.Logger) *BattleRepository {
	return &BattleRepository{db: db, logger: logger}
}

const battleColumns = `id, date, winner, notes,
	p1_player_id, p1_player_name, p1_army, p1_result, p1_army_list, p1_deployment, p1_twists,
	p1_fully_painted_points, p1_primary_points, p1_secondary_points, p1_total_points,
	p2_player_id, p2_player_name, p2_army, p2_result, p2_army_list, p2_deployment, p2_twists,
	p2_fully_painted_points, p2_primary_points, p2_secondary_points, p2_total_points`

func (r *BattleRepository) List(ctx context.Context) ([]domain.Battle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+battleColumns+` FROM games ORDER BY date DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles: %w", err)
	}
	defer rows.Close()
	return collectBattles(rows)
}

func (r *BattleRepository) ListByPlayer(ctx context.Context, playerID string) ([]domain.Battle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+battleColumns+` FROM games
		WHERE p1_player_id = ? OR p2_player_id = ?
		ORDER BY date DESC, id`,
		playerID, playerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list battles for player %s: %w", playerID, err)
	}
	defer rows.Close()
	return collectBattles(rows)
}

func (r *BattleRepository) Get(ctx context.Context, id string) (*domain.Battle, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+battleColumns+` FROM games WHERE id = ?`, id)
	battle, err := scanBattle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get battle %s: %w", id, err)
	}
	return &battle, nil
}

func (r *BattleRepository) Insert(ctx context.Context, battle *domain.Battle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO games (`+battleColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		battleArgs(battle, time.Now())...,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("battle_id", battle.ID).Msg("failed to insert battle")
		return fmt.Errorf("failed to insert battle %s: %w", battle.ID, err)
	}
	return nil
}

// Clear removes every battle and the season attachments pointing at them.
func (r *BattleRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM season_games`); err != nil {
		return fmt.Errorf("failed to clear season attachments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("failed to clear battles: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info().Msg("all battles cleared")
	return nil
}

// ReplaceAll swaps the entire battle list in one transaction. All-or-nothing.
func (r *BattleRepository) ReplaceAll(ctx context.Context, battles []domain.Battle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("failed to clear battles: %w", err)
	}

	now := time.Now()
	for i := range battles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (`+battleColumns+`, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			battleArgs(&battles[i], now)...,
		)
		if err != nil {
			return fmt.Errorf("failed to insert battle %s: %w", battles[i].ID, err)
		}
	}

	return tx.Commit()
}

func (r *BattleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count battles: %w", err)
	}
	return count, nil
}

func battleArgs(b *domain.Battle, createdAt time.Time) []any {
	return []any{
		b.ID, b.Date, string(b.Winner), b.Notes,
		b.Player1.PlayerID, b.Player1.PlayerName, b.Player1.Army, string(b.Player1.Result),
		b.Player1.ArmyList, b.Player1.Deployment, b.Player1.Twists,
		b.Player1.FullyPaintedPoints, b.Player1.PrimaryPoints, b.Player1.SecondaryPoints, b.Player1.TotalPoints,
		b.Player2.PlayerID, b.Player2.PlayerName, b.Player2.Army, string(b.Player2.Result),
		b.Player2.ArmyList, b.Player2.Deployment, b.Player2.Twists,
		b.Player2.FullyPaintedPoints, b.Player2.PrimaryPoints, b.Player2.SecondaryPoints, b.Player2.TotalPoints,
		createdAt,
	}
}

func collectBattles(rows *sql.Rows) ([]domain.Battle, error) {
	battles := []domain.Battle{}
	for rows.Next() {
		battle, err := scanBattle(rows)
		if err != nil {
			return nil, err
		}
		battles = append(battles, battle)
	}
	return battles, rows.Err()
}

func scanBattle(row rowScanner) (domain.Battle, error) {
	var b domain.Battle
	var winner, p1Result, p2Result string
	err := row.Scan(
		&b.ID, &b.Date, &winner, &b.Notes,
		&b.Player1.PlayerID, &b.Player1.PlayerName, &b.Player1.Army, &p1Result,
		&b.Player1.ArmyList, &b.Player1.Deployment, &b.Player1.Twists,
		&b.Player1.FullyPaintedPoints, &b.Player1.PrimaryPoints, &b.Player1.SecondaryPoints, &b.Player1.TotalPoints,
		&b.Player2.PlayerID, &b.Player2.PlayerName, &b.Player2.Army, &p2Result,
		&b.Player2.ArmyList, &b.Player2.Deployment, &b.Player2.Twists,
		&b.Player2.FullyPaintedPoints, &b.Player2.PrimaryPoints, &b.Player2.SecondaryPoints, &b.Player2.TotalPoints,
	)
	if err != nil {
		return domain.Battle{}, err
	}
	b.Winner = domain.Winner(winner)
	b.Player1.Result = domain.Result(p1Result)
	b.Player2.Result = domain.Result(p2Result)
	return b, nil
}
