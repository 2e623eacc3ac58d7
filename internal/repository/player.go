package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wh40k-club-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(db *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{db: db, logger: logger}
}

const playerColumns = `id, name, armies, avatar, games_played, wins, losses, win_rate, most_played_army, rank`

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+playerColumns+` FROM players ORDER BY rank, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, id)
	player, err := scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", id, err)
	}
	return &player, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, player *domain.Player) error {
	armies, err := json.Marshal(player.Armies)
	if err != nil {
		return fmt.Errorf("failed to marshal armies: %w", err)
	}

	now := time.Now()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO players (id, name, armies, avatar, games_played, wins, losses, win_rate, most_played_army, rank, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, string(armies), player.Avatar,
		player.Stats.GamesPlayed, player.Stats.Wins, player.Stats.Losses,
		player.Stats.WinRate, player.Stats.MostPlayedArmy, player.Stats.Rank,
		now, now,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to insert player")
		return fmt.Errorf("failed to insert player %s: %w", player.ID, err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, player *domain.Player) error {
	armies, err := json.Marshal(player.Armies)
	if err != nil {
		return fmt.Errorf("failed to marshal armies: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE players
		SET name = ?, armies = ?, avatar = ?, games_played = ?, wins = ?, losses = ?,
		    win_rate = ?, most_played_army = ?, rank = ?, updated_at = ?
		WHERE id = ?`,
		player.Name, string(armies), player.Avatar,
		player.Stats.GamesPlayed, player.Stats.Wins, player.Stats.Losses,
		player.Stats.WinRate, player.Stats.MostPlayedArmy, player.Stats.Rank,
		time.Now(), player.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update player %s: %w", player.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("player %s not found", player.ID)
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete player %s: %w", id, err)
	}
	return nil
}

// UpdateStatsBatch persists recomputed cached stats for the whole roster in
// one transaction, so ranks never straddle two computations.
func (r *PlayerRepository) UpdateStatsBatch(ctx context.Context, stats map[string]domain.PlayerStats) error {
	if len(stats) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE players
		SET games_played = ?, wins = ?, losses = ?, win_rate = ?, most_played_army = ?, rank = ?, updated_at = ?
		WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare stats update: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for playerID, s := range stats {
		if _, err := stmt.ExecContext(ctx, s.GamesPlayed, s.Wins, s.Losses, s.WinRate, s.MostPlayedArmy, s.Rank, now, playerID); err != nil {
			return fmt.Errorf("failed to update stats for player %s: %w", playerID, err)
		}
	}

	return tx.Commit()
}

// ReplaceAll swaps the entire roster inside one transaction; used by import
// and by shared-store sync. All-or-nothing.
func (r *PlayerRepository) ReplaceAll(ctx context.Context, players []domain.Player) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("failed to clear players: %w", err)
	}

	now := time.Now()
	for _, player := range players {
		armies, err := json.Marshal(player.Armies)
		if err != nil {
			return fmt.Errorf("failed to marshal armies: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO players (id, name, armies, avatar, games_played, wins, losses, win_rate, most_played_army, rank, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			player.ID, player.Name, string(armies), player.Avatar,
			player.Stats.GamesPlayed, player.Stats.Wins, player.Stats.Losses,
			player.Stats.WinRate, player.Stats.MostPlayedArmy, player.Stats.Rank,
			now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert player %s: %w", player.ID, err)
		}
	}

	return tx.Commit()
}

func (r *PlayerRepository) Search(ctx context.Context, query string, limit int) ([]domain.Player, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+playerColumns+` FROM players
		WHERE name LIKE ? OR armies LIKE ?
		ORDER BY name LIMIT ?`,
		pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var player domain.Player
	var armies string
	err := row.Scan(
		&player.ID, &player.Name, &armies, &player.Avatar,
		&player.Stats.GamesPlayed, &player.Stats.Wins, &player.Stats.Losses,
		&player.Stats.WinRate, &player.Stats.MostPlayedArmy, &player.Stats.Rank,
	)
	if err != nil {
		return domain.Player{}, err
	}
	if err := json.Unmarshal([]byte(armies), &player.Armies); err != nil {
		return domain.Player{}, fmt.Errorf("failed to unmarshal armies for player %s: %w", player.ID, err)
	}
	return player, nil
}
