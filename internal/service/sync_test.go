package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wh40k-club-tracker/internal/domain"
)

func snapshot() *domain.ClubSnapshot {
	return &domain.ClubSnapshot{
		Players: []domain.Player{
			{ID: "p1", Name: "Alice", Armies: []string{"Space Marines"}},
			{ID: "p2", Name: "Bob", Armies: []string{"Orks"}},
		},
		Games: []domain.Battle{
			{
				ID:     "g1",
				Date:   time.Now(),
				Winner: domain.WinnerPlayer1,
				Player1: domain.BattleParticipant{
					PlayerID: "p1", PlayerName: "Alice", Army: "Space Marines",
					Result: domain.ResultWin, TotalPoints: 70,
				},
				Player2: domain.BattleParticipant{
					PlayerID: "p2", PlayerName: "Bob", Army: "Orks",
					Result: domain.ResultLoss, TotalPoints: 30,
				},
			},
		},
		Seasons: []domain.Season{
			{ID: "s1", Name: "Imported Season", IsActive: true, GameIDs: []string{"g1"}},
		},
	}
}

func TestSyncServiceImportSnapshot(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("stale", "Stale Player")

	if err := env.sync.ImportSnapshot(context.Background(), snapshot()); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	if len(env.playerStore.players) != 2 {
		t.Errorf("players = %d, want previous roster replaced with 2", len(env.playerStore.players))
	}
	if len(env.battleStore.battles) != 1 {
		t.Errorf("battles = %d, want 1", len(env.battleStore.battles))
	}
	if len(env.seasonStore.seasons) != 1 {
		t.Errorf("seasons = %d, want 1", len(env.seasonStore.seasons))
	}

	// Cached roster stats must be rebuilt from the imported battles.
	alice, _ := env.playerStore.Get(context.Background(), "p1")
	if alice.Stats.GamesPlayed != 1 || alice.Stats.Wins != 1 {
		t.Errorf("alice cached stats = %+v, want rebuilt 1 game 1 win", alice.Stats)
	}
}

func TestSyncServiceImportSnapshotRejectsInvalid(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("keeper", "Keeper")

	tests := []struct {
		name   string
		mutate func(*domain.ClubSnapshot)
	}{
		{"nil snapshot", nil},
		{"duplicate player id", func(s *domain.ClubSnapshot) {
			s.Players = append(s.Players, s.Players[0])
		}},
		{"two active seasons", func(s *domain.ClubSnapshot) {
			s.Seasons = append(s.Seasons, domain.Season{ID: "s2", Name: "Also Active", IsActive: true})
		}},
		{"active season with end date", func(s *domain.ClubSnapshot) {
			now := time.Now()
			s.Seasons[0].EndDate = &now
		}},
		{"battle result contradicts winner", func(s *domain.ClubSnapshot) {
			s.Games[0].Player1.Result = domain.ResultLoss
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var snap *domain.ClubSnapshot
			if tt.mutate != nil {
				snap = snapshot()
				tt.mutate(snap)
			}
			err := env.sync.ImportSnapshot(context.Background(), snap)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if len(env.playerStore.players) != 1 || env.playerStore.players[0].ID != "keeper" {
				t.Error("rejected snapshot must leave local state untouched")
			}
		})
	}
}

func TestSyncServiceExportSnapshot(t *testing.T) {
	env := newTestEnv()
	if err := env.sync.ImportSnapshot(context.Background(), snapshot()); err != nil {
		t.Fatalf("ImportSnapshot: %v", err)
	}

	out, err := env.sync.ExportSnapshot(context.Background())
	if err != nil {
		t.Fatalf("ExportSnapshot: %v", err)
	}
	if len(out.Players) != 2 || len(out.Games) != 1 || len(out.Seasons) != 1 {
		t.Errorf("export = %d players, %d games, %d seasons; want 2/1/1",
			len(out.Players), len(out.Games), len(out.Seasons))
	}
}

func TestSyncServiceBootstrapWithoutRemote(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("p1", "Alice")

	// No shared store configured: bootstrap is a no-op, local data stays.
	if err := env.sync.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if len(env.playerStore.players) != 1 {
		t.Error("bootstrap without a remote must not touch local data")
	}
}
