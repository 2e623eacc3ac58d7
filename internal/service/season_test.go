package service

import (
	"context"
	"errors"
	"testing"
)

func TestSeasonServiceCreateFinishesPrevious(t *testing.T) {
	env := newTestEnv()

	first, err := env.seasons.Create(context.Background(), "Spring League", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := env.seasons.Create(context.Background(), "Summer League", "The big one")
	if err != nil {
		t.Fatalf("Create second: %v", err)
	}

	active, err := env.seasons.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatalf("active = %+v, want the newest season", active)
	}

	old, _ := env.seasonStore.Get(context.Background(), first.ID)
	if old.IsActive {
		t.Error("previous season must be finished when a new one starts")
	}
	if old.EndDate == nil {
		t.Error("finished season must carry an end date")
	}

	activeCount := 0
	for _, s := range env.seasonStore.seasons {
		if s.IsActive {
			activeCount++
		}
	}
	if activeCount != 1 {
		t.Errorf("active seasons = %d, want exactly 1", activeCount)
	}
}

func TestSeasonServiceCreateRequiresName(t *testing.T) {
	env := newTestEnv()
	if _, err := env.seasons.Create(context.Background(), "  ", ""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestSeasonServiceActiveNone(t *testing.T) {
	env := newTestEnv()

	active, err := env.seasons.Active(context.Background())
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != nil {
		t.Errorf("expected nil before any season exists, got %+v", active)
	}
}

func TestSeasonServiceFinishCurrentNoop(t *testing.T) {
	env := newTestEnv()

	finished, err := env.seasons.FinishCurrent(context.Background())
	if err != nil {
		t.Fatalf("FinishCurrent: %v", err)
	}
	if finished != nil {
		t.Errorf("finishing with no active season should be a no-op, got %+v", finished)
	}
}

func TestSeasonServiceLeaderboard(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("p1", "Alice", "Space Marines")
	env.seedPlayer("p2", "Bob", "Orks")

	season, err := env.seasons.Create(context.Background(), "Autumn Clash", "")
	if err != nil {
		t.Fatalf("Create season: %v", err)
	}

	if _, err := env.battles.Create(context.Background(), battleForm()); err != nil {
		t.Fatalf("Create battle: %v", err)
	}

	standings, err := env.seasons.Leaderboard(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(standings) != 2 {
		t.Fatalf("standings = %d, want 2", len(standings))
	}
	if standings[0].PlayerName != "Alice" || standings[0].Rank != 1 {
		t.Errorf("top standing = %s at rank %d, want Alice at 1",
			standings[0].PlayerName, standings[0].Rank)
	}
	if standings[0].TotalPoints != 60 {
		t.Errorf("alice totalPoints = %d, want 60", standings[0].TotalPoints)
	}
}

func TestSeasonServiceLeaderboardEmptySeason(t *testing.T) {
	env := newTestEnv()

	season, err := env.seasons.Create(context.Background(), "Quiet Season", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	standings, err := env.seasons.Leaderboard(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(standings) != 0 {
		t.Errorf("empty season leaderboard has %d rows, want 0", len(standings))
	}
}

func TestSeasonServiceLeaderboardUnknownSeason(t *testing.T) {
	env := newTestEnv()
	if _, err := env.seasons.Leaderboard(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSeasonServiceCounts(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("p1", "Alice", "Space Marines")
	env.seedPlayer("p2", "Bob", "Orks")
	env.seedPlayer("p3", "Carol", "Necrons")

	season, err := env.seasons.Create(context.Background(), "Counted Season", "")
	if err != nil {
		t.Fatalf("Create season: %v", err)
	}

	if _, err := env.battles.Create(context.Background(), battleForm()); err != nil {
		t.Fatalf("Create battle: %v", err)
	}
	form := battleForm()
	form.Player2.PlayerID = "p3"
	if _, err := env.battles.Create(context.Background(), form); err != nil {
		t.Fatalf("Create second battle: %v", err)
	}

	battleCount, err := env.seasons.BattleCount(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("BattleCount: %v", err)
	}
	if battleCount != 2 {
		t.Errorf("battleCount = %d, want 2", battleCount)
	}

	playerCount, err := env.seasons.PlayerCount(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("PlayerCount: %v", err)
	}
	if playerCount != 3 {
		t.Errorf("playerCount = %d, want 3 distinct players", playerCount)
	}
}

func TestSeasonServiceBattlesOutsideSeasonNotCounted(t *testing.T) {
	env := newTestEnv()
	env.seedPlayer("p1", "Alice", "Space Marines")
	env.seedPlayer("p2", "Bob", "Orks")

	// Battle recorded before any season exists stays unattached.
	if _, err := env.battles.Create(context.Background(), battleForm()); err != nil {
		t.Fatalf("Create battle: %v", err)
	}

	season, err := env.seasons.Create(context.Background(), "Late Season", "")
	if err != nil {
		t.Fatalf("Create season: %v", err)
	}

	battleCount, err := env.seasons.BattleCount(context.Background(), season.ID)
	if err != nil {
		t.Fatalf("BattleCount: %v", err)
	}
	if battleCount != 0 {
		t.Errorf("battleCount = %d, want 0 for battles predating the season", battleCount)
	}
}
