package domain

import (
	"fmt"
	"time"
)

type Winner string

const (
	WinnerPlayer1 Winner = "player1"
	WinnerPlayer2 Winner = "player2"
	WinnerDraw    Winner = "draw"
)

func (w Winner) Valid() bool {
	switch w {
	case WinnerPlayer1, WinnerPlayer2, WinnerDraw:
		return true
	}
	return false
}

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

// Point ranges for one side of a battle.
const (
	MaxFullyPaintedPoints = 10
	MaxPrimaryPoints      = 45
	MaxSecondaryPoints    = 45
)

type Player struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Armies []string    `json:"armies"`
	Stats  PlayerStats `json:"stats"`
	Avatar string      `json:"avatar,omitempty"`
}

// PlayerStats is the cached roster view, recomputed from the battle list
// after every battle write. WinRate is a whole percent in this view.
type PlayerStats struct {
	GamesPlayed    int     `json:"gamesPlayed"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRate        float64 `json:"winRate"`
	MostPlayedArmy string  `json:"mostPlayedArmy"`
	Rank           int     `json:"rank"`
}

type Battle struct {
	ID      string            `json:"id"`
	Date    time.Time         `json:"date"`
	Player1 BattleParticipant `json:"player1"`
	Player2 BattleParticipant `json:"player2"`
	Winner  Winner            `json:"winner"`
	Notes   string            `json:"notes,omitempty"`
}

type BattleParticipant struct {
	PlayerID           string `json:"playerId"`
	PlayerName         string `json:"playerName"`
	Army               string `json:"army"`
	Result             Result `json:"result"`
	ArmyList           string `json:"armyList,omitempty"`
	Deployment         string `json:"deployment,omitempty"`
	Twists             string `json:"twists,omitempty"`
	FullyPaintedPoints int    `json:"fullyPaintedPoints"`
	PrimaryPoints      int    `json:"primaryPoints"`
	SecondaryPoints    int    `json:"secondaryPoints"`
	TotalPoints        int    `json:"totalPoints"`
}

type Season struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsActive    bool       `json:"isActive"`
	Description string     `json:"description,omitempty"`
	GameIDs     []string   `json:"gameIds"`
}

// BattleForm is one battle-creation submission. Participant results and
// total points are derived from it, never taken as input.
type BattleForm struct {
	Date    time.Time       `json:"date"`
	Player1 ParticipantForm `json:"player1"`
	Player2 ParticipantForm `json:"player2"`
	Winner  Winner          `json:"winner"`
	Notes   string          `json:"notes,omitempty"`
}

type ParticipantForm struct {
	PlayerID           string `json:"playerId"`
	Army               string `json:"army"`
	ArmyList           string `json:"armyList,omitempty"`
	Deployment         string `json:"deployment,omitempty"`
	Twists             string `json:"twists,omitempty"`
	FullyPaintedPoints int    `json:"fullyPaintedPoints"`
	PrimaryPoints      int    `json:"primaryPoints"`
	SecondaryPoints    int    `json:"secondaryPoints"`
}

func (f *BattleForm) Validate() error {
	if f.Player1.PlayerID == "" || f.Player2.PlayerID == "" {
		return fmt.Errorf("both players must be selected")
	}
	if f.Player1.PlayerID == f.Player2.PlayerID {
		return fmt.Errorf("a player cannot battle themselves")
	}
	if f.Player1.Army == "" || f.Player2.Army == "" {
		return fmt.Errorf("both armies must be selected")
	}
	if !f.Winner.Valid() {
		return fmt.Errorf("invalid winner %q", f.Winner)
	}
	if err := f.Player1.validatePoints(); err != nil {
		return fmt.Errorf("player1: %w", err)
	}
	if err := f.Player2.validatePoints(); err != nil {
		return fmt.Errorf("player2: %w", err)
	}
	return nil
}

func (f *ParticipantForm) validatePoints() error {
	if f.FullyPaintedPoints < 0 || f.FullyPaintedPoints > MaxFullyPaintedPoints {
		return fmt.Errorf("fully painted points must be 0-%d, got %d", MaxFullyPaintedPoints, f.FullyPaintedPoints)
	}
	if f.PrimaryPoints < 0 || f.PrimaryPoints > MaxPrimaryPoints {
		return fmt.Errorf("primary points must be 0-%d, got %d", MaxPrimaryPoints, f.PrimaryPoints)
	}
	if f.SecondaryPoints < 0 || f.SecondaryPoints > MaxSecondaryPoints {
		return fmt.Errorf("secondary points must be 0-%d, got %d", MaxSecondaryPoints, f.SecondaryPoints)
	}
	return nil
}

func (f *ParticipantForm) TotalPoints() int {
	return f.FullyPaintedPoints + f.PrimaryPoints + f.SecondaryPoints
}

// ResultFor returns the side's result given the battle winner.
func ResultFor(winner Winner, side Winner) Result {
	switch winner {
	case WinnerDraw:
		return ResultDraw
	case side:
		return ResultWin
	default:
		return ResultLoss
	}
}

// ClubSnapshot is the full persisted state, the shape exchanged with the
// shared club store and with export/import.
type ClubSnapshot struct {
	Players []Player `json:"players"`
	Games   []Battle `json:"games"`
	Seasons []Season `json:"seasons"`
}
