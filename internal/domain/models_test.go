package domain

import (
	"strings"
	"testing"
)

func validForm() BattleForm {
	return BattleForm{
		Player1: ParticipantForm{
			PlayerID:           "p1",
			Army:               "Space Marines",
			FullyPaintedPoints: 10,
			PrimaryPoints:      40,
			SecondaryPoints:    30,
		},
		Player2: ParticipantForm{
			PlayerID:           "p2",
			Army:               "Orks",
			FullyPaintedPoints: 5,
			PrimaryPoints:      20,
			SecondaryPoints:    15,
		},
		Winner: WinnerPlayer1,
	}
}

func TestBattleFormValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BattleForm)
		wantErr string
	}{
		{
			name:   "valid form",
			mutate: func(f *BattleForm) {},
		},
		{
			name:    "missing player",
			mutate:  func(f *BattleForm) { f.Player2.PlayerID = "" },
			wantErr: "both players",
		},
		{
			name:    "self battle",
			mutate:  func(f *BattleForm) { f.Player2.PlayerID = "p1" },
			wantErr: "themselves",
		},
		{
			name:    "missing army",
			mutate:  func(f *BattleForm) { f.Player1.Army = "" },
			wantErr: "both armies",
		},
		{
			name:    "bad winner",
			mutate:  func(f *BattleForm) { f.Winner = "player3" },
			wantErr: "invalid winner",
		},
		{
			name:    "painted points over cap",
			mutate:  func(f *BattleForm) { f.Player1.FullyPaintedPoints = 11 },
			wantErr: "fully painted",
		},
		{
			name:    "negative primary points",
			mutate:  func(f *BattleForm) { f.Player2.PrimaryPoints = -1 },
			wantErr: "primary points",
		},
		{
			name:    "secondary points over cap",
			mutate:  func(f *BattleForm) { f.Player2.SecondaryPoints = 46 },
			wantErr: "secondary points",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := form.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestParticipantFormTotalPoints(t *testing.T) {
	form := ParticipantForm{FullyPaintedPoints: 10, PrimaryPoints: 45, SecondaryPoints: 45}
	if got := form.TotalPoints(); got != 100 {
		t.Errorf("TotalPoints = %d, want 100", got)
	}
}

func TestResultFor(t *testing.T) {
	tests := []struct {
		winner Winner
		side   Winner
		want   Result
	}{
		{WinnerPlayer1, WinnerPlayer1, ResultWin},
		{WinnerPlayer1, WinnerPlayer2, ResultLoss},
		{WinnerPlayer2, WinnerPlayer2, ResultWin},
		{WinnerPlayer2, WinnerPlayer1, ResultLoss},
		{WinnerDraw, WinnerPlayer1, ResultDraw},
		{WinnerDraw, WinnerPlayer2, ResultDraw},
	}
	for _, tt := range tests {
		if got := ResultFor(tt.winner, tt.side); got != tt.want {
			t.Errorf("ResultFor(%s, %s) = %s, want %s", tt.winner, tt.side, got, tt.want)
		}
	}
}

func TestDefaultArmiesCatalog(t *testing.T) {
	if len(DefaultArmies) == 0 {
		t.Fatal("army catalog is empty")
	}
	seen := map[string]bool{}
	for _, army := range DefaultArmies {
		if army.Name == "" || army.Faction == "" {
			t.Errorf("incomplete catalog entry: %+v", army)
		}
		if seen[army.Name] {
			t.Errorf("duplicate army %q", army.Name)
		}
		seen[army.Name] = true
	}
	for _, name := range []string{"Space Marines", "Orks", "Necrons", "Aeldari"} {
		if !seen[name] {
			t.Errorf("catalog missing %q", name)
		}
	}
}
