package models

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestCalculateIntensity(t *testing.T) {
	tests := []struct {
		name   string
		kills1 int64
		kills2 int64
		want   float64
	}{
		{name: "no kills", kills1: 0, kills2: 0, want: 0},
		{name: "one sided single kill", kills1: 1, kills2: 0, want: 1},
		{name: "perfectly even", kills1: 5, kills2: 5, want: 15},
		{name: "lopsided", kills1: 10, kills2: 0, want: 10},
		{name: "mixed", kills1: 6, kills2: 4, want: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateIntensity(tt.kills1, tt.kills2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculateIntensity(%d, %d) = %v, want %v", tt.kills1, tt.kills2, got, tt.want)
			}
		})
	}
}

func TestCalculateIntensitySymmetry(t *testing.T) {
	pairs := [][2]int64{{3, 7}, {0, 5}, {12, 12}, {1, 0}}
	for _, pair := range pairs {
		forward := CalculateIntensity(pair[0], pair[1])
		reverse := CalculateIntensity(pair[1], pair[0])
		if forward != reverse {
			t.Errorf("intensity(%d,%d)=%v but intensity(%d,%d)=%v",
				pair[0], pair[1], forward, pair[1], pair[0], reverse)
		}
	}
}

func TestCalculateIntensityEvenSplitDominates(t *testing.T) {
	// For a fixed total, the even split must score highest.
	even := CalculateIntensity(5, 5)
	for _, split := range [][2]int64{{10, 0}, {9, 1}, {7, 3}, {6, 4}} {
		if got := CalculateIntensity(split[0], split[1]); got > even {
			t.Errorf("intensity(%d,%d) = %v exceeds even split %v", split[0], split[1], got, even)
		}
	}
}

func TestRecordKillCreatesAndIncrements(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// First blood: killer lands in slot 1.
	rivalry, err := RecordKill(ctx, db, "alice", "bob", "s1")
	if err != nil {
		t.Fatalf("RecordKill: %v", err)
	}
	if rivalry.Player1Kills != 1 || rivalry.Player2Kills != 0 {
		t.Fatalf("kills = %d/%d, want 1/0", rivalry.Player1Kills, rivalry.Player2Kills)
	}
	if rivalry.LastKillBy != "alice" {
		t.Errorf("LastKillBy = %s, want alice", rivalry.LastKillBy)
	}

	// Revenge kill: same rivalry looked up in reverse, other slot increments.
	rivalry, err = RecordKill(ctx, db, "bob", "alice", "s1")
	if err != nil {
		t.Fatalf("RecordKill: %v", err)
	}
	if rivalry.Player1Kills != 1 || rivalry.Player2Kills != 1 {
		t.Fatalf("kills = %d/%d, want 1/1", rivalry.Player1Kills, rivalry.Player2Kills)
	}

	rivalry, err = RecordKill(ctx, db, "alice", "bob", "s1")
	if err != nil {
		t.Fatalf("RecordKill: %v", err)
	}
	if rivalry.Player1Kills != 2 || rivalry.Player2Kills != 1 {
		t.Fatalf("kills = %d/%d, want 2/1", rivalry.Player1Kills, rivalry.Player2Kills)
	}
	if rivalry.TotalKills() != 3 {
		t.Errorf("TotalKills = %d, want 3", rivalry.TotalKills())
	}
	if rivalry.IntensityScore != CalculateIntensity(2, 1) {
		t.Errorf("IntensityScore = %v, want %v", rivalry.IntensityScore, CalculateIntensity(2, 1))
	}

	// All three kills must live on a single rivalry document.
	found, err := GetRivalryByPlayers(ctx, db, "bob", "alice", "s1")
	if err != nil {
		t.Fatalf("GetRivalryByPlayers: %v", err)
	}
	if found == nil || found.ID != rivalry.ID {
		t.Error("reverse lookup did not return the same rivalry")
	}
}

func TestGetRivalriesForPlayerOrdersByIntensity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// alice vs bob: 4 kills. alice vs carol: 1 kill.
	for i := 0; i < 2; i++ {
		if _, err := RecordKill(ctx, db, "alice", "bob", "s1"); err != nil {
			t.Fatalf("RecordKill: %v", err)
		}
		if _, err := RecordKill(ctx, db, "bob", "alice", "s1"); err != nil {
			t.Fatalf("RecordKill: %v", err)
		}
	}
	if _, err := RecordKill(ctx, db, "carol", "alice", "s1"); err != nil {
		t.Fatalf("RecordKill: %v", err)
	}

	rivalries, err := GetRivalriesForPlayer(ctx, db, "alice", "s1", 10)
	if err != nil {
		t.Fatalf("GetRivalriesForPlayer: %v", err)
	}
	if len(rivalries) != 2 {
		t.Fatalf("len = %d, want 2", len(rivalries))
	}
	if rivalries[0].IntensityScore < rivalries[1].IntensityScore {
		t.Error("rivalries not ordered by intensity, highest first")
	}
	if rivalries[0].TotalKills() != 4 {
		t.Errorf("hottest rivalry TotalKills = %d, want 4", rivalries[0].TotalKills())
	}
}

func TestRivalryIsActive(t *testing.T) {
	now := time.Now().UTC()
	tests := []struct {
		name     string
		lastKill time.Time
		want     bool
	}{
		{name: "recent kill", lastKill: now.Add(-time.Hour), want: true},
		{name: "29 days ago", lastKill: now.Add(-29 * 24 * time.Hour), want: true},
		{name: "31 days ago", lastKill: now.Add(-31 * 24 * time.Hour), want: false},
		{name: "never fought", lastKill: time.Time{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Rivalry{LastKillTimestamp: tt.lastKill}
			if got := r.IsActive(now); got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}
