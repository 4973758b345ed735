package models

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestUpsertGuildPreservesAdminSettings(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertGuild(ctx, db, "g1", "My Guild"); err != nil {
		t.Fatalf("UpsertGuild: %v", err)
	}
	if err := SetGuildSetting(ctx, db, "g1", "killfeed_channel", "123"); err != nil {
		t.Fatalf("SetGuildSetting: %v", err)
	}

	// A rejoin must refresh the name without clobbering settings.
	if err := UpsertGuild(ctx, db, "g1", "Renamed Guild"); err != nil {
		t.Fatalf("UpsertGuild: %v", err)
	}

	guild, err := GetGuildByID(ctx, db, "g1")
	if err != nil {
		t.Fatalf("GetGuildByID: %v", err)
	}
	if guild.Name != "Renamed Guild" {
		t.Errorf("Name = %s, want Renamed Guild", guild.Name)
	}
	if guild.Settings["killfeed_channel"] != "123" {
		t.Errorf("settings.killfeed_channel = %v, want 123", guild.Settings["killfeed_channel"])
	}
	if !guild.IsActive {
		t.Error("guild not active after upsert")
	}
}

func TestMarkGuildLeft(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertGuild(ctx, db, "g1", "My Guild"); err != nil {
		t.Fatalf("UpsertGuild: %v", err)
	}
	leftAt := time.Now().UTC()
	if err := MarkGuildLeft(ctx, db, "g1", leftAt); err != nil {
		t.Fatalf("MarkGuildLeft: %v", err)
	}

	guild, err := GetGuildByID(ctx, db, "g1")
	if err != nil {
		t.Fatalf("GetGuildByID: %v", err)
	}
	if guild.IsActive {
		t.Error("guild still active after leaving")
	}
	if guild.LeftAt == nil {
		t.Error("LeftAt not recorded")
	}
}

func TestGuildServerRegistration(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, serverID := range []string{"s1", "s2", "s1"} {
		if err := AddGuildServer(ctx, db, "g1", serverID); err != nil {
			t.Fatalf("AddGuildServer: %v", err)
		}
	}

	guild, err := GetGuildByID(ctx, db, "g1")
	if err != nil {
		t.Fatalf("GetGuildByID: %v", err)
	}
	if !reflect.DeepEqual(guild.Servers, []string{"s1", "s2"}) {
		t.Errorf("Servers = %v, want [s1 s2]", guild.Servers)
	}

	if err := RemoveGuildServer(ctx, db, "g1", "s1"); err != nil {
		t.Fatalf("RemoveGuildServer: %v", err)
	}
	guild, err = GetGuildByID(ctx, db, "g1")
	if err != nil {
		t.Fatalf("GetGuildByID: %v", err)
	}
	if !reflect.DeepEqual(guild.Servers, []string{"s2"}) {
		t.Errorf("Servers = %v, want [s2]", guild.Servers)
	}
}

func TestSetGuildPrefix(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := SetGuildPrefix(ctx, db, "g1", "?"); err != nil {
		t.Fatalf("SetGuildPrefix: %v", err)
	}

	guild, err := GetGuildByID(ctx, db, "g1")
	if err != nil {
		t.Fatalf("GetGuildByID: %v", err)
	}
	if guild.Prefix != "?" {
		t.Errorf("Prefix = %s, want ?", guild.Prefix)
	}
}

func TestHasPremium(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name  string
		guild Guild
		want  bool
	}{
		{name: "no tier", guild: Guild{}, want: false},
		{name: "tier without expiry", guild: Guild{PremiumTier: 1}, want: true},
		{name: "tier with future expiry", guild: Guild{PremiumTier: 1, PremiumUntil: &future}, want: true},
		{name: "tier expired", guild: Guild{PremiumTier: 1, PremiumUntil: &past}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.guild.HasPremium(now); got != tt.want {
				t.Errorf("HasPremium = %v, want %v", got, tt.want)
			}
		})
	}
}
