package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Guild holds per-server bot settings. A guild document is created the first
// time a configuration command runs in a server (or the bot joins it) and is
// never deleted, only marked inactive.
type Guild struct {
	Model        `bson:",inline"`
	GuildID      string                 `bson:"guild_id"`
	Name         string                 `bson:"name"`
	Prefix       string                 `bson:"prefix,omitempty"`
	PremiumTier  int                    `bson:"premium_tier"`
	PremiumUntil *time.Time             `bson:"premium_until,omitempty"`
	IsActive     bool                   `bson:"is_active"`
	LeftAt       *time.Time             `bson:"left_at,omitempty"`
	Servers      []string               `bson:"servers,omitempty"`
	Settings     map[string]interface{} `bson:"settings,omitempty"`
}

func GetGuildByID(ctx context.Context, db *database.Database, guildID string) (*Guild, error) {
	return findOne[Guild](ctx, db, GuildCollection, bson.M{"guild_id": guildID})
}

func (g *Guild) Save(ctx context.Context, db *database.Database) error {
	if g.ID == "" {
		id, err := insertEntity(ctx, db, GuildCollection, g)
		if err != nil {
			return err
		}
		g.ID = id
		return nil
	}
	return saveEntity(ctx, db, GuildCollection, g.ID, g)
}

// UpsertGuild records that the bot is present in a guild, creating the
// document on first contact without touching settings an admin already made.
func UpsertGuild(ctx context.Context, db *database.Database, guildID, name string) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{
			"$set": bson.M{"name": name, "is_active": true},
			"$setOnInsert": bson.M{
				"premium_tier": 0,
				"settings":     bson.M{},
			},
		},
		true)
	if !res.Success {
		return fmt.Errorf("upsert guild %s: %s", guildID, res.Err)
	}
	return nil
}

// MarkGuildLeft flags a guild as inactive when the bot is removed from it.
func MarkGuildLeft(ctx context.Context, db *database.Database, guildID string, leftAt time.Time) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{"$set": bson.M{"is_active": false, "left_at": leftAt}},
		false)
	if !res.Success {
		return fmt.Errorf("mark guild %s left: %s", guildID, res.Err)
	}
	return nil
}

// SetGuildSetting writes one key under the guild's open settings mapping,
// creating the guild document if this is the first configuration command.
func SetGuildSetting(ctx context.Context, db *database.Database, guildID, key string, value interface{}) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{
			"$set": bson.M{fmt.Sprintf("settings.%s", key): value},
			"$setOnInsert": bson.M{
				"premium_tier": 0,
				"is_active":    true,
			},
		},
		true)
	if !res.Success {
		return fmt.Errorf("set guild setting %s.%s: %s", guildID, key, res.Err)
	}
	return nil
}

func SetGuildPrefix(ctx context.Context, db *database.Database, guildID, prefix string) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{
			"$set":         bson.M{"prefix": prefix},
			"$setOnInsert": bson.M{"premium_tier": 0, "is_active": true},
		},
		true)
	if !res.Success {
		return fmt.Errorf("set guild prefix for %s: %s", guildID, res.Err)
	}
	return nil
}

// AddGuildServer registers a game server with a guild. Adding the same server
// twice is a no-op.
func AddGuildServer(ctx context.Context, db *database.Database, guildID, serverID string) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{
			"$addToSet":    bson.M{"servers": serverID},
			"$setOnInsert": bson.M{"premium_tier": 0, "is_active": true},
		},
		true)
	if !res.Success {
		return fmt.Errorf("add server %s to guild %s: %s", serverID, guildID, res.Err)
	}
	return nil
}

// RemoveGuildServer unregisters a game server and drops its cached info.
func RemoveGuildServer(ctx context.Context, db *database.Database, guildID, serverID string) error {
	res := db.UpdateOne(ctx, GuildCollection,
		bson.M{"guild_id": guildID},
		bson.M{
			"$pull":  bson.M{"servers": serverID},
			"$unset": bson.M{fmt.Sprintf("server_info.%s", serverID): ""},
		},
		false)
	if !res.Success {
		return fmt.Errorf("remove server %s from guild %s: %s", serverID, guildID, res.Err)
	}
	return nil
}

// HasPremium reports whether the guild currently has an active premium tier.
func (g *Guild) HasPremium(now time.Time) bool {
	if g.PremiumTier <= 0 {
		return false
	}
	if g.PremiumUntil == nil {
		return true
	}
	return g.PremiumUntil.After(now)
}

func EnsureGuildIndexes(ctx context.Context, db *database.Database) error {
	res := db.CreateIndex(ctx, GuildCollection, []database.SortField{{Key: "guild_id"}}, true, false)
	if !res.Success {
		return fmt.Errorf("create guild index: %s", res.Err)
	}
	return nil
}
