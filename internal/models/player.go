package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Player is an in-game character's stat sheet. Players are created the first
// time a game event references them by name; numeric stat updates are
// additive.
type Player struct {
	Model           `bson:",inline"`
	Name            string                 `bson:"name"`
	ServerID        string                 `bson:"server_id,omitempty"`
	Level           int                    `bson:"level"`
	Experience      int64                  `bson:"experience"`
	Kills           int64                  `bson:"kills"`
	Deaths          int64                  `bson:"deaths"`
	BountiesClaimed int64                  `bson:"bounties_claimed"`
	BountyValue     int64                  `bson:"bounty_value"`
	LastSeen        time.Time              `bson:"last_seen,omitempty"`
	Stats           map[string]interface{} `bson:"stats,omitempty"`
}

// playerStatFields are the top-level numeric fields UpdatePlayerStats may
// increment; anything else lands in the open stats mapping.
var playerStatFields = map[string]bool{
	"level":            true,
	"experience":       true,
	"kills":            true,
	"deaths":           true,
	"bounties_claimed": true,
	"bounty_value":     true,
}

func playerQuery(name, serverID string) bson.M {
	query := bson.M{"name": name}
	if serverID != "" {
		query["server_id"] = serverID
	}
	return query
}

func GetPlayerByName(ctx context.Context, db *database.Database, name, serverID string) (*Player, error) {
	return findOne[Player](ctx, db, PlayerCollection, playerQuery(name, serverID))
}

func GetPlayerByID(ctx context.Context, db *database.Database, id string) (*Player, error) {
	return getByID[Player](ctx, db, PlayerCollection, id)
}

// GetTopPlayers returns players ordered by a stat field, highest first.
func GetTopPlayers(ctx context.Context, db *database.Database, field string, limit int64, serverID string) ([]*Player, error) {
	query := bson.M{}
	if serverID != "" {
		query["server_id"] = serverID
	}
	return findMany[Player](ctx, db, PlayerCollection, query, limit,
		[]database.SortField{{Key: field, Descending: true}})
}

// UpdatePlayerStats applies additive stat changes to a player, creating the
// player with defaults when first referenced. Numeric values add to the
// existing value; non-numeric values overwrite. Known top-level stat fields
// update in place, everything else goes under stats.
func UpdatePlayerStats(ctx context.Context, db *database.Database, name, serverID string, updates map[string]interface{}) (*Player, error) {
	query := playerQuery(name, serverID)

	ensure := db.UpdateOne(ctx, PlayerCollection, query,
		bson.M{"$setOnInsert": bson.M{
			"level":            1,
			"experience":       int64(0),
			"kills":            int64(0),
			"deaths":           int64(0),
			"bounties_claimed": int64(0),
			"bounty_value":     int64(0),
			"stats":            bson.M{},
		}},
		true)
	if !ensure.Success {
		return nil, fmt.Errorf("ensure player %s: %s", name, ensure.Err)
	}

	inc := bson.M{}
	set := bson.M{"last_seen": time.Now().UTC()}
	for key, value := range updates {
		field := key
		if !playerStatFields[key] {
			field = fmt.Sprintf("stats.%s", key)
		}
		if isNumeric(value) {
			inc[field] = value
		} else {
			set[field] = value
		}
	}

	update := bson.M{"$set": set}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	res := db.UpdateOne(ctx, PlayerCollection, query, update, false)
	if !res.Success {
		return nil, fmt.Errorf("update stats for player %s: %s", name, res.Err)
	}

	return GetPlayerByName(ctx, db, name, serverID)
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}

func (p *Player) Save(ctx context.Context, db *database.Database) error {
	if p.ID == "" {
		if p.Level == 0 {
			p.Level = 1
		}
		id, err := insertEntity(ctx, db, PlayerCollection, p)
		if err != nil {
			return err
		}
		p.ID = id
		return nil
	}
	return saveEntity(ctx, db, PlayerCollection, p.ID, p)
}

// KDRatio is kills per death; with zero deaths it is simply the kill count.
func (p *Player) KDRatio() float64 {
	if p.Deaths == 0 {
		return float64(p.Kills)
	}
	return float64(p.Kills) / float64(p.Deaths)
}

func EnsurePlayerIndexes(ctx context.Context, db *database.Database) error {
	res := db.CreateIndex(ctx, PlayerCollection,
		[]database.SortField{{Key: "name"}, {Key: "server_id"}}, false, false)
	if !res.Success {
		return fmt.Errorf("create player index: %s", res.Err)
	}
	return nil
}
