package models

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Rivalry tracks kills between a pair of players. Which player is player1 is
// an accident of insertion order; callers look rivalries up in either
// direction and must not read meaning into the slot assignment.
type Rivalry struct {
	Model             `bson:",inline"`
	Player1ID         string    `bson:"player1_id"`
	Player2ID         string    `bson:"player2_id"`
	ServerID          string    `bson:"server_id,omitempty"`
	Player1Kills      int64     `bson:"player1_kills"`
	Player2Kills      int64     `bson:"player2_kills"`
	LastKillTimestamp time.Time `bson:"last_kill_timestamp,omitempty"`
	LastKillBy        string    `bson:"last_kill_by,omitempty"`
	IntensityScore    float64   `bson:"intensity_score"`
}

func (r *Rivalry) TotalKills() int64 {
	return r.Player1Kills + r.Player2Kills
}

// IsActive reports whether the rivalry saw a kill in the last 30 days.
func (r *Rivalry) IsActive(now time.Time) bool {
	if r.LastKillTimestamp.IsZero() {
		return false
	}
	return now.Sub(r.LastKillTimestamp) < 30*24*time.Hour
}

// GetRivalryByPlayers finds the rivalry between two players regardless of
// which slot each occupies.
func GetRivalryByPlayers(ctx context.Context, db *database.Database, player1ID, player2ID, serverID string) (*Rivalry, error) {
	forward := bson.M{"player1_id": player1ID, "player2_id": player2ID}
	reverse := bson.M{"player1_id": player2ID, "player2_id": player1ID}
	if serverID != "" {
		forward["server_id"] = serverID
		reverse["server_id"] = serverID
	}

	rivalry, err := findOne[Rivalry](ctx, db, RivalryCollection, forward)
	if err != nil || rivalry != nil {
		return rivalry, err
	}
	return findOne[Rivalry](ctx, db, RivalryCollection, reverse)
}

// GetRivalriesForPlayer returns a player's rivalries in either slot, ordered
// by intensity, highest first.
func GetRivalriesForPlayer(ctx context.Context, db *database.Database, playerID, serverID string, limit int64) ([]*Rivalry, error) {
	sortSpec := []database.SortField{{Key: "intensity_score", Descending: true}}

	query1 := bson.M{"player1_id": playerID}
	query2 := bson.M{"player2_id": playerID}
	if serverID != "" {
		query1["server_id"] = serverID
		query2["server_id"] = serverID
	}

	asPlayer1, err := findMany[Rivalry](ctx, db, RivalryCollection, query1, limit, sortSpec)
	if err != nil {
		return nil, err
	}
	asPlayer2, err := findMany[Rivalry](ctx, db, RivalryCollection, query2, limit, sortSpec)
	if err != nil {
		return nil, err
	}

	all := append(asPlayer1, asPlayer2...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].IntensityScore > all[j].IntensityScore
	})
	if limit > 0 && int64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

func GetTopRivalries(ctx context.Context, db *database.Database, serverID string, limit int64) ([]*Rivalry, error) {
	query := bson.M{}
	if serverID != "" {
		query["server_id"] = serverID
	}
	return findMany[Rivalry](ctx, db, RivalryCollection, query, limit,
		[]database.SortField{{Key: "intensity_score", Descending: true}})
}

// RecordKill registers a kill between two players, creating the rivalry on
// first blood and recomputing the intensity score.
func RecordKill(ctx context.Context, db *database.Database, killerID, victimID, serverID string) (*Rivalry, error) {
	rivalry, err := GetRivalryByPlayers(ctx, db, killerID, victimID, serverID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	if rivalry == nil {
		rivalry = &Rivalry{
			Player1ID:         killerID,
			Player2ID:         victimID,
			ServerID:          serverID,
			Player1Kills:      1,
			Player2Kills:      0,
			LastKillTimestamp: now,
			LastKillBy:        killerID,
			IntensityScore:    CalculateIntensity(1, 0),
		}
		if err := rivalry.Save(ctx, db); err != nil {
			return nil, err
		}
		return rivalry, nil
	}

	if rivalry.Player1ID == killerID {
		rivalry.Player1Kills++
	} else {
		rivalry.Player2Kills++
	}
	rivalry.LastKillBy = killerID
	rivalry.LastKillTimestamp = now
	rivalry.IntensityScore = CalculateIntensity(rivalry.Player1Kills, rivalry.Player2Kills)

	if err := rivalry.Save(ctx, db); err != nil {
		return nil, err
	}
	return rivalry, nil
}

// CalculateIntensity scores a rivalry from its kill split. Volume raises the
// score, and an even split raises it further: for a fixed total the score is
// maximal when both players have equal kills.
func CalculateIntensity(kills1, kills2 int64) float64 {
	total := float64(kills1 + kills2)
	if total == 0 {
		return 0
	}
	diff := math.Abs(float64(kills1 - kills2))
	balanceFactor := 1 - diff/total
	magnitude := total * 0.5
	return total + balanceFactor*magnitude
}

func (r *Rivalry) Save(ctx context.Context, db *database.Database) error {
	if r.ID == "" {
		id, err := insertEntity(ctx, db, RivalryCollection, r)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	}
	return saveEntity(ctx, db, RivalryCollection, r.ID, r)
}

// RivalryPlayerNames resolves the display names for both sides of a rivalry.
func RivalryPlayerNames(ctx context.Context, db *database.Database, r *Rivalry) (string, string) {
	name1, name2 := "Unknown Player", "Unknown Player"
	if p1, err := GetPlayerByID(ctx, db, r.Player1ID); err == nil && p1 != nil {
		name1 = p1.Name
	}
	if p2, err := GetPlayerByID(ctx, db, r.Player2ID); err == nil && p2 != nil {
		name2 = p2.Name
	}
	return name1, name2
}

func EnsureRivalryIndexes(ctx context.Context, db *database.Database) error {
	res := db.CreateIndex(ctx, RivalryCollection,
		[]database.SortField{{Key: "player1_id"}, {Key: "player2_id"}, {Key: "server_id"}}, false, false)
	if !res.Success {
		return fmt.Errorf("create rivalry index: %s", res.Err)
	}
	return nil
}
