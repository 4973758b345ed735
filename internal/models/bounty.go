package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	BountyStatusOpen    = "open"
	BountyStatusClaimed = "claimed"
)

// Bounty is a reward placed on a player's head. Open bounties on the same
// target stack: claiming pays out all of them at once.
type Bounty struct {
	Model      `bson:",inline"`
	TargetName string     `bson:"target_name"`
	PlacedBy   string     `bson:"placed_by"`
	GuildID    string     `bson:"guild_id"`
	ServerID   string     `bson:"server_id,omitempty"`
	Amount     int64      `bson:"amount"`
	Status     string     `bson:"status"`
	ClaimedBy  string     `bson:"claimed_by,omitempty"`
	ClaimedAt  *time.Time `bson:"claimed_at,omitempty"`
}

// PlaceBounty records a new open bounty and mirrors the total onto the
// target player's bounty_value stat.
func PlaceBounty(ctx context.Context, db *database.Database, guildID, serverID, placedBy, targetName string, amount int64) (*Bounty, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("bounty amount must be positive, got %d", amount)
	}

	bounty := &Bounty{
		TargetName: targetName,
		PlacedBy:   placedBy,
		GuildID:    guildID,
		ServerID:   serverID,
		Amount:     amount,
		Status:     BountyStatusOpen,
	}
	doc, err := toDocument(bounty)
	if err != nil {
		return nil, err
	}
	res := db.InsertOne(ctx, BountyCollection, doc)
	if !res.Success {
		return nil, fmt.Errorf("place bounty on %s: %s", targetName, res.Err)
	}
	bounty.ID = res.InsertedID

	if _, err := UpdatePlayerStats(ctx, db, targetName, serverID, map[string]interface{}{
		"bounty_value": amount,
	}); err != nil {
		return nil, err
	}
	return bounty, nil
}

// ListOpenBounties returns a guild's open bounties, largest first.
func ListOpenBounties(ctx context.Context, db *database.Database, guildID string, limit int64) ([]*Bounty, error) {
	return findMany[Bounty](ctx, db, BountyCollection,
		bson.M{"guild_id": guildID, "status": BountyStatusOpen},
		limit, []database.SortField{{Key: "amount", Descending: true}})
}

// ClaimBounties marks every open bounty on a target as claimed by a killer
// and updates both players' bounty stats. Returns the total payout.
func ClaimBounties(ctx context.Context, db *database.Database, guildID, serverID, targetName, claimedBy string) (int64, error) {
	open, err := findMany[Bounty](ctx, db, BountyCollection,
		bson.M{"guild_id": guildID, "target_name": targetName, "status": BountyStatusOpen},
		0, nil)
	if err != nil {
		return 0, err
	}
	if len(open) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	var total int64
	for _, bounty := range open {
		res := db.UpdateOne(ctx, BountyCollection,
			bson.M{"_id": bounty.ID, "status": BountyStatusOpen},
			bson.M{"$set": bson.M{
				"status":     BountyStatusClaimed,
				"claimed_by": claimedBy,
				"claimed_at": now,
			}},
			false)
		if !res.Success {
			return total, fmt.Errorf("claim bounty %s: %s", bounty.ID, res.Err)
		}
		if res.Modified {
			total += bounty.Amount
		}
	}

	if total > 0 {
		if _, err := UpdatePlayerStats(ctx, db, claimedBy, serverID, map[string]interface{}{
			"bounties_claimed": 1,
		}); err != nil {
			return total, err
		}
		if _, err := UpdatePlayerStats(ctx, db, targetName, serverID, map[string]interface{}{
			"bounty_value": -total,
		}); err != nil {
			return total, err
		}
	}
	return total, nil
}
