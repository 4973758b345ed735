package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// PlayerLink associates a Discord identity with an in-game player. There is
// at most one link per (discord_id, guild_id) pair; linking again replaces
// the previous association.
type PlayerLink struct {
	Model            `bson:",inline"`
	DiscordID        string `bson:"discord_id"`
	PlayerID         string `bson:"player_id"`
	GuildID          string `bson:"guild_id"`
	ServerID         string `bson:"server_id,omitempty"`
	Verified         bool   `bson:"verified"`
	VerificationCode string `bson:"verification_code,omitempty"`
}

func GetLinkByDiscordID(ctx context.Context, db *database.Database, discordID, guildID string) (*PlayerLink, error) {
	query := bson.M{"discord_id": discordID}
	if guildID != "" {
		query["guild_id"] = guildID
	}
	return findOne[PlayerLink](ctx, db, PlayerLinkCollection, query)
}

func GetLinkByPlayerID(ctx context.Context, db *database.Database, playerID, guildID string) (*PlayerLink, error) {
	query := bson.M{"player_id": playerID}
	if guildID != "" {
		query["guild_id"] = guildID
	}
	return findOne[PlayerLink](ctx, db, PlayerLinkCollection, query)
}

// LinkPlayer creates or replaces the link between a Discord user and a
// player. Unverified links receive a fresh verification code the user must
// later confirm with VerifyLink.
func LinkPlayer(ctx context.Context, db *database.Database, discordID, guildID, playerID, serverID string, verified bool) (*PlayerLink, error) {
	link, err := GetLinkByDiscordID(ctx, db, discordID, guildID)
	if err != nil {
		return nil, err
	}

	code := ""
	if !verified {
		code = newVerificationCode()
	}

	if link != nil {
		// Replace the association in place. The old verification code must
		// not survive a relink, so it is explicitly set or unset.
		update := bson.M{"$set": bson.M{
			"player_id": playerID,
			"server_id": serverID,
			"verified":  verified,
		}}
		if code != "" {
			update["$set"].(bson.M)["verification_code"] = code
		} else {
			update["$unset"] = bson.M{"verification_code": ""}
		}
		res := db.UpdateOne(ctx, PlayerLinkCollection, bson.M{"_id": link.ID}, update, false)
		if !res.Success {
			return nil, fmt.Errorf("relink player for %s: %s", discordID, res.Err)
		}
		return GetLinkByDiscordID(ctx, db, discordID, guildID)
	}

	link = &PlayerLink{
		DiscordID:        discordID,
		GuildID:          guildID,
		PlayerID:         playerID,
		ServerID:         serverID,
		Verified:         verified,
		VerificationCode: code,
	}
	if err := link.Save(ctx, db); err != nil {
		return nil, err
	}
	return link, nil
}

// VerifyLink confirms a pending link with its verification code. Returns nil
// when there is no link or the code does not match.
func VerifyLink(ctx context.Context, db *database.Database, discordID, guildID, code string) (*PlayerLink, error) {
	link, err := GetLinkByDiscordID(ctx, db, discordID, guildID)
	if err != nil {
		return nil, err
	}
	if link == nil || link.VerificationCode == "" || link.VerificationCode != code {
		return nil, nil
	}

	res := db.UpdateOne(ctx, PlayerLinkCollection,
		bson.M{"_id": link.ID},
		bson.M{
			"$set":   bson.M{"verified": true},
			"$unset": bson.M{"verification_code": ""},
		},
		false)
	if !res.Success {
		return nil, fmt.Errorf("verify link for %s: %s", discordID, res.Err)
	}

	link.Verified = true
	link.VerificationCode = ""
	return link, nil
}

// UnlinkPlayer removes the link for a Discord user in a guild. Returns false
// when there was nothing to remove.
func UnlinkPlayer(ctx context.Context, db *database.Database, discordID, guildID string) (bool, error) {
	res := db.DeleteOne(ctx, PlayerLinkCollection, bson.M{"discord_id": discordID, "guild_id": guildID})
	if !res.Success {
		return false, fmt.Errorf("unlink player for %s: %s", discordID, res.Err)
	}
	return res.Modified, nil
}

func (l *PlayerLink) Save(ctx context.Context, db *database.Database) error {
	if l.ID == "" {
		id, err := insertEntity(ctx, db, PlayerLinkCollection, l)
		if err != nil {
			return err
		}
		l.ID = id
		return nil
	}
	return saveEntity(ctx, db, PlayerLinkCollection, l.ID, l)
}

func newVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func EnsurePlayerLinkIndexes(ctx context.Context, db *database.Database) error {
	res := db.CreateIndex(ctx, PlayerLinkCollection,
		[]database.SortField{{Key: "discord_id"}, {Key: "guild_id"}}, true, false)
	if !res.Success {
		return fmt.Errorf("create player link index: %s", res.Err)
	}
	return nil
}
