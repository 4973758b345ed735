package models

import (
	"context"
	"fmt"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// User is per-Discord-user bot data, created on first interaction and never
// deleted.
type User struct {
	Model        `bson:",inline"`
	UserID       string                 `bson:"user_id"`
	Name         string                 `bson:"name"`
	CommandsUsed int64                  `bson:"commands_used"`
	Permissions  []string               `bson:"permissions,omitempty"`
	Settings     map[string]interface{} `bson:"settings,omitempty"`
}

func GetUserByID(ctx context.Context, db *database.Database, userID string) (*User, error) {
	return findOne[User](ctx, db, UserCollection, bson.M{"user_id": userID})
}

// TrackUserCommand upserts the user's record and bumps their usage counter.
// Called on every command invocation, so it has to be a single write.
func TrackUserCommand(ctx context.Context, db *database.Database, userID, name string) error {
	res := db.UpdateOne(ctx, UserCollection,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"name": name},
			"$inc":         bson.M{"commands_used": 1},
			"$setOnInsert": bson.M{"settings": bson.M{}},
		},
		true)
	if !res.Success {
		return fmt.Errorf("track command for user %s: %s", userID, res.Err)
	}
	return nil
}

func (u *User) Save(ctx context.Context, db *database.Database) error {
	if u.ID == "" {
		id, err := insertEntity(ctx, db, UserCollection, u)
		if err != nil {
			return err
		}
		u.ID = id
		return nil
	}
	return saveEntity(ctx, db, UserCollection, u.ID, u)
}

// HasPermission checks the user's stored permission strings.
func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
