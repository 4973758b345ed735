package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// Collection names used by the bot. Defined in one place so cogs and the API
// sidecar agree on them.
const (
	GuildCollection      = "guilds"
	UserCollection       = "users"
	PlayerCollection     = "players"
	PlayerLinkCollection = "player_links"
	RivalryCollection    = "rivalries"
	BountyCollection     = "bounties"
	BotStatsCollection   = "bot_stats"
	BotConfigCollection  = "bot_config"
	MessageLogCollection = "message_logs"
	ReminderCollection   = "reminders"
)

// Model carries the identity and bookkeeping fields shared by every stored
// entity. The facade assigns ID and CreatedAt on insert and maintains
// UpdatedAt on every update.
type Model struct {
	ID        string    `bson:"_id,omitempty"`
	CreatedAt time.Time `bson:"created_at,omitempty"`
	UpdatedAt time.Time `bson:"updated_at,omitempty"`
}

// toDocument converts an entity struct to the open document mapping the
// facade works with, honoring bson tags.
func toDocument(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func decodeDocument[T any](doc bson.M) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return out, nil
}

func findOne[T any](ctx context.Context, db *database.Database, collection string, query bson.M) (*T, error) {
	res := db.FindOne(ctx, collection, query)
	if !res.Success {
		return nil, fmt.Errorf("find in %s: %s", collection, res.Err)
	}
	if res.Document == nil {
		return nil, nil
	}
	return decodeDocument[T](res.Document)
}

func findMany[T any](ctx context.Context, db *database.Database, collection string, query bson.M, limit int64, sort []database.SortField) ([]*T, error) {
	res := db.FindMany(ctx, collection, query, limit, sort)
	if !res.Success {
		return nil, fmt.Errorf("find in %s: %s", collection, res.Err)
	}
	out := make([]*T, 0, len(res.Documents))
	for _, doc := range res.Documents {
		entity, err := decodeDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

func getByID[T any](ctx context.Context, db *database.Database, collection, id string) (*T, error) {
	return findOne[T](ctx, db, collection, bson.M{"_id": id})
}

func countDocuments(ctx context.Context, db *database.Database, collection string, query bson.M) (int64, error) {
	res := db.CountDocuments(ctx, collection, query)
	if !res.Success {
		return 0, fmt.Errorf("count in %s: %s", collection, res.Err)
	}
	return res.Count, nil
}

// insertEntity stores a new entity and returns the generated id.
func insertEntity(ctx context.Context, db *database.Database, collection string, v interface{}) (string, error) {
	doc, err := toDocument(v)
	if err != nil {
		return "", err
	}
	res := db.InsertOne(ctx, collection, doc)
	if !res.Success {
		return "", fmt.Errorf("insert into %s: %s", collection, res.Err)
	}
	return res.InsertedID, nil
}

// saveEntity writes the entity's full document as a $set update keyed on its
// id. Callers with an empty id must go through insertEntity instead.
func saveEntity(ctx context.Context, db *database.Database, collection, id string, v interface{}) error {
	doc, err := toDocument(v)
	if err != nil {
		return err
	}
	delete(doc, "_id")
	res := db.UpdateOne(ctx, collection, bson.M{"_id": id}, bson.M{"$set": doc}, false)
	if !res.Success {
		return fmt.Errorf("update %s in %s: %s", id, collection, res.Err)
	}
	return nil
}

func deleteByID(ctx context.Context, db *database.Database, collection, id string) (bool, error) {
	res := db.DeleteOne(ctx, collection, bson.M{"_id": id})
	if !res.Success {
		return false, fmt.Errorf("delete %s from %s: %s", id, collection, res.Err)
	}
	return res.Modified, nil
}
