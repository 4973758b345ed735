package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

// IncrementCommandStat bumps the invocation counter for a command in the
// bot_stats collection, creating the counter document on first use.
func IncrementCommandStat(ctx context.Context, db *database.Database, commandName string) error {
	res := db.UpdateOne(ctx, BotStatsCollection,
		bson.M{"stat": "command_usage"},
		bson.M{"$inc": bson.M{
			fmt.Sprintf("commands.%s", commandName): 1,
			"total": 1,
		}},
		true)
	if !res.Success {
		return fmt.Errorf("increment command stat %s: %s", commandName, res.Err)
	}
	return nil
}

// CommandUsage is a snapshot of the command usage counters.
type CommandUsage struct {
	Total    int64
	Commands map[string]int64
}

func GetCommandUsage(ctx context.Context, db *database.Database) (*CommandUsage, error) {
	res := db.FindOne(ctx, BotStatsCollection, bson.M{"stat": "command_usage"})
	if !res.Success {
		return nil, fmt.Errorf("get command usage: %s", res.Err)
	}

	usage := &CommandUsage{Commands: make(map[string]int64)}
	if res.Document == nil {
		return usage, nil
	}
	if total, ok := res.Document["total"]; ok {
		usage.Total = toInt64(total)
	}
	if commands, ok := res.Document["commands"].(bson.M); ok {
		for name, count := range commands {
			usage.Commands[name] = toInt64(count)
		}
	}
	return usage, nil
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// SetBotConfig stores one key in the bot_config collection.
func SetBotConfig(ctx context.Context, db *database.Database, key string, value interface{}) error {
	res := db.UpdateOne(ctx, BotConfigCollection,
		bson.M{"key": key},
		bson.M{"$set": bson.M{"value": value}},
		true)
	if !res.Success {
		return fmt.Errorf("set bot config %s: %s", key, res.Err)
	}
	return nil
}

func GetBotConfig(ctx context.Context, db *database.Database, key string) (interface{}, error) {
	res := db.FindOne(ctx, BotConfigCollection, bson.M{"key": key})
	if !res.Success {
		return nil, fmt.Errorf("get bot config %s: %s", key, res.Err)
	}
	if res.Document == nil {
		return nil, nil
	}
	return res.Document["value"], nil
}

// LogMessage appends an entry to the message log used by moderation tooling.
func LogMessage(ctx context.Context, db *database.Database, guildID, channelID, authorID, content string) error {
	res := db.InsertOne(ctx, MessageLogCollection, bson.M{
		"guild_id":   guildID,
		"channel_id": channelID,
		"author_id":  authorID,
		"content":    content,
		"timestamp":  time.Now().UTC(),
	})
	if !res.Success {
		return fmt.Errorf("log message: %s", res.Err)
	}
	return nil
}

// PurgeOldMessageLogs deletes log entries older than the cutoff and returns
// how many were removed. The $lt range filter works on both backends.
func PurgeOldMessageLogs(ctx context.Context, db *database.Database, guildID string, cutoff time.Time) (int64, error) {
	res := db.DeleteMany(ctx, MessageLogCollection,
		bson.M{"guild_id": guildID, "timestamp": bson.M{"$lt": cutoff}})
	if !res.Success {
		return 0, fmt.Errorf("purge message logs: %s", res.Err)
	}
	return res.Count, nil
}
