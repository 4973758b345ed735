package models

import (
	"context"
	"fmt"
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	ReminderStatusPending   = "pending"
	ReminderStatusSent      = "sent"
	ReminderStatusCancelled = "cancelled"
)

// Reminder is a message the bot delivers back to a user at a future time.
// Cancellation only flips the status; there is no rollback of anything else.
type Reminder struct {
	Model     `bson:",inline"`
	UserID    string    `bson:"user_id"`
	ChannelID string    `bson:"channel_id"`
	GuildID   string    `bson:"guild_id,omitempty"`
	Message   string    `bson:"message"`
	DueAt     time.Time `bson:"due_at"`
	Status    string    `bson:"status"`
}

func CreateReminder(ctx context.Context, db *database.Database, userID, channelID, guildID, message string, dueAt time.Time) (*Reminder, error) {
	reminder := &Reminder{
		UserID:    userID,
		ChannelID: channelID,
		GuildID:   guildID,
		Message:   message,
		DueAt:     dueAt,
		Status:    ReminderStatusPending,
	}
	doc, err := toDocument(reminder)
	if err != nil {
		return nil, err
	}
	res := db.InsertOne(ctx, ReminderCollection, doc)
	if !res.Success {
		return nil, fmt.Errorf("create reminder for %s: %s", userID, res.Err)
	}
	reminder.ID = res.InsertedID
	return reminder, nil
}

// GetDueReminders returns pending reminders whose due time has passed.
func GetDueReminders(ctx context.Context, db *database.Database, now time.Time) ([]*Reminder, error) {
	return findMany[Reminder](ctx, db, ReminderCollection,
		bson.M{"status": ReminderStatusPending, "due_at": bson.M{"$lte": now}},
		0, []database.SortField{{Key: "due_at"}})
}

func ListUserReminders(ctx context.Context, db *database.Database, userID string) ([]*Reminder, error) {
	return findMany[Reminder](ctx, db, ReminderCollection,
		bson.M{"user_id": userID, "status": ReminderStatusPending},
		0, []database.SortField{{Key: "due_at"}})
}

func markReminder(ctx context.Context, db *database.Database, id, status string) (bool, error) {
	res := db.UpdateOne(ctx, ReminderCollection,
		bson.M{"_id": id, "status": ReminderStatusPending},
		bson.M{"$set": bson.M{"status": status}},
		false)
	if !res.Success {
		return false, fmt.Errorf("mark reminder %s %s: %s", id, status, res.Err)
	}
	return res.Modified, nil
}

func MarkReminderSent(ctx context.Context, db *database.Database, id string) (bool, error) {
	return markReminder(ctx, db, id, ReminderStatusSent)
}

// CancelReminder cancels a pending reminder owned by the user. Returns false
// when there is no pending reminder with that id for them.
func CancelReminder(ctx context.Context, db *database.Database, id, userID string) (bool, error) {
	res := db.UpdateOne(ctx, ReminderCollection,
		bson.M{"_id": id, "user_id": userID, "status": ReminderStatusPending},
		bson.M{"$set": bson.M{"status": ReminderStatusCancelled}},
		false)
	if !res.Success {
		return false, fmt.Errorf("cancel reminder %s: %s", id, res.Err)
	}
	return res.Modified, nil
}
