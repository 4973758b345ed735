package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/logger"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
)

const pollInterval = 15 * time.Second

// messageSender is the slice of the Discord session the scheduler needs.
// *discordgo.Session satisfies it.
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Scheduler delivers due reminders. Reminders live in the database, so a
// restart loses nothing on the real backend; the scheduler only polls for
// pending entries whose due time has passed. Cancelling a reminder flips its
// status, which makes the poll skip it; there is nothing else to undo.
type Scheduler struct {
	db     *database.Database
	logger *logger.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

func NewScheduler(db *database.Database, l *logger.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		logger: l,
	}
}

// Start launches the polling loop. Starting twice is a no-op.
func (sc *Scheduler) Start(session messageSender) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	sc.cancel = cancel
	sc.running = true

	go sc.run(ctx, session)
}

func (sc *Scheduler) Stop() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.running {
		return
	}
	sc.cancel()
	sc.running = false
}

func (sc *Scheduler) run(ctx context.Context, session messageSender) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sc.deliverDue(ctx, session)
		}
	}
}

func (sc *Scheduler) deliverDue(ctx context.Context, session messageSender) {
	opCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	due, err := models.GetDueReminders(opCtx, sc.db, time.Now().UTC())
	if err != nil {
		sc.logger.Error("Failed to query due reminders: ", err)
		return
	}

	for _, reminder := range due {
		sc.deliver(opCtx, session, reminder)
	}
}

func (sc *Scheduler) deliver(ctx context.Context, session messageSender, reminder *models.Reminder) {
	// Mark first: if two pollers race, only the one that flips the status
	// actually sends.
	sent, err := models.MarkReminderSent(ctx, sc.db, reminder.ID)
	if err != nil {
		sc.logger.Error("Failed to mark reminder sent: ", err)
		return
	}
	if !sent {
		return
	}

	content := fmt.Sprintf("🔔 **Reminder for <@%s>**\n\n%s", reminder.UserID, reminder.Message)
	if _, err := session.ChannelMessageSend(reminder.ChannelID, content); err != nil {
		sc.logger.Error("Failed to deliver reminder ", reminder.ID, ": ", err)
	}
}
