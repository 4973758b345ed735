package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

const maxReminderDuration = 30 * 24 * time.Hour

func init() {
	registry.RegisterCommand(RemindCommand)
	registry.RegisterCommand(RemindersCommand)
	registry.RegisterCommand(CancelReminderCommand)
}

var RemindCommand = &types.Command{
	Name:        "remind",
	Description: "Sets a reminder delivered in this channel",
	Category:    "Reminders",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "minutes",
			Description: "How many minutes from now",
			Type:        discordgo.ApplicationCommandOptionInteger,
			Required:    true,
		},
		{
			Name:        "message",
			Description: "What to remind you about",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		var minutes int64
		message := ""
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "minutes":
				minutes = opt.IntValue()
			case "message":
				message = opt.StringValue()
			}
		}

		duration := time.Duration(minutes) * time.Minute
		if duration < time.Minute {
			return respondEphemeral(s, i, "The reminder must be at least one minute away.")
		}
		if duration > maxReminderDuration {
			return respondEphemeral(s, i, "Reminders can be at most 30 days away.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		dueAt := time.Now().UTC().Add(duration)
		reminder, err := models.CreateReminder(opCtx, ctx.DB, interactionUserID(i), i.ChannelID, i.GuildID, message, dueAt)
		if err != nil {
			return err
		}

		return respondEphemeral(s, i, fmt.Sprintf(
			"⏰ Reminder set for <t:%d:f>. Cancel it with `/cancelreminder id:%s`.",
			dueAt.Unix(), reminder.ID))
	},
}

var RemindersCommand = &types.Command{
	Name:        "reminders",
	Description: "Lists your pending reminders",
	Category:    "Reminders",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pending, err := models.ListUserReminders(opCtx, ctx.DB, interactionUserID(i))
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			return respondEphemeral(s, i, "You have no pending reminders.")
		}

		var lines []string
		for _, reminder := range pending {
			lines = append(lines, fmt.Sprintf("<t:%d:f> - %s (`%s`)",
				reminder.DueAt.Unix(), reminder.Message, reminder.ID))
		}

		return respondEphemeral(s, i, "Your reminders:\n"+strings.Join(lines, "\n"))
	},
}

var CancelReminderCommand = &types.Command{
	Name:        "cancelreminder",
	Description: "Cancels one of your pending reminders",
	Category:    "Reminders",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "id",
			Description: "Reminder id from /reminders",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		id := ""
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "id" {
				id = opt.StringValue()
			}
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cancelled, err := models.CancelReminder(opCtx, ctx.DB, id, interactionUserID(i))
		if err != nil {
			return err
		}
		if !cancelled {
			return respondEphemeral(s, i, "No pending reminder with that id belongs to you.")
		}
		return respondEphemeral(s, i, "Reminder cancelled.")
	},
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
