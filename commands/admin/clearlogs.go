package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

func init() {
	registry.RegisterCommand(ClearLogsCommand)
}

var ClearLogsCommand = &types.Command{
	Name:        "clearlogs",
	Description: "Deletes message log entries older than a number of days",
	Category:    "Admin",
	Cooldown:    30 * time.Second,
	AdminOnly:   true,
	Options: []*types.CommandOption{
		{
			Name:        "days",
			Description: "Delete entries older than this many days (default 30)",
			Type:        discordgo.ApplicationCommandOptionInteger,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondText(s, i, "This command only works inside a guild.")
		}

		days := int64(30)
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "days" {
				days = opt.IntValue()
			}
		}
		if days < 1 {
			return respondText(s, i, "Days must be at least 1.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cutoff := time.Now().UTC().AddDate(0, 0, -int(days))
		removed, err := models.PurgeOldMessageLogs(opCtx, ctx.DB, i.GuildID, cutoff)
		if err != nil {
			return err
		}

		return respondText(s, i, fmt.Sprintf("Removed %d log entries older than %d days.", removed, days))
	},
}
