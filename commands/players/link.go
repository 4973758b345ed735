package players

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
	registry.RegisterCommand(LinkCommand)
	registry.RegisterCommand(UnlinkCommand)
	registry.RegisterCommand(VerifyCommand)
}

var LinkCommand = &types.Command{
	Name:        "link",
	Description: "Links your Discord account to an in-game player",
	Category:    "Players",
	Cooldown:    10 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "player",
			Description: "The in-game player name",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
		{
			Name:        "server",
			Description: "Game server identifier",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondEphemeral(s, i, "This command only works inside a guild.")
		}

		playerName, serverID := "", ""
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "player":
				playerName = opt.StringValue()
			case "server":
				serverID = opt.StringValue()
			}
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// The player record may not exist yet; touching the stats creates it
		// with defaults.
		player, err := models.UpdatePlayerStats(opCtx, ctx.DB, playerName, serverID, nil)
		if err != nil {
			return err
		}

		link, err := models.LinkPlayer(opCtx, ctx.DB, interactionUserID(i), i.GuildID, player.ID, serverID, false)
		if err != nil {
			return err
		}

		return respondEphemeral(s, i, fmt.Sprintf(
			"Link to **%s** created. Verify it with `/verify code:%s`.",
			player.Name, link.VerificationCode))
	},
}

var UnlinkCommand = &types.Command{
	Name:        "unlink",
	Description: "Removes the link between your Discord account and a player",
	Category:    "Players",
	Cooldown:    10 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondEphemeral(s, i, "This command only works inside a guild.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		removed, err := models.UnlinkPlayer(opCtx, ctx.DB, interactionUserID(i), i.GuildID)
		if err != nil {
			return err
		}
		if !removed {
			return respondEphemeral(s, i, "You have no linked player in this guild.")
		}
		return respondEphemeral(s, i, "Your player link has been removed.")
	},
}

var VerifyCommand = &types.Command{
	Name:        "verify",
	Description: "Confirms a player link with its verification code",
	Category:    "Players",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "code",
			Description: "The code shown when you ran /link",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondEphemeral(s, i, "This command only works inside a guild.")
		}

		code := ""
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "code" {
				code = opt.StringValue()
			}
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		link, err := models.VerifyLink(opCtx, ctx.DB, interactionUserID(i), i.GuildID, code)
		if err != nil {
			return err
		}
		if link == nil {
			return respondEphemeral(s, i, "Invalid verification code, or you have no pending link.")
		}
		return respondEphemeral(s, i, "Your player link is now verified.")
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
