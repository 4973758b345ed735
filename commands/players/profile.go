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
	registry.RegisterCommand(ProfileCommand)
}

var ProfileCommand = &types.Command{
	Name:        "profile",
	Description: "Shows a player's stat sheet",
	Category:    "Players",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "player",
			Description: "Player name; defaults to your linked player",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
		{
			Name:        "server",
			Description: "Game server identifier",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
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

		var player *models.Player
		var err error

		if playerName != "" {
			player, err = models.GetPlayerByName(opCtx, ctx.DB, playerName, serverID)
		} else {
			if i.GuildID == "" {
				return respondEphemeral(s, i, "Name a player, or use this inside a guild where you linked one.")
			}
			var link *models.PlayerLink
			link, err = models.GetLinkByDiscordID(opCtx, ctx.DB, interactionUserID(i), i.GuildID)
			if err == nil && link != nil {
				player, err = models.GetPlayerByID(opCtx, ctx.DB, link.PlayerID)
			}
		}
		if err != nil {
			return err
		}
		if player == nil {
			return respondEphemeral(s, i, "Player not found.")
		}

		embed := &discordgo.MessageEmbed{
			Title:     fmt.Sprintf("Profile: %s", player.Name),
			Color:     0x00b0f4,
			Timestamp: time.Now().Format(time.RFC3339),
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Level",
					Value:  fmt.Sprintf("`%d`", player.Level),
					Inline: true,
				},
				{
					Name:   "Experience",
					Value:  fmt.Sprintf("`%d`", player.Experience),
					Inline: true,
				},
				{
					Name:   "K/D",
					Value:  fmt.Sprintf("`%.2f`", player.KDRatio()),
					Inline: true,
				},
				{
					Name:   "Kills",
					Value:  fmt.Sprintf("`%d`", player.Kills),
					Inline: true,
				},
				{
					Name:   "Deaths",
					Value:  fmt.Sprintf("`%d`", player.Deaths),
					Inline: true,
				},
				{
					Name:   "Bounties Claimed",
					Value:  fmt.Sprintf("`%d`", player.BountiesClaimed),
					Inline: true,
				},
			},
		}
		if player.BountyValue > 0 {
			embed.Description = fmt.Sprintf("💰 Active bounty: **%d**", player.BountyValue)
		}
		if !player.LastSeen.IsZero() {
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: "Last seen " + player.LastSeen.Format("2006-01-02 15:04 UTC"),
			}
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
	},
}
