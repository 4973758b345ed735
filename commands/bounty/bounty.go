package bounty

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

func init() {
	registry.RegisterCommand(BountyCommand)
	registry.RegisterCommand(BountiesCommand)
	registry.RegisterCommand(ClaimBountyCommand)
}

var BountyCommand = &types.Command{
	Name:        "bounty",
	Description: "Places a bounty on a player",
	Category:    "Bounty",
	Cooldown:    10 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "target",
			Description: "The player to put a price on",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
		{
			Name:        "amount",
			Description: "Bounty amount",
			Type:        discordgo.ApplicationCommandOptionInteger,
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

		target, serverID := "", ""
		var amount int64
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "target":
				target = opt.StringValue()
			case "amount":
				amount = opt.IntValue()
			case "server":
				serverID = opt.StringValue()
			}
		}
		if amount <= 0 {
			return respondEphemeral(s, i, "The bounty amount must be positive.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		bounty, err := models.PlaceBounty(opCtx, ctx.DB, i.GuildID, serverID, interactionUserID(i), target, amount)
		if err != nil {
			return err
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("💰 Bounty of **%d** placed on **%s**!", bounty.Amount, bounty.TargetName),
			},
		})
	},
}

var BountiesCommand = &types.Command{
	Name:        "bounties",
	Description: "Lists the open bounties in this guild",
	Category:    "Bounty",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondEphemeral(s, i, "This command only works inside a guild.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		open, err := models.ListOpenBounties(opCtx, ctx.DB, i.GuildID, 15)
		if err != nil {
			return err
		}
		if len(open) == 0 {
			return respondEphemeral(s, i, "No open bounties.")
		}

		var lines []string
		for _, bounty := range open {
			lines = append(lines, fmt.Sprintf("**%s** - %d (placed by <@%s>)",
				bounty.TargetName, bounty.Amount, bounty.PlacedBy))
		}

		embed := &discordgo.MessageEmbed{
			Title:       "💰 Open Bounties",
			Description: strings.Join(lines, "\n"),
			Color:       0xf1c40f,
			Timestamp:   time.Now().Format(time.RFC3339),
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
	},
}

var ClaimBountyCommand = &types.Command{
	Name:        "claimbounty",
	Description: "Pays out every open bounty on a target to its killer",
	Category:    "Bounty",
	Cooldown:    10 * time.Second,
	AdminOnly:   true,
	Options: []*types.CommandOption{
		{
			Name:        "target",
			Description: "The player the bounties were placed on",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
		{
			Name:        "killer",
			Description: "The player who took the target down",
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

		target, killer, serverID := "", "", ""
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "target":
				target = opt.StringValue()
			case "killer":
				killer = opt.StringValue()
			case "server":
				serverID = opt.StringValue()
			}
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payout, err := models.ClaimBounties(opCtx, ctx.DB, i.GuildID, serverID, target, killer)
		if err != nil {
			return err
		}
		if payout == 0 {
			return respondEphemeral(s, i, fmt.Sprintf("No open bounties on **%s**.", target))
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("💀 **%s** claimed **%d** for taking down **%s**!", killer, payout, target),
			},
		})
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
