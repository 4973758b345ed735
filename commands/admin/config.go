package admin

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

func init() {
	registry.RegisterCommand(ConfigCommand)
}

var ConfigCommand = &types.Command{
	Name:        "config",
	Description: "Views or changes this guild's configuration",
	Category:    "Admin",
	Cooldown:    5 * time.Second,
	AdminOnly:   true,
	Options: []*types.CommandOption{
		{
			Name:        "action",
			Description: "What to do",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{
					Name:  "View",
					Value: "view",
				},
				{
					Name:  "Set prefix",
					Value: "prefix",
				},
				{
					Name:  "Set option",
					Value: "set",
				},
			},
		},
		{
			Name:        "key",
			Description: "Setting name, or the prefix itself for the prefix action",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
		{
			Name:        "value",
			Description: "New value for the setting",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		if i.GuildID == "" {
			return respondText(s, i, "This command only works inside a guild.")
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		action, key, value := "", "", ""
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "action":
				action = opt.StringValue()
			case "key":
				key = opt.StringValue()
			case "value":
				value = opt.StringValue()
			}
		}

		switch action {
		case "view":
			return runConfigView(opCtx, s, i, ctx)
		case "prefix":
			if key == "" {
				return respondText(s, i, "Provide the new prefix in the `key` option.")
			}
			if err := models.SetGuildPrefix(opCtx, ctx.DB, i.GuildID, key); err != nil {
				return err
			}
			return respondText(s, i, fmt.Sprintf("Prefix updated to `%s`.", key))
		case "set":
			if key == "" || value == "" {
				return respondText(s, i, "Provide both `key` and `value`.")
			}
			if err := models.SetGuildSetting(opCtx, ctx.DB, i.GuildID, key, value); err != nil {
				return err
			}
			return respondText(s, i, fmt.Sprintf("Setting `%s` updated.", key))
		default:
			return respondText(s, i, "Unknown action.")
		}
	},
}

func runConfigView(opCtx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
	guild, err := models.GetGuildByID(opCtx, ctx.DB, i.GuildID)
	if err != nil {
		return err
	}
	if guild == nil {
		return respondText(s, i, "No configuration stored for this guild yet.")
	}

	prefix := guild.Prefix
	if prefix == "" {
		prefix = "!"
	}

	settings := "none"
	if len(guild.Settings) > 0 {
		keys := make([]string, 0, len(guild.Settings))
		for key := range guild.Settings {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		var lines []string
		for _, key := range keys {
			lines = append(lines, fmt.Sprintf("`%s`: %v", key, guild.Settings[key]))
		}
		settings = strings.Join(lines, "\n")
	}

	embed := &discordgo.MessageEmbed{
		Title: "Guild Configuration",
		Color: 0x5865f2,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Prefix",
				Value:  fmt.Sprintf("`%s`", prefix),
				Inline: true,
			},
			{
				Name:   "Premium",
				Value:  fmt.Sprintf("`tier %d`", guild.PremiumTier),
				Inline: true,
			},
			{
				Name:  "Settings",
				Value: settings,
			},
		},
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}
