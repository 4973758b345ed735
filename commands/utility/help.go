package utility

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

func init() {
	registry.RegisterCommand(HelpCommand)
}

var HelpCommand = &types.Command{
	Name:        "help",
	Description: "Lists every command grouped by category",
	Category:    "Utility",
	Cooldown:    5 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		categories := make(map[string][]*types.Command)
		for _, cmd := range registry.Commands {
			category := cmd.Category
			if category == "" {
				category = "Other"
			}
			categories[category] = append(categories[category], cmd)
		}

		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		sort.Strings(names)

		embed := &discordgo.MessageEmbed{
			Title:     "Commands",
			Color:     0x5865f2,
			Timestamp: time.Now().Format(time.RFC3339),
		}

		for _, category := range names {
			cmds := categories[category]
			sort.Slice(cmds, func(a, b int) bool { return cmds[a].Name < cmds[b].Name })

			var lines []string
			for _, cmd := range cmds {
				suffix := ""
				if cmd.AdminOnly {
					suffix = " *(admin)*"
				}
				lines = append(lines, fmt.Sprintf("`/%s` - %s%s", cmd.Name, cmd.Description, suffix))
			}

			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  category,
				Value: strings.Join(lines, "\n"),
			})
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
				Flags:  discordgo.MessageFlagsEphemeral,
			},
		})
	},
}
