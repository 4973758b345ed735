package utility

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
	registry.RegisterCommand(StatsCommand)
}

var StatsCommand = &types.Command{
	Name:        "stats",
	Description: "Shows bot usage statistics",
	Category:    "Utility",
	Cooldown:    10 * time.Second,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		usage, err := models.GetCommandUsage(opCtx, ctx.DB)
		if err != nil {
			return err
		}

		type commandCount struct {
			name  string
			count int64
		}
		counts := make([]commandCount, 0, len(usage.Commands))
		for name, count := range usage.Commands {
			counts = append(counts, commandCount{name, count})
		}
		sort.Slice(counts, func(a, b int) bool {
			if counts[a].count != counts[b].count {
				return counts[a].count > counts[b].count
			}
			return counts[a].name < counts[b].name
		})
		if len(counts) > 10 {
			counts = counts[:10]
		}

		topCommands := "No commands used yet."
		if len(counts) > 0 {
			var lines []string
			for _, entry := range counts {
				lines = append(lines, fmt.Sprintf("`/%s`: %d", entry.name, entry.count))
			}
			topCommands = strings.Join(lines, "\n")
		}

		database := "MongoDB"
		if ctx.DB.UsingFallback() {
			database = "In-Memory Fallback"
		}

		embed := &discordgo.MessageEmbed{
			Title:     "📊 Bot Statistics",
			Color:     0x5865f2,
			Timestamp: time.Now().Format(time.RFC3339),
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Commands Executed",
					Value:  fmt.Sprintf("`%d`", usage.Total),
					Inline: true,
				},
				{
					Name:   "Guilds",
					Value:  fmt.Sprintf("`%d`", len(s.State.Guilds)),
					Inline: true,
				},
				{
					Name:   "Database",
					Value:  fmt.Sprintf("`%s`", database),
					Inline: true,
				},
				{
					Name:  "Top Commands",
					Value: topCommands,
				},
			},
		}

		return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Embeds: []*discordgo.MessageEmbed{embed},
			},
		})
	},
}
