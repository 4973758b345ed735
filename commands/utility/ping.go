package utility

import (
	"fmt"
	"runtime"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

func init() {
	registry.RegisterCommand(PingCommand)
}

var PingCommand = &types.Command{
	Name:        "ping",
	Description: "Shows latency and bot status information",
	Category:    "Utility",
	Cooldown:    5 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "type",
			Description: "Which information to show",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{
					Name:  "Basic",
					Value: "basic",
				},
				{
					Name:  "Detailed",
					Value: "detailed",
				},
				{
					Name:  "System",
					Value: "system",
				},
			},
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		start := time.Now()

		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
		if err != nil {
			return err
		}

		options := i.ApplicationCommandData().Options
		checkType := "basic"
		if len(options) > 0 && options[0].Name == "type" {
			checkType = options[0].StringValue()
		}

		latency := s.HeartbeatLatency()
		restLatency := time.Since(start)

		embed := &discordgo.MessageEmbed{
			Title:     "🏓 Pong!",
			Color:     0x00ff00,
			Timestamp: time.Now().Format(time.RFC3339),
		}

		switch checkType {
		case "basic":
			embed.Fields = []*discordgo.MessageEmbedField{
				{
					Name:   "Gateway Latency",
					Value:  fmt.Sprintf("`%dms`", latency.Milliseconds()),
					Inline: true,
				},
				{
					Name:   "REST Latency",
					Value:  fmt.Sprintf("`%dms`", restLatency.Milliseconds()),
					Inline: true,
				},
			}

		case "detailed":
			uptime := time.Since(ctx.Config.BotStartTime)
			database := "MongoDB"
			if ctx.DB.UsingFallback() {
				database = "In-Memory Fallback"
			}
			embed.Fields = []*discordgo.MessageEmbedField{
				{
					Name:   "Gateway Latency",
					Value:  fmt.Sprintf("`%dms`", latency.Milliseconds()),
					Inline: true,
				},
				{
					Name:   "REST Latency",
					Value:  fmt.Sprintf("`%dms`", restLatency.Milliseconds()),
					Inline: true,
				},
				{
					Name:   "Uptime",
					Value:  fmt.Sprintf("`%s`", uptime.Round(time.Second).String()),
					Inline: true,
				},
				{
					Name:   "Shard ID",
					Value:  fmt.Sprintf("`%d`", s.ShardID),
					Inline: true,
				},
				{
					Name:   "Connected Guilds",
					Value:  fmt.Sprintf("`%d`", len(s.State.Guilds)),
					Inline: true,
				},
				{
					Name:   "Database",
					Value:  fmt.Sprintf("`%s`", database),
					Inline: true,
				},
			}

		case "system":
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			embed.Fields = []*discordgo.MessageEmbedField{
				{
					Name:   "Memory Usage",
					Value:  fmt.Sprintf("`%.2f MB`", float64(m.Alloc)/1024/1024),
					Inline: true,
				},
				{
					Name:   "Goroutines",
					Value:  fmt.Sprintf("`%d`", runtime.NumGoroutine()),
					Inline: true,
				},
				{
					Name:   "OS/Arch",
					Value:  fmt.Sprintf("`%s/%s`", runtime.GOOS, runtime.GOARCH),
					Inline: true,
				},
				{
					Name:   "Go Version",
					Value:  fmt.Sprintf("`%s`", runtime.Version()),
					Inline: true,
				},
				{
					Name:   "CPU Cores",
					Value:  fmt.Sprintf("`%d`", runtime.NumCPU()),
					Inline: true,
				},
			}
		default:
			embed.Description = "Unknown type. Choose 'basic', 'detailed' or 'system'."
		}

		_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Embeds: &[]*discordgo.MessageEmbed{embed},
		})

		return err
	},
}
