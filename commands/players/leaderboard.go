package players

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
	registry.RegisterCommand(LeaderboardCommand)
}

var leaderboardMedals = []string{"🥇", "🥈", "🥉"}

var LeaderboardCommand = &types.Command{
	Name:        "leaderboard",
	Description: "Shows the top players by a stat",
	Category:    "Players",
	Cooldown:    10 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "stat",
			Description: "Which stat to rank by",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{
					Name:  "Kills",
					Value: "kills",
				},
				{
					Name:  "Experience",
					Value: "experience",
				},
				{
					Name:  "Level",
					Value: "level",
				},
				{
					Name:  "Bounties Claimed",
					Value: "bounties_claimed",
				},
			},
		},
		{
			Name:        "server",
			Description: "Game server identifier",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    false,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		stat, serverID := "kills", ""
		for _, opt := range i.ApplicationCommandData().Options {
			switch opt.Name {
			case "stat":
				stat = opt.StringValue()
			case "server":
				serverID = opt.StringValue()
			}
		}

		opCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		top, err := models.GetTopPlayers(opCtx, ctx.DB, stat, 10, serverID)
		if err != nil {
			return err
		}
		if len(top) == 0 {
			return respondEphemeral(s, i, "No players recorded yet.")
		}

		var lines []string
		for rank, player := range top {
			marker := fmt.Sprintf("%2d.", rank+1)
			if rank < len(leaderboardMedals) {
				marker = leaderboardMedals[rank]
			}
			lines = append(lines, fmt.Sprintf("%s **%s** - %d", marker, player.Name, statValue(player, stat)))
		}

		embed := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Leaderboard: %s", strings.ReplaceAll(stat, "_", " ")),
			Description: strings.Join(lines, "\n"),
			Color:       0xffd700,
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

func statValue(p *models.Player, stat string) int64 {
	switch stat {
	case "experience":
		return p.Experience
	case "level":
		return int64(p.Level)
	case "bounties_claimed":
		return p.BountiesClaimed
	default:
		return p.Kills
	}
}
