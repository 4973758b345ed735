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
	registry.RegisterCommand(RivalryCommand)
}

var RivalryCommand = &types.Command{
	Name:        "rivalry",
	Description: "Shows a player's rivalries, or the hottest ones overall",
	Category:    "Players",
	Cooldown:    10 * time.Second,
	Options: []*types.CommandOption{
		{
			Name:        "player",
			Description: "Show rivalries for this player; omit for the global top",
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

		var rivalries []*models.Rivalry
		title := "Top Rivalries"

		if playerName != "" {
			player, err := models.GetPlayerByName(opCtx, ctx.DB, playerName, serverID)
			if err != nil {
				return err
			}
			if player == nil {
				return respondEphemeral(s, i, "Player not found.")
			}
			rivalries, err = models.GetRivalriesForPlayer(opCtx, ctx.DB, player.ID, serverID, 5)
			if err != nil {
				return err
			}
			title = fmt.Sprintf("Rivalries: %s", player.Name)
		} else {
			var err error
			rivalries, err = models.GetTopRivalries(opCtx, ctx.DB, serverID, 5)
			if err != nil {
				return err
			}
		}

		if len(rivalries) == 0 {
			return respondEphemeral(s, i, "No rivalries recorded yet.")
		}

		now := time.Now().UTC()
		var lines []string
		for _, rivalry := range rivalries {
			name1, name2 := models.RivalryPlayerNames(opCtx, ctx.DB, rivalry)
			state := ""
			if !rivalry.IsActive(now) {
				state = " *(dormant)*"
			}
			lines = append(lines, fmt.Sprintf("**%s** %d : %d **%s** (intensity %.1f)%s",
				name1, rivalry.Player1Kills, rivalry.Player2Kills, name2, rivalry.IntensityScore, state))
		}

		embed := &discordgo.MessageEmbed{
			Title:       title,
			Description: strings.Join(lines, "\n"),
			Color:       0xe74c3c,
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
