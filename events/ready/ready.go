package ready

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

// New builds the ready event handler. Discord resends READY on every gateway
// reconnect, so the body runs once.
func New(ctx *types.Context) *types.Event {
	var once sync.Once
	return &types.Event{
		Name: "ready",
		Handler: func(s *discordgo.Session, r *discordgo.Ready) {
			once.Do(func() {
				ctx.Logger.Info(fmt.Sprintf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator))
				ctx.Logger.Info(fmt.Sprintf("Bot is in %d guilds", len(s.State.Guilds)))

				if err := s.UpdateGameStatus(0, ctx.Config.Discord.Status); err != nil {
					ctx.Logger.Error(fmt.Sprintf("Error setting status: %v", err))
				}
			})
		},
	}
}
