package events

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/events/ready"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

type Handler struct {
	session *discordgo.Session
	ctx     *types.Context
}

func NewHandler(s *discordgo.Session, ctx *types.Context) *Handler {
	return &Handler{
		session: s,
		ctx:     ctx,
	}
}

func (h *Handler) LoadEvents() error {
	h.ctx.Logger.Info("Loading events...")
	h.registerDefaultHandlers()
	h.ctx.Logger.Info("Events loaded successfully")
	return nil
}

func (h *Handler) registerDefaultHandlers() {
	h.session.AddHandler(ready.New(h.ctx).Handler)

	h.session.AddHandler(func(s *discordgo.Session, e interface{}) {
		if evt, ok := e.(*discordgo.Event); ok {
			if evt.Type == "ERROR" {
				h.ctx.Logger.Error("Discord error event occurred")
			}
		}
	})

	h.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}

		if h.ctx.Config.Debug {
			h.ctx.Logger.Debug(fmt.Sprintf("Message received from %s: %s", m.Author.Username, m.Content))
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := models.LogMessage(ctx, h.ctx.DB, m.GuildID, m.ChannelID, m.Author.ID, m.Content); err != nil {
			h.ctx.Logger.Warn(fmt.Sprintf("Failed to log message: %v", err))
		}
	})
}
