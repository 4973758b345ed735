package guild

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

type Handler struct {
	ctx *types.Context
}

func NewHandler(ctx *types.Context) *Handler {
	return &Handler{ctx: ctx}
}

func (h *Handler) HandleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := models.UpsertGuild(ctx, h.ctx.DB, g.ID, g.Name); err != nil {
		h.ctx.Logger.Error("Failed to upsert guild: ", err)
		return
	}
	h.ctx.Logger.Info("Joined guild: ", g.Name, " (ID: ", g.ID, ")")
}

func (h *Handler) HandleGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := models.MarkGuildLeft(ctx, h.ctx.DB, g.ID, time.Now().UTC()); err != nil {
		h.ctx.Logger.Error("Failed to update guild status: ", err)
		return
	}
	h.ctx.Logger.Info("Bot removed from guild ID: ", g.ID)
}

func (h *Handler) HandleGuildUpdate(s *discordgo.Session, g *discordgo.GuildUpdate) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := models.UpsertGuild(ctx, h.ctx.DB, g.ID, g.Name); err != nil {
		h.ctx.Logger.Error("Failed to update guild: ", err)
		return
	}
	h.ctx.Logger.Info("Guild updated: ", g.Name, " (ID: ", g.ID, ")")
}
