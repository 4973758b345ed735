package types

import (
	"time"

	"github.com/abakedjoetato/Fbtrial-sub001/config"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/logger"
	"github.com/bwmarrin/discordgo"
)

// Context carries the application dependencies into command handlers. It is
// built once at startup and injected; commands never reach for globals.
type Context struct {
	Config *config.Config
	Logger *logger.Logger
	DB     *database.Database
}

type CommandOption struct {
	Name        string
	Description string
	Type        discordgo.ApplicationCommandOptionType
	Required    bool
	Choices     []*discordgo.ApplicationCommandOptionChoice
}

type Command struct {
	Name         string
	Description  string
	Category     string
	Cooldown     time.Duration
	DevOnly      bool
	AdminOnly    bool
	Options      []*CommandOption
	AutoComplete func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *Context) ([]*discordgo.ApplicationCommandOptionChoice, error)
	Run          func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *Context) error
}

// Event names a gateway event handler registered at startup. Handler must be
// a discordgo handler func; AddHandler rejects anything else.
type Event struct {
	Name    string
	Handler interface{}
}
