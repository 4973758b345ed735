package sftp

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	sftpclient "github.com/abakedjoetato/Fbtrial-sub001/internal/sftp"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

// Discord caps message content at 2000 characters; leave room for the code
// fence and header.
const tailBytes = 1800

func init() {
	registry.RegisterCommand(LogsCommand)
	registry.RegisterCommand(LogFileCommand)
}

var LogsCommand = &types.Command{
	Name:        "logs",
	Description: "Lists the log files on the game server",
	Category:    "SFTP",
	Cooldown:    15 * time.Second,
	AdminOnly:   true,
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags: discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			return err
		}

		client, err := sftpclient.Connect(sftpclient.Config{
			Host:     ctx.Config.SFTP.Host,
			Port:     ctx.Config.SFTP.Port,
			User:     ctx.Config.SFTP.User,
			Password: ctx.Config.SFTP.Password,
		})
		if err != nil {
			return editText(s, i, "Could not reach the game server: "+err.Error())
		}
		defer client.Close()

		entries, err := client.List(ctx.Config.SFTP.LogDir)
		if err != nil {
			return editText(s, i, "Could not list the log directory: "+err.Error())
		}
		if len(entries) == 0 {
			return editText(s, i, "The log directory is empty.")
		}

		var lines []string
		for _, entry := range entries {
			if entry.IsDir {
				lines = append(lines, fmt.Sprintf("📁 `%s/`", entry.Name))
				continue
			}
			lines = append(lines, fmt.Sprintf("📄 `%s` (%d bytes, %s)",
				entry.Name, entry.Size, entry.ModTime.Format("2006-01-02 15:04")))
		}

		return editText(s, i, strings.Join(lines, "\n"))
	},
}

var LogFileCommand = &types.Command{
	Name:        "logfile",
	Description: "Shows the tail of a log file on the game server",
	Category:    "SFTP",
	Cooldown:    15 * time.Second,
	AdminOnly:   true,
	Options: []*types.CommandOption{
		{
			Name:        "file",
			Description: "File name inside the log directory",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
	Run: func(s *discordgo.Session, i *discordgo.InteractionCreate, ctx *types.Context) error {
		fileName := ""
		for _, opt := range i.ApplicationCommandData().Options {
			if opt.Name == "file" {
				fileName = opt.StringValue()
			}
		}

		remotePath, err := sftpclient.Join(ctx.Config.SFTP.LogDir, fileName)
		if err != nil {
			return respondEphemeral(s, i, "Invalid file name.")
		}

		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Flags: discordgo.MessageFlagsEphemeral,
			},
		})
		if err != nil {
			return err
		}

		client, err := sftpclient.Connect(sftpclient.Config{
			Host:     ctx.Config.SFTP.Host,
			Port:     ctx.Config.SFTP.Port,
			User:     ctx.Config.SFTP.User,
			Password: ctx.Config.SFTP.Password,
		})
		if err != nil {
			return editText(s, i, "Could not reach the game server: "+err.Error())
		}
		defer client.Close()

		data, err := client.Tail(remotePath, tailBytes)
		if err != nil {
			return editText(s, i, "Could not read the file: "+err.Error())
		}
		if len(data) == 0 {
			return editText(s, i, "The file is empty.")
		}

		return editText(s, i, fmt.Sprintf("Tail of `%s`:\n```\n%s\n```", fileName, string(data)))
	},
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func editText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	return err
}
