package commands

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	_ "github.com/abakedjoetato/Fbtrial-sub001/commands/all"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/registry"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

type Handler struct {
	commands     map[string]*types.Command
	session      *discordgo.Session
	ctx          *types.Context
	cooldowns    sync.Map
	commandMutex sync.RWMutex
}

func NewHandler(s *discordgo.Session, ctx *types.Context) *Handler {
	return &Handler{
		commands: make(map[string]*types.Command),
		session:  s,
		ctx:      ctx,
	}
}

func (h *Handler) LoadCommands() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	startTime := time.Now()
	h.ctx.Logger.Info("Loading commands...")

	cmdList := make([]*types.Command, 0, len(registry.Commands))
	for _, cmd := range registry.Commands {
		cmdList = append(cmdList, cmd)
	}

	deleteCtx, deleteCancel := context.WithTimeout(ctx, 30*time.Second)
	defer deleteCancel()

	deleteDone := make(chan error, 1)
	go func() {
		deleteDone <- h.DeleteCommands()
		close(deleteDone)
	}()

	select {
	case err := <-deleteDone:
		if err != nil {
			h.ctx.Logger.Error(fmt.Sprintf("Error deleting commands: %v", err))
		}
	case <-deleteCtx.Done():
		return fmt.Errorf("command deletion timed out")
	}

	numCommands := len(cmdList)
	if numCommands == 0 {
		return nil
	}

	workerCount := min(5, numCommands)
	batchSize := (numCommands + workerCount - 1) / workerCount

	results := make(chan error, numCommands)
	var wg sync.WaitGroup

	for i := 0; i < workerCount; i++ {
		start := i * batchSize
		if start >= numCommands {
			break
		}

		end := min(start+batchSize, numCommands)
		cmds := cmdList[start:end]

		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, cmd := range cmds {
				select {
				case <-ctx.Done():
					results <- ctx.Err()
					return
				default:
					if err := h.registerCommand(cmd); err != nil {
						results <- err
					}
					time.Sleep(100 * time.Millisecond)
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var errs []error
	for err := range results {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("failed to register commands: %v", errs)
	}

	h.ctx.Logger.Info(fmt.Sprintf("Successfully loaded %d commands in %v", numCommands, time.Since(startTime)))
	return nil
}

func (h *Handler) registerCommand(cmd *types.Command) error {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(cmd.Options))
	for _, opt := range cmd.Options {
		options = append(options, &discordgo.ApplicationCommandOption{
			Name:        opt.Name,
			Description: opt.Description,
			Type:        opt.Type,
			Required:    opt.Required,
			Choices:     opt.Choices,
		})
	}

	command := &discordgo.ApplicationCommand{
		Name:        cmd.Name,
		Description: cmd.Description,
		Options:     options,
	}

	maxRetries := 3
	var err error

	for i := 0; i < maxRetries; i++ {
		_, err = h.session.ApplicationCommandCreate(
			h.ctx.Config.Discord.ClientID,
			h.ctx.Config.Discord.GuildID,
			command,
		)
		if err == nil {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	if err != nil {
		return fmt.Errorf("failed to register command %s: %v", cmd.Name, err)
	}

	h.commandMutex.Lock()
	h.commands[cmd.Name] = cmd
	h.commandMutex.Unlock()

	return nil
}

func (h *Handler) DeleteCommands() error {
	commands, err := h.session.ApplicationCommands(h.ctx.Config.Discord.ClientID, h.ctx.Config.Discord.GuildID)
	if err != nil {
		return fmt.Errorf("error fetching commands: %v", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(commands))

	for _, cmd := range commands {
		wg.Add(1)
		go func(cmd *discordgo.ApplicationCommand) {
			defer wg.Done()
			for i := 0; i < 3; i++ {
				err := h.session.ApplicationCommandDelete(
					h.ctx.Config.Discord.ClientID,
					h.ctx.Config.Discord.GuildID,
					cmd.ID,
				)
				if err == nil {
					break
				}
				if i == 2 {
					errChan <- fmt.Errorf("failed to delete command %s: %v", cmd.Name, err)
				}
				time.Sleep(time.Duration(i+1) * 200 * time.Millisecond)
			}
		}(cmd)
	}

	wg.Wait()
	close(errChan)

	var errorList []error
	for err := range errChan {
		errorList = append(errorList, err)
	}

	if len(errorList) > 0 {
		return fmt.Errorf("errors deleting commands: %v", errorList)
	}

	return nil
}

func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		h.handleAutocomplete(s, i)
		return
	}

	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	userID, userName := h.getUser(i)
	if userID == "" {
		h.ctx.Logger.Error("Could not identify the user behind the interaction")
		return
	}

	commandName := i.ApplicationCommandData().Name
	h.commandMutex.RLock()
	cmd, exists := h.commands[commandName]
	h.commandMutex.RUnlock()

	if !exists {
		h.ctx.Logger.Error(fmt.Sprintf("Command not found: %s", commandName))
		return
	}

	if cmd.DevOnly && !h.isDeveloper(userID) {
		h.respondEphemeral(s, i, "This command is restricted to bot developers.")
		return
	}

	if cmd.AdminOnly && !h.isAdmin(i) {
		h.respondEphemeral(s, i, "You need administrator permissions to use this command.")
		return
	}

	if !h.checkCooldown(userID, cmd) {
		h.respondEphemeral(s, i, "Please wait before using this command again.")
		return
	}

	h.trackUsage(userID, userName, commandName)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- cmd.Run(s, i, h.ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			h.handleError(s, i, commandName, err)
		}
	case <-ctx.Done():
		h.handleError(s, i, commandName, fmt.Errorf("command execution timed out"))
	}
}

// trackUsage records per-user and per-command counters. Failures here must
// never break the command itself.
func (h *Handler) trackUsage(userID, userName, commandName string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := models.TrackUserCommand(ctx, h.ctx.DB, userID, userName); err != nil {
		h.ctx.Logger.Warn(fmt.Sprintf("Failed to track user command: %v", err))
	}
	if err := models.IncrementCommandStat(ctx, h.ctx.DB, commandName); err != nil {
		h.ctx.Logger.Warn(fmt.Sprintf("Failed to increment command stat: %v", err))
	}
}

func (h *Handler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	commandName := i.ApplicationCommandData().Name
	h.commandMutex.RLock()
	cmd, exists := h.commands[commandName]
	h.commandMutex.RUnlock()

	if !exists || cmd.AutoComplete == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		choices, err := cmd.AutoComplete(s, i, h.ctx)
		if err != nil {
			h.ctx.Logger.Error(fmt.Sprintf("Error in autocomplete for command %s: %v", commandName, err))
			return
		}

		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{
				Choices: choices,
			},
		})
		if err != nil {
			h.ctx.Logger.Error(fmt.Sprintf("Error sending autocomplete response: %v", err))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		h.ctx.Logger.Error("Autocomplete timed out")
	}
}

func (h *Handler) getUser(i *discordgo.InteractionCreate) (string, string) {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID, i.Member.User.Username
	}
	if i.User != nil {
		return i.User.ID, i.User.Username
	}
	return "", ""
}

func (h *Handler) isDeveloper(userID string) bool {
	for _, dev := range h.ctx.Config.Discord.Devs {
		if dev == userID {
			return true
		}
	}
	return false
}

func (h *Handler) isAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func (h *Handler) checkCooldown(userID string, cmd *types.Command) bool {
	cooldown := cmd.Cooldown
	if cooldown <= 0 {
		cooldown = 5 * time.Second
	}

	key := fmt.Sprintf("%s:%s", cmd.Name, userID)
	now := time.Now()

	if lastUsage, exists := h.cooldowns.Load(key); exists {
		if now.Sub(lastUsage.(time.Time)) < cooldown {
			return false
		}
	}

	h.cooldowns.Store(key, now)
	return true
}

func (h *Handler) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func (h *Handler) handleError(s *discordgo.Session, i *discordgo.InteractionCreate, commandName string, err error) {
	h.ctx.Logger.Error(fmt.Sprintf("Error executing command %s: %v", commandName, err))
	h.respondEphemeral(s, i, "An error occurred while executing the command.")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
