package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/abakedjoetato/Fbtrial-sub001/config"
	"github.com/abakedjoetato/Fbtrial-sub001/events/guild"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/commands"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/events"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/logger"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/reminders"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/types"
)

type Bot struct {
	sessions     []*discordgo.Session
	ctx          *types.Context
	cmdHandler   *commands.Handler
	eventHandler *events.Handler
	guildHandler *guild.Handler
	scheduler    *reminders.Scheduler
	mu           sync.RWMutex
}

func New(cfg *config.Config, l *logger.Logger) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if l == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.Discord.Token == "" {
		return nil, errors.New("discord token is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.New(cfg.MongoDB.URI, cfg.MongoDB.Database, l)
	if err := db.Connect(ctx); err != nil {
		// Connect only errors on misuse; connection failures fall back to the
		// in-memory store instead.
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	appCtx := &types.Context{
		Config: cfg,
		Logger: l,
		DB:     db,
	}

	if err := ensureIndexes(ctx, db); err != nil {
		l.Warn("Failed to create indexes: ", err)
	}

	return &Bot{
		ctx:          appCtx,
		sessions:     make([]*discordgo.Session, 0),
		guildHandler: guild.NewHandler(appCtx),
		scheduler:    reminders.NewScheduler(db, l),
	}, nil
}

func ensureIndexes(ctx context.Context, db *database.Database) error {
	for _, ensure := range []func(context.Context, *database.Database) error{
		models.EnsureGuildIndexes,
		models.EnsurePlayerIndexes,
		models.EnsurePlayerLinkIndexes,
		models.EnsureRivalryIndexes,
	} {
		if err := ensure(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) setupHandlers(session *discordgo.Session) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	if session == nil {
		return errors.New("session cannot be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	errChan := make(chan error, 2)
	setupDone := make(chan struct{})

	go func() {
		defer close(setupDone)

		if b.cmdHandler == nil {
			b.cmdHandler = commands.NewHandler(session, b.ctx)
		}
		if b.eventHandler == nil {
			b.eventHandler = events.NewHandler(session, b.ctx)
		}

		session.AddHandler(b.cmdHandler.HandleCommand)
		session.AddHandler(b.guildHandler.HandleGuildCreate)
		session.AddHandler(b.guildHandler.HandleGuildDelete)
		session.AddHandler(b.guildHandler.HandleGuildUpdate)

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			if err := b.cmdHandler.LoadCommands(); err != nil {
				errChan <- fmt.Errorf("failed to load commands: %v", err)
			}
		}()

		go func() {
			defer wg.Done()
			if err := b.eventHandler.LoadEvents(); err != nil {
				errChan <- fmt.Errorf("failed to load events: %v", err)
			}
		}()

		wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return errors.New("setup handlers timed out")
	case err := <-errChan:
		return err
	case <-setupDone:
		return nil
	}
}

func (b *Bot) Start() error {
	startCtx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	b.mu.Lock()
	isSharded := b.ctx.Config.Discord.Sharding.Enabled
	b.mu.Unlock()

	errChan := make(chan error, 1)
	startDone := make(chan struct{})

	go func() {
		defer close(startDone)
		if isSharded {
			errChan <- b.startSharded()
		} else {
			errChan <- b.startSingle()
		}
	}()

	select {
	case <-startCtx.Done():
		return errors.New("bot startup timed out")
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-startDone:
		select {
		case err := <-errChan:
			if err != nil {
				return err
			}
		default:
		}
	}

	b.mu.RLock()
	var session *discordgo.Session
	if len(b.sessions) > 0 {
		session = b.sessions[0]
	}
	b.mu.RUnlock()
	if session == nil {
		return errors.New("no session available after startup")
	}
	b.scheduler.Start(session)

	return nil
}

func (b *Bot) startSingle() error {
	sessionCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := discordgo.New("Bot " + b.ctx.Config.Discord.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %v", err)
	}

	b.mu.Lock()
	b.sessions = []*discordgo.Session{session}
	b.mu.Unlock()

	setupDone := make(chan error, 1)
	go func() {
		setupDone <- b.setupSession(session, 0, 1)
	}()

	select {
	case <-sessionCtx.Done():
		return errors.New("session setup timed out")
	case err := <-setupDone:
		if err != nil {
			b.ctx.Logger.Error("Failed to setup session: " + err.Error())
			return err
		}
		b.ctx.Logger.Info("Bot started successfully in single mode")
		return nil
	}
}

func (b *Bot) startSharded() error {
	totalShards := b.ctx.Config.Discord.Sharding.TotalShards
	if totalShards <= 0 {
		return errors.New("invalid shard count")
	}

	b.mu.Lock()
	b.sessions = make([]*discordgo.Session, totalShards)
	b.mu.Unlock()

	var wg sync.WaitGroup
	errChan := make(chan error, totalShards)
	semaphore := make(chan struct{}, 5)

	for i := 0; i < totalShards; i++ {
		wg.Add(1)
		go func(shardID int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			session, err := discordgo.New("Bot " + b.ctx.Config.Discord.Token)
			if err != nil {
				errChan <- fmt.Errorf("failed to create discord session for shard %d: %v", shardID, err)
				return
			}

			b.mu.Lock()
			b.sessions[shardID] = session
			b.mu.Unlock()

			if err := b.setupSession(session, shardID, totalShards); err != nil {
				errChan <- fmt.Errorf("failed to setup shard %d: %v", shardID, err)
			}
		}(i)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors starting sharded mode: %v", errs)
	}

	b.ctx.Logger.Info("Bot started successfully in sharded mode")
	return nil
}

func (b *Bot) setupSession(session *discordgo.Session, shardID, totalShards int) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	session.ShardID = shardID
	session.ShardCount = totalShards
	session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentsMessageContent

	if shardID == 0 {
		if err := b.setupHandlers(session); err != nil {
			return fmt.Errorf("failed to setup handlers: %v", err)
		}
	}

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open session: %v", err)
	}

	return nil
}

// Database exposes the persistence layer for the HTTP sidecar.
func (b *Bot) Database() *database.Database {
	return b.ctx.DB
}

func (b *Bot) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	b.scheduler.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()

	var wg sync.WaitGroup
	sessionErrors := make(chan error, len(b.sessions))

	for _, session := range b.sessions {
		if session != nil {
			wg.Add(1)
			go func(s *discordgo.Session) {
				defer wg.Done()
				if err := s.Close(); err != nil {
					sessionErrors <- fmt.Errorf("failed to close session: %v", err)
				}
			}(session)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return errors.New("session shutdown timed out")
	case <-done:
	}

	// The database goes down last so in-flight handlers can finish their
	// writes.
	if err := b.ctx.DB.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close database: %v", err)
	}

	close(sessionErrors)

	var errs []error
	for err := range sessionErrors {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
