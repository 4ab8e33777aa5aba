package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"discord-rag-bot/archive"
	"discord-rag-bot/backend"
	"discord-rag-bot/command"
	"discord-rag-bot/config"

	"github.com/bwmarrin/discordgo"
)

// Bot encapsulates the bot's state: the Discord session, the backend
// client, and the optional local relay archive.
type Bot struct {
	Session *discordgo.Session
	Config  config.Config
	Backend *backend.Client
	Archive *archive.Store
}

// New creates and initializes a new Bot instance.
func New(cfg config.Config) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	// The relay archive is bookkeeping only; the bot runs without it.
	store, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		log.Printf("Relay archive unavailable, continuing without it: %v", err)
	}

	return &Bot{
		Session: dg,
		Config:  cfg,
		Backend: backend.New(cfg.BackendURL),
		Archive: store,
	}, nil
}

// Start opens the bot's session, registers handlers and slash commands,
// and starts the backend health scheduler.
func (b *Bot) Start(registerHandlers func(*Bot)) error {
	registerHandlers(b)

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, def := range command.GetCommandDefinitions() {
		if _, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, "", def); err != nil {
			log.Printf("Cannot create '%v' command: %v", def.Name, err)
		}
	}

	startScheduler(b.Backend)

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	return nil
}

// Stop gracefully closes the bot's session and resources.
func (b *Bot) Stop() {
	stopScheduler()
	if b.Session != nil {
		b.Session.Close()
	}
	if b.Archive != nil {
		b.Archive.Close()
	}
	fmt.Println("Bot stopped gracefully.")
}

// Run is the main entry point for the bot application.
func Run(cfg config.Config, registerHandlers func(*Bot)) {
	bot, err := New(cfg)
	if err != nil {
		log.Fatalf("Error initializing bot: %v", err)
	}

	if err := bot.Start(registerHandlers); err != nil {
		log.Fatalf("Error starting bot: %v", err)
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	bot.Stop()
}
