package handlers

import (
	"log"

	"discord-rag-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// Register all handlers to the bot.
func Register(b *bot.Bot) {
	b.Session.AddHandler(InteractionCreate(b))
	b.Session.AddHandler(MessageCreateHandler(b))
	b.Session.AddHandler(MessageUpdateHandler(b))
	b.Session.AddHandler(MessageDeleteHandler(b))

	// Log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
}
