package handlers

import (
	"log"

	"discord-rag-bot/bot"
	"discord-rag-bot/ingest"

	"github.com/bwmarrin/discordgo"
)

// resolveChannel looks up a channel, preferring the session state cache
// over a REST round trip. Returns nil when the channel cannot be resolved;
// the normalizer treats that as a context without a real name.
func resolveChannel(s *discordgo.Session, channelID string) *discordgo.Channel {
	if ch, err := s.State.Channel(channelID); err == nil {
		return ch
	}
	ch, err := s.Channel(channelID)
	if err != nil {
		log.Printf("Could not resolve channel %s: %v", channelID, err)
		return nil
	}
	return ch
}

// MessageCreateHandler forwards each new eligible message to the backend.
// Ingestion is fire-and-forget: a failed upload is logged and the event
// stream moves on.
func MessageCreateHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID == "" {
			return
		}
		if !ingest.Eligible(m.Message, s.State.User.ID) {
			return
		}

		rec := ingest.Normalize(m.Message, resolveChannel(s, m.ChannelID))
		go func() {
			if !b.Backend.UploadMessage(rec) {
				log.Printf("Failed to upload message %s to backend", rec.Metadata.MessageID)
				return
			}
			if b.Archive != nil {
				if err := b.Archive.RecordUpload(rec); err != nil {
					log.Printf("%v", err)
				}
			}
		}()
	}
}

// MessageUpdateHandler forwards each eligible edit to the backend as an
// old/new record pair. When the pre-edit snapshot is not cached it is
// fetched once; a failed fetch aborts this single sync attempt.
func MessageUpdateHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageUpdate) {
	return func(s *discordgo.Session, m *discordgo.MessageUpdate) {
		if m.GuildID == "" {
			return
		}
		if !ingest.Eligible(m.Message, s.State.User.ID) {
			return
		}

		oldMsg := m.BeforeUpdate
		if oldMsg == nil {
			fetched, err := s.ChannelMessage(m.ChannelID, m.ID)
			if err != nil {
				log.Printf("Could not resolve pre-edit snapshot of message %s: %v", m.ID, err)
				return
			}
			oldMsg = fetched
		}
		if oldMsg.Author == nil {
			log.Printf("Pre-edit snapshot of message %s has no author, skipping update", m.ID)
			return
		}

		ch := resolveChannel(s, m.ChannelID)
		oldRec := ingest.Normalize(oldMsg, ch)
		newRec := ingest.Normalize(m.Message, ch)
		go func() {
			if !b.Backend.UpdateMessage(oldRec, newRec) {
				log.Printf("Failed to upload updated message %s to backend", newRec.Metadata.MessageID)
				return
			}
			if b.Archive != nil {
				if err := b.Archive.RecordUpdate(newRec); err != nil {
					log.Printf("%v", err)
				}
			}
		}()
	}
}

// MessageDeleteHandler forwards each deletion to the backend by id. The
// delete event carries no author, so only the guild context is validated.
func MessageDeleteHandler(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageDelete) {
	return func(s *discordgo.Session, m *discordgo.MessageDelete) {
		if m.GuildID == "" || m.ID == "" {
			return
		}

		messageID, guildID, channelID := m.ID, m.GuildID, m.ChannelID
		go func() {
			if !b.Backend.DeleteMessage(messageID) {
				log.Printf("Failed to delete message %s from backend", messageID)
				return
			}
			if b.Archive != nil {
				if err := b.Archive.RecordDelete(messageID, guildID, channelID); err != nil {
					log.Printf("%v", err)
				}
			}
		}()
	}
}
