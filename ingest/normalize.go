package ingest

import (
	"time"

	"discord-rag-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Eligible reports whether a raw Discord message may enter the pipeline.
// The same predicate gates both the live-sync handlers and the bulk export:
// system messages without an author, messages from any bot account
// (including our own), and slash-command invocations are all excluded.
func Eligible(m *discordgo.Message, selfID string) bool {
	if m == nil || m.Author == nil {
		return false
	}
	if m.Author.Bot || m.Author.ID == selfID {
		return false
	}
	if m.Interaction != nil {
		return false
	}
	return true
}

// ChannelDisplayName resolves the name a record carries for its channel.
// Only guild text and guild announcement channels have a real name; every
// other context collapses to the "DM" sentinel.
func ChannelDisplayName(ch *discordgo.Channel) string {
	if ch == nil {
		return "DM"
	}
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return ch.Name
	default:
		return "DM"
	}
}

// Normalize maps a raw Discord message onto the backend record shape.
// It is a pure function: the same message and channel always produce an
// identical record. The caller must have checked Eligible first.
func Normalize(m *discordgo.Message, ch *discordgo.Channel) models.Record {
	var nickname *string
	if m.Member != nil && m.Member.Nick != "" {
		nick := m.Member.Nick
		nickname = &nick
	}

	// History fetches over REST omit guild_id on the message object, so
	// fall back to the channel's guild.
	serverID := m.GuildID
	if serverID == "" && ch != nil {
		serverID = ch.GuildID
	}

	return models.Record{
		Data: models.RecordData{
			SenderNickname: nickname,
			SenderUsername: m.Author.Username,
			ChannelName:    ChannelDisplayName(ch),
			Content:        m.Content,
		},
		Metadata: models.RecordMetadata{
			MessageID: m.ID,
			ChannelID: m.ChannelID,
			ServerID:  serverID,
			SenderID:  m.Author.ID,
			DateTime:  m.Timestamp.UTC().Format(time.RFC3339),
		},
	}
}
