// Package sources turns the heterogeneous citations of a query answer into
// a single ordered list of display lines.
package sources

import (
	"fmt"
	"strings"

	"discord-rag-bot/models"
)

// maxReplyLength is Discord's hard limit for a single message.
const maxReplyLength = 2000

// Citation is one retrieved source in display form. The concrete type
// identifies its provenance; new kinds add a type without touching the
// existing ones.
type Citation interface {
	// Line renders the citation as one display line of at most budget
	// runes, with an ellipsis when truncated.
	Line(budget int) string
}

// ChatCitation is an excerpt backed by a Discord message.
type ChatCitation struct {
	Channel   string
	Sender    string
	SenderID  string
	ServerID  string
	ChannelID string
	MessageID string
	Content   string
}

// DocumentCitation is an excerpt backed by an external document.
type DocumentCitation struct {
	Title   string
	Author  string
	URL     string
	Content string
}

// UnknownCitation is an excerpt whose provenance could not be determined.
type UnknownCitation struct {
	Content string
}

// Classify maps a raw backend source onto its provenance kind. First match
// wins: a channel-message identity pair makes a chat citation even when a
// stray URL field is present, a url+title pair makes a document citation,
// anything else is unknown.
func Classify(src models.Source) Citation {
	switch {
	case src.ChannelID != "" && src.MessageID != "":
		return ChatCitation{
			Channel:   src.Channel,
			Sender:    src.Sender,
			SenderID:  src.SenderID,
			ServerID:  src.ServerID,
			ChannelID: src.ChannelID,
			MessageID: src.MessageID,
			Content:   src.Content,
		}
	case src.URL != "" && src.Title != "":
		return DocumentCitation{
			Title:   src.Title,
			Author:  src.Author,
			URL:     src.URL,
			Content: src.Content,
		}
	default:
		return UnknownCitation{Content: src.Content}
	}
}

// Line renders a chat citation as a deep link with an optional @-mention.
func (c ChatCitation) Line(budget int) string {
	var b strings.Builder
	b.WriteString("-# ")
	if c.SenderID != "" {
		fmt.Fprintf(&b, "<@%s> @ ", c.SenderID)
	}
	fmt.Fprintf(&b, "https://discord.com/channels/%s/%s/%s: %s", c.ServerID, c.ChannelID, c.MessageID, c.Content)
	return truncate(b.String(), budget)
}

// Line renders a document citation as a markdown link with an optional
// author prefix.
func (c DocumentCitation) Line(budget int) string {
	var b strings.Builder
	b.WriteString("-# ")
	if c.Author != "" {
		fmt.Fprintf(&b, "%s — ", c.Author)
	}
	fmt.Fprintf(&b, "[%s](%s): %s", c.Title, c.URL, c.Content)
	return truncate(b.String(), budget)
}

// Line renders an unknown-provenance citation as its bare excerpt.
func (c UnknownCitation) Line(budget int) string {
	return truncate("-# "+c.Content, budget)
}

// FormatSources renders every source as one display line, in source order.
func FormatSources(srcs []models.Source, budget int) []string {
	if len(srcs) == 0 {
		return nil
	}
	lines := make([]string, len(srcs))
	for i, src := range srcs {
		lines[i] = Classify(src).Line(budget)
	}
	return lines
}

// ConcatResponse assembles the final reply text: the answer followed by a
// sources section, clamped to Discord's message limit.
func ConcatResponse(resp *models.QueryResponse, budget int) string {
	answer := resp.Response
	if answer == "" {
		answer = "No response from RAG agent."
	}

	lines := FormatSources(resp.Sources, budget)
	if len(lines) == 0 {
		return truncate(answer, maxReplyLength-3)
	}

	text := answer + "\n\n**Sources:**\n" + strings.Join(lines, "\n")
	return truncate(text, maxReplyLength-3)
}

// truncate cuts s to at most budget runes, appending an ellipsis when
// anything was cut.
func truncate(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget]) + "..."
}
