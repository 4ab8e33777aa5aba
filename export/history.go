package export

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

// MessageFetcher is the slice of the Discord API used for history paging.
// *discordgo.Session satisfies it.
type MessageFetcher interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// History pages a channel's message history backward from now to its oldest
// message, one bounded page at a time.
type History struct {
	Fetcher  MessageFetcher
	PageSize int           // per-fetch limit, the API caps this at 100
	Delay    time.Duration // pause between fetches to respect the rate limit
}

// Pages invokes visit for every non-empty page, newest page first. The
// cursor for each fetch is the oldest message id of the previous page; an
// empty page signals end of history. Fetch and visit errors propagate to
// the caller, which decides whether to abandon only this channel or the
// whole run.
func (h *History) Pages(channelID string, visit func(page []*discordgo.Message) error) error {
	before := ""
	for {
		page, err := h.Fetcher.ChannelMessages(channelID, h.PageSize, before, "", "")
		if err != nil {
			return fmt.Errorf("fetching messages in channel %s: %w", channelID, err)
		}
		if len(page) == 0 {
			return nil
		}
		if err := visit(page); err != nil {
			return err
		}
		// Pages arrive newest first, so the last entry is the oldest.
		before = page[len(page)-1].ID
		time.Sleep(h.Delay)
	}
}
