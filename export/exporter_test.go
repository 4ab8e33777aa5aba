package export

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"discord-rag-bot/config"
	"discord-rag-bot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSelfID = "bot-self"

// fakeSession serves a fixed guild: a channel list plus one history per
// channel id.
type fakeSession struct {
	channels  []*discordgo.Channel
	histories map[string]*fakeFetcher
	guildErr  error
}

func (s *fakeSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	if s.guildErr != nil {
		return nil, s.guildErr
	}
	return s.channels, nil
}

func (s *fakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	hist, ok := s.histories[channelID]
	if !ok {
		return nil, fmt.Errorf("unknown channel %s", channelID)
	}
	return hist.ChannelMessages(channelID, limit, beforeID, afterID, aroundID, options...)
}

// fakeUploader records delivered batches and can reject one of them.
type fakeUploader struct {
	batches [][]models.Record
	failAt  int // reject the nth batch (1-based), 0 means never
}

func (u *fakeUploader) UploadMessages(batch []models.Record) bool {
	u.batches = append(u.batches, batch)
	return u.failAt == 0 || len(u.batches) != u.failAt
}

func textChannel(id, name string) *discordgo.Channel {
	return &discordgo.Channel{ID: id, GuildID: "guild-1", Name: name, Type: discordgo.ChannelTypeGuildText}
}

// channelHistory builds n messages, newest first. Every third message is
// authored by the bot itself when withBot is set.
func channelHistory(n int, withBot bool) []*discordgo.Message {
	msgs := make([]*discordgo.Message, n)
	for i := range msgs {
		authorID := fmt.Sprintf("user-%d", i)
		if withBot && i%3 == 0 {
			authorID = testSelfID
		}
		msgs[i] = &discordgo.Message{
			ID:        fmt.Sprintf("%05d", n-i),
			ChannelID: "c1",
			Content:   "hi",
			Author:    &discordgo.User{ID: authorID, Username: "u"},
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	return msgs
}

func testExportConfig() config.ExportConfig {
	return config.ExportConfig{
		PageSize:         100,
		BatchSize:        1000,
		ProgressInterval: 50,
	}
}

func TestExporter_TwoChannelsOneEmpty(t *testing.T) {
	// 150 messages of which 50 are the bot's own, plus an empty channel.
	session := &fakeSession{
		channels: []*discordgo.Channel{textChannel("c1", "general"), textChannel("c2", "empty")},
		histories: map[string]*fakeFetcher{
			"c1": {messages: channelHistory(150, true)},
			"c2": {},
		},
	}
	uploader := &fakeUploader{}

	exp := &Exporter{Session: session, Uploader: uploader, Config: testExportConfig(), SelfID: testSelfID}
	summary, err := exp.Run("guild-1")
	require.NoError(t, err)

	assert.Equal(t, 100, summary.TotalMessages)
	assert.Equal(t, 2, summary.ProcessedChannels)
	assert.Equal(t, 2, summary.TotalChannels)
	require.Len(t, uploader.batches, 1)
	assert.Len(t, uploader.batches[0], 100)
}

func TestExporter_AbortsOnFirstFailedBatch(t *testing.T) {
	session := &fakeSession{
		channels:  []*discordgo.Channel{textChannel("c1", "general")},
		histories: map[string]*fakeFetcher{"c1": {messages: channelHistory(2500, false)}},
	}
	uploader := &fakeUploader{failAt: 2}

	exp := &Exporter{Session: session, Uploader: uploader, Config: testExportConfig(), SelfID: testSelfID}
	summary, err := exp.Run("guild-1")
	require.Error(t, err)

	// Batch 2 failed, batch 3 was never attempted.
	assert.Len(t, uploader.batches, 2)
	assert.Equal(t, 1, summary.DeliveredBatches)
	assert.Equal(t, 3, summary.TotalBatches)
	assert.Equal(t, 2500, summary.TotalMessages)
}

func TestExporter_SkipsFailingChannel(t *testing.T) {
	session := &fakeSession{
		channels: []*discordgo.Channel{textChannel("c1", "broken"), textChannel("c2", "general")},
		histories: map[string]*fakeFetcher{
			"c1": {messages: channelHistory(50, false), failAt: 1},
			"c2": {messages: channelHistory(30, false)},
		},
	}
	uploader := &fakeUploader{}

	exp := &Exporter{Session: session, Uploader: uploader, Config: testExportConfig(), SelfID: testSelfID}
	summary, err := exp.Run("guild-1")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ProcessedChannels)
	assert.Equal(t, 2, summary.TotalChannels)
	assert.Equal(t, 30, summary.TotalMessages)
	require.Len(t, uploader.batches, 1)
	assert.Len(t, uploader.batches[0], 30)
}

func TestExporter_NoTextChannels(t *testing.T) {
	session := &fakeSession{
		channels: []*discordgo.Channel{
			{ID: "v1", Name: "voice", Type: discordgo.ChannelTypeGuildVoice},
		},
	}
	uploader := &fakeUploader{}

	var statuses []string
	exp := &Exporter{
		Session:  session,
		Uploader: uploader,
		Config:   testExportConfig(),
		SelfID:   testSelfID,
		Progress: func(status string) { statuses = append(statuses, status) },
	}
	summary, err := exp.Run("guild-1")
	require.NoError(t, err)

	assert.Zero(t, summary.TotalChannels)
	assert.Zero(t, summary.TotalMessages)
	assert.Empty(t, uploader.batches)
	require.Len(t, statuses, 1)
	assert.Contains(t, statuses[0], "nothing to export")
}

func TestExporter_ChannelEnumerationError(t *testing.T) {
	session := &fakeSession{guildErr: errors.New("boom")}
	exp := &Exporter{Session: session, Uploader: &fakeUploader{}, Config: testExportConfig(), SelfID: testSelfID}

	_, err := exp.Run("guild-1")
	assert.Error(t, err)
}

func TestExporter_ProgressUpdates(t *testing.T) {
	session := &fakeSession{
		channels:  []*discordgo.Channel{textChannel("c1", "general")},
		histories: map[string]*fakeFetcher{"c1": {messages: channelHistory(120, false)}},
	}

	var statuses []string
	exp := &Exporter{
		Session:  session,
		Uploader: &fakeUploader{},
		Config:   testExportConfig(),
		SelfID:   testSelfID,
		Progress: func(status string) { statuses = append(statuses, status) },
	}
	_, err := exp.Run("guild-1")
	require.NoError(t, err)

	// Found-channels note, channel transition, two 50-message marks, one
	// pre-delivery status and one per delivered batch.
	assert.Contains(t, statuses[1], "Processing channel: **general** (1/1)")
	assert.Contains(t, statuses, "Processing channel: **general** (1/1)\nTotal messages processed: 50")
	assert.Contains(t, statuses, "Processing channel: **general** (1/1)\nTotal messages processed: 100")
	assert.Contains(t, statuses[len(statuses)-1], "Uploaded batches: 1/1")
}

func TestExporter_RecordsDeliveredBatches(t *testing.T) {
	session := &fakeSession{
		channels:  []*discordgo.Channel{textChannel("c1", "general")},
		histories: map[string]*fakeFetcher{"c1": {messages: channelHistory(10, false)}},
	}
	recorder := &fakeRecorder{}

	exp := &Exporter{
		Session:  session,
		Uploader: &fakeUploader{},
		Config:   testExportConfig(),
		SelfID:   testSelfID,
		Archive:  recorder,
	}
	_, err := exp.Run("guild-1")
	require.NoError(t, err)

	require.Len(t, recorder.batches, 1)
	assert.Len(t, recorder.batches[0], 10)
}

type fakeRecorder struct {
	batches [][]models.Record
}

func (r *fakeRecorder) RecordBatch(batch []models.Record) error {
	r.batches = append(r.batches, batch)
	return nil
}
