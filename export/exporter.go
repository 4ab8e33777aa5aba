// Package export drives the bulk backfill of a server's message history
// into the backend: enumerate channels, page each one backward in time,
// normalize, batch, and deliver.
package export

import (
	"fmt"
	"log"
	"time"

	"discord-rag-bot/config"
	"discord-rag-bot/ingest"
	"discord-rag-bot/models"

	"github.com/bwmarrin/discordgo"
)

// Session is the slice of the Discord API the exporter drives.
// *discordgo.Session satisfies it.
type Session interface {
	MessageFetcher
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

// Uploader delivers record batches to the backend.
type Uploader interface {
	UploadMessages(batch []models.Record) bool
}

// Recorder logs delivered batches locally. Optional.
type Recorder interface {
	RecordBatch(batch []models.Record) error
}

// Progress receives human-readable status updates. Implementations own
// their latency; a failing sink must not stop the run.
type Progress func(status string)

// Exporter runs one full-server export. The run is strictly sequential:
// channel by channel, page by page, batch by batch. Extraction is
// best-effort across channels, delivery is all-or-nothing.
type Exporter struct {
	Session  Session
	Uploader Uploader
	Config   config.ExportConfig
	SelfID   string   // bot account id, for the eligibility filter
	Progress Progress // optional
	Archive  Recorder // optional
}

// Run exports every text-capable channel of guildID. It returns the run's
// counters together with an error when the delivery phase aborted; the
// counters are valid either way.
func (e *Exporter) Run(guildID string) (models.ExportSummary, error) {
	var summary models.ExportSummary

	channels, err := e.Session.GuildChannels(guildID)
	if err != nil {
		return summary, fmt.Errorf("enumerating channels of guild %s: %w", guildID, err)
	}

	textChannels := make([]*discordgo.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText || ch.Type == discordgo.ChannelTypeGuildNews {
			textChannels = append(textChannels, ch)
		}
	}
	summary.TotalChannels = len(textChannels)

	if len(textChannels) == 0 {
		e.report("No text channels found, nothing to export.")
		return summary, nil
	}
	e.report(fmt.Sprintf("Found %d text channels. Starting export...", len(textChannels)))

	records := e.extract(textChannels, &summary)
	return summary, e.deliver(records, &summary)
}

// extract pages every channel and accumulates all eligible messages. A
// failing channel is logged and skipped; the walk continues.
func (e *Exporter) extract(channels []*discordgo.Channel, summary *models.ExportSummary) []models.Record {
	history := &History{
		Fetcher:  e.Session,
		PageSize: e.Config.PageSize,
		Delay:    e.Config.PageDelay,
	}

	var records []models.Record
	for i, ch := range channels {
		e.report(e.extractionStatus(ch.Name, i+1, summary))

		channelStart := len(records)
		err := history.Pages(ch.ID, func(page []*discordgo.Message) error {
			for _, m := range page {
				if !ingest.Eligible(m, e.SelfID) {
					continue
				}
				records = append(records, ingest.Normalize(m, ch))
				summary.TotalMessages++
				if e.Config.ProgressInterval > 0 && summary.TotalMessages%e.Config.ProgressInterval == 0 {
					e.report(e.extractionStatus(ch.Name, i+1, summary))
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("Error processing channel %s: %v", ch.Name, err)
			continue
		}

		summary.ProcessedChannels++
		log.Printf("Processed %d messages from channel %s", len(records)-channelStart, ch.Name)
	}
	return records
}

// deliver ships the accumulated records in fixed-size batches and aborts
// on the first rejected batch.
func (e *Exporter) deliver(records []models.Record, summary *models.ExportSummary) error {
	batches := Chunk(records, e.Config.BatchSize)
	summary.TotalBatches = len(batches)

	e.report(e.deliveryStatus(len(records), summary))
	for _, batch := range batches {
		if !e.Uploader.UploadMessages(batch) {
			return fmt.Errorf("batch %d of %d rejected by backend", summary.DeliveredBatches+1, summary.TotalBatches)
		}
		summary.DeliveredBatches++

		if e.Archive != nil {
			if err := e.Archive.RecordBatch(batch); err != nil {
				log.Printf("Failed to archive delivered batch %d: %v", summary.DeliveredBatches, err)
			}
		}

		e.report(e.deliveryStatus(len(records), summary))
		time.Sleep(e.Config.BatchDelay)
	}
	return nil
}

func (e *Exporter) extractionStatus(channelName string, position int, summary *models.ExportSummary) string {
	return fmt.Sprintf(
		"Processing channel: **%s** (%d/%d)\nTotal messages processed: %d",
		channelName, position, summary.TotalChannels, summary.TotalMessages,
	)
}

func (e *Exporter) deliveryStatus(total int, summary *models.ExportSummary) string {
	return fmt.Sprintf(
		"Exporting %d messages from %d channels...\nUploaded batches: %d/%d",
		total, summary.ProcessedChannels, summary.DeliveredBatches, summary.TotalBatches,
	)
}

func (e *Exporter) report(status string) {
	if e.Progress != nil {
		e.Progress(status)
	}
}
