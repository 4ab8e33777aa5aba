package handlers

import (
	"fmt"
	"log"
	"strings"

	"discord-rag-bot/bot"
	"discord-rag-bot/export"
	"discord-rag-bot/models"
	"discord-rag-bot/sources"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// deferReply acknowledges the interaction so the reply window stays open
// while the handler works.
func deferReply(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	})
}

// HandleExport handles the logic for the /export command: a full-server
// backfill of every text channel into the backend.
func HandleExport(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "This command can only be used in a server.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	if err := deferReply(s, i, false); err != nil {
		log.Printf("Could not defer export reply: %v", err)
		return
	}

	// Long exports outlive the 15 minute interaction token, so edit the
	// reply as a plain channel message instead of through the webhook.
	edit := func(status string) {
		_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &status})
		if err != nil {
			log.Printf("Could not update export status: %v", err)
		}
	}
	if reply, err := s.InteractionResponse(i.Interaction); err == nil {
		channelID, messageID := reply.ChannelID, reply.ID
		edit = func(status string) {
			if _, err := s.ChannelMessageEdit(channelID, messageID, status); err != nil {
				log.Printf("Could not update export status: %v", err)
			}
		}
	}

	guildID := i.GuildID
	go func() {
		exporter := &export.Exporter{
			Session:  s,
			Uploader: b.Backend,
			Config:   b.Config.Export,
			SelfID:   s.State.User.ID,
			Progress: edit,
			Archive:  archiveRecorder(b),
		}

		summary, err := exporter.Run(guildID)
		if err != nil {
			log.Printf("Export of guild %s failed: %v", guildID, err)
			edit(fmt.Sprintf("An error occurred during export.\n-# %v", err))
			return
		}
		edit(exportSummaryText(summary))
	}()
}

// archiveRecorder adapts the bot's optional archive to the exporter's
// Recorder interface without handing it a typed nil.
func archiveRecorder(b *bot.Bot) export.Recorder {
	if b.Archive == nil {
		return nil
	}
	return b.Archive
}

func exportSummaryText(summary models.ExportSummary) string {
	return fmt.Sprintf(
		"**Export complete!**\n\n**Summary:**\n- Channels processed: %d/%d\n- Total messages found: %d",
		summary.ProcessedChannels, summary.TotalChannels, summary.TotalMessages,
	)
}

// HandleQuery handles the logic for the /query command.
func HandleQuery(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	req := models.QueryRequest{
		ServerID:     i.GuildID,
		TopK:         b.Config.Query.TopK,
		ResponseType: b.Config.Query.ResponseMode,
	}
	if opt, ok := optionMap["query"]; ok {
		req.Query = opt.StringValue()
	}
	if opt, ok := optionMap["top_k"]; ok {
		req.TopK = int(opt.IntValue())
	}
	if opt, ok := optionMap["mode"]; ok {
		req.ResponseType = opt.StringValue()
	}

	if strings.TrimSpace(req.Query) == "" {
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "The query may not be empty.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
		return
	}

	if err := deferReply(s, i, false); err != nil {
		log.Printf("Could not defer query reply: %v", err)
		return
	}

	budget := b.Config.Query.SourceBudget
	go func() {
		result := b.Backend.Query(req)

		var reply string
		switch {
		case !result.Success:
			reply = fmt.Sprintf("Error querying RAG agent.\n-# %s", result.Err)
		case result.Data == nil:
			reply = "No response from RAG agent."
		default:
			reply = sources.ConcatResponse(result.Data, budget)
		}

		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply}); err != nil {
			log.Printf("Could not send query reply: %v", err)
		}
	}()
}

// HandleStats handles the logic for the /stats command: backend document
// counters plus the local relay-archive counters.
func HandleStats(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := deferReply(s, i, true); err != nil {
		log.Printf("Could not defer stats reply: %v", err)
		return
	}

	guildID := i.GuildID
	go func() {
		edit := func(content string) {
			if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
				log.Printf("Could not send stats reply: %v", err)
			}
		}

		stats, err := b.Backend.Stats(guildID)
		if err != nil {
			edit(fmt.Sprintf("Failed to fetch stats from backend.\n-# %v", err))
			return
		}
		if stats.Status != "success" {
			edit("Backend returned an error while retrieving stats.")
			return
		}

		lines := []string{"**Backend Stats**"}
		if stats.DiscordMessagesTotal != nil {
			lines = append(lines, numberPrinter.Sprintf("- Discord messages (total): %d", *stats.DiscordMessagesTotal))
		}
		if guildID != "" && stats.DiscordMessagesForServer != nil {
			lines = append(lines, numberPrinter.Sprintf("- Discord messages for this server: %d", *stats.DiscordMessagesForServer))
		}
		if stats.NotionDocumentsTotal != nil {
			lines = append(lines, numberPrinter.Sprintf("- Notion documents: %d", *stats.NotionDocumentsTotal))
		}

		if b.Archive != nil {
			if total, err := b.Archive.CountTotal(); err == nil {
				lines = append(lines, numberPrinter.Sprintf("- Messages relayed by this bot: %d", total))
			}
			if guildID != "" {
				if count, err := b.Archive.CountForGuild(guildID); err == nil {
					lines = append(lines, numberPrinter.Sprintf("- Relayed from this server: %d", count))
				}
			}
		}

		edit(strings.Join(lines, "\n"))
	}()
}

// HandlePing handles the logic for the /ping command.
func HandlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Pong!",
		},
	})
}
