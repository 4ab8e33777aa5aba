package handlers

import (
	"discord-rag-bot/bot"

	"github.com/bwmarrin/discordgo"
)

// commandPermissions maps command names to the Discord permission bits the
// invoking member must hold. Commands absent from the map are open to
// everyone.
var commandPermissions = map[string]int64{
	"export": discordgo.PermissionAdministrator | discordgo.PermissionManageServer,
}

// CommandDispatcher is the central handler for all application command
// interactions. It performs permission checks and then dispatches the
// interaction to the appropriate handler.
func CommandDispatcher(b *bot.Bot, s *discordgo.Session, i *discordgo.InteractionCreate) {
	commandName := i.ApplicationCommandData().Name

	if required, ok := commandPermissions[commandName]; ok {
		if i.Member == nil || i.Member.Permissions&required == 0 {
			s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "You do not have permission to run this command.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
			return
		}
	}

	switch commandName {
	case "export":
		HandleExport(b, s, i)
	case "query":
		HandleQuery(b, s, i)
	case "stats":
		HandleStats(b, s, i)
	case "ping":
		HandlePing(s, i)
	default:
		s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content: "Unknown command.",
				Flags:   discordgo.MessageFlagsEphemeral,
			},
		})
	}
}
