package command

import "github.com/bwmarrin/discordgo"

// ExportCommand defines the structure for the /export command.
type ExportCommand struct{}

// Definition returns the application command definition.
func (c *ExportCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "export",
		Description: "Exports all messages, in every channel, to the backend.",
	}
}

// QueryCommand defines the structure for the /query command.
type QueryCommand struct{}

// Definition returns the application command definition.
func (c *QueryCommand) Definition() *discordgo.ApplicationCommand {
	minTopK := float64(1)
	return &discordgo.ApplicationCommand{
		Name:        "query",
		Description: "Queries the RAG agent.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Name:        "query",
				Description: "The query to send to the RAG agent",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    true,
			},
			{
				Name:        "top_k",
				Description: "How many sources to retrieve",
				Type:        discordgo.ApplicationCommandOptionInteger,
				Required:    false,
				MinValue:    &minTopK,
			},
			{
				Name:        "mode",
				Description: "Response mode",
				Type:        discordgo.ApplicationCommandOptionString,
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{
						Name:  "LLM answer",
						Value: "llm",
					},
					{
						Name:  "Raw retrieval",
						Value: "retrieval",
					},
				},
			},
		},
	}
}

// StatsCommand defines the structure for the /stats command.
type StatsCommand struct{}

// Definition returns the application command definition.
func (c *StatsCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "stats",
		Description: "Shows backend document counts for Discord messages and Notion pages.",
	}
}

// PingCommand defines the structure for the /ping command.
type PingCommand struct{}

// Definition returns the application command definition.
func (c *PingCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "ping",
		Description: "Responds with Pong!",
	}
}
