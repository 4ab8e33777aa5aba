package main

import (
	"log"

	"discord-rag-bot/bot"
	"discord-rag-bot/config"
	"discord-rag-bot/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	bot.Run(cfg, handlers.Register)
}
