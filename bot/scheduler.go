package bot

import (
	"log"

	"discord-rag-bot/backend"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the hourly backend health probe.
func startScheduler(client *backend.Client) {
	c = cron.New()
	_, err := c.AddFunc("@hourly", func() {
		if err := client.Health(); err != nil {
			log.Printf("Backend health check failed: %v", err)
			return
		}
		log.Println("Backend health check passed.")
	})
	if err != nil {
		log.Fatalf("Could not set up health check job: %v", err)
	}
	c.Start()
	log.Println("Backend health check scheduled to run hourly.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
