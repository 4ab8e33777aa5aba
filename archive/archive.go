// Package archive keeps a local sqlite log of every operation relayed to
// the backend. It backs the counters shown by the stats command and is
// never consulted to resume an export or to deduplicate uploads.
package archive

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"discord-rag-bot/models"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const (
	// Relay operations recorded in the log.
	OpUpload = "upload"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Store is a handle to the relay log database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the relay log at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	log.Println("Relay archive opened at", path)
	return &Store{db: db}, nil
}

func createSchema(db *sql.DB) error {
	query := `
    CREATE TABLE IF NOT EXISTS relay_log (
        entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
        message_id TEXT NOT NULL,
        guild_id TEXT,
        channel_id TEXT,
        sender_id TEXT,
        operation TEXT NOT NULL,
        relayed_at INTEGER NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_relay_log_guild ON relay_log (guild_id, operation);`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create relay_log table: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) insert(messageID, guildID, channelID, senderID, op string) error {
	_, err := s.db.Exec(
		`INSERT INTO relay_log (message_id, guild_id, channel_id, sender_id, operation, relayed_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		messageID, guildID, channelID, senderID, op, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s of message %s: %w", op, messageID, err)
	}
	return nil
}

// RecordUpload logs one successfully uploaded record.
func (s *Store) RecordUpload(rec models.Record) error {
	m := rec.Metadata
	return s.insert(m.MessageID, m.ServerID, m.ChannelID, m.SenderID, OpUpload)
}

// RecordUpdate logs one successfully updated record.
func (s *Store) RecordUpdate(rec models.Record) error {
	m := rec.Metadata
	return s.insert(m.MessageID, m.ServerID, m.ChannelID, m.SenderID, OpUpdate)
}

// RecordDelete logs one successfully deleted message.
func (s *Store) RecordDelete(messageID, guildID, channelID string) error {
	return s.insert(messageID, guildID, channelID, "", OpDelete)
}

// RecordBatch logs a delivered export batch in one transaction.
func (s *Store) RecordBatch(batch []models.Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO relay_log (message_id, guild_id, channel_id, sender_id, operation, relayed_at)
         VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare archive statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, rec := range batch {
		m := rec.Metadata
		if _, err := stmt.Exec(m.MessageID, m.ServerID, m.ChannelID, m.SenderID, OpUpload, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record batch entry %s: %w", m.MessageID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// CountForGuild returns how many message uploads were relayed for a guild.
func (s *Store) CountForGuild(guildID string) (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM relay_log WHERE guild_id = ? AND operation = ?`,
		guildID, OpUpload,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count relayed messages for guild %s: %w", guildID, err)
	}
	return count, nil
}

// CountTotal returns how many message uploads were relayed overall.
func (s *Store) CountTotal() (int64, error) {
	var count int64
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM relay_log WHERE operation = ?`, OpUpload,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count relayed messages: %w", err)
	}
	return count, nil
}
