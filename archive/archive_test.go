package archive

import (
	"path/filepath"
	"testing"

	"discord-rag-bot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "relay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func record(messageID, guildID string) models.Record {
	return models.Record{
		Data: models.RecordData{SenderUsername: "alice", ChannelName: "general", Content: "hi"},
		Metadata: models.RecordMetadata{
			MessageID: messageID,
			ChannelID: "c1",
			ServerID:  guildID,
			SenderID:  "u1",
			DateTime:  "2024-03-01T12:30:00Z",
		},
	}
}

func TestStore_Counts(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.RecordUpload(record("m1", "g1")))
	require.NoError(t, store.RecordUpload(record("m2", "g1")))
	require.NoError(t, store.RecordUpload(record("m3", "g2")))

	g1, err := store.CountForGuild("g1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, g1)

	total, err := store.CountTotal()
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestStore_UpdatesAndDeletesNotCountedAsUploads(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.RecordUpload(record("m1", "g1")))
	require.NoError(t, store.RecordUpdate(record("m1", "g1")))
	require.NoError(t, store.RecordDelete("m1", "g1", "c1"))

	count, err := store.CountForGuild("g1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestStore_RecordBatch(t *testing.T) {
	store := openTestStore(t)

	batch := []models.Record{record("m1", "g1"), record("m2", "g1"), record("m3", "g1")}
	require.NoError(t, store.RecordBatch(batch))

	count, err := store.CountForGuild("g1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestStore_EmptyCounts(t *testing.T) {
	store := openTestStore(t)

	count, err := store.CountForGuild("missing")
	require.NoError(t, err)
	assert.Zero(t, count)
}
