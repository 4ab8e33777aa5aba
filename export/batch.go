package export

import "discord-rag-bot/models"

// Chunk splits records into delivery batches of exactly size records each,
// except the final batch which holds the remainder. Order is preserved and
// no record is dropped, duplicated, or split across batches.
func Chunk(records []models.Record, size int) [][]models.Record {
	if size <= 0 || len(records) == 0 {
		return nil
	}
	batches := make([][]models.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		batches = append(batches, records[start:end:end])
	}
	return batches
}
