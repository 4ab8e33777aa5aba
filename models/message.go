package models

// Record is a normalized Discord message in the shape the backend ingests:
// a data block with the display fields and a metadata block with the
// identifiers. Records are built once and never mutated.
type Record struct {
	Data     RecordData     `json:"data"`
	Metadata RecordMetadata `json:"metadata"`
}

// RecordData holds the human-readable portion of a record.
type RecordData struct {
	SenderNickname *string `json:"senderNickname"` // nil when the member has no nickname
	SenderUsername string  `json:"senderUsername"`
	ChannelName    string  `json:"channelName"`
	Content        string  `json:"content"`
}

// RecordMetadata holds the opaque Discord identifiers of a record.
type RecordMetadata struct {
	MessageID string `json:"messageId"`
	ChannelID string `json:"channelId"`
	ServerID  string `json:"serverId"`
	SenderID  string `json:"senderId"`
	DateTime  string `json:"dateTime"` // RFC 3339, UTC
}

// ExportSummary carries the counters of one export run. It lives only for
// the duration of the run and is not persisted.
type ExportSummary struct {
	TotalChannels     int
	ProcessedChannels int
	TotalMessages     int
	TotalBatches      int
	DeliveredBatches  int
}
