package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query        string `json:"query"`
	ServerID     string `json:"serverId"`
	TopK         int    `json:"similarity_top_k,omitempty"`
	ResponseType string `json:"response_type,omitempty"` // "llm" or "retrieval"
}

// QueryResponse is the backend's answer to a query.
type QueryResponse struct {
	Response     string   `json:"response,omitempty"`
	Sources      []Source `json:"sources,omitempty"`
	Query        string   `json:"query"`
	Status       string   `json:"status"`
	ResponseType string   `json:"response_type"`
}

// Source is one retrieved citation as the backend reports it: a bag of
// optional fields whose populated subset depends on where the excerpt came
// from. Classification into display kinds happens in the sources package.
type Source struct {
	// Chat provenance.
	Channel   string `json:"channel,omitempty"`
	Sender    string `json:"sender,omitempty"`
	SenderID  string `json:"senderId,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
	MessageID string `json:"messageId,omitempty"`
	ServerID  string `json:"serverId,omitempty"`

	// Document provenance.
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	URL    string `json:"url,omitempty"`
	PageID string `json:"pageId,omitempty"`

	// Common to every kind.
	Content string `json:"content"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Status                   string `json:"status"`
	DiscordMessagesTotal     *int64 `json:"discord_messages_total,omitempty"`
	DiscordMessagesForServer *int64 `json:"discord_messages_for_server,omitempty"`
	NotionDocumentsTotal     *int64 `json:"notion_documents_total,omitempty"`
	ServerID                 string `json:"server_id,omitempty"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
