package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"discord-rag-bot/models"
)

// Client talks to the RAG backend over its JSON HTTP contract. Every call
// is a single stateless request with no internal retry; upload operations
// report success as a boolean because callers treat a failed upload as a
// recoverable condition, not a fault.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// postJSON sends body to path and reports any network or non-2xx failure.
func (c *Client) postJSON(path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request for %s: %w", path, err)
	}

	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("posting to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned HTTP %d for %s", resp.StatusCode, path)
	}
	return data, nil
}

// UploadMessage sends one record to the backend and reports acceptance.
func (c *Client) UploadMessage(rec models.Record) bool {
	if _, err := c.postJSON("/uploadMessage", rec); err != nil {
		log.Printf("Failed to upload message %s: %v", rec.Metadata.MessageID, err)
		return false
	}
	return true
}

// UploadMessages sends a batch of records as one unit and reports acceptance.
func (c *Client) UploadMessages(batch []models.Record) bool {
	if _, err := c.postJSON("/uploadMessages", batch); err != nil {
		log.Printf("Failed to upload batch of %d messages: %v", len(batch), err)
		return false
	}
	return true
}

// UpdateMessage replaces the stored record for an edited message. Both the
// pre-edit and post-edit records travel so the backend can swap them
// atomically.
func (c *Client) UpdateMessage(oldRec, newRec models.Record) bool {
	body := struct {
		Old models.Record `json:"old_message"`
		New models.Record `json:"new_message"`
	}{Old: oldRec, New: newRec}

	if _, err := c.postJSON("/updateMessage", body); err != nil {
		log.Printf("Failed to update message %s: %v", newRec.Metadata.MessageID, err)
		return false
	}
	return true
}

// DeleteMessage removes a message from the backend index by id.
func (c *Client) DeleteMessage(messageID string) bool {
	body := struct {
		ID string `json:"id"`
	}{ID: messageID}

	if _, err := c.postJSON("/deleteMessage", body); err != nil {
		log.Printf("Failed to delete message %s: %v", messageID, err)
		return false
	}
	return true
}

// QueryResult is the outcome of one query round trip. Success with a nil
// Data means the backend answered 2xx with an empty payload, which callers
// treat differently from a hard error.
type QueryResult struct {
	Success bool
	Data    *models.QueryResponse
	Err     string
}

// Query sends a natural-language query and returns the structured answer.
func (c *Client) Query(req models.QueryRequest) QueryResult {
	data, err := c.postJSON("/query", req)
	if err != nil {
		log.Printf("Error querying backend: %v", err)
		return QueryResult{Success: false, Err: err.Error()}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return QueryResult{Success: true}
	}

	var resp models.QueryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Printf("Error decoding query response: %v", err)
		return QueryResult{Success: false, Err: fmt.Sprintf("decoding query response: %v", err)}
	}
	return QueryResult{Success: true, Data: &resp}
}

// Stats fetches the backend's document counters, optionally scoped to one
// server.
func (c *Client) Stats(serverID string) (models.StatsResponse, error) {
	endpoint := c.baseURL + "/stats"
	if serverID != "" {
		endpoint += "?server_id=" + url.QueryEscape(serverID)
	}

	resp, err := c.http.Get(endpoint)
	if err != nil {
		return models.StatsResponse{}, fmt.Errorf("fetching stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.StatsResponse{}, fmt.Errorf("backend returned HTTP %d for /stats", resp.StatusCode)
	}

	var stats models.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return models.StatsResponse{}, fmt.Errorf("decoding stats response: %w", err)
	}
	return stats, nil
}

// Health probes the backend's root endpoint.
func (c *Client) Health() error {
	resp, err := c.http.Get(c.baseURL + "/")
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned HTTP %d for /", resp.StatusCode)
	}

	var health models.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return fmt.Errorf("decoding health response: %w", err)
	}
	if health.Status != "healthy" {
		return fmt.Errorf("backend reported status %q", health.Status)
	}
	return nil
}
