package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStore talks to a mem0-compatible REST service.
type HTTPStore struct {
	baseURL    string
	collection string
	httpClient *http.Client
}

func NewHTTPStore(baseURL, collection string) *HTTPStore {
	return &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type searchRequest struct {
	Query      string `json:"query"`
	UserID     string `json:"user_id"`
	Limit      int    `json:"limit,omitempty"`
	Collection string `json:"collection,omitempty"`
}

type searchResponse struct {
	Results []Fact `json:"results"`
}

func (s *HTTPStore) Search(ctx context.Context, query, scopeID string, limit int) ([]Fact, error) {
	req := searchRequest{Query: query, UserID: scopeID, Limit: limit, Collection: s.collection}
	var resp searchResponse
	if err := s.post(ctx, "/v1/memories/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

type addRequest struct {
	Messages   []TurnMessage `json:"messages"`
	UserID     string        `json:"user_id"`
	Collection string        `json:"collection,omitempty"`
}

func (s *HTTPStore) Add(ctx context.Context, messages []TurnMessage, scopeID string) error {
	req := addRequest{Messages: messages, UserID: scopeID, Collection: s.collection}
	return s.post(ctx, "/v1/memories", req, nil)
}

func (s *HTTPStore) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode memory request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("memory service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("memory service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode memory response: %w", err)
		}
	}
	return nil
}
