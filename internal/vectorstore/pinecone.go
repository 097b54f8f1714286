package vectorstore

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

// Index is a minimal REST client to a Pinecone-style vector index data
// plane. The index is assumed to exist and use cosine similarity, so
// query scores fall in [0,1].
type Index struct {
	host   string
	apiKey string
	client *http.Client
}

// IndexConfig holds the vector index connection settings.
type IndexConfig struct {
	Host    string
	APIKey  string
	Timeout time.Duration
}

// NewIndex creates a data-plane client for one index.
func NewIndex(cfg IndexConfig) *Index {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Index{
		host:   strings.TrimSuffix(cfg.Host, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Record is one upserted vector with its attached metadata.
type Record struct {
	ID       string                 `json:"id"`
	Values   []float32              `json:"values"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// QueryMatch is one ranked result returned by the index.
type QueryMatch struct {
	ID       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Upsert writes records into the index, overwriting existing ids.
func (ix *Index) Upsert(ctx context.Context, records []Record) error {
	body := map[string]interface{}{"vectors": records}
	return ix.postJSON(ctx, "/vectors/upsert", body, nil)
}

// Query returns the topK nearest records, highest score first.
func (ix *Index) Query(ctx context.Context, vector []float32, topK int) ([]QueryMatch, error) {
	body := map[string]interface{}{
		"vector":          vector,
		"topK":            topK,
		"includeMetadata": true,
	}

	var resp struct {
		Matches []QueryMatch `json:"matches"`
	}
	if err := ix.postJSON(ctx, "/query", body, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// Delete removes records by id. Deleting unknown ids is not an error.
func (ix *Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]interface{}{"ids": ids}
	return ix.postJSON(ctx, "/vectors/delete", body, nil)
}

func (ix *Index) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ix.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", ix.apiKey)

	resp, err := ix.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("index request %s failed with status %d: %s", path, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
