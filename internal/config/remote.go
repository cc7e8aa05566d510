package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultRemoteTimeout bounds a remote config fetch.
const DefaultRemoteTimeout = 3 * time.Second

// maxRemoteBody caps the remote document size.
const maxRemoteBody = 1 << 20

// RemoteDocument is the payload served by the remote config endpoint.
// Balance is a partial balance document in the same shape as balance.yaml.
type RemoteDocument struct {
	AdminPasswordHash string         `json:"admin_password_hash"`
	Balance           map[string]any `json:"balance"`
}

// FetchRemote downloads and decodes the remote config document.
func FetchRemote(ctx context.Context, client *http.Client, url string) (*RemoteDocument, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("config: build remote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("config: fetch remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("config: fetch remote config: unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteBody))
	if err != nil {
		return nil, fmt.Errorf("config: read remote config: %w", err)
	}

	var doc RemoteDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("config: decode remote config: %w", err)
	}
	return &doc, nil
}
