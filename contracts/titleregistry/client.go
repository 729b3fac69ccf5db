package titleregistry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client is the HTTP implementation of Registry, speaking the title
// registry's REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the registry at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CurrentHolder(ctx context.Context, propertyID string) (Holder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/titles/"+propertyID+"/holder", nil)
	if err != nil {
		return "", fmt.Errorf("titleregistry: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("titleregistry: holder lookup: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrUnknownTitle
	default:
		return "", fmt.Errorf("titleregistry: holder lookup: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Holder string `json:"holder"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("titleregistry: decode holder: %w", err)
	}
	return Holder(body.Holder), nil
}

func (c *Client) TransferCustody(ctx context.Context, propertyID string, from, to Holder) error {
	payload, err := json.Marshal(map[string]string{
		"from": string(from),
		"to":   string(to),
	})
	if err != nil {
		return fmt.Errorf("titleregistry: encode transfer: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/titles/"+propertyID+"/transfer", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("titleregistry: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("titleregistry: transfer: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrUnknownTitle
	case http.StatusConflict:
		return ErrNotHolder
	default:
		return fmt.Errorf("titleregistry: transfer: unexpected status %d", resp.StatusCode)
	}
}
