// Package sharedstore talks to the optional shared club store: a trivial
// key-based endpoint accepting {type, data} writes and returning
// {success, data, lastUpdated} on read. Every failure here is survivable;
// callers fall back to the local database.
package sharedstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wh40k-club-tracker/internal/config"
	"wh40k-club-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

// DataType selects which slice of club data a write replaces.
type DataType string

const (
	TypePlayers DataType = "players"
	TypeGames   DataType = "games"
	TypeSeasons DataType = "seasons"
	TypeFull    DataType = "full"
)

type Client struct {
	baseURL string
	client  *fasthttp.Client
}

type apiResponse struct {
	Success     bool            `json:"success"`
	Data        json.RawMessage `json:"data,omitempty"`
	Message     string          `json:"message,omitempty"`
	Error       string          `json:"error,omitempty"`
	LastUpdated string          `json:"lastUpdated,omitempty"`
}

type writeRequest struct {
	Type DataType `json:"type"`
	Data any      `json:"data"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.SharedStoreURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Enabled reports whether a shared store is configured at all.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Load fetches the full club snapshot from the shared store.
func (c *Client) Load(ctx context.Context) (*domain.ClubSnapshot, error) {
	body, err := c.do(ctx, fasthttp.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	var snapshot domain.ClubSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode shared store snapshot: %w", err)
	}
	return &snapshot, nil
}

// Save replaces one slice of the shared store (or everything with TypeFull).
// Last write wins; the store does no reconciliation.
func (c *Client) Save(ctx context.Context, dataType DataType, data any) error {
	payload, err := json.Marshal(writeRequest{Type: dataType, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode shared store payload: %w", err)
	}
	if _, err := c.do(ctx, fasthttp.MethodPost, payload); err != nil {
		return err
	}
	return nil
}

// Ping reports whether the shared store answers at all.
func (c *Client) Ping(ctx context.Context) bool {
	_, err := c.do(ctx, fasthttp.MethodGet, nil)
	return err == nil
}

func (c *Client) do(ctx context.Context, method string, body []byte) (json.RawMessage, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, fmt.Errorf("shared store unreachable: %w", err)
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, fmt.Errorf("shared store unreachable: %w", err)
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("shared store error: %d", resp.StatusCode())
	}

	var parsed apiResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode shared store response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("shared store rejected request: %s", parsed.Error)
	}
	return parsed.Data, nil
}
