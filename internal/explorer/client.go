package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

const (
	DefaultBaseURL = "https://api.helium.io"

	blockHeightPath = "/v1/blocks/height"
	hotspotPath     = "/v1/hotspots/"
)

var ErrMissingField = errors.New("explorer response is missing the height field")

type Settings struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
}

type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(settings Settings) *Client {
	if settings.BaseURL == "" {
		settings.BaseURL = DefaultBaseURL
	}
	if settings.Timeout == 0 {
		settings.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if settings.RequestsPerSecond > 0 {
		limit = rate.Limit(settings.RequestsPerSecond)
	}
	return &Client{
		baseURL: strings.TrimRight(settings.BaseURL, "/"),
		client:  &http.Client{Timeout: settings.Timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

type heightResponse struct {
	Data struct {
		Height *int64 `json:"height"`
	} `json:"data"`
}

type hotspotResponse struct {
	Data struct {
		Block *int64 `json:"block"`
	} `json:"data"`
}

// NetworkHeight returns the canonical chain height.
func (c *Client) NetworkHeight(ctx context.Context) (int64, error) {
	resp := heightResponse{}
	err := c.get(ctx, blockHeightPath, &resp)
	if err != nil {
		return 0, fmt.Errorf("failed to get blockchain height: %w", err)
	}
	if resp.Data.Height == nil {
		return 0, fmt.Errorf("failed to get blockchain height: %w", ErrMissingField)
	}
	return *resp.Data.Height, nil
}

// DeviceHeight returns the last block the explorer saw from the hotspot.
func (c *Client) DeviceHeight(ctx context.Context, address string) (int64, error) {
	if address == "" {
		return 0, fmt.Errorf("hotspot address must not be empty")
	}
	resp := hotspotResponse{}
	err := c.get(ctx, hotspotPath+url.PathEscape(address), &resp)
	if err != nil {
		return 0, fmt.Errorf("failed to get hotspot %s height: %w", address, err)
	}
	if resp.Data.Block == nil {
		return 0, fmt.Errorf("failed to get hotspot %s height: %w", address, ErrMissingField)
	}
	return *resp.Data.Block, nil
}

func (c *Client) get(ctx context.Context, path string, dst any) error {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("explorer limiter: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to form request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request do error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return &models.RemoteError{
			Status: resp.StatusCode,
			Reason: http.StatusText(resp.StatusCode),
		}
	}
	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
