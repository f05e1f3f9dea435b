package hotspot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sh00ty/hotspot-cpr/internal/models"
)

type Settings struct {
	// Scheme of the device local endpoint, http when empty.
	Scheme  string
	Timeout time.Duration
}

type Client struct {
	scheme string
	client *http.Client
	log    zerolog.Logger
}

func NewClient(settings Settings, logger zerolog.Logger) *Client {
	if settings.Scheme == "" {
		settings.Scheme = "http"
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	return &Client{
		scheme: settings.Scheme,
		client: &http.Client{
			Timeout: settings.Timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		log: logger.With().Str("component", "hotspot-client").Logger(),
	}
}

var commandLogs = map[models.Command]string{
	models.CommandReboot:      "rebooting %s now",
	models.CommandResetBlocks: "resetting blocks on %s now",
	models.CommandTurboSync:   "turbosyncing %s now",
}

func (c *Client) Reboot(ctx context.Context, device models.Device) (bool, error) {
	return c.Do(ctx, device, models.CommandReboot)
}

func (c *Client) ResetBlocks(ctx context.Context, device models.Device) (bool, error) {
	return c.Do(ctx, device, models.CommandResetBlocks)
}

func (c *Client) TurboSync(ctx context.Context, device models.Device) (bool, error) {
	return c.Do(ctx, device, models.CommandTurboSync)
}

// Do sends command to the device control endpoint, any 2xx answer is a success.
func (c *Client) Do(ctx context.Context, device models.Device, command models.Command) (bool, error) {
	if command == models.CommandNone {
		return false, fmt.Errorf("no command given for %s", device.Name)
	}
	if msg, ok := commandLogs[command]; ok {
		c.log.Info().Msgf(msg, device.Name)
	}
	target := url.URL{
		Scheme: c.scheme,
		Host:   device.IP,
		Path:   "/" + string(command),
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to form %s request for %s: %w", command, device.Name, err)
	}
	req.Header.Set("Authorization", "Basic "+device.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%s %s: request do error: %w", command, device.Name, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode/100 == 2 {
		return true, nil
	}
	c.log.Debug().Msgf("[%s]: invalid status code = %d", device.Name, resp.StatusCode)
	return false, &models.RemoteError{
		Status: resp.StatusCode,
		Reason: http.StatusText(resp.StatusCode),
	}
}
