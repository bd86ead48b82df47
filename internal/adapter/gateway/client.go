// Package gateway is the SMS/WhatsApp delivery client. Without an API key it
// runs in log-only stub mode, accepting every message, so local environments
// never need provider credentials.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aegisflood/alert-service/internal/domain"
	"github.com/aegisflood/alert-service/internal/observability"
)

// Client implements dispatch.Gateway against the provider's HTTP API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a gateway client. An empty apiKey enables stub mode.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if apiKey == "" {
		metrics.GatewayStubMode.Set(1)
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// Send delivers one message to one recipient via one channel. The error
// result is the entire failure surface: callers treat any non-nil error,
// timeouts included, as a failed channel attempt.
func (c *Client) Send(ctx context.Context, channel domain.Channel, to, body string) error {
	phone, ok := domain.SanitizePhone(to)
	if !ok {
		return fmt.Errorf("unroutable phone number %q", to)
	}

	if c.apiKey == "" {
		c.logger.Info("gateway stub: message accepted without delivery",
			"channel", channel,
			"to", maskPhone(phone),
		)
		return nil
	}

	start := time.Now()
	err := c.doRequest(ctx, channel, phone, body)
	c.metrics.GatewayRequestDuration.WithLabelValues(string(channel)).Observe(time.Since(start).Seconds())
	return err
}

func (c *Client) doRequest(ctx context.Context, channel domain.Channel, phone, body string) error {
	payload, err := json.Marshal(sendRequest{
		Channel: string(channel),
		To:      phone,
		Message: body,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s send request: %w", channel, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway error: status %d: %s", resp.StatusCode, respBody)
	}

	var sr sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !sr.Accepted {
		return fmt.Errorf("gateway rejected message: %s", sr.Reason)
	}
	return nil
}

// maskPhone keeps only the last four digits for logs.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "****" + phone[len(phone)-4:]
}

// Provider API types.

type sendRequest struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type sendResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}
