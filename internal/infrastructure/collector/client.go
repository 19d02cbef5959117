// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package collector implements the downstream feedback collector client.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
)

// DefaultClientTimeout is the default HTTP client timeout for collector
// requests.
const DefaultClientTimeout = 30 * time.Second

// Config holds the configuration for the collector client.
type Config struct {
	// URL is the collector endpoint feedback records are posted to.
	URL string
	// Optional: override timeout for HTTP requests.
	Timeout time.Duration
}

// Client posts persisted feedback records to the configured downstream
// collector. Delivery is best-effort and at-least-once: the caller decides
// what to do with a failure, this client only reports it.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Ensure that Client implements FeedbackForwarder.
var _ domain.FeedbackForwarder = (*Client)(nil)

// NewClient creates a new collector client.
func NewClient(config Config) *Client {
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// Forward posts the record as JSON to the collector endpoint.
func (c *Client) Forward(ctx context.Context, record *models.FeedbackRecord) error {
	if c.config.URL == "" {
		slog.DebugContext(ctx, "no collector endpoint configured, dropping feedback record")
		return nil
	}

	body, err := json.Marshal(record)
	if err != nil {
		return domain.NewInternalError("failed to marshal feedback record", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return domain.NewInternalError("failed to build collector request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewUnavailableError("collector call failed", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close collector response body", logging.ErrKey, err)
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.NewUnavailableError(
			fmt.Sprintf("collector returned status %d: %s", resp.StatusCode, payload))
	}

	return nil
}
