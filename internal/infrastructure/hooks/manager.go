// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package hooks manages the webhook subscription with the conferencing
// server.
package hooks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-feedback-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-feedback-service/pkg/checksum"
)

const (
	// DefaultClientTimeout is the default HTTP client timeout for hook API
	// requests.
	DefaultClientTimeout = 30 * time.Second

	// Defaults for the hook API paths.
	DefaultCreatePath  = "hooks/create"
	DefaultDestroyPath = "hooks/destroy"
)

// hookIDRe extracts the hook identifier from the conferencing server's
// XML-ish response fragment.
var hookIDRe = regexp.MustCompile(`<hookID>([^<]+)</hookID>`)

// Config holds the configuration for the hook manager.
type Config struct {
	// BaseURL is the conferencing server's base URL.
	BaseURL string
	// APIPath is the API mount path, e.g. /bigbluebutton/api/.
	APIPath string
	// Secret signs the hook API calls.
	Secret string
	// CallbackURL is the webhook callback this service exposes.
	CallbackURL string
	// CreatePath and DestroyPath are the hook API method paths.
	CreatePath  string
	DestroyPath string
	// Optional: override timeout for HTTP requests.
	Timeout time.Duration
}

// Manager registers and deregisters the webhook subscription via signed GET
// calls to the conferencing server. The hook id returned at registration is
// kept for deregistration at shutdown.
type Manager struct {
	httpClient *http.Client
	config     Config
	metrics    *metrics.Metrics

	hookID string
}

// Ensure that Manager implements HookRegistrar.
var _ domain.HookRegistrar = (*Manager)(nil)

// NewManager creates a new hook Manager.
func NewManager(config Config, m *metrics.Metrics) *Manager {
	if config.APIPath == "" {
		config.APIPath = checksum.DefaultAPIPath
	}
	if config.CreatePath == "" {
		config.CreatePath = DefaultCreatePath
	}
	if config.DestroyPath == "" {
		config.DestroyPath = DefaultDestroyPath
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}

	return &Manager{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		metrics:    m,
	}
}

// Register creates the webhook subscription and stores the returned hook id.
// The service cannot work without the subscription, so callers treat a
// registration failure as fatal.
func (m *Manager) Register(ctx context.Context) (string, error) {
	query := "callbackURL=" + url.QueryEscape(m.config.CallbackURL)

	body, err := m.call(ctx, m.config.CreatePath, query)
	if err != nil {
		return "", err
	}

	match := hookIDRe.FindSubmatch(body)
	if match == nil {
		m.metrics.APICallError(ctx, m.config.CreatePath)
		return "", domain.NewInternalError(
			fmt.Sprintf("hook create response carries no hook id: %q", body))
	}

	m.hookID = string(match[1])
	slog.InfoContext(ctx, "registered webhook subscription", "hook_id", m.hookID)
	return m.hookID, nil
}

// Deregister destroys the subscription created by Register. Best-effort: the
// returned error must not block shutdown.
func (m *Manager) Deregister(ctx context.Context) error {
	if m.hookID == "" {
		return nil
	}

	query := "hookID=" + url.QueryEscape(m.hookID)
	if _, err := m.call(ctx, m.config.DestroyPath, query); err != nil {
		slog.ErrorContext(ctx, "failed to deregister webhook subscription",
			logging.ErrKey, err, "hook_id", m.hookID)
		return err
	}

	slog.InfoContext(ctx, "deregistered webhook subscription", "hook_id", m.hookID)
	m.hookID = ""
	return nil
}

// call issues one signed GET to a hook API method and returns the response
// body.
func (m *Manager) call(ctx context.Context, method, query string) ([]byte, error) {
	m.metrics.APICall(ctx, method)

	fullURL := m.config.BaseURL + m.config.APIPath + method + "?" + query

	sum, err := checksum.Compute(fullURL, m.config.APIPath, m.config.Secret, checksum.SHA1)
	if err != nil {
		m.metrics.APICallError(ctx, method)
		return nil, domain.NewInternalError("failed to sign hook API call", err)
	}
	fullURL += "&checksum=" + sum

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		m.metrics.APICallError(ctx, method)
		return nil, domain.NewInternalError("failed to build hook API request", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		m.metrics.APICallError(ctx, method)
		return nil, domain.NewUnavailableError("hook API call failed", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.WarnContext(ctx, "failed to close hook API response body", logging.ErrKey, err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		m.metrics.APICallError(ctx, method)
		return nil, domain.NewInternalError("failed to read hook API response", err)
	}

	if resp.StatusCode != http.StatusOK {
		m.metrics.APICallError(ctx, method)
		return nil, domain.NewUnavailableError(
			fmt.Sprintf("hook API call returned status %d", resp.StatusCode))
	}

	return body, nil
}
