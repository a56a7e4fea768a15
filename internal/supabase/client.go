// Package supabase implements the persistence gateway over the Supabase
// PostgREST API. It is one of two store.Store backends; the other is the
// local SQLite service in internal/database.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// Client is a thin Supabase PostgREST client. Identity never lives on the
// client: every call scopes rows through explicit filter parameters.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg models.SupabaseConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase anon key is required")
	}

	httpClient, err := createCustomHttpClient()
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.AnonKey,
		httpClient: httpClient,
	}, nil
}

func createCustomHttpClient() (*http.Client, error) {
	tr := &http.Transport{
		ResponseHeaderTimeout: 30 * time.Second,
		Proxy:                 http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			KeepAlive: 30 * time.Second,
			Timeout:   15 * time.Second,
		}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConnsPerHost:   5,
		ExpectContinueTimeout: 5 * time.Second,
	}

	if err := http2.ConfigureTransport(tr); err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: tr,
		Timeout:   60 * time.Second,
	}, nil
}

// Request performs one PostgREST round trip against a table. The query is a
// raw PostgREST filter string ("wallet_address=eq.0xabc&order=created_at.desc").
// Writes ask for the row representation back so callers can return the
// server-assigned columns.
func (c *Client) Request(ctx context.Context, method, table string, body any, query string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("unable to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		zap.L().Error("Supabase request failed",
			zap.String("method", method), zap.String("table", table), zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, table, store.ErrUnavailable)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Warn("Failed to close response body", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, mapStatus(resp.StatusCode, method, table, data)
	}

	return data, nil
}

// mapStatus converts PostgREST failures into the shared sentinel errors so
// callers never have to inspect HTTP codes.
func mapStatus(status int, method, table string, body []byte) error {
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	zap.L().Error("Supabase request rejected",
		zap.String("method", method),
		zap.String("table", table),
		zap.Int("status", status),
		zap.String("detail", detail))

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, table, store.ErrPermissionDenied)
	case status == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, table, store.ErrNotFound)
	case status == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, table, store.ErrConflict)
	case status >= 500:
		return fmt.Errorf("%s %s (status %d): %w", method, table, status, store.ErrUnavailable)
	}
	return fmt.Errorf("%s %s rejected (status %d): %s", method, table, status, detail)
}
