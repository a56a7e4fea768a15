package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

// Service implements the persistence gateway over Supabase PostgREST.
type Service struct {
	client *Client
}

func NewService(cfg models.SupabaseConfig) (*Service, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{client: client}, nil
}

// Close is a no-op; the underlying http client keeps no open state worth
// tearing down.
func (s *Service) Close() {}

// rows decodes a PostgREST row-array response into a slice of T.
func rows[T any](data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unable to unmarshal rows: %w", err)
	}
	return out, nil
}

// one decodes a PostgREST row-array response expecting at least one row.
func one[T any](data []byte, table string) (*T, error) {
	out, err := rows[T](data)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", table, store.ErrNotFound)
	}
	return &out[0], nil
}

// eq builds a single equality filter with the value escaped.
func eq(column, value string) string {
	return column + "=eq." + url.QueryEscape(value)
}

// HealthCheck is a minimal read used by the API health endpoint.
func (s *Service) HealthCheck(ctx context.Context) error {
	_, err := s.client.Request(ctx, "GET", "users", nil, "select=id&limit=1")
	return err
}
