package models

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Supabase SupabaseConfig
	Ledger   LedgerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Persistence backend selectors.
const (
	StoreBackendSupabase = "supabase"
	StoreBackendSqlite   = "sqlite"
)

// StoreConfig selects and tunes the persistence backend
type StoreConfig struct {
	Backend         string // "supabase" or "sqlite"
	DatabasePath    string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedDevAccounts bool
	NetworksFile    string
}

// SupabaseConfig holds the hosted persistence gateway credentials
type SupabaseConfig struct {
	URL     string
	AnonKey string
}

// LedgerConfig holds Hedera operator credentials for topic submission.
// The ledger layer is disabled when OperatorId is empty.
type LedgerConfig struct {
	OperatorId  string
	OperatorKey string
	Network     string
}

// Enabled reports whether topic submission is configured.
func (c LedgerConfig) Enabled() bool {
	return c.OperatorId != "" && c.OperatorKey != ""
}
