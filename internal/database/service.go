package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// Compile-time check: *Service must satisfy store.Store.
var _ store.Store = (*Service)(nil)

// Service is the local SQLite persistence backend, used for development and
// tests in place of the hosted Supabase gateway.
type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.StoreConfig) (*Service, error) {
	// Validate configuration
	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.DatabasePath))
	db, err := sql.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(cfg.SeedDevAccounts); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(seedDevAccounts bool) error {
	schema := `
	-- Connected wallets
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL UNIQUE,
		chain_id INTEGER NOT NULL DEFAULT 0,
		first_connected_at TIMESTAMP NOT NULL,
		last_connected_at TIMESTAMP NOT NULL,
		connection_count INTEGER NOT NULL DEFAULT 1,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_users_wallet_address ON users(wallet_address);
	CREATE INDEX IF NOT EXISTS idx_users_last_connected ON users(last_connected_at);

	-- Relays (never deleted; terminal rows are history)
	CREATE TABLE IF NOT EXISTS relays (
		id TEXT PRIMARY KEY,
		relay_number TEXT NOT NULL UNIQUE,
		topic_id TEXT NOT NULL DEFAULT '',
		sender_address TEXT NOT NULL,
		receiver_address TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		transaction_hash TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_relays_sender ON relays(sender_address);
	CREATE INDEX IF NOT EXISTS idx_relays_receiver ON relays(receiver_address);
	CREATE INDEX IF NOT EXISTS idx_relays_created_at ON relays(created_at);

	-- Stream groups and members
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		group_number TEXT NOT NULL UNIQUE,
		group_name TEXT NOT NULL,
		topic_id TEXT NOT NULL DEFAULT '',
		release_date TIMESTAMP,
		release_type TEXT NOT NULL,
		total_members INTEGER NOT NULL DEFAULT 0,
		total_amount TEXT NOT NULL DEFAULT '0',
		wallet_address TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'upcoming',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_groups_owner ON groups(wallet_address);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		group_id TEXT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		wallet_address TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_members_group ON members(group_id);

	-- Legacy plans and beneficiaries
	CREATE TABLE IF NOT EXISTS legacy_plans (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL UNIQUE,
		moment_type TEXT NOT NULL,
		moment_value TEXT NOT NULL,
		activated BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS beneficiaries (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		percentage TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_beneficiaries_owner ON beneficiaries(wallet_address);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed a couple of wallets for local development if configured to do so
	if seedDevAccounts {
		wallets := []string{
			"0x742d35cc6634c0532925a3b8d4c9db96590b5b8c",
			"0x8ba1f109551bd432803012645ac136ddd64dba72",
		}
		for _, w := range wallets {
			if _, err := s.UpsertWalletAccount(context.Background(), w, 296); err != nil {
				zap.L().Error("Failed to seed dev account", zap.String("wallet", w), zap.Error(err))
			} else {
				zap.L().Info("Dev account seeded", zap.String("wallet", w))
			}
		}
	}

	return nil
}

// newId returns a fresh row id.
func newId() string {
	return uuid.New().String()
}
