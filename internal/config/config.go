package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/youvandra/aegis-protocol/internal/models"
)

func Load() (*models.Config, error) {
	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &models.Config{
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ReadTimeout:     readTimeout,
			WriteTimeout:    writeTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Store: models.StoreConfig{
			Backend:         getEnvString("AEGIS_STORE_BACKEND", models.StoreBackendSqlite),
			DatabasePath:    getEnvString("DATABASE_PATH", "aegis.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedDevAccounts: getEnvBool("SEED_DEV_ACCOUNTS", false),
			NetworksFile:    getEnvString("NETWORKS_FILE", "networks.yaml"),
		},
		Supabase: models.SupabaseConfig{
			URL:     getEnvString("SUPABASE_URL", ""),
			AnonKey: getEnvString("SUPABASE_ANON_KEY", ""),
		},
		Ledger: models.LedgerConfig{
			OperatorId:  getEnvString("HEDERA_OPERATOR_ID", ""),
			OperatorKey: getEnvString("HEDERA_OPERATOR_KEY", ""),
			Network:     getEnvString("HEDERA_NETWORK", "testnet"),
		},
	}

	if cfg.Store.Backend == models.StoreBackendSupabase {
		if cfg.Supabase.URL == "" || cfg.Supabase.AnonKey == "" {
			return nil, fmt.Errorf("supabase backend requires SUPABASE_URL and SUPABASE_ANON_KEY")
		}
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
