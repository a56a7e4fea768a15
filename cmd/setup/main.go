package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/config"
	"github.com/youvandra/aegis-protocol/internal/service"
)

// setup initializes the persistence backend: for SQLite it creates the
// schema file and optionally seeds development wallet accounts, for
// Supabase it verifies connectivity. Run once before the first server start.
func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	listFlag := flag.Bool("list", false, "List wallet accounts after setup")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	st, err := service.InitializeStore(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()

	zap.L().Info("Store initialized", zap.String("backend", cfg.Store.Backend))

	if *listFlag {
		accounts, err := st.ListWalletAccounts(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list wallet accounts", zap.Error(err))
		}
		for _, account := range accounts {
			zap.L().Info("Wallet account",
				zap.String("id", account.Id),
				zap.String("wallet_address", account.WalletAddress),
				zap.Int64("chain_id", account.ChainId),
				zap.Bool("is_active", account.IsActive))
		}
		zap.L().Info("Wallet accounts listed", zap.Int("count", len(accounts)))
	}
}
