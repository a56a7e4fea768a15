package service

import (
	"context"

	"github.com/youvandra/aegis-protocol/internal/common"
	"github.com/youvandra/aegis-protocol/internal/guard"
	"github.com/youvandra/aegis-protocol/internal/models"
	"github.com/youvandra/aegis-protocol/internal/store"
)

// AccountService tracks wallet connections and disconnections.
type AccountService struct {
	store    store.Store
	networks *common.NetworkRegistry
}

func NewAccountService(st store.Store, networks *common.NetworkRegistry) *AccountService {
	return &AccountService{store: st, networks: networks}
}

// AccountView decorates a wallet account with the registered network name
// for its chain id, when known.
type AccountView struct {
	models.WalletAccount
	NetworkName string `json:"network_name,omitempty"`
}

func (s *AccountService) view(account models.WalletAccount) AccountView {
	view := AccountView{WalletAccount: account}
	if s.networks != nil {
		if network, ok := s.networks.Lookup(account.ChainId); ok {
			view.NetworkName = network.Name
		}
	}
	return view
}

// Connect records a wallet connection. First connection inserts the account;
// subsequent connections bump the counter and the last-connected timestamp.
func (s *AccountService) Connect(ctx context.Context, walletAddress string, chainId int64) (*AccountView, error) {
	if err := guard.RequiredAddress("wallet_address", walletAddress); err != nil {
		return nil, err
	}

	account, err := s.store.UpsertWalletAccount(ctx, guard.NormalizeAddress(walletAddress), chainId)
	if err != nil {
		return nil, err
	}
	view := s.view(*account)
	return &view, nil
}

// Disconnect marks the wallet inactive. The row and its connection history
// are kept.
func (s *AccountService) Disconnect(ctx context.Context, walletAddress string) error {
	if err := guard.RequiredAddress("wallet_address", walletAddress); err != nil {
		return err
	}
	return s.store.SetAccountInactive(ctx, guard.NormalizeAddress(walletAddress))
}

// Get returns one account by address.
func (s *AccountService) Get(ctx context.Context, walletAddress string) (*AccountView, error) {
	account, err := s.store.GetWalletAccount(ctx, guard.NormalizeAddress(walletAddress))
	if err != nil {
		return nil, err
	}
	view := s.view(*account)
	return &view, nil
}

// List returns all tracked accounts.
func (s *AccountService) List(ctx context.Context) ([]AccountView, error) {
	accounts, err := s.store.ListWalletAccounts(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, s.view(account))
	}
	return views, nil
}
