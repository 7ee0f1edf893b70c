package identity

import (
	"context"
	"sync"

	"github.com/tokenized/votechain/internal/ledger"
	"github.com/tokenized/votechain/pkg/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "Identity"
)

// State is the connection state of the wallet.
type State struct {
	Address     common.Address `json:"address"`
	IsConnected bool           `json:"is_connected"`
	IsAdmin     bool           `json:"is_admin"`
}

// Provider tracks which wallet account is connected and whether it is the
// admin of the companion contract.
type Provider struct {
	wallet *wallet.Wallet
	admin  ledger.AdminReader

	lock  sync.RWMutex
	state State
}

// NewProvider returns a disconnected provider. admin may be nil, in which case
// no account is ever an admin.
func NewProvider(w *wallet.Wallet, admin ledger.AdminReader) *Provider {
	return &Provider{
		wallet: w,
		admin:  admin,
	}
}

// Connect selects the account. The account's key must be in the wallet.
func (p *Provider) Connect(ctx context.Context, address common.Address) error {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	if _, err := p.wallet.Get(address); err != nil {
		return errors.Wrapf(ledger.ErrNoWallet, "account %s : %s", address.Hex(), err)
	}

	isAdmin := false
	if p.admin != nil {
		adminAddress, err := p.admin.Admin(ctx)
		if err != nil {
			// The companion contract may not be deployed.
			logger.Warn(ctx, "Could not check admin status : %s", err)
		} else {
			isAdmin = adminAddress == address
		}
	}

	p.lock.Lock()
	p.state = State{
		Address:     address,
		IsConnected: true,
		IsAdmin:     isAdmin,
	}
	p.lock.Unlock()

	logger.Info(ctx, "Wallet connected : %s (admin %t)", address.Hex(), isAdmin)
	return nil
}

// ConnectDefault connects the first account in the wallet.
func (p *Provider) ConnectDefault(ctx context.Context) error {
	return p.AccountsChanged(ctx, p.wallet.Addresses())
}

// Disconnect clears the connected account.
func (p *Provider) Disconnect() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.state = State{}
}

// AccountsChanged follows a change of available accounts. No accounts
// disconnects, otherwise the first account is connected.
func (p *Provider) AccountsChanged(ctx context.Context, addresses []common.Address) error {
	if len(addresses) == 0 {
		p.Disconnect()
		return ledger.ErrNoWallet
	}
	return p.Connect(ctx, addresses[0])
}

func (p *Provider) State() State {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.state
}

// Key returns the signing key of the connected account.
func (p *Provider) Key() (*wallet.Key, error) {
	state := p.State()
	if !state.IsConnected {
		return nil, ledger.ErrNoWallet
	}

	key, err := p.wallet.Get(state.Address)
	if err != nil {
		return nil, errors.Wrap(ledger.ErrNoWallet, err.Error())
	}
	return key, nil
}
