package evm

import (
	"context"
	"math/big"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "EVM"
)

// Client is a connection to an EVM node on the expected chain.
type Client struct {
	*ethclient.Client
	chainID *big.Int
}

// Dial connects to the node and checks it is on the configured chain.
func Dial(ctx context.Context, config Config) (*Client, error) {
	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	c, err := ethclient.DialContext(ctx, config.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", maskURL(config.RPCURL))
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		c.Close()
		return nil, errors.Wrap(err, "chain id")
	}

	if config.ChainID != 0 && (!chainID.IsUint64() || chainID.Uint64() != config.ChainID) {
		c.Close()
		return nil, errors.Wrapf(ledger.ErrWrongNetwork, "connected to chain %s, want %d",
			chainID, config.ChainID)
	}

	logger.Info(ctx, "Connected to chain %s", chainID)
	return &Client{
		Client:  c,
		chainID: chainID,
	}, nil
}

// Chain returns the id of the connected chain.
func (c *Client) Chain() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// CheckDeployed returns ErrNotDeployed when there is no code at address.
func CheckDeployed(ctx context.Context, backend codeReader, address common.Address) error {
	code, err := backend.CodeAt(ctx, address, nil)
	if err != nil {
		return errors.Wrapf(err, "code at %s", address.Hex())
	}
	if len(code) == 0 {
		return errors.Wrapf(ledger.ErrNotDeployed, "no code at %s", address.Hex())
	}
	return nil
}

type codeReader interface {
	CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
}
