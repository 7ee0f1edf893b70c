package evm

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// CertiChain reads the admin of the companion CertiChain contract.
type CertiChain struct {
	contract *bind.BoundContract
}

// NewCertiChain binds to the CertiChain contract at address. Deployment is
// checked so a missing contract is reported once instead of on every lookup.
func NewCertiChain(ctx context.Context, caller bind.ContractCaller,
	address common.Address) (*CertiChain, error) {

	if err := CheckDeployed(ctx, caller, address); err != nil {
		return nil, err
	}

	parsed, err := abi.JSON(strings.NewReader(CertiChainABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	return &CertiChain{
		contract: bind.NewBoundContract(address, parsed, caller, nil, nil),
	}, nil
}

func (c *CertiChain) Admin(ctx context.Context) (common.Address, error) {
	var out []interface{}
	if err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "admin"); err != nil {
		return common.Address{}, errors.Wrap(classify(err), "admin")
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}
