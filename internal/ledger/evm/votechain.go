package evm

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

// Backend is the node access needed by the contract bindings. *Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// TransactOpter provides signing options for a write.
type TransactOpter interface {
	TransactOpts(ctx context.Context, action string) (*bind.TransactOpts, error)
}

// VoteChain is the ledger backed by a deployed VoteChain contract.
type VoteChain struct {
	address  common.Address
	contract *bind.BoundContract
	deploy   bind.DeployBackend
	signer   TransactOpter
}

// NewVoteChain checks the contract is deployed at address and binds to it.
func NewVoteChain(ctx context.Context, backend Backend, address common.Address,
	signer TransactOpter) (*VoteChain, error) {

	if err := CheckDeployed(ctx, backend, address); err != nil {
		return nil, err
	}

	return newVoteChain(address, backend, backend, backend, signer)
}

func newVoteChain(address common.Address, caller bind.ContractCaller,
	transactor bind.ContractTransactor, deploy bind.DeployBackend,
	signer TransactOpter) (*VoteChain, error) {

	parsed, err := abi.JSON(strings.NewReader(VoteChainABI))
	if err != nil {
		return nil, errors.Wrap(err, "parse abi")
	}

	return &VoteChain{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, caller, transactor, nil),
		deploy:   deploy,
		signer:   signer,
	}, nil
}

func (v *VoteChain) Address() common.Address {
	return v.address
}

func (v *VoteChain) call(ctx context.Context, method string, params ...interface{}) (interface{}, error) {
	ctx, span := trace.StartSpan(ctx, "internal.ledger.evm.Call")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("method", method))

	var out []interface{}
	if err := v.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...); err != nil {
		return nil, errors.Wrap(classify(err), method)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("%s : empty result", method)
	}
	return out[0], nil
}

func (v *VoteChain) PollCount(ctx context.Context) (uint64, error) {
	out, err := v.call(ctx, "pollCount")
	if err != nil {
		return 0, err
	}
	return toUint64(*abi.ConvertType(out, new(*big.Int)).(**big.Int))
}

func (v *VoteChain) PollTitle(ctx context.Context, pollID uint64) (string, error) {
	out, err := v.call(ctx, "getPollTitle", new(big.Int).SetUint64(pollID))
	if err != nil {
		return "", err
	}
	return *abi.ConvertType(out, new(string)).(*string), nil
}

func (v *VoteChain) Candidates(ctx context.Context, pollID uint64) ([]string, error) {
	out, err := v.call(ctx, "getCandidates", new(big.Int).SetUint64(pollID))
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out, new([]string)).(*[]string), nil
}

func (v *VoteChain) Results(ctx context.Context, pollID uint64) ([]uint64, error) {
	out, err := v.call(ctx, "getResults", new(big.Int).SetUint64(pollID))
	if err != nil {
		return nil, err
	}

	counts := *abi.ConvertType(out, new([]*big.Int)).(*[]*big.Int)
	result := make([]uint64, len(counts))
	for i, c := range counts {
		n, err := toUint64(c)
		if err != nil {
			return nil, errors.Wrapf(err, "candidate %d", i)
		}
		result[i] = n
	}
	return result, nil
}

func (v *VoteChain) HasVoted(ctx context.Context, pollID uint64, user common.Address) (bool, error) {
	out, err := v.call(ctx, "hasUserVoted", new(big.Int).SetUint64(pollID), user)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out, new(bool)).(*bool), nil
}

func (v *VoteChain) CreatedAt(ctx context.Context, pollID uint64) (int64, error) {
	out, err := v.call(ctx, "getPollCreatedAt", new(big.Int).SetUint64(pollID))
	if err != nil {
		return 0, err
	}

	created := *abi.ConvertType(out, new(*big.Int)).(**big.Int)
	if created == nil || !created.IsInt64() {
		return 0, errors.Errorf("creation time out of range : %v", created)
	}
	return created.Int64(), nil
}

func (v *VoteChain) CreatePoll(ctx context.Context, title string,
	candidates []string) (ledger.PendingTx, error) {

	return v.transact(ctx, fmt.Sprintf("Create poll %q", title), "createPoll", title, candidates)
}

func (v *VoteChain) Vote(ctx context.Context, pollID, candidateIndex uint64) (ledger.PendingTx, error) {
	return v.transact(ctx, fmt.Sprintf("Vote for candidate %d in poll %d", candidateIndex, pollID),
		"vote", new(big.Int).SetUint64(pollID), new(big.Int).SetUint64(candidateIndex))
}

func (v *VoteChain) transact(ctx context.Context, action, method string,
	params ...interface{}) (ledger.PendingTx, error) {

	ctx, span := trace.StartSpan(ctx, "internal.ledger.evm.Transact")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("method", method))

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	opts, err := v.signer.TransactOpts(ctx, action)
	if err != nil {
		return nil, err
	}

	tx, err := v.contract.Transact(opts, method, params...)
	if err != nil {
		return nil, errors.Wrap(classify(err), method)
	}

	logger.Info(ctx, "Sent %s transaction : %s", method, tx.Hash().Hex())
	return &pendingTx{tx: tx, backend: v.deploy}, nil
}

type pendingTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func (p *pendingTx) Hash() string {
	return p.tx.Hash().Hex()
}

// Wait polls for the receipt until the transaction is mined or ctx is done.
func (p *pendingTx) Wait(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "internal.ledger.evm.Wait")
	defer span.End()

	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return errors.Wrap(classify(err), "wait mined")
	}

	if receipt.Status == types.ReceiptStatusFailed {
		return ledger.NewRejection("transaction reverted")
	}

	logger.Verbose(ctx, "Transaction %s mined in block %s", p.Hash(), receipt.BlockNumber)
	return nil
}

func toUint64(n *big.Int) (uint64, error) {
	if n == nil || !n.IsUint64() {
		return 0, errors.Errorf("value out of range : %v", n)
	}
	return n.Uint64(), nil
}
