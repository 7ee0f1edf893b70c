package evm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/tokenized/votechain/internal/ledger"
	"github.com/tokenized/votechain/pkg/wallet"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"golang.org/x/term"
)

// Confirmer asks the account holder to approve a transaction before it is signed.
type Confirmer interface {
	Confirm(ctx context.Context, action string, tx *types.Transaction) (bool, error)
}

// AutoConfirm approves every transaction.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(ctx context.Context, action string, tx *types.Transaction) (bool, error) {
	return true, nil
}

// PromptConfirmer asks on Out and reads the answer from In.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func (p *PromptConfirmer) Confirm(ctx context.Context, action string,
	tx *types.Transaction) (bool, error) {

	fmt.Fprintf(p.Out, "%s\n  to    %s\n  nonce %d\n  gas   %d\nSign transaction? [y/N]: ",
		action, tx.To().Hex(), tx.Nonce(), tx.Gas())

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, errors.Wrap(err, "read answer")
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

type declineAll struct{}

func (declineAll) Confirm(ctx context.Context, action string, tx *types.Transaction) (bool, error) {
	logger.Warn(ctx, "No terminal to confirm transaction : %s", action)
	return false, nil
}

// TerminalConfirmer prompts on the controlling terminal. Without a terminal
// every transaction is declined.
func TerminalConfirmer() Confirmer {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return declineAll{}
	}
	return &PromptConfirmer{In: os.Stdin, Out: os.Stderr}
}

// KeySource provides the key of the connected account.
type KeySource interface {
	Key() (*wallet.Key, error)
}

// Signer builds transact options for the connected account.
type Signer struct {
	keys      KeySource
	chainID   *big.Int
	confirmer Confirmer
}

func NewSigner(keys KeySource, chainID *big.Int, confirmer Confirmer) *Signer {
	return &Signer{
		keys:      keys,
		chainID:   chainID,
		confirmer: confirmer,
	}
}

// TransactOpts returns options that sign with the connected key after the
// confirmer approves. A declined transaction fails with ErrUserRejected.
func (s *Signer) TransactOpts(ctx context.Context, action string) (*bind.TransactOpts, error) {
	key, err := s.keys.Key()
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key.PrivateKey, s.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "transactor")
	}

	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		ok, err := s.confirmer.Confirm(ctx, action, tx)
		if err != nil {
			return nil, errors.Wrap(err, "confirm")
		}
		if !ok {
			return nil, ledger.ErrUserRejected
		}
		return sign(from, tx)
	}
	opts.Context = ctx

	return opts, nil
}
