package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "Ledger"
)

// Reader provides read access to the polls held by the VoteChain contract.
type Reader interface {
	// PollCount returns the number of polls. Poll ids are 0 through count-1.
	PollCount(ctx context.Context) (uint64, error)

	PollTitle(ctx context.Context, pollID uint64) (string, error)
	Candidates(ctx context.Context, pollID uint64) ([]string, error)

	// Results returns the vote count of each candidate, in candidate order.
	Results(ctx context.Context, pollID uint64) ([]uint64, error)

	HasVoted(ctx context.Context, pollID uint64, user common.Address) (bool, error)

	// CreatedAt returns the poll creation time in seconds since epoch.
	CreatedAt(ctx context.Context, pollID uint64) (int64, error)
}

// Writer submits state changing transactions to the VoteChain contract.
type Writer interface {
	CreatePoll(ctx context.Context, title string, candidates []string) (PendingTx, error)
	Vote(ctx context.Context, pollID, candidateIndex uint64) (PendingTx, error)
}

// Ledger is the full contract capability.
type Ledger interface {
	Reader
	Writer
}

// PendingTx is a submitted transaction.
type PendingTx interface {
	Hash() string

	// Wait blocks until the transaction is finalized. A transaction that was
	// mined but reverted returns a *RejectionError.
	Wait(ctx context.Context) error
}

// AdminReader reads the admin address of the companion CertiChain contract.
type AdminReader interface {
	Admin(ctx context.Context) (common.Address, error)
}
