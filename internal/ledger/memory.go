package ledger

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Rejection reasons reported by the memory ledger. They match the revert
// strings of the deployed contract.
const (
	ReasonInvalidPoll      = "Invalid poll"
	ReasonInvalidCandidate = "Invalid candidate"
	ReasonAlreadyVoted     = "Already voted"
	ReasonTooFewCandidates = "At least 2 candidates required"
)

// Memory is an in-process ledger with the observable rules of the VoteChain
// contract. It is used for dry runs and as the ledger in tests.
type Memory struct {
	lock sync.Mutex

	polls     []*memoryPoll
	admin     common.Address
	sender    common.Address
	now       func() time.Time
	failReads map[uint64]error
	decline   bool
	txCount   int64
}

type memoryPoll struct {
	title      string
	candidates []string
	votes      []uint64
	voters     map[common.Address]bool
	createdAt  int64
}

// NewMemory returns an empty memory ledger with the specified admin.
func NewMemory(admin common.Address) *Memory {
	return &Memory{
		admin:     admin,
		now:       time.Now,
		failReads: make(map[uint64]error),
	}
}

// SetClock replaces the clock used for poll creation times.
func (m *Memory) SetClock(now func() time.Time) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.now = now
}

// SetSender sets the account transactions are sent from.
func (m *Memory) SetSender(sender common.Address) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.sender = sender
}

// FailReads makes every read of the poll return err. A nil err clears it.
func (m *Memory) FailReads(pollID uint64, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if err == nil {
		delete(m.failReads, pollID)
		return
	}
	m.failReads[pollID] = err
}

// DeclineNext makes the next submitted transaction fail as declined by the
// account holder.
func (m *Memory) DeclineNext() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.decline = true
}

// AddPoll creates a poll directly with preset vote counts. It returns the poll id.
func (m *Memory) AddPoll(title string, candidates []string, votes []uint64) uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()

	p := &memoryPoll{
		title:      title,
		candidates: append([]string(nil), candidates...),
		votes:      make([]uint64, len(candidates)),
		voters:     make(map[common.Address]bool),
		createdAt:  m.now().Unix(),
	}
	copy(p.votes, votes)
	m.polls = append(m.polls, p)
	return uint64(len(m.polls) - 1)
}

func (m *Memory) PollCount(ctx context.Context) (uint64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return uint64(len(m.polls)), nil
}

func (m *Memory) PollTitle(ctx context.Context, pollID uint64) (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, err := m.read(pollID)
	if err != nil {
		return "", err
	}
	return p.title, nil
}

func (m *Memory) Candidates(ctx context.Context, pollID uint64) ([]string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, err := m.read(pollID)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), p.candidates...), nil
}

func (m *Memory) Results(ctx context.Context, pollID uint64) ([]uint64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, err := m.read(pollID)
	if err != nil {
		return nil, err
	}
	return append([]uint64(nil), p.votes...), nil
}

func (m *Memory) HasVoted(ctx context.Context, pollID uint64, user common.Address) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, err := m.read(pollID)
	if err != nil {
		return false, err
	}
	return p.voters[user], nil
}

func (m *Memory) CreatedAt(ctx context.Context, pollID uint64) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	p, err := m.read(pollID)
	if err != nil {
		return 0, err
	}
	return p.createdAt, nil
}

// Admin implements AdminReader.
func (m *Memory) Admin(ctx context.Context) (common.Address, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.admin, nil
}

// CreatePoll submits a poll creation. The poll exists once the returned
// transaction is waited on.
func (m *Memory) CreatePoll(ctx context.Context, title string,
	candidates []string) (PendingTx, error) {

	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.sign(); err != nil {
		return nil, err
	}
	if len(candidates) < 2 {
		return nil, NewRejection(ReasonTooFewCandidates)
	}

	candidates = append([]string(nil), candidates...)

	return m.newTx(func() error {
		p := &memoryPoll{
			title:      title,
			candidates: candidates,
			votes:      make([]uint64, len(candidates)),
			voters:     make(map[common.Address]bool),
			createdAt:  m.now().Unix(),
		}
		m.polls = append(m.polls, p)
		return nil
	}), nil
}

// Vote submits a vote from the sender. Rule violations are rejected at
// submission, like a failed gas estimate, and again when finalized.
func (m *Memory) Vote(ctx context.Context, pollID, candidateIndex uint64) (PendingTx, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if err := m.sign(); err != nil {
		return nil, err
	}
	sender := m.sender
	if err := m.checkVote(pollID, candidateIndex, sender); err != nil {
		return nil, err
	}

	return m.newTx(func() error {
		if err := m.checkVote(pollID, candidateIndex, sender); err != nil {
			return err
		}
		p := m.polls[pollID]
		p.votes[candidateIndex]++
		p.voters[sender] = true
		return nil
	}), nil
}

func (m *Memory) checkVote(pollID, candidateIndex uint64, sender common.Address) error {
	if pollID >= uint64(len(m.polls)) {
		return NewRejection(ReasonInvalidPoll)
	}
	p := m.polls[pollID]
	if candidateIndex >= uint64(len(p.candidates)) {
		return NewRejection(ReasonInvalidCandidate)
	}
	if p.voters[sender] {
		return NewRejection(ReasonAlreadyVoted)
	}
	return nil
}

// read returns the poll or the injected read failure. Lock must be held.
func (m *Memory) read(pollID uint64) (*memoryPoll, error) {
	if err, ok := m.failReads[pollID]; ok {
		return nil, err
	}
	if pollID >= uint64(len(m.polls)) {
		return nil, NewRejection(ReasonInvalidPoll)
	}
	return m.polls[pollID], nil
}

// sign applies the decline switch and sender check. Lock must be held.
func (m *Memory) sign() error {
	if m.decline {
		m.decline = false
		return ErrUserRejected
	}
	if m.sender == (common.Address{}) {
		return errors.Wrap(ErrNoWallet, "memory ledger sender")
	}
	return nil
}

// newTx returns a pending transaction applying finalize on first Wait. Lock
// must be held.
func (m *Memory) newTx(finalize func() error) *memoryTx {
	m.txCount++
	return &memoryTx{
		ledger:   m,
		hash:     common.BigToHash(big.NewInt(m.txCount)).Hex(),
		finalize: finalize,
	}
}

type memoryTx struct {
	ledger   *Memory
	hash     string
	finalize func() error

	once sync.Once
	err  error
}

func (tx *memoryTx) Hash() string {
	return tx.hash
}

func (tx *memoryTx) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx.once.Do(func() {
		tx.ledger.lock.Lock()
		defer tx.ledger.lock.Unlock()
		tx.err = tx.finalize()
	})
	return tx.err
}
