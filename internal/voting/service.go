package voting

import (
	"context"
	"fmt"
	"sync"

	"github.com/tokenized/votechain/internal/identity"
	"github.com/tokenized/votechain/internal/ledger"
	"github.com/tokenized/votechain/internal/poll"

	"github.com/pkg/errors"
	"github.com/tokenized/pkg/logger"
	"go.opencensus.io/trace"
)

const (
	// SubSystem is used by the logger package
	SubSystem = "Voting"

	msgLoadFailed     = "Failed to load polls. Make sure the contract is deployed and you're on the correct network."
	msgRejectedByUser = "Transaction was rejected by user"
	msgNotConnected   = "Please connect your wallet to continue."
	msgBusy           = "Another transaction is still pending."
)

var (
	// ErrBusy is returned when a submission is attempted while another is outstanding.
	ErrBusy = errors.New("Submission in progress")
)

// Account provides the connected wallet state.
type Account interface {
	State() identity.State
}

// Service holds the polls of the connected account and submits votes and new
// polls. Submissions are serialized by the service state. The poll list is
// replaced by every reload and never patched.
type Service struct {
	ledger  ledger.Ledger
	account Account

	lock   sync.Mutex
	state  State
	polls  []poll.Poll
	stats  poll.Stats
	notice *Notice
}

func NewService(l ledger.Ledger, account Account) *Service {
	return &Service{
		ledger:  l,
		account: account,
	}
}

// Reload fetches every poll from the ledger and replaces the held polls and
// stats. A successful reload clears the notice.
func (s *Service) Reload(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "internal.voting.Reload")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	if err := s.reload(ctx); err != nil {
		return err
	}

	s.DismissNotice()
	return nil
}

func (s *Service) reload(ctx context.Context) error {
	state := s.account.State()
	if !state.IsConnected {
		return ledger.ErrNoWallet
	}

	polls, stats, err := poll.LoadAll(ctx, s.ledger, state.Address)
	if err != nil {
		logger.Error(ctx, "Failed to load polls : %s", err)
		s.setNotice(NoticeError, msgLoadFailed)
		return errors.Wrap(err, "load polls")
	}

	s.lock.Lock()
	s.polls = polls
	s.stats = stats
	s.lock.Unlock()

	return nil
}

// Polls returns the polls from the last reload in id order.
func (s *Service) Polls() []poll.Poll {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]poll.Poll(nil), s.polls...)
}

// Poll returns the poll with the specified id from the last reload.
func (s *Service) Poll(id uint64) (poll.Poll, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for _, p := range s.polls {
		if p.ID == id {
			return p, true
		}
	}
	return poll.Poll{}, false
}

func (s *Service) Stats() poll.Stats {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stats
}

func (s *Service) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Notice returns the message of the last action, if not dismissed.
func (s *Service) Notice() (Notice, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.notice == nil {
		return Notice{}, false
	}
	return *s.notice, true
}

func (s *Service) DismissNotice() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notice = nil
}

// SubmitVote casts a vote for the candidate at candidateIndex. The index is
// checked by the contract. On success all polls are reloaded.
func (s *Service) SubmitVote(ctx context.Context, pollID, candidateIndex uint64) Result {
	ctx, span := trace.StartSpan(ctx, "internal.voting.SubmitVote")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	return s.submit(ctx, "cast vote", "Vote cast successfully!",
		func(ctx context.Context) (ledger.PendingTx, error) {
			logger.Info(ctx, "Voting for candidate %d on poll %d", candidateIndex, pollID)
			return s.ledger.Vote(ctx, pollID, candidateIndex)
		})
}

// SubmitPoll creates a poll. The title and candidates are validated before
// anything is sent. On success all polls are reloaded.
func (s *Service) SubmitPoll(ctx context.Context, title string, candidates []string) Result {
	ctx, span := trace.StartSpan(ctx, "internal.voting.SubmitPoll")
	defer span.End()

	ctx = logger.ContextWithLogSubSystem(ctx, SubSystem)

	newPoll, err := poll.ValidateNewPoll(title, candidates)
	if err != nil {
		message := "Failed to create poll. Please try again."
		if poll.IsValidationError(err) {
			message = errors.Cause(err).Error()
		}
		s.setNotice(NoticeError, message)
		return Result{
			Outcome: OutcomeFailed,
			Message: message,
			Err:     err,
		}
	}

	return s.submit(ctx, "create poll", "Poll created successfully!",
		func(ctx context.Context) (ledger.PendingTx, error) {
			logger.Info(ctx, "Creating poll \"%s\" with %d candidates", newPoll.Title,
				len(newPoll.Candidates))
			return s.ledger.CreatePoll(ctx, newPoll.Title, newPoll.Candidates)
		})
}

// submit runs one transaction through idle -> submitting -> idle.
func (s *Service) submit(ctx context.Context, action, successMessage string,
	send func(context.Context) (ledger.PendingTx, error)) Result {

	if !s.account.State().IsConnected {
		s.setNotice(NoticeError, msgNotConnected)
		return Result{Outcome: OutcomeFailed, Message: msgNotConnected, Err: ledger.ErrNoWallet}
	}

	if !s.begin() {
		return Result{Outcome: OutcomeFailed, Message: msgBusy, Err: ErrBusy}
	}
	defer s.end()

	tx, err := send(ctx)
	if err != nil {
		return s.fail(ctx, action, "", err)
	}

	logger.Info(ctx, "Transaction submitted! Waiting for confirmation... : %s", tx.Hash())

	if err := tx.Wait(ctx); err != nil {
		return s.fail(ctx, action, tx.Hash(), err)
	}

	logger.Info(ctx, "%s : %s", successMessage, tx.Hash())

	if err := s.reload(ctx); err != nil {
		// The transaction is final. Keep the success and show stale polls.
		logger.Warn(ctx, "Reload after %s failed : %s", action, err)
	}
	s.setNotice(NoticeSuccess, successMessage)

	return Result{
		Outcome: OutcomeSuccess,
		Message: successMessage,
		TxHash:  tx.Hash(),
	}
}

// fail maps a submission error to its outcome and notice.
func (s *Service) fail(ctx context.Context, action, txHash string, err error) Result {
	result := Result{
		Outcome: OutcomeFailed,
		TxHash:  txHash,
		Err:     err,
	}

	if reason, ok := ledger.RejectionReason(err); ok && len(reason) > 0 {
		result.Message = fmt.Sprintf("Failed to %s: %s", action, reason)
	} else if ledger.IsUserRejected(err) {
		result.Outcome = OutcomeCancelled
		result.Message = msgRejectedByUser
	} else if ledger.IsConnectivity(err) {
		result.Message = fmt.Sprintf("Failed to %s: %s", action, errors.Cause(err))
	} else {
		result.Message = fmt.Sprintf("Failed to %s. Please try again.", action)
	}

	if result.Outcome == OutcomeCancelled {
		logger.Info(ctx, "Declined to %s", action)
	} else {
		logger.Error(ctx, "Failed to %s : %s", action, err)
	}

	s.setNotice(NoticeError, result.Message)
	return result
}

func (s *Service) begin() bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.state == StateSubmitting {
		return false
	}
	s.state = StateSubmitting
	s.notice = nil
	return true
}

func (s *Service) end() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.state = StateIdle
}

func (s *Service) setNotice(kind NoticeKind, message string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.notice = &Notice{Kind: kind, Message: message}
}
