package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNoWallet is returned when an action needs an account and none is connected.
	ErrNoWallet = errors.New("No wallet connected")

	// ErrNotDeployed is returned when there is no contract code at the configured address.
	ErrNotDeployed = errors.New("Contract not deployed")

	// ErrWrongNetwork is returned when the node is on a different chain than configured.
	ErrWrongNetwork = errors.New("Wrong network")

	// ErrUserRejected is returned when the account holder declines to sign.
	ErrUserRejected = errors.New("User rejected transaction")
)

// RejectionError is a call or transaction rejected by the contract.
type RejectionError struct {
	Reason string
}

// NewRejection returns a rejection with the specified reason.
func NewRejection(reason string) *RejectionError {
	return &RejectionError{Reason: reason}
}

func (e *RejectionError) Error() string {
	if len(e.Reason) == 0 {
		return "Rejected by contract"
	}
	return fmt.Sprintf("Rejected by contract : %s", e.Reason)
}

// IsUserRejected returns true if the cause of err is a declined signature.
func IsUserRejected(err error) bool {
	return errors.Cause(err) == ErrUserRejected
}

// RejectionReason returns the contract's reason when the cause of err is a
// contract rejection.
func RejectionReason(err error) (string, bool) {
	rejection, ok := errors.Cause(err).(*RejectionError)
	if !ok {
		return "", false
	}
	return rejection.Reason, true
}

// IsConnectivity returns true for errors meaning the contract can't be reached
// through the configured wallet and network.
func IsConnectivity(err error) bool {
	switch errors.Cause(err) {
	case ErrNoWallet, ErrNotDeployed, ErrWrongNetwork:
		return true
	}
	return false
}
