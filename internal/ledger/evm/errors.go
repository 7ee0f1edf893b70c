package evm

import (
	"strings"

	"github.com/tokenized/votechain/internal/ledger"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

const revertPrefix = "execution reverted"

// dataError matches rpc.DataError without importing the rpc package.
type dataError interface {
	Error() string
	ErrorData() interface{}
}

// classify maps node errors to the ledger error kinds. Errors that aren't a
// contract rejection or a declined signature are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if ledger.IsUserRejected(err) {
		return err
	}

	var de dataError
	if errors.As(err, &de) {
		if reason, ok := revertReason(de.ErrorData()); ok {
			return ledger.NewRejection(reason)
		}
		if msg := de.Error(); strings.HasPrefix(msg, revertPrefix) {
			return ledger.NewRejection(reasonFromMessage(msg))
		}
	}

	// Gas estimation failures are flattened to text by the binding, so the
	// revert data is lost and only the message remains.
	msg := err.Error()
	if i := strings.Index(msg, revertPrefix); i >= 0 {
		return ledger.NewRejection(reasonFromMessage(msg[i:]))
	}

	return err
}

// revertReason decodes an Error(string) revert payload.
func revertReason(data interface{}) (string, bool) {
	s, ok := data.(string)
	if !ok {
		return "", false
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return "", false
	}

	reason, err := abi.UnpackRevert(b)
	if err != nil {
		return "", false
	}
	return reason, true
}

func reasonFromMessage(msg string) string {
	reason := strings.TrimPrefix(msg, revertPrefix)
	reason = strings.TrimPrefix(reason, ":")
	return strings.TrimSpace(reason)
}
