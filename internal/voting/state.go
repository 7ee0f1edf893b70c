package voting

import "fmt"

// State is the submission state of a Service. Only one submission may be
// outstanding at a time.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome is the final result of a submission.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeCancelled
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is returned by every submission.
type Result struct {
	Outcome Outcome
	Message string
	TxHash  string
	Err     error
}

// NoticeKind separates error and success notices.
type NoticeKind int

const (
	NoticeError NoticeKind = iota
	NoticeSuccess
)

// Notice is the message of the last action. It is kept until dismissed or
// replaced by the next action.
type Notice struct {
	Kind    NoticeKind
	Message string
}
