package poll

import (
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrTitleTooShort     = errors.New("Poll title must be at least 3 characters long")
	ErrTitleTooLong      = errors.New("Poll title must be at most 200 characters long")
	ErrCandidateTooLong  = errors.New("Candidate names must be at most 100 characters long")
	ErrTooFewCandidates  = errors.New("At least 2 candidates are required")
	ErrTooManyCandidates = errors.New("No more than 10 candidates are allowed")
)

// ValidateNewPoll checks a poll before it is sent to the ledger. The title is
// trimmed and blank candidate entries are dropped. The candidate limit applies
// to the entries as given, blank or not. Lengths are counted in characters
// after trimming.
func ValidateNewPoll(title string, candidates []string) (NewPoll, error) {
	if len(candidates) > MaxCandidates {
		return NewPoll{}, errors.Wrapf(ErrTooManyCandidates, "%d given", len(candidates))
	}

	valid := make([]string, 0, len(candidates))
	for i, c := range candidates {
		trimmed := strings.TrimSpace(c)
		if trimmed == "" {
			continue
		}
		if utf8.RuneCountInString(trimmed) > MaxCandidateLength {
			return NewPoll{}, errors.Wrapf(ErrCandidateTooLong, "candidate %d", i)
		}
		valid = append(valid, c)
	}

	if len(valid) < MinCandidates {
		return NewPoll{}, ErrTooFewCandidates
	}

	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < MinTitleLength {
		return NewPoll{}, ErrTitleTooShort
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewPoll{}, ErrTitleTooLong
	}

	return NewPoll{
		Title:      title,
		Candidates: valid,
	}, nil
}

// IsValidationError returns true when err came from ValidateNewPoll.
func IsValidationError(err error) bool {
	switch errors.Cause(err) {
	case ErrTitleTooShort, ErrTitleTooLong, ErrCandidateTooLong, ErrTooFewCandidates,
		ErrTooManyCandidates:
		return true
	}
	return false
}
