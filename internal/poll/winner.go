package poll

import "math"

// Winner returns the candidate with the most votes. Ties go to the lowest
// index. There is no winner when there are no candidates or no votes.
func (p Poll) Winner() (Winner, bool) {
	if len(p.Votes) == 0 || len(p.Candidates) == 0 {
		return Winner{}, false
	}

	best := 0
	for i, v := range p.Votes {
		if v > p.Votes[best] {
			best = i
		}
	}

	max := p.Votes[best]
	if max == 0 {
		return Winner{}, false
	}

	// Malformed polls are dropped on load, but don't index past the candidates.
	if best >= len(p.Candidates) {
		return Winner{}, false
	}

	return Winner{
		Index:      best,
		Candidate:  p.Candidates[best],
		Votes:      max,
		Percentage: percentage(max, p.TotalVotes()),
	}, true
}

func percentage(votes, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)/float64(total)*1000) / 10
}
