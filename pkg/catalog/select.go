package catalog

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/erwinmagielda/winshield-windows-patcher/pkg/types"
)

// ErrNoMatch reports that no candidate survived the hard exclusion filters.
var ErrNoMatch = errors.New("no candidate matched baseline constraints")

// AmbiguousMatchError reports that the best surviving candidate scored below
// the confidence threshold; Score carries the top score so the operator can
// see how close the match was.
type AmbiguousMatchError struct {
	Score int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match below confidence threshold (%d)", e.Score)
}

// ScoredCandidate pairs a candidate with its score for one selection run.
type ScoredCandidate struct {
	Candidate Candidate
	Score     int
}

// Select picks the single best-confidence candidate: excluded candidates are
// discarded, the rest are ordered by score descending with catalog order
// breaking ties, and the winner must reach the confidence threshold.
func Select(candidates []Candidate, kbID string, c types.Constraints) (Candidate, error) {
	var scored []ScoredCandidate
	for _, candidate := range candidates {
		if s := Score(candidate, kbID, c); s >= 0 {
			scored = append(scored, ScoredCandidate{Candidate: candidate, Score: s})
		}
	}

	if len(scored) == 0 {
		return Candidate{}, ErrNoMatch
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	best := scored[0]
	if best.Score < ConfidenceThreshold {
		return Candidate{}, &AmbiguousMatchError{Score: best.Score}
	}

	return best.Candidate, nil
}
