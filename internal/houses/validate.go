package houses

import (
	"math"

	"github.com/EmpoweredVote/candymap/internal/apperr"
)

var (
	errMissingData = apperr.Validation("Missing request data")
	errInvalidData = apperr.Validation("Invalid request data")
)

// Validate checks the payload against the two submission shapes and returns
// the submission it describes. A payload that mixes fields from both shapes
// is rejected.
func (p Payload) Validate() (Submission, error) {
	if p.Candy == nil {
		return Submission{}, errMissingData
	}

	if *p.Candy {
		if p.NoCandyReason != nil || p.CandyType == nil || p.CandyCount == nil {
			return Submission{}, errInvalidData
		}
		if !unit(*p.CandyType) || !unit(*p.CandyCount) {
			return Submission{}, errInvalidData
		}
		return GaveCandy(*p.CandyType, *p.CandyCount), nil
	}

	if p.CandyType != nil || p.CandyCount != nil || p.NoCandyReason == nil {
		return Submission{}, errInvalidData
	}
	reason := NoCandyReason(*p.NoCandyReason)
	if !reason.Valid() {
		return Submission{}, errInvalidData
	}
	return NoCandyGiven(reason), nil
}

func unit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
