package houses

import (
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/EmpoweredVote/candymap/internal/catalog"
)

// NoCandyReason explains a candy=false report.
type NoCandyReason string

const (
	NotHome NoCandyReason = "notHome"
	NoCandy NoCandyReason = "noCandy"
)

func (r NoCandyReason) Valid() bool {
	return r == NotHome || r == NoCandy
}

// Submission is one author's report for one building. It has two shapes:
// Candy with CandyType and CandyCount in [0,1], or no candy with a Reason.
// Build values with GaveCandy or NoCandyGiven, or by validating a Payload.
type Submission struct {
	Candy      bool
	CandyType  float64
	CandyCount float64
	Reason     NoCandyReason
}

func GaveCandy(candyType, candyCount float64) Submission {
	return Submission{Candy: true, CandyType: candyType, CandyCount: candyCount}
}

func NoCandyGiven(reason NoCandyReason) Submission {
	return Submission{Reason: reason}
}

// Payload is the request body for recording a submission. Pointers tell
// absent fields from zero values.
type Payload struct {
	Candy         *bool    `json:"candy"`
	CandyType     *float64 `json:"candyType"`
	CandyCount    *float64 `json:"candyCount"`
	NoCandyReason *string  `json:"noCandyReason"`
}

// wire is the JSON form of a Submission; only the fields of its shape appear.
type wire struct {
	Candy         bool          `json:"candy"`
	CandyType     *float64      `json:"candyType,omitempty"`
	CandyCount    *float64      `json:"candyCount,omitempty"`
	NoCandyReason NoCandyReason `json:"noCandyReason,omitempty"`
}

func (s Submission) MarshalJSON() ([]byte, error) {
	if s.Candy {
		return json.Marshal(wire{Candy: true, CandyType: &s.CandyType, CandyCount: &s.CandyCount})
	}
	return json.Marshal(wire{NoCandyReason: s.Reason})
}

func (s *Submission) UnmarshalJSON(data []byte) error {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	v, err := p.Validate()
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// SubmissionSet is every submission for one building, keyed by author.
type SubmissionSet map[string]Submission

// Values returns the submissions ordered by author so responses are stable.
// Authors are not included.
func (set SubmissionSet) Values() []Submission {
	out := make([]Submission, 0, len(set))
	for _, author := range slices.Sorted(maps.Keys(set)) {
		out = append(out, set[author])
	}
	return out
}

// Stats is the per-field mean over a SubmissionSet. CandyType and CandyCount
// average only the submissions that carry them.
type Stats struct {
	Candy      float64  `json:"candy"`
	CandyType  *float64 `json:"candyType,omitempty"`
	CandyCount *float64 `json:"candyCount,omitempty"`
}

// HouseView is the public form of a building. Tags and author names are
// never included.
type HouseView struct {
	ID              string           `json:"id"`
	Geometry        catalog.Geometry `json:"geometry"`
	Submissions     []Submission     `json:"submissions"`
	SubmissionCount int              `json:"submissionCount"`
	Stats           *Stats           `json:"stats,omitempty"`

	// Submission is the requester's own report, when they have one.
	Submission *Submission `json:"submission,omitempty"`
}

// SubmissionRecord is the Postgres row for one submission.
type SubmissionRecord struct {
	BuildingID    string   `gorm:"primaryKey;size:64"`
	Author        string   `gorm:"primaryKey;size:20"`
	Candy         bool     `gorm:"not null"`
	CandyType     *float64 `gorm:"column:candy_type"`
	CandyCount    *float64 `gorm:"column:candy_count"`
	NoCandyReason *string  `gorm:"column:no_candy_reason;size:16"`
	UpdatedAt     time.Time
}

func (SubmissionRecord) TableName() string { return "candy.submissions" }

func recordFrom(buildingID, author string, s Submission) SubmissionRecord {
	rec := SubmissionRecord{BuildingID: buildingID, Author: author, Candy: s.Candy}
	if s.Candy {
		rec.CandyType = &s.CandyType
		rec.CandyCount = &s.CandyCount
	} else {
		reason := string(s.Reason)
		rec.NoCandyReason = &reason
	}
	return rec
}

func (rec SubmissionRecord) submission() Submission {
	if rec.Candy {
		var t, c float64
		if rec.CandyType != nil {
			t = *rec.CandyType
		}
		if rec.CandyCount != nil {
			c = *rec.CandyCount
		}
		return GaveCandy(t, c)
	}
	var reason NoCandyReason
	if rec.NoCandyReason != nil {
		reason = NoCandyReason(*rec.NoCandyReason)
	}
	return NoCandyGiven(reason)
}
