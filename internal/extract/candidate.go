package extract

import "time"

// Candidate is an unvalidated appointment request derived from free text:
// an absolute calendar date, a canonical time string and a service category.
// It has not been checked against business rules or slot occupancy.
type Candidate struct {
	Date   time.Time       `json:"date"`
	Time   string          `json:"time"`
	Reason ServiceCategory `json:"reason"`
}

// CandidateFrom builds a candidate from a message when both a date and a
// time could be extracted. The boolean reports whether the message carried
// enough temporal information.
func (e *Extractor) CandidateFrom(text string, now time.Time) (Candidate, bool) {
	dt := e.ExtractAt(text, now)
	if !dt.HasDate || dt.Time == "" {
		return Candidate{}, false
	}
	return Candidate{
		Date:   dt.Date,
		Time:   dt.Time,
		Reason: ClassifyService(text),
	}, true
}
