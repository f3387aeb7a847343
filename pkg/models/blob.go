package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CVAnalysis is the structured analysis blob attached to a candidate. Stored
// rows may carry either a bare JSON string (a plain summary from older
// imports) or a structured object; both normalize to this shape on read and
// re-serialize as the object form on write.
type CVAnalysis struct {
	Summary         string   `json:"summary,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	ExperienceYears float64  `json:"experience_years,omitempty"`
}

func (c *CVAnalysis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		c.Summary = s
		return nil
	}

	type alias CVAnalysis
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("cv_analysis: %w", err)
	}
	*c = CVAnalysis(a)
	return nil
}

// QuestionList is an ordered question sequence persisted as serialized JSON
// text in the interviews and interview_kits tables.
type QuestionList []string

// DecodeQuestions normalizes the stored text form. A bare string that is not
// a JSON array is treated as a single question; empty input yields nil.
func DecodeQuestions(raw string) (QuestionList, error) {
	if raw == "" {
		return nil, nil
	}
	var qs []string
	if err := json.Unmarshal([]byte(raw), &qs); err == nil {
		return qs, nil
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		if s == "" {
			return nil, nil
		}
		return QuestionList{s}, nil
	}
	return nil, fmt.Errorf("questions: not a JSON array or string: %q", raw)
}

// Encode returns the serialized text form written to the store.
func (q QuestionList) Encode() (string, error) {
	if q == nil {
		q = QuestionList{}
	}
	b, err := json.Marshal([]string(q))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
