package models

import (
	"encoding/json"
	"errors"
	"time"
)

// dateLayouts are the accepted formats for range endpoints.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// VariableList accepts either a single JSON string or an array of strings,
// canonicalizing both into one ordered sequence. Selection widgets send
// whichever shape they like; nothing downstream branches on it.
type VariableList []string

// UnmarshalJSON implements json.Unmarshaler.
func (v *VariableList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*v = nil
			return nil
		}
		*v = VariableList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("variables must be a string or an array of strings")
	}
	*v = VariableList(many)
	return nil
}

// UpdateParamsRequest replaces a session's parameter selection.
type UpdateParamsRequest struct {
	Station   string       `json:"station"`
	Variables VariableList `json:"variables"`
	Start     string       `json:"start"`
	End       string       `json:"end"`
}

// ParseRange parses the range endpoints. Empty strings yield zero times
// (the "not set" sentinel); the request builder decides whether that is
// acceptable.
func (r UpdateParamsRequest) ParseRange() (start, end time.Time, err error) {
	start, err = parseDate(r.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = parseDate(r.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("dates must be RFC3339 or YYYY-MM-DD")
}

// UpdateParamsResponse echoes the stored selection.
type UpdateParamsResponse struct {
	Station   string   `json:"station"`
	Variables []string `json:"variables"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
}

// SubmitFeedbackRequest carries the user's feedback text.
type SubmitFeedbackRequest struct {
	Text string `json:"text"`
}

// FeedbackStatusResponse describes the submission control.
type FeedbackStatusResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// EnumsResponse lists the fixed enumerations the UI constrains selection to.
type EnumsResponse struct {
	Stations  []string `json:"stations"`
	Variables []string `json:"variables"`
}
