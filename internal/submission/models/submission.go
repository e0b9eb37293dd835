package models

import (
	"bytes"
	"encoding/json"
	"time"

	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
)

const maxPayloadBytes = 64 << 10

// Submission is a participant's entry for a contest. Submissions are
// append-only.
type Submission struct {
	ID           id.SubmissionID `json:"id"`
	ContestID    id.ContestID    `json:"contestId"`
	CreatorEmail string          `json:"creatorEmail"`
	Payload      json.RawMessage `json:"payload"`
	SubmittedAt  time.Time       `json:"submittedAt"`
}

// ValidatePayload requires a non-empty JSON object within the size limit.
func ValidatePayload(payload json.RawMessage) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return dErrors.New(dErrors.CodeValidation, "payload is required")
	}
	if len(trimmed) > maxPayloadBytes {
		return dErrors.New(dErrors.CodeValidation, "payload is too large")
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return dErrors.New(dErrors.CodeValidation, "payload must be a JSON object")
	}
	if len(obj) == 0 {
		return dErrors.New(dErrors.CodeValidation, "payload must not be empty")
	}
	return nil
}

func NewSubmission(contestID id.ContestID, email string, payload json.RawMessage, now time.Time) *Submission {
	return &Submission{
		ID:           id.NewSubmissionID(),
		ContestID:    contestID,
		CreatorEmail: email,
		Payload:      append(json.RawMessage(nil), bytes.TrimSpace(payload)...),
		SubmittedAt:  now,
	}
}
