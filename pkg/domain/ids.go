package domain

import (
	"unicode/utf8"

	dErrors "contesthub/pkg/domain-errors"

	"github.com/google/uuid"
)

// Entity identifiers are opaque strings. New records get a UUIDv4; identifiers
// coming back from the payment gateway metadata or legacy data are accepted as
// long as they stay within the reference charset.
type (
	AccountID      string
	ContestID      string
	SubmissionID   string
	RegistrationID string
)

const maxIDLength = 128

func NewAccountID() AccountID           { return AccountID(uuid.NewString()) }
func NewContestID() ContestID           { return ContestID(uuid.NewString()) }
func NewSubmissionID() SubmissionID     { return SubmissionID(uuid.NewString()) }
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.NewString()) }

func (id AccountID) String() string      { return string(id) }
func (id ContestID) String() string      { return string(id) }
func (id SubmissionID) String() string   { return string(id) }
func (id RegistrationID) String() string { return string(id) }

func (id ContestID) IsZero() bool { return id == "" }

// ParseContestID validates a contest reference from external input.
func ParseContestID(s string) (ContestID, error) {
	if err := validateReference(s, "contest id"); err != nil {
		return "", err
	}
	return ContestID(s), nil
}

// ParseSubmissionID validates a submission reference from external input.
func ParseSubmissionID(s string) (SubmissionID, error) {
	if err := validateReference(s, "submission id"); err != nil {
		return "", err
	}
	return SubmissionID(s), nil
}

// ParseRegistrationID validates a registration reference from external input.
func ParseRegistrationID(s string) (RegistrationID, error) {
	if err := validateReference(s, "registration id"); err != nil {
		return "", err
	}
	return RegistrationID(s), nil
}

func validateReference(s, what string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, what+" is required")
	}
	if len(s) > maxIDLength || !utf8.ValidString(s) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return dErrors.New(dErrors.CodeInvalidInput, "invalid "+what)
		}
	}
	return nil
}
