package models

import (
	"time"

	id "contesthub/pkg/domain"
)

// PaymentStatusPaid is the only gateway payment status that confirms a
// registration.
const PaymentStatusPaid = "paid"

// Registration records a confirmed paid entry into a contest. It is created
// once per gateway transaction and never updated.
//
// Invariants:
//   - TransactionID is unique across all registrations
//   - PaymentStatus is always "paid"
type Registration struct {
	ID            id.RegistrationID `json:"id"`
	UserEmail     string            `json:"userEmail"`
	ContestID     id.ContestID      `json:"contestId"`
	Name          string            `json:"name"`
	Title         string            `json:"title"`
	Deadline      string            `json:"deadline"`
	TransactionID string            `json:"transactionId"`
	SessionID     string            `json:"sessionId"`
	Amount        int64             `json:"amount"`
	PaymentStatus string            `json:"paymentStatus"`
	RegisteredAt  time.Time         `json:"registeredAt"`
}

// OutcomeStatus is the terminal state reached by one confirmation attempt.
type OutcomeStatus string

const (
	OutcomeConfirmed        OutcomeStatus = "confirmed"
	OutcomeAlreadyProcessed OutcomeStatus = "already_processed"
	OutcomeNotCompleted     OutcomeStatus = "not_completed"
)

// Outcome is the successful result of ConfirmRegistration.
type Outcome struct {
	Status    OutcomeStatus `json:"status"`
	ContestID id.ContestID  `json:"contestId,omitempty"`
}

func Confirmed(contestID id.ContestID) Outcome {
	return Outcome{Status: OutcomeConfirmed, ContestID: contestID}
}

func AlreadyProcessed(contestID id.ContestID) Outcome {
	return Outcome{Status: OutcomeAlreadyProcessed, ContestID: contestID}
}

func NotCompleted() Outcome {
	return Outcome{Status: OutcomeNotCompleted}
}
