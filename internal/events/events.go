// Package events defines the domain events contesthub publishes.
package events

import (
	"context"
	"time"
)

const TypeRegistrationConfirmed = "registration.confirmed"

// RegistrationConfirmed is emitted after a registration commits.
type RegistrationConfirmed struct {
	RegistrationID string    `json:"registrationId"`
	ContestID      string    `json:"contestId"`
	UserEmail      string    `json:"userEmail"`
	TransactionID  string    `json:"transactionId"`
	Amount         int64     `json:"amount"`
	RegisteredAt   time.Time `json:"registeredAt"`
}

// NoopPublisher drops events. It is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishRegistrationConfirmed(context.Context, RegistrationConfirmed) error {
	return nil
}

func (NoopPublisher) Close() {}
