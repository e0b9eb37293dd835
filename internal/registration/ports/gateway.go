package ports

import (
	"context"
	"time"
)

// PaymentGateway creates and resolves hosted checkout sessions. Adapters
// return plain errors; the workflow classifies every failure as a gateway
// lookup failure.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)
	RetrieveSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

// SessionMetadata is the key/value bag attached at checkout and echoed back
// on retrieval.
type SessionMetadata struct {
	ContestID string
	Name      string
	Title     string
	Deadline  string
}

// CheckoutRequest describes one contest entry purchase.
type CheckoutRequest struct {
	ContestID     string
	ContestName   string
	Description   string
	ImageURL      string
	DisplayName   string
	CustomerEmail string
	Amount        int64
	Deadline      time.Time
}

// Metadata builds the metadata attached to the session.
func (r CheckoutRequest) Metadata() SessionMetadata {
	return SessionMetadata{
		ContestID: r.ContestID,
		Name:      r.DisplayName,
		Title:     r.ContestName,
		Deadline:  r.Deadline.UTC().Format(time.RFC3339),
	}
}

// CheckoutLink is where the customer is redirected to pay.
type CheckoutLink struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CheckoutSession is the gateway's view of a session at retrieval time.
type CheckoutSession struct {
	ID            string
	PaymentStatus string
	TransactionID string
	AmountTotal   int64
	CustomerEmail string
	Metadata      SessionMetadata
}
