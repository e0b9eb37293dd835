package models

import (
	"strings"
	"time"

	"contesthub/internal/registration/ports"
	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
	"contesthub/pkg/email"
)

// FromSession builds the registration for a paid session. The result depends
// only on the session values, the new id and now.
func FromSession(s *ports.CheckoutSession, regID id.RegistrationID, now time.Time) (*Registration, error) {
	if strings.TrimSpace(s.TransactionID) == "" {
		return nil, dErrors.New(dErrors.CodeGatewayLookup, "paid session has no transaction id")
	}
	userEmail, err := email.Normalize(s.CustomerEmail)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeGatewayLookup, "paid session has no usable customer email")
	}
	contestID, err := id.ParseContestID(s.Metadata.ContestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeGatewayLookup, "paid session has no contest reference")
	}
	return &Registration{
		ID:            regID,
		UserEmail:     userEmail,
		ContestID:     contestID,
		Name:          s.Metadata.Name,
		Title:         s.Metadata.Title,
		Deadline:      s.Metadata.Deadline,
		TransactionID: s.TransactionID,
		SessionID:     s.ID,
		Amount:        s.AmountTotal,
		PaymentStatus: PaymentStatusPaid,
		RegisteredAt:  now,
	}, nil
}
