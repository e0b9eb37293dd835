// Package stripe adapts Stripe Checkout to the registration payment gateway
// port.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"contesthub/internal/platform/config"
	"contesthub/internal/registration/ports"
)

// ErrSessionNotFound is returned when Stripe has no session with the given id.
var ErrSessionNotFound = errors.New("checkout session not found")

// Metadata keys echoed back on the session.
const (
	metaContestID = "contestId"
	metaName      = "name"
	metaTitle     = "title"
	metaDeadline  = "deadline"
)

// sessionAPI is the subset of the Stripe checkout session client in use.
type sessionAPI interface {
	New(params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
	Get(id string, params *stripego.CheckoutSessionParams) (*stripego.CheckoutSession, error)
}

// Gateway implements ports.PaymentGateway on Stripe Checkout.
type Gateway struct {
	sessions   sessionAPI
	currency   string
	successURL string
	cancelURL  string
}

// New builds a Gateway using the Stripe API client for cfg.StripeSecretKey.
func New(cfg config.PaymentsConfig) *Gateway {
	sc := client.New(cfg.StripeSecretKey, nil)
	return newGateway(sc.CheckoutSessions, cfg)
}

func newGateway(sessions sessionAPI, cfg config.PaymentsConfig) *Gateway {
	return &Gateway{
		sessions:   sessions,
		currency:   cfg.Currency,
		successURL: successURLWithPlaceholder(cfg.SuccessURL),
		cancelURL:  cfg.CancelURL,
	}
}

// successURLWithPlaceholder appends the session id template Stripe fills in
// on redirect.
func successURLWithPlaceholder(base string) string {
	if strings.Contains(base, "{CHECKOUT_SESSION_ID}") {
		return base
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "session_id={CHECKOUT_SESSION_ID}"
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutLink, error) {
	product := &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripego.String(req.ContestName),
	}
	if req.Description != "" {
		product.Description = stripego.String(req.Description)
	}
	if req.ImageURL != "" {
		product.Images = []*string{stripego.String(req.ImageURL)}
	}

	params := &stripego.CheckoutSessionParams{
		Mode:          stripego.String(string(stripego.CheckoutSessionModePayment)),
		CustomerEmail: stripego.String(req.CustomerEmail),
		SuccessURL:    stripego.String(g.successURL),
		CancelURL:     stripego.String(g.cancelURL),
		LineItems: []*stripego.CheckoutSessionLineItemParams{{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripego.String(g.currency),
				UnitAmount:  stripego.Int64(req.Amount),
				ProductData: product,
			},
			Quantity: stripego.Int64(1),
		}},
	}
	params.Context = ctx
	meta := req.Metadata()
	params.AddMetadata(metaContestID, meta.ContestID)
	params.AddMetadata(metaName, meta.Name)
	params.AddMetadata(metaTitle, meta.Title)
	params.AddMetadata(metaDeadline, meta.Deadline)

	s, err := g.sessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", classify(err))
	}
	return &ports.CheckoutLink{SessionID: s.ID, URL: s.URL}, nil
}

func (g *Gateway) RetrieveSession(ctx context.Context, sessionID string) (*ports.CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx
	s, err := g.sessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve checkout session: %w", classify(err))
	}
	return toPort(s), nil
}

func toPort(s *stripego.CheckoutSession) *ports.CheckoutSession {
	out := &ports.CheckoutSession{
		ID:            s.ID,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		CustomerEmail: s.CustomerEmail,
		Metadata: ports.SessionMetadata{
			ContestID: s.Metadata[metaContestID],
			Name:      s.Metadata[metaName],
			Title:     s.Metadata[metaTitle],
			Deadline:  s.Metadata[metaDeadline],
		},
	}
	if s.PaymentIntent != nil {
		out.TransactionID = s.PaymentIntent.ID
	}
	if out.CustomerEmail == "" && s.CustomerDetails != nil {
		out.CustomerEmail = s.CustomerDetails.Email
	}
	return out
}

func classify(err error) error {
	var se *stripego.Error
	if errors.As(err, &se) {
		if se.Code == stripego.ErrorCodeResourceMissing || se.HTTPStatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, se.Msg)
		}
		return fmt.Errorf("%s (%s): %s", se.Type, se.Code, se.Msg)
	}
	return err
}
