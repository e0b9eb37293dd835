// Package ports declares the outbound boundaries of the registration module.
package ports

//go:generate mockgen -source=gateway.go -destination=mocks/mocks.go -package=mocks PaymentGateway
