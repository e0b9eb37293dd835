package authz

//go:generate mockgen -source=gate.go -destination=mocks/mocks.go -package=mocks AccountLookup
