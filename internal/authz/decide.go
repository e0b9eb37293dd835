// Package authz decides role-based access to routes.
package authz

import (
	"slices"

	"contesthub/internal/account/models"
	id "contesthub/pkg/domain"
)

// Outcome is the result of an access decision.
type Outcome string

const (
	OutcomeAllow           Outcome = "allow"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeForbidden       Outcome = "forbidden"
)

// Reason explains a decision for logs.
type Reason string

const (
	ReasonRoleGranted     Reason = "role_granted"
	ReasonNoRoleRequired  Reason = "no_role_required"
	ReasonMissingIdentity Reason = "missing_identity"
	ReasonNoAccount       Reason = "no_account"
	ReasonRoleMismatch    Reason = "role_mismatch"
)

// Decision is the pure result of Decide.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	Role    id.Role
}

func (d Decision) Allowed() bool { return d.Outcome == OutcomeAllow }

// Decide checks whether the caller identified by email may act with one of
// required. account is nil when the caller has not signed in yet; such callers
// hold the user role.
//
// Rule priority (fail-fast):
//  1. Identity must be present
//  2. No required roles means any authenticated caller passes
//  3. The account role, or user when there is no account, must be listed
func Decide(email string, required []id.Role, account *models.Account) Decision {
	if email == "" {
		return Decision{Outcome: OutcomeUnauthenticated, Reason: ReasonMissingIdentity}
	}

	role := id.RoleUser
	if account != nil && account.Role.IsValid() {
		role = account.Role
	}

	if len(required) == 0 {
		return Decision{Outcome: OutcomeAllow, Reason: ReasonNoRoleRequired, Role: role}
	}
	if slices.Contains(required, role) {
		return Decision{Outcome: OutcomeAllow, Reason: ReasonRoleGranted, Role: role}
	}
	if account == nil {
		return Decision{Outcome: OutcomeForbidden, Reason: ReasonNoAccount, Role: role}
	}
	return Decision{Outcome: OutcomeForbidden, Reason: ReasonRoleMismatch, Role: role}
}
