package models

import (
	"strings"
	"time"

	id "contesthub/pkg/domain"
	dErrors "contesthub/pkg/domain-errors"
)

// Account is a platform member keyed by email.
//
// Invariants:
//   - Email is normalized (lowercase, trimmed) and unique
//   - Role is one of user, creator, admin; new accounts start as user
//   - TotalWon and TotalParticipated only grow, and only through store increments
type Account struct {
	ID                id.AccountID `json:"id"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	PhotoURL          string       `json:"photoURL,omitempty"`
	Role              id.Role      `json:"role"`
	Bio               string       `json:"bio,omitempty"`
	Address           string       `json:"address,omitempty"`
	TotalWon          int          `json:"totalWon"`
	TotalParticipated int          `json:"totalParticipated"`
	CreatedAt         time.Time    `json:"createdAt"`
	LastLoginAt       time.Time    `json:"lastLoginAt"`
}

const maxProfileField = 1024

// NewAccount builds the record created on first sign-in.
func NewAccount(email, name, photoURL string, now time.Time) (*Account, error) {
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	return &Account{
		ID:          id.NewAccountID(),
		Email:       email,
		Name:        strings.TrimSpace(name),
		PhotoURL:    strings.TrimSpace(photoURL),
		Role:        id.RoleUser,
		CreatedAt:   now,
		LastLoginAt: now,
	}, nil
}

// HasRole reports whether the account holds any of roles.
func (a *Account) HasRole(roles ...id.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the user-editable fields; nil means unchanged.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	PhotoURL *string `json:"photoURL,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Address  *string `json:"address,omitempty"`
}

// Validate trims the provided fields and enforces length limits.
func (u *ProfileUpdate) Validate() error {
	fields := []*string{u.Name, u.PhotoURL, u.Bio, u.Address}
	empty := true
	for _, f := range fields {
		if f == nil {
			continue
		}
		empty = false
		*f = strings.TrimSpace(*f)
		if len(*f) > maxProfileField {
			return dErrors.New(dErrors.CodeValidation, "profile field too long")
		}
	}
	if empty {
		return dErrors.New(dErrors.CodeValidation, "no profile fields to update")
	}
	if u.Name != nil && *u.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name must not be empty")
	}
	return nil
}

// Apply copies the non-nil fields onto a.
func (u ProfileUpdate) Apply(a *Account) {
	if u.Name != nil {
		a.Name = *u.Name
	}
	if u.PhotoURL != nil {
		a.PhotoURL = *u.PhotoURL
	}
	if u.Bio != nil {
		a.Bio = *u.Bio
	}
	if u.Address != nil {
		a.Address = *u.Address
	}
}
