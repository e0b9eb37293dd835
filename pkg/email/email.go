package email

import (
	"net/mail"
	"strings"
	"unicode"

	dErrors "contesthub/pkg/domain-errors"
)

// Normalize lowercases and trims an address and rejects anything that is not
// a bare mailbox. Accounts, registrations and submissions are keyed by the
// normalized form.
func Normalize(address string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(address))
	if trimmed == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "email is required")
	}
	parsed, err := mail.ParseAddress(trimmed)
	if err != nil || parsed.Address != trimmed {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	return trimmed, nil
}

// DeriveDisplayName builds a readable name from the local part of an address,
// used when the identity token carries no name.
func DeriveDisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Participant"
	}
	for i := range parts {
		parts[i] = capitalize(parts[i])
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
