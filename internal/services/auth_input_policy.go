package services

import (
	"errors"
	"net/mail"
	"strings"
)

var ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")

const maxDisplayNameRunes = 80

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// NormalizeDisplayName collapses inner whitespace and caps the length of a
// user-supplied name.
func NormalizeDisplayName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	runes := []rune(name)
	if len(runes) > maxDisplayNameRunes {
		name = strings.TrimSpace(string(runes[:maxDisplayNameRunes]))
	}
	return name
}
