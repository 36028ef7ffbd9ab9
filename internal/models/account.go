// Package models defines the core data structures for accounts and their labels.
package models

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// AccountType classifies where an account's credentials live.
type AccountType string

const (
	// Local represents an account whose password is stored alongside it.
	Local AccountType = "Local"
	// LDAP represents a directory account that may carry no local password.
	LDAP AccountType = "LDAP"

	// legacyLocal is the localized literal older data used for Local.
	legacyLocal = "Локальная"
)

// ParseAccountType matches s against the known account types, ignoring case.
func ParseAccountType(s string) (AccountType, error) {
	fold := cases.Fold()
	switch fold.String(strings.TrimSpace(s)) {
	case fold.String(string(Local)), fold.String(legacyLocal):
		return Local, nil
	case fold.String(string(LDAP)):
		return LDAP, nil
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// Canonical maps the legacy localized literal to Local and returns every
// other value unchanged.
func (t AccountType) Canonical() AccountType {
	if string(t) == legacyLocal {
		return Local
	}
	return t
}

// Label is a short descriptive tag attached to an account.
type Label struct {
	// Text is the displayed tag.
	Text string `json:"text"`
}

// Account is a stored credential record.
type Account struct {
	// Labels are kept in display order; duplicates are allowed.
	Labels []Label `json:"labels"`
	// Type is the account classification.
	Type AccountType `json:"type"`
	// Login is the user name.
	Login string `json:"login"`
	// Password is nil when no password is stored locally.
	Password *string `json:"password"`
}

// Clone returns a shallow copy of a with its own label slice.
func (a Account) Clone() Account {
	out := a
	out.Labels = make([]Label, len(a.Labels))
	copy(out.Labels, a.Labels)
	return out
}

// Equal reports whether a and b hold the same data.
func (a Account) Equal(b Account) bool {
	if a.Type != b.Type || a.Login != b.Login || len(a.Labels) != len(b.Labels) {
		return false
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			return false
		}
	}
	switch {
	case a.Password == nil && b.Password == nil:
		return true
	case a.Password == nil || b.Password == nil:
		return false
	}
	return *a.Password == *b.Password
}

// PasswordPtr is a helper for building accounts with a password.
func PasswordPtr(s string) *string {
	return &s
}
