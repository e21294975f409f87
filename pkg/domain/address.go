// Package domain holds the value types shared across the registry: account
// addresses and their parsing rules.
package domain

import (
	"encoding/hex"
	"strings"

	dErrors "pns/pkg/domain-errors"
)

// AddressLength is the byte length of a Partisia blockchain address: one type
// byte followed by a 20-byte identifier.
const AddressLength = 21

// Address identifies an account. It is always stored as 42 lowercase hex
// characters.
//
// Usage: construct via ParseAddress at trust boundaries; direct casting
// bypasses validation.
type Address string

// ParseAddress validates and normalizes an address from external input.
func ParseAddress(s string) (Address, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if len(s) != AddressLength*2 {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "address must be %d hex characters", AddressLength*2)
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", dErrors.New(dErrors.CodeInvalidInput, "address must be hex encoded")
	}
	return Address(s), nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) String() string {
	return string(a)
}

// IsNil reports whether the address is unset.
func (a Address) IsNil() bool {
	return a == ""
}
