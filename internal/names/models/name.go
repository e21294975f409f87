package models

import (
	"strings"

	dErrors "pns/pkg/domain-errors"
)

// LabelSeparator joins the labels of a hierarchical name: a child of
// "partisia" is "<label>.partisia".
const LabelSeparator = "."

// NormalizeName trims and lowercases a name. Normalized names are the
// registry's primary key and the NFT token id.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidateName checks a normalized name against the registry syntax: one or
// more labels of [a-z0-9-], no leading or trailing hyphen, total length
// between 1 and maxLen bytes.
func ValidateName(name string, maxLen int) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvalidDomain, "name cannot be empty")
	}
	if maxLen > 0 && len(name) > maxLen {
		return dErrors.Newf(dErrors.CodeInvalidDomain, "name must be at most %d characters", maxLen)
	}
	for _, label := range strings.Split(name, LabelSeparator) {
		if !validLabel(label) {
			return dErrors.Newf(dErrors.CodeInvalidDomain, "invalid label %q", label)
		}
	}
	return nil
}

func validLabel(label string) bool {
	if label == "" {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		default:
			return false
		}
	}
	return true
}

// IsRootName reports whether name is a single label.
func IsRootName(name string) bool {
	return !strings.Contains(name, LabelSeparator)
}

// ParentName returns the name one level up, or "" for a root name.
func ParentName(name string) string {
	i := strings.Index(name, LabelSeparator)
	if i < 0 {
		return ""
	}
	return name[i+1:]
}

// IsChildOf reports whether child is exactly one label below parent.
func IsChildOf(child, parent string) bool {
	if parent == "" || child == parent {
		return false
	}
	return ParentName(child) == parent
}
