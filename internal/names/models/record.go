package models

import (
	"strings"

	dErrors "pns/pkg/domain-errors"
)

// RecordClass names the kind of a record attached to a domain.
type RecordClass string

// Well-known record classes.
const (
	ClassWallet  RecordClass = "wallet"
	ClassURI     RecordClass = "uri"
	ClassAvatar  RecordClass = "avatar"
	ClassBio     RecordClass = "bio"
	ClassEmail   RecordClass = "email"
	ClassURL     RecordClass = "url"
	ClassTwitter RecordClass = "twitter"
	ClassDiscord RecordClass = "discord"
)

// CustomClassPrefix marks owner-defined classes, e.g. "custom:github".
const CustomClassPrefix = "custom:"

const maxCustomKeyLength = 32

var wellKnownClasses = map[RecordClass]bool{
	ClassWallet:  true,
	ClassURI:     true,
	ClassAvatar:  true,
	ClassBio:     true,
	ClassEmail:   true,
	ClassURL:     true,
	ClassTwitter: true,
	ClassDiscord: true,
}

// ParseRecordClass validates a class from external input.
func ParseRecordClass(s string) (RecordClass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	c := RecordClass(s)
	if wellKnownClasses[c] {
		return c, nil
	}
	key, ok := strings.CutPrefix(s, CustomClassPrefix)
	if !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidRecordClass, "unknown record class %q", s)
	}
	if key == "" || len(key) > maxCustomKeyLength {
		return "", dErrors.Newf(dErrors.CodeInvalidRecordClass, "custom record key must be 1-%d characters", maxCustomKeyLength)
	}
	for i := 0; i < len(key); i++ {
		ch := key[i]
		if !(ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9' || ch == '_' || ch == '-') {
			return "", dErrors.Newf(dErrors.CodeInvalidRecordClass, "invalid custom record key %q", key)
		}
	}
	return c, nil
}

// CustomClass builds a custom class from its key.
func CustomClass(key string) RecordClass {
	return RecordClass(CustomClassPrefix + key)
}

// IsCustom reports whether the class counts against the custom record cap.
func (c RecordClass) IsCustom() bool {
	return strings.HasPrefix(string(c), CustomClassPrefix)
}

func (c RecordClass) String() string {
	return string(c)
}

// Record is a key/value entry owned by a domain.
type Record struct {
	Domain    string      `json:"domain"`
	Class     RecordClass `json:"class"`
	Data      []byte      `json:"data"`
	UpdatedAt int64       `json:"updated_at"`
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	c := *r
	c.Data = append([]byte(nil), r.Data...)
	return &c
}
