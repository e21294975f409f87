package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "pns/pkg/domain-errors"
)

const validAddress = "00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678"

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Address
		wantErr bool
	}{
		{"lowercase hex", validAddress, Address(validAddress), false},
		{"uppercase is normalized", strings.ToUpper(validAddress), Address(validAddress), false},
		{"surrounding whitespace is trimmed", "  " + validAddress + "\n", Address(validAddress), false},

		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too short", validAddress[:40], "", true},
		{"too long", validAddress + "00", "", true},
		{"non hex", "zz" + validAddress[2:], "", true},
		{"sql injection", "'; DROP TABLE domains;--", "", true},
		{"null byte", validAddress[:20] + "\x00" + validAddress[21:], "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustParseAddress(t *testing.T) {
	assert.Equal(t, Address(validAddress), MustParseAddress(validAddress))
	assert.Panics(t, func() { MustParseAddress("nope") })
}
