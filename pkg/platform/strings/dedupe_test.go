package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Equal(t, []string{}, DedupeAndTrim([]string{}))
	assert.Equal(t,
		[]string{"kafka-1:9092", "kafka-2:9092"},
		DedupeAndTrim([]string{" kafka-1:9092", "kafka-2:9092 ", "", "kafka-1:9092", "   "}),
	)
}

func TestDedupeAndTrimLower(t *testing.T) {
	got := DedupeAndTrimLower([]string{
		"  00A1B2C3D4E5F60718293A4B5C6D7E8F9012345678 ",
		"00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678",
		"URI",
	})
	assert.Equal(t, []string{"00a1b2c3d4e5f60718293a4b5c6d7e8f9012345678", "uri"}, got)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "blank", input: "  ", expected: nil},
		{name: "single", input: "uri", expected: []string{"uri"}},
		{name: "trims and dedupes", input: "uri, avatar ,uri,,", expected: []string{"uri", "avatar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
