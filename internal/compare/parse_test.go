package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResultTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
		ok       bool
	}{
		{name: "minutes and seconds", input: "52:09", expected: 3129, ok: true},
		{name: "hours minutes seconds", input: "1:01:59", expected: 3719, ok: true},
		{name: "leading whitespace", input: " 41:02 ", expected: 2462, ok: true},
		{name: "blank means no time", input: "", ok: false},
		{name: "zero means no time", input: "0", ok: false},
		{name: "x means no time", input: "x", ok: false},
		{name: "dash means no time", input: "-", ok: false},
		{name: "bare number rejected", input: "3129", ok: false},
		{name: "too many fields rejected", input: "1:02:03:04", ok: false},
		{name: "garbage rejected", input: "ab:cd", ok: false},
		{name: "negative component rejected", input: "1:-5", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseResultTime(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestParseDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected float64
		ok       bool
	}{
		{name: "dot separator", input: "10.0", expected: 10.0, ok: true},
		{name: "comma separator", input: "10,5", expected: 10.5, ok: true},
		{name: "integer", input: "21", expected: 21, ok: true},
		{name: "whitespace trimmed", input: " 5.2 ", expected: 5.2, ok: true},
		{name: "zero rejected", input: "0", ok: false},
		{name: "negative rejected", input: "-10", ok: false},
		{name: "blank rejected", input: "", ok: false},
		{name: "garbage rejected", input: "10km", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDistance(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}
