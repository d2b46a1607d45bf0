package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectCanonicalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		variants []string
		expected string
	}{
		{
			name:     "more diacritics preferred",
			variants: []string{"Davis Pazars", "Dāvis Pazars"},
			expected: "Dāvis Pazars",
		},
		{
			name:     "natural casing wins on equal accent count",
			variants: []string{"ILZE KRONBERGA", "Ilze Kronberga"},
			expected: "Ilze Kronberga",
		},
		{
			name:     "diacritics beat casing",
			variants: []string{"Berzins", "BĒRZIŅŠ"},
			expected: "BĒRZIŅŠ",
		},
		{
			name:     "lexicographic tie break",
			variants: []string{"Anna Ozola", "Anna Ozolb"},
			expected: "Anna Ozola",
		},
		{
			name:     "single variant",
			variants: []string{"Kristaps Bērziņš"},
			expected: "Kristaps Bērziņš",
		},
		{
			name:     "empty input",
			variants: nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, SelectCanonicalName(tt.variants))
		})
	}
}

func TestSelectCanonicalName_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := []string{"Davis Pazars", "DĀVIS PAZARS", "Dāvis Pazars"}
	b := []string{"Dāvis Pazars", "Davis Pazars", "DĀVIS PAZARS"}

	assert.Equal(t, SelectCanonicalName(a), SelectCanonicalName(b))
	assert.Equal(t, "Dāvis Pazars", SelectCanonicalName(a))

	// Input must not be reordered.
	assert.Equal(t, []string{"Davis Pazars", "DĀVIS PAZARS", "Dāvis Pazars"}, a)
}
