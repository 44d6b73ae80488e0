package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple name", in: "John Smith", want: "john smith"},
		{name: "last comma first", in: "Smith, John", want: "john smith"},
		{name: "comma with extra spaces", in: "  Smith ,  John  ", want: "john smith"},
		{name: "honorific stripped", in: "Mr. John Smith", want: "john smith"},
		{name: "suffix stripped", in: "John Smith Jr.", want: "john smith"},
		{name: "roman suffix stripped", in: "Smith, John III", want: "john smith"},
		{name: "punctuation removed", in: "O'Brien, Mary-Anne", want: "mary anne o brien"},
		{name: "whitespace collapsed", in: "John    Smith", want: "john smith"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
		{name: "placeholder unassigned", in: "UNASSIGNED", want: ""},
		{name: "placeholder open", in: "Open", want: ""},
		{name: "placeholder nan", in: "nan", want: ""},
		{name: "placeholder n/a", in: "N/A", want: ""},
		{name: "only titles", in: "Mr.", want: ""},
		{name: "decorated placeholder open", in: "Open.", want: ""},
		{name: "starred placeholder", in: "*OPEN*", want: ""},
		{name: "decorated placeholder n/a", in: "N/A.", want: ""},
		{name: "decorated placeholder no driver", in: "No Driver!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer()
			assert.Equal(t, tt.want, n.Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewNormalizer()

	inputs := []string{
		"Smith, John", "Mr. John Smith Jr.", "O'Brien, Mary-Anne", "jane doe",
		"Open.", "*OPEN*", "N/A.", "No Driver!",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalizeEquivalentForms(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, "john smith", n.Normalize("Smith, John"))
	assert.Equal(t, "john smith", n.Normalize("John Smith"))
}

func TestDisplayName(t *testing.T) {
	n := NewNormalizer()

	n.Normalize("Smith, John")
	assert.Equal(t, "Smith, John", n.DisplayName("john smith"))

	// First-seen spelling wins.
	n.Normalize("John Smith")
	assert.Equal(t, "Smith, John", n.DisplayName("john smith"))

	// Unknown names fall back to themselves.
	assert.Equal(t, "jane doe", n.DisplayName("jane doe"))
}

func TestIsTrailer(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "TLR-4521", want: true},
		{id: "T-100", want: true},
		{id: "TR-7", want: true},
		{id: "TRLR-88", want: true},
		{id: "TRAILER-2", want: true},
		{id: "trailer-2", want: true},
		{id: "DUMP TRAILER 40T", want: true},
		{id: "LOWBOY-9", want: true},
		{id: "BIG TLR 9", want: true},
		{id: "HAUL TRL 2", want: true},
		{id: "CTRL-1", want: false},
		{id: "PT-125", want: false},
		{id: "EX-210", want: false},
		{id: "TRUCK-5", want: false},
		{id: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTrailer(tt.id))
		})
	}
}

func TestNormalizeAssetID(t *testing.T) {
	assert.Equal(t, "PT-125", NormalizeAssetID(" pt-125 "))
	assert.Equal(t, "", NormalizeAssetID("  "))
}
