package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogPost_Paragraphs(t *testing.T) {
	p := &BlogPost{Content: "First paragraph.\n\n  Second one.  \n\n\n\nThird."}

	assert.Equal(t, []string{"First paragraph.", "Second one.", "Third."}, p.Paragraphs())
}

func TestBlogFilter_Match(t *testing.T) {
	post := &BlogPost{Category: "Home", Tags: []string{"Flood", "Claims"}}

	tests := []struct {
		name     string
		filter   BlogFilter
		expected bool
	}{
		{"empty filter", BlogFilter{}, true},
		{"category match ignores case", BlogFilter{Category: "home"}, true},
		{"category miss", BlogFilter{Category: "Auto"}, false},
		{"tag match", BlogFilter{Tag: "claims"}, true},
		{"tag miss", BlogFilter{Tag: "boats"}, false},
		{"both must match", BlogFilter{Category: "Home", Tag: "boats"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.filter.Match(post))
		})
	}
}

func TestParseContacts(t *testing.T) {
	contacts, err := ParseContacts([]byte(`[{"id":"abc123","name":"Jane","tags":["vip"]},{"id":7}]`))
	require.NoError(t, err)
	require.Len(t, contacts, 2)

	assert.Equal(t, "abc123", contacts[0].ID())
	assert.Equal(t, "Jane", contacts[0]["name"])
	assert.Empty(t, contacts[1].ID(), "non-string ids are ignored")

	_, err = ParseContacts([]byte(`{"id":"not-an-array"}`))
	assert.Error(t, err)
}
