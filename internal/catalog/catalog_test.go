package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_StableOrder(t *testing.T) {
	deps := List()
	assert.Len(t, deps, 8)
	assert.Equal(t, []string{"transport", "water", "power", "environment", "urban", "health", "education", "police"}, IDs())
	assert.Equal(t, "Water Resources", deps[1].Name)
}

func TestList_ReturnsCopy(t *testing.T) {
	deps := List()
	deps[0].Name = "mutated"

	assert.Equal(t, "Transport", List()[0].Name)
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("power")
	assert.True(t, ok)
	assert.Equal(t, "Power", d.Name)

	_, ok = Lookup("parks")
	assert.False(t, ok)
}

func TestValidAndName(t *testing.T) {
	assert.True(t, Valid(DefaultDepartment))
	assert.False(t, Valid(""))
	assert.Equal(t, "Urban Development", Name("urban"))
	assert.Equal(t, "unknown", Name("unknown"))
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		text     string
		expected string
	}{
		{"Broken streetlight near market", "power"},
		{"Pothole detected", "transport"},
		{"Water logging after rain", "water"},
		{"Garbage accumulation", "environment"},
		{"Road flooded with sewage", "water"},
		{"Mosquito breeding in park", "health"},
		{"School wall collapsed", "education"},
		{"Infrastructure damage", "urban"},
		{"Something else entirely", DefaultDepartment},
		{"GARBAGE DUMP", "environment"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.text))
		})
	}
}
