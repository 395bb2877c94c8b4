// Package catalog holds the fixed list of departments an issue can be routed to.
package catalog

import (
	"strings"

	"github.com/joescharf/seva/internal/models"
)

// DefaultDepartment is the selection a fresh report session starts with.
const DefaultDepartment = "transport"

var departments = []models.Department{
	{ID: "transport", Name: "Transport", Icon: "truck", ColorTag: "primary"},
	{ID: "water", Name: "Water Resources", Icon: "droplets", ColorTag: "blue-500"},
	{ID: "power", Name: "Power", Icon: "zap", ColorTag: "yellow-500"},
	{ID: "environment", Name: "Environment", Icon: "tree-pine", ColorTag: "accent"},
	{ID: "urban", Name: "Urban Development", Icon: "building", ColorTag: "gray-500"},
	{ID: "health", Name: "Health", Icon: "heart", ColorTag: "red-500"},
	{ID: "education", Name: "Education", Icon: "graduation-cap", ColorTag: "purple-500"},
	{ID: "police", Name: "Police", Icon: "shield", ColorTag: "government"},
}

// List returns the departments in display order. The slice is a copy.
func List() []models.Department {
	out := make([]models.Department, len(departments))
	copy(out, departments)
	return out
}

// Lookup returns the department with the given id.
func Lookup(id string) (models.Department, bool) {
	for _, d := range departments {
		if d.ID == id {
			return d, true
		}
	}
	return models.Department{}, false
}

// Valid reports whether id names a known department.
func Valid(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// Name returns the display name for id, or id itself when unknown.
func Name(id string) string {
	if d, ok := Lookup(id); ok {
		return d.Name
	}
	return id
}

// IDs returns the department ids in display order.
func IDs() []string {
	ids := make([]string, len(departments))
	for i, d := range departments {
		ids[i] = d.ID
	}
	return ids
}

// suggestKeywords maps a department to words that usually indicate it.
// Earlier entries win when text matches more than one department.
var suggestKeywords = []struct {
	department string
	words      []string
}{
	{"power", []string{"streetlight", "street light", "electricity", "power cut", "outage", "transformer", "wire"}},
	{"water", []string{"water logging", "waterlogging", "pipeline", "leak", "drain", "sewage", "tap", "flood"}},
	{"environment", []string{"garbage", "waste", "litter", "pollution", "tree", "dump", "smoke"}},
	{"transport", []string{"pothole", "road", "traffic", "bus", "signal", "footpath"}},
	{"health", []string{"hospital", "clinic", "mosquito", "dengue", "medical"}},
	{"education", []string{"school", "teacher", "college"}},
	{"police", []string{"theft", "crime", "harassment", "noise", "unsafe"}},
	{"urban", []string{"building", "construction", "encroachment", "park", "infrastructure"}},
}

// Suggest infers a department from free text using keyword heuristics.
// Returns DefaultDepartment if nothing matches.
func Suggest(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range suggestKeywords {
		for _, kw := range entry.words {
			if strings.Contains(lower, kw) {
				return entry.department
			}
		}
	}
	return DefaultDepartment
}
