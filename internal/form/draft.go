// Package form collects report fields and assembles them into an Issue.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joescharf/seva/internal/models"
)

var (
	// ErrIncomplete is returned when a required field is empty.
	ErrIncomplete = errors.New("required fields missing")
	// ErrUnknownField is returned by Draft.Set for an unrecognised field name.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownDepartment is returned when the department is not in the catalog.
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrInvalidUrgency is returned for urgency values other than low, medium or high.
	ErrInvalidUrgency = errors.New("invalid urgency")
)

// Field names accepted by Draft.Set.
const (
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldLocation     = "location"
	FieldUrgency      = "urgency"
	FieldContactPhone = "contact_phone"
)

// Fields lists the draft fields in form order.
var Fields = []string{FieldTitle, FieldDescription, FieldLocation, FieldUrgency, FieldContactPhone}

// Draft holds the in-progress text fields of a report.
type Draft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Urgency      string `json:"urgency"`
	ContactPhone string `json:"contact_phone"`
}

// NewDraft returns an empty draft with urgency preselected to medium.
func NewDraft() Draft {
	return Draft{Urgency: string(models.IssueUrgencyMedium)}
}

// Set assigns value to the named field. No validation happens here.
func (d *Draft) Set(field, value string) error {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldDescription:
		d.Description = value
	case FieldLocation:
		d.Location = value
	case FieldUrgency:
		d.Urgency = value
	case FieldContactPhone, "phone", "contactPhone":
		d.ContactPhone = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Get returns the value of the named field.
func (d Draft) Get(field string) string {
	switch field {
	case FieldTitle:
		return d.Title
	case FieldDescription:
		return d.Description
	case FieldLocation:
		return d.Location
	case FieldUrgency:
		return d.Urgency
	case FieldContactPhone:
		return d.ContactPhone
	}
	return ""
}

// Missing returns the required fields that are empty or whitespace.
func (d Draft) Missing() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, FieldTitle)
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, FieldDescription)
	}
	if strings.TrimSpace(d.Location) == "" {
		missing = append(missing, FieldLocation)
	}
	return missing
}

// Ready reports whether the draft may be submitted.
func (d Draft) Ready() bool {
	return len(d.Missing()) == 0
}
