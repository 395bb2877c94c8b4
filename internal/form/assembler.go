package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/joescharf/seva/internal/catalog"
	"github.com/joescharf/seva/internal/models"
)

// Assembler turns a completed draft into an Issue record.
type Assembler struct {
	IDs IDGenerator
	Now func() time.Time
}

// NewAssembler returns an Assembler using ULID ids and the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{IDs: NewULIDGenerator(), Now: time.Now}
}

// Submit validates the draft and packages it with department and images.
// The store is not touched.
func (a *Assembler) Submit(d Draft, department string, images []models.UploadedImage) (*models.Issue, error) {
	if missing := d.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}
	if !catalog.Valid(department) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDepartment, department)
	}

	urgency := models.IssueUrgency(strings.ToLower(strings.TrimSpace(d.Urgency)))
	if urgency == "" {
		urgency = models.IssueUrgencyMedium
	}
	if !urgency.Valid() {
		return nil, fmt.Errorf("%w: %q (use: low, medium, high)", ErrInvalidUrgency, d.Urgency)
	}

	now := a.now()
	imgs := make([]models.UploadedImage, len(images))
	copy(imgs, images)

	return &models.Issue{
		ID:           a.ids().NewID(now),
		Title:        d.Title,
		Description:  d.Description,
		Department:   department,
		Location:     d.Location,
		Urgency:      urgency,
		Status:       models.IssueStatusSubmitted,
		ContactPhone: strings.TrimSpace(d.ContactPhone),
		Images:       imgs,
		CreatedAt:    now,
	}, nil
}

func (a *Assembler) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

func (a *Assembler) ids() IDGenerator {
	if a.IDs == nil {
		a.IDs = NewULIDGenerator()
	}
	return a.IDs
}
