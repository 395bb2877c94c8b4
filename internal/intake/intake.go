// Package intake filters uploaded files down to images and labels each one.
package intake

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/joescharf/seva/internal/models"
)

// ErrIndexOutOfRange is returned by Remove for an index outside the working set.
var ErrIndexOutOfRange = errors.New("image index out of range")

// Candidate is a file offered for upload. ContentType is the declared MIME type.
type Candidate struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// IsImage reports whether the declared type begins with "image/".
func (c Candidate) IsImage() bool {
	return strings.HasPrefix(c.ContentType, "image/")
}

// Intake is the working set of images for one report session.
// Images and their labels live in the same slice element so removal keeps them aligned.
type Intake struct {
	classifier Classifier
	images     []models.UploadedImage

	// OnChange, if set, receives a copy of the working set after every mutation.
	OnChange func([]models.UploadedImage)
}

// New creates an empty Intake. A nil classifier falls back to RandomClassifier.
func New(c Classifier) *Intake {
	if c == nil {
		c = NewRandomClassifier()
	}
	return &Intake{classifier: c}
}

// Accept partitions candidates into accepted images and rejected files.
// Accepted images are labelled and appended to the working set.
func (in *Intake) Accept(ctx context.Context, candidates []Candidate) ([]models.UploadedImage, []Candidate) {
	var accepted []models.UploadedImage
	var rejected []Candidate

	for _, c := range candidates {
		if !c.IsImage() {
			rejected = append(rejected, c)
			continue
		}

		size := c.Size
		if size == 0 {
			size = int64(len(c.Data))
		}
		img := models.UploadedImage{
			Name:        c.Name,
			ContentType: c.ContentType,
			SizeBytes:   size,
			Data:        c.Data,
		}

		label, err := in.classifier.Classify(ctx, img)
		if err != nil {
			slog.Debug("image classification failed", "name", c.Name, "error", err)
		} else {
			img.DetectionLabel = label
		}
		accepted = append(accepted, img)
	}

	in.images = append(in.images, accepted...)
	in.notify()
	return accepted, rejected
}

// Remove drops the image at index together with its label.
func (in *Intake) Remove(index int) ([]models.UploadedImage, error) {
	if index < 0 || index >= len(in.images) {
		return nil, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(in.images))
	}
	in.images = slices.Delete(in.images, index, index+1)
	in.notify()
	return in.Images(), nil
}

// Images returns a copy of the working set.
func (in *Intake) Images() []models.UploadedImage {
	out := make([]models.UploadedImage, len(in.images))
	copy(out, in.images)
	return out
}

// Labels returns the detection labels in image order.
func (in *Intake) Labels() []string {
	labels := make([]string, len(in.images))
	for i, img := range in.images {
		labels[i] = img.DetectionLabel
	}
	return labels
}

// Len returns the number of images in the working set.
func (in *Intake) Len() int { return len(in.images) }

// Reset clears the working set.
func (in *Intake) Reset() {
	in.images = nil
	in.notify()
}

func (in *Intake) notify() {
	if in.OnChange != nil {
		in.OnChange(in.Images())
	}
}

// RejectedNames returns the file names of rejected candidates.
func RejectedNames(rejected []Candidate) []string {
	names := make([]string, len(rejected))
	for i, c := range rejected {
		names[i] = c.Name
	}
	return names
}
