package intake

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/joescharf/seva/internal/models"
)

// DetectionLabels is the fixed set of placeholder detection results.
var DetectionLabels = []string{
	"Pothole detected",
	"Road damage identified",
	"Broken streetlight found",
	"Garbage accumulation",
	"Water logging",
	"Infrastructure damage",
}

// Classifier assigns a detection label to an accepted image.
// A returned error leaves the image unlabelled.
type Classifier interface {
	Classify(ctx context.Context, img models.UploadedImage) (string, error)
}

// RandomClassifier picks a label uniformly at random without inspecting the image.
type RandomClassifier struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomClassifier returns a RandomClassifier seeded from the clock.
func NewRandomClassifier() *RandomClassifier {
	return NewSeededClassifier(time.Now().UnixNano())
}

// NewSeededClassifier returns a RandomClassifier with a fixed seed.
func NewSeededClassifier(seed int64) *RandomClassifier {
	return &RandomClassifier{rng: rand.New(rand.NewSource(seed))}
}

func (c *RandomClassifier) Classify(_ context.Context, _ models.UploadedImage) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return DetectionLabels[c.rng.Intn(len(DetectionLabels))], nil
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, img models.UploadedImage) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, img models.UploadedImage) (string, error) {
	return f(ctx, img)
}
