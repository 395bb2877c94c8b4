package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/seva/internal/models"
)

var testLabels = []string{"Pothole detected", "Water logging"}

func TestBuildClassifyPrompt(t *testing.T) {
	system, user := buildClassifyPrompt(testLabels)

	assert.Contains(t, system, "exactly one label")
	assert.Contains(t, system, "NONE")
	assert.Contains(t, user, "- Pothole detected\n")
	assert.Contains(t, user, "- Water logging\n")
}

func TestMatchLabel(t *testing.T) {
	tests := []struct {
		answer  string
		want    string
		wantErr bool
	}{
		{"Pothole detected", "Pothole detected", false},
		{"  water logging.\n", "Water logging", false},
		{`"Pothole detected"`, "Pothole detected", false},
		{"NONE", "", true},
		{"A cat", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got, err := matchLabel(tt.answer, testLabels)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_RejectsBeforeCallingAPI(t *testing.T) {
	c := NewClassifier(NewClient("test-key", "claude-haiku-4-5-20251001"), testLabels)
	ctx := context.Background()

	_, err := c.Classify(ctx, models.UploadedImage{Name: "a.svg", ContentType: "image/svg+xml", Data: []byte("<svg/>")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image type")

	_, err = c.Classify(ctx, models.UploadedImage{Name: "empty.png", ContentType: "image/png"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestStripFencing(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFencing("```json\n{\"a\":1}\n```"))
	assert.Equal(t, "plain", stripFencing("  plain \n"))
}

func TestBuildDraftPrompt(t *testing.T) {
	t.Run("with departments", func(t *testing.T) {
		system, user := buildDraftPrompt("Streetlight out near MG Road", []string{"power", "water"})

		assert.Contains(t, system, "JSON object")
		assert.Contains(t, system, `"department"`)
		assert.Contains(t, system, `"urgency"`)
		assert.Contains(t, system, `"low"`)
		assert.Contains(t, user, "Known departments: power, water")
		assert.Contains(t, user, "Streetlight out near MG Road")
	})

	t.Run("without departments", func(t *testing.T) {
		_, user := buildDraftPrompt("text", nil)
		assert.NotContains(t, user, "Known departments")
	})
}
