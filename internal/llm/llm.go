package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joescharf/seva/internal/models"
)

// supportedImageTypes are the media types the Messages API accepts as image blocks.
var supportedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Client wraps the Anthropic API for image labelling and report drafting.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// complete sends one user turn and returns the first text block with any
// markdown fencing stripped.
func (c *Client) complete(ctx context.Context, system string, maxTokens int64, blocks ...anthropic.ContentBlockParamUnion) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(blocks...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}
	return stripFencing(text), nil
}

func stripFencing(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}

// Classifier labels images by asking the model to pick one of a fixed set of labels.
type Classifier struct {
	client *Client
	labels []string
}

// NewClassifier returns a Classifier restricted to labels.
func NewClassifier(client *Client, labels []string) *Classifier {
	return &Classifier{client: client, labels: labels}
}

// buildClassifyPrompt constructs the system and user prompts for image labelling.
func buildClassifyPrompt(labels []string) (system string, user string) {
	system = `You triage photos attached to citizen grievance reports for a municipal portal.
Look at the image and answer with exactly one label from the allowed list, copied verbatim.
If none of the labels fit, answer with the single word NONE.
Answer with the label only: no punctuation, no explanation, no markdown.`

	var sb strings.Builder
	sb.WriteString("Allowed labels:\n")
	for _, l := range labels {
		sb.WriteString("- ")
		sb.WriteString(l)
		sb.WriteString("\n")
	}
	sb.WriteString("\nWhich label describes this photo?")
	user = sb.String()
	return
}

// matchLabel maps a model answer onto one of labels, case-insensitively.
func matchLabel(answer string, labels []string) (string, error) {
	answer = strings.Trim(strings.TrimSpace(answer), `."'`)
	for _, l := range labels {
		if strings.EqualFold(answer, l) {
			return l, nil
		}
	}
	return "", fmt.Errorf("model answer %q is not an allowed label", answer)
}

// Classify implements the image classifier used by intake.
func (c *Classifier) Classify(ctx context.Context, img models.UploadedImage) (string, error) {
	if !supportedImageTypes[img.ContentType] {
		return "", fmt.Errorf("unsupported image type for classification: %s", img.ContentType)
	}
	if len(img.Data) == 0 {
		return "", fmt.Errorf("image %s has no data", img.Name)
	}

	system, user := buildClassifyPrompt(c.labels)
	answer, err := c.client.complete(ctx, system, 64,
		anthropic.NewImageBlockBase64(img.ContentType, base64.StdEncoding.EncodeToString(img.Data)),
		anthropic.NewTextBlock(user),
	)
	if err != nil {
		return "", err
	}
	return matchLabel(answer, c.labels)
}

// ExtractedReport holds report fields drafted from a free-text complaint.
type ExtractedReport struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Department  string `json:"department"`
	Urgency     string `json:"urgency"`
}

// buildDraftPrompt constructs the system and user prompts for report drafting.
func buildDraftPrompt(text string, departments []string) (system string, user string) {
	system = `You turn a citizen's free-text complaint into a structured grievance report. Return ONLY a JSON object with these fields:
- "title": concise issue title (under 80 characters)
- "description": 1-3 sentence description of the problem
- "location": the address or landmark mentioned, or an empty string if none is given
- "department": one of the known department ids
- "urgency": one of "low", "medium", "high"

Rules:
- Default urgency to "medium" unless the text describes danger to people (high) or a cosmetic problem (low)
- Never invent a location that is not in the text
- Return valid JSON only, no markdown fencing or explanation`

	var sb strings.Builder
	if len(departments) > 0 {
		sb.WriteString("Known departments: ")
		sb.WriteString(strings.Join(departments, ", "))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Complaint:\n\n")
	sb.WriteString(text)
	user = sb.String()
	return
}

// DraftReport asks the model to fill report fields from free text.
func (c *Client) DraftReport(ctx context.Context, text string, departments []string) (*ExtractedReport, error) {
	system, user := buildDraftPrompt(text, departments)

	raw, err := c.complete(ctx, system, 1024, anthropic.NewTextBlock(user))
	if err != nil {
		return nil, err
	}

	var report ExtractedReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, raw)
	}
	return &report, nil
}
