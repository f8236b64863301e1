package oracle

import (
	"context"
	"fmt"
	"strings"

	aiplatform "google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

// Vertex asks a Gemini model on Vertex AI.
type Vertex struct {
	svc   *aiplatform.Service
	model string
}

// NewVertex connects to the regional Vertex AI endpoint of location.
// Options given by the caller take precedence over the regional endpoint.
func NewVertex(ctx context.Context, project, location, model string, opts ...option.ClientOption) (*Vertex, error) {
	if project == "" || location == "" || model == "" {
		return nil, fmt.Errorf("NewVertex: project, location, and model are all required")
	}
	all := make([]option.ClientOption, 0, len(opts)+1)
	if location != "global" {
		all = append(all, option.WithEndpoint(fmt.Sprintf("https://%s-aiplatform.googleapis.com/", location)))
	}
	all = append(all, opts...)

	svc, err := aiplatform.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("NewVertex: failed to create aiplatform service: %w", err)
	}
	return &Vertex{
		svc:   svc,
		model: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", project, location, model),
	}, nil
}

// Model is the full resource name of the model.
func (v *Vertex) Model() string { return v.model }

// Generate sends the prompt as a single user turn and returns the text of the first candidate.
func (v *Vertex) Generate(ctx context.Context, prompt string) (string, error) {
	req := &aiplatform.GoogleCloudAiplatformV1GenerateContentRequest{
		Contents: []*aiplatform.GoogleCloudAiplatformV1Content{
			{
				Role:  "user",
				Parts: []*aiplatform.GoogleCloudAiplatformV1Part{{Text: prompt}},
			},
		},
	}
	resp, err := v.svc.Projects.Locations.Publishers.Models.GenerateContent(v.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("Generate: failed to generate content: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("Generate: prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Generate: no candidates returned")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("Generate: empty response (finish reason %q)", resp.Candidates[0].FinishReason)
	}
	return text, nil
}
