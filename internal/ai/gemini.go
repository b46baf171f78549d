package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClassifier implements Classifier using Google's Gemini models.
type GeminiClassifier struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClassifier initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiClassifier(ctx context.Context, apiKey string) (*GeminiClassifier, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Gemini 2.0 Flash: low latency, cheap enough for per-request use.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)

	return &GeminiClassifier{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (c *GeminiClassifier) Close() {
	c.client.Close()
}

// ClassifyMaterial asks the model which material category a described item
// belongs to.
func (c *GeminiClassifier) ClassifyMaterial(ctx context.Context, description string) (*Classification, error) {
	prompt := fmt.Sprintf("%s\n\nItem description: %s", classifySystemPrompt, description)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// JSON mode should already return bare JSON; strip markdown fences anyway.
	cleanJSON := cleanJSONString(responseText.String())

	var result Classification
	if err := json.Unmarshal([]byte(cleanJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, cleanJSON)
	}
	result.Material = strings.ToLower(strings.TrimSpace(result.Material))
	return &result, nil
}

const classifySystemPrompt = `Role: You are the sorting assistant for "reloop", a recyclable-pickup platform.
Task: classify the described household or business item into exactly one material category.

Allowed categories: plastic, paper, glass, cardboard, aluminum, copper, appliance, ewaste.
Categories glass, cardboard, appliance, aluminum and copper are regulated and require a handling disclaimer.

Respond with a single JSON object:
{"material": "<category>", "regulated": <bool>, "confidence": <0..1>, "note": "<one short preparation hint>"}

Rules:
- Pick the closest allowed category; never invent new ones.
- Mixed items: choose the dominant material and say so in the note.
- If the item is not recyclable at all, use the closest category with confidence 0.`

// cleanJSONString strips markdown code fences the model sometimes emits.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
