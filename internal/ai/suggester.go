// Package ai suggests a spending category for a transaction description
// using Gemini.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"google.golang.org/genai"

	"github.com/Rishabh-devloper/wealthwise/internal/core"
)

// CategorySuggester maps a free-text transaction description and its
// amount to one of the known category labels.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, description string, amount decimal.Decimal) (string, error)
}

// GeminiSuggester asks a Gemini model to classify descriptions. Answers
// outside the known vocabulary fall back to "Other".
type GeminiSuggester struct {
	client *genai.Client
	model  string
}

func NewGeminiSuggester(ctx context.Context, model string) (*GeminiSuggester, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiSuggester{client: client, model: model}, nil
}

type suggestion struct {
	Category string `json:"category"`
}

func (s *GeminiSuggester) SuggestCategory(ctx context.Context, description string, amount decimal.Decimal) (string, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return "", fmt.Errorf("empty description")
	}

	prompt := fmt.Sprintf(
		"You classify personal finance transactions.\n\n"+
			"Task:\n"+
			"- Pick the single best category for the transaction below.\n"+
			"- Allowed categories: %s.\n"+
			"- Output STRICT JSON only (no comments, no extra text).\n"+
			"- Output exactly one object: {\"category\": \"<label>\"}.\n"+
			"- Do NOT wrap the response in code fences.\n\n"+
			"Transaction description: %q\n"+
			"Transaction amount: %s\n",
		strings.Join(core.Categories, ", "), description, amount.StringFixed(2))

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("empty response from model")
	}

	var parsed suggestion
	if err := json.Unmarshal([]byte(cleanModelJSON(rawText)), &parsed); err != nil {
		return "", fmt.Errorf("unmarshal suggestion: %w", err)
	}

	category := strings.TrimSpace(parsed.Category)
	if !core.IsKnownCategory(category) {
		slog.WarnContext(ctx, "Model suggested unknown category, falling back",
			"suggested", category)
		return "Other", nil
	}
	return category, nil
}

// cleanModelJSON strips Markdown fences and surrounding junk when the
// model ignores the output instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
