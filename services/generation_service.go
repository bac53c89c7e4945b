package services

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/regsentry/directive-rag/config"
)

// Generator produces a single non-streaming completion for a grounded
// prompt. The system instruction constrains the model to the supplied
// context; implementations must not fabricate a local answer on failure.
type Generator interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// GeminiGenerator calls the Gemini API with a low temperature and a
// bounded output length, favoring determinism for compliance answers.
type GeminiGenerator struct {
	client *genai.Client
	cfg    config.GenerationConfig
}

func NewGeminiGenerator(client *genai.Client, cfg config.GenerationConfig) *GeminiGenerator {
	return &GeminiGenerator{client: client, cfg: cfg}
}

// Complete implements Generator.
func (g *GeminiGenerator) Complete(ctx context.Context, system, user string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: systemContent(system),
		Temperature:       genai.Ptr[float32](g.cfg.Temperature),
		MaxOutputTokens:   int32(g.cfg.MaxOutputTokens),
	})
	if err != nil {
		return "", &ProviderError{Op: "generate", Err: err}
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "I'm sorry, I couldn't generate a response.", nil
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}

func systemContent(prompt string) *genai.Content {
	contents := genai.Text(prompt)
	if len(contents) == 0 {
		return nil
	}
	return contents[0]
}
