// Package extract turns free-form messages (text, voice transcripts,
// receipt photos) into structured ledger entry candidates using Gemini.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"eucalito/internal/core"
	"eucalito/internal/ports"
)

const DefaultModelName = "gemini-2.5-flash"

// Gemini implements ports.Extractor on the GenAI API. The current
// exchange rate is injected into the system instruction on every call so
// the model can flag user-stated rates against the market one.
type Gemini struct {
	client *genai.Client
	model  string
	rates  ports.RateProvider
}

func NewGemini(ctx context.Context, apiKey, model string, rates ports.RateProvider) (*Gemini, error) {
	if model == "" {
		model = DefaultModelName
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model, rates: rates}, nil
}

// Extract implements ports.Extractor.
func (g *Gemini) Extract(ctx context.Context, message string) (ports.Extraction, error) {
	return g.extract(ctx, message, nil)
}

// ExtractWithImage additionally attaches a JPEG receipt photo.
func (g *Gemini) ExtractWithImage(ctx context.Context, message string, imageJPEG []byte) (ports.Extraction, error) {
	return g.extract(ctx, message, imageJPEG)
}

func (g *Gemini) extract(ctx context.Context, message string, imageJPEG []byte) (ports.Extraction, error) {
	rate, source := g.rates.UYURate(ctx, core.Today())

	parts := []*genai.Part{}
	if len(imageJPEG) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: "image/jpeg",
				Data:     imageJPEG,
			},
		})
	}
	parts = append(parts, &genai.Part{
		Text: fmt.Sprintf("Hoy es %s. %s", core.Today().ISO(), message),
	})

	contents := []*genai.Content{{Role: "user", Parts: parts}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: buildSystemInstruction(rate)}},
		},
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return ports.Extraction{}, fmt.Errorf("generate content: %w", err)
	}

	rawText := resp.Text()
	if rawText == "" {
		return ports.Extraction{}, fmt.Errorf("empty response from model")
	}

	extraction, err := decodeResponse(rawText)
	if err != nil {
		slog.ErrorContext(ctx, "model returned unusable output",
			"error", err, "raw", rawText)
		return ports.Extraction{}, err
	}

	slog.InfoContext(ctx, "message extracted",
		"transactions", len(extraction.Transactions),
		"booking", extraction.Booking != nil,
		"refused", extraction.Refusal != "",
		"rate_source", string(source))
	return extraction, nil
}
