// Package gemini implements provider.Oracle on top of the Google Gemini API.
package gemini

import (
	"context"

	"go.uber.org/zap"

	"github.com/Cyclone1070/agentteam/internal/provider"
)

// GeminiProvider generates text with a single Gemini model.
type GeminiProvider struct {
	client      GeminiClient
	modelName   string
	temperature *float32
	logger      *zap.Logger
}

// New creates a GeminiProvider. temperature may be nil to use the model
// default. logger may be nil.
func New(client GeminiClient, modelName string, temperature *float32, logger *zap.Logger) *GeminiProvider {
	if client == nil {
		panic("client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
		logger:      logger,
	}
}

// Model returns the model name requests are sent to.
func (p *GeminiProvider) Model() string {
	return p.modelName
}

// Generate sends req to Gemini and returns the concatenated text of the
// first candidate.
func (p *GeminiProvider) Generate(ctx context.Context, req *provider.Request) (string, error) {
	contents := toGeminiContents(req.Messages)
	config := toGeminiConfig(req, p.temperature)

	resp, err := p.client.GenerateContent(ctx, p.modelName, contents, config)
	if err != nil {
		return "", mapGeminiError(err)
	}

	text, usage, err := fromGeminiResponse(resp)
	if usage != nil {
		p.logger.Debug("generation finished",
			zap.String("model", p.modelName),
			zap.Int32("prompt_tokens", usage.PromptTokenCount),
			zap.Int32("completion_tokens", usage.CandidatesTokenCount),
		)
	}
	return text, err
}
