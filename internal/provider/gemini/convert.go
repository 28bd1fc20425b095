package gemini

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/Cyclone1070/agentteam/internal/provider"
)

// toGeminiContents converts prompt messages to Gemini contents. Adjacent
// messages with the same role are merged into one content with several
// parts, and user messages with a Name are prefixed with it.
func toGeminiContents(messages []provider.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		role := string(genai.RoleUser)
		if msg.Role == provider.RoleModel {
			role = string(genai.RoleModel)
		}

		text := msg.Content
		if msg.Name != "" && msg.Role != provider.RoleModel {
			text = fmt.Sprintf("[%s]: %s", msg.Name, msg.Content)
		}

		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, genai.NewPartFromText(text))
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, genai.Role(role)))
	}

	return contents
}

// toGeminiConfig builds the request config. The request temperature wins
// over the provider default.
func toGeminiConfig(req *provider.Request, defaultTemperature *float32) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		SafetySettings: defaultSafetySettings(),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	switch {
	case req.Temperature != nil:
		config.Temperature = req.Temperature
	case defaultTemperature != nil:
		config.Temperature = defaultTemperature
	}
	return config
}

// defaultSafetySettings returns safety settings with BLOCK_NONE for all categories.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// fromGeminiResponse extracts the text of the first candidate. A response
// cut off by the token limit returns its partial text with an error.
func fromGeminiResponse(resp *genai.GenerateContentResponse) (string, *genai.GenerateContentResponseUsageMetadata, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", resp.UsageMetadata, &provider.ProviderError{
				Code:       provider.ErrorCodeContentBlocked,
				Message:    fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason),
				Underlying: provider.ErrContentBlocked,
			}
		}
		return "", nil, &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    "no candidates in response",
			Underlying: provider.ErrEmptyResponse,
		}
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", resp.UsageMetadata, &provider.ProviderError{
			Code:       provider.ErrorCodeContentBlocked,
			Message:    "content blocked by safety filters",
			Underlying: provider.ErrContentBlocked,
		}
	}

	var b strings.Builder
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			if part != nil && !part.Thought {
				b.WriteString(part.Text)
			}
		}
	}
	text := b.String()

	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return text, resp.UsageMetadata, &provider.ProviderError{
			Code:    provider.ErrorCodeContextLength,
			Message: "response truncated due to max tokens",
		}
	}
	return text, resp.UsageMetadata, nil
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	code, message, ok := apiErrorDetails(err)
	if !ok {
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
			Retryable:  true,
		}
	}

	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case http.StatusTooManyRequests:
		// The transport has already spent its retry budget.
		return &provider.ProviderError{
			Code:       provider.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
			Retryable:  true,
		}
	case http.StatusBadRequest:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", message),
			Underlying: err,
		}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
			Retryable:  true,
		}
	default:
		return &provider.ProviderError{
			Code:       provider.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", message),
			Underlying: err,
			Retryable:  true,
		}
	}
}

// apiErrorDetails accepts the SDK's APIError by value or by pointer.
func apiErrorDetails(err error) (int, string, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue.Code, byValue.Message, true
	}
	var byPointer *genai.APIError
	if errors.As(err, &byPointer) && byPointer != nil {
		return byPointer.Code, byPointer.Message, true
	}
	return 0, "", false
}
