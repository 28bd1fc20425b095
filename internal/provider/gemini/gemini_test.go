package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Cyclone1070/agentteam/internal/provider"
)

func TestGenerate_TextResponse(t *testing.T) {
	var gotModel string
	var gotContents []*genai.Content
	var gotConfig *genai.GenerateContentConfig
	client := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotModel, gotContents, gotConfig = model, contents, config
			return textResponse(genai.FinishReasonStop, "Hello ", "there!"), nil
		},
	}
	temp := float32(0.2)
	p := New(client, "gemini-2.5-flash", &temp, nil)

	out, err := p.Generate(context.Background(), &provider.Request{
		System: "You are QA.",
		Messages: []provider.Message{
			{Role: provider.RoleUser, Name: "User", Content: "build it"},
			{Role: provider.RoleModel, Content: "[I am QA] checking"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", out)
	assert.Equal(t, "gemini-2.5-flash", gotModel)
	require.Len(t, gotContents, 2)
	assert.Equal(t, "[User]: build it", gotContents[0].Parts[0].Text)
	assert.Equal(t, "model", gotContents[1].Role)
	require.NotNil(t, gotConfig.SystemInstruction)
	assert.Equal(t, "You are QA.", gotConfig.SystemInstruction.Parts[0].Text)
	assert.Equal(t, &temp, gotConfig.Temperature)
	assert.Len(t, gotConfig.SafetySettings, 4)
}

func TestGenerate_RequestTemperatureWins(t *testing.T) {
	var gotConfig *genai.GenerateContentConfig
	client := &MockGeminiClient{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			gotConfig = config
			return textResponse(genai.FinishReasonStop, "ok"), nil
		},
	}
	def, override := float32(0.7), float32(0)
	p := New(client, "m", &def, nil)

	_, err := p.Generate(context.Background(), &provider.Request{
		Messages:    []provider.Message{{Role: provider.RoleUser, Content: "pick"}},
		Temperature: &override,
	})

	require.NoError(t, err)
	assert.Equal(t, float32(0), *gotConfig.Temperature)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		err      error
		wantCode provider.ErrorCode
		wantText string
	}{
		{
			name:     "rate limit after retries",
			err:      &genai.APIError{Code: 429, Message: "quota"},
			wantCode: provider.ErrorCodeRateLimit,
		},
		{
			name:     "auth",
			err:      &genai.APIError{Code: 403, Message: "denied"},
			wantCode: provider.ErrorCodeAuth,
		},
		{
			name:     "unavailable",
			err:      &genai.APIError{Code: 503},
			wantCode: provider.ErrorCodeUnavailable,
		},
		{
			name:     "transport",
			err:      errors.New("connection reset"),
			wantCode: provider.ErrorCodeNetwork,
		},
		{
			name:     "no candidates",
			resp:     &genai.GenerateContentResponse{},
			wantCode: provider.ErrorCodeInvalidRequest,
		},
		{
			name:     "safety",
			resp:     textResponse(genai.FinishReasonSafety),
			wantCode: provider.ErrorCodeContentBlocked,
		},
		{
			name:     "max tokens keeps partial text",
			resp:     textResponse(genai.FinishReasonMaxTokens, "partial"),
			wantCode: provider.ErrorCodeContextLength,
			wantText: "partial",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockGeminiClient{
				GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
					return tt.resp, tt.err
				},
			}
			out, err := New(client, "m", nil, nil).Generate(context.Background(), provider.Prompt("hi"))

			var perr *provider.ProviderError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantCode, perr.Code)
			assert.Equal(t, tt.wantText, out)
		})
	}
}

func TestToGeminiContents_MergesAdjacentRoles(t *testing.T) {
	contents := toGeminiContents([]provider.Message{
		{Role: provider.RoleUser, Name: "Programmer", Content: "wrote main.go"},
		{Role: provider.RoleUser, Name: "System_Interceptor", Content: "[Tool Result (WriteFile - main.go)]: ok"},
		{Role: provider.RoleUser, Content: "   "},
		{Role: provider.RoleModel, Content: "[I am QA] running tests"},
	})

	require.Len(t, contents, 2)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "[Programmer]: wrote main.go", contents[0].Parts[0].Text)
	assert.Equal(t, "[System_Interceptor]: [Tool Result (WriteFile - main.go)]: ok", contents[0].Parts[1].Text)
	assert.Equal(t, "[I am QA] running tests", contents[1].Parts[0].Text)
}

func TestFromGeminiResponse_SkipsThoughts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "let me think", Thought: true},
				{Text: "answer"},
			}},
			FinishReason: genai.FinishReasonStop,
		}},
	}

	text, _, err := fromGeminiResponse(resp)

	require.NoError(t, err)
	assert.Equal(t, "answer", text)
}
