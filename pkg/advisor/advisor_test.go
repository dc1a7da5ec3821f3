package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/backend"
	"go.uber.org/zap"
)

func rows() []models.ComparisonRow {
	return []models.ComparisonRow{
		{
			Spec:           models.InstanceSpec{Region: "eastus", Name: "D2s_v3", VCPUs: 2, MemoryGB: 8, LowPriority: true, CPUArchitecture: "x64"},
			EffectivePrice: decimal.RequireFromString("0.096"),
			SpotSavings:    decimal.RequireFromString("0.0192"),
			PriceType:      "Consumption",
			Ratings:        models.Ratings{VCPUs: 1, MemoryGB: 1, Price: 5},
		},
		{
			Spec:           models.InstanceSpec{Region: "westus", Name: "D4s_v3", VCPUs: 4, MemoryGB: 16},
			EffectivePrice: decimal.RequireFromString("0.192"),
			Currency:       "EUR",
			Ratings:        models.Ratings{VCPUs: 5, MemoryGB: 5, Price: 1},
		},
	}
}

type fakeBackend struct {
	refs []models.VMRef
	text string
	err  error
}

func (f *fakeBackend) Recommend(_ context.Context, refs []models.VMRef) (string, error) {
	f.refs = refs
	return f.text, f.err
}

func TestBackendRecommender(t *testing.T) {
	api := &fakeBackend{text: "  Pick D2s_v3.\n"}
	text, err := NewBackendRecommender(api).Recommend(context.Background(), rows())
	require.NoError(t, err)
	assert.Equal(t, "Pick D2s_v3.", text)
	assert.Equal(t, []models.VMRef{{Region: "eastus", Name: "D2s_v3"}, {Region: "westus", Name: "D4s_v3"}}, api.refs)
}

func TestBackendRecommender_Error(t *testing.T) {
	api := &fakeBackend{err: &backend.APIError{StatusCode: 500, Message: "model overloaded"}}
	_, err := NewBackendRecommender(api).Recommend(context.Background(), rows())
	assert.EqualError(t, err, "Failed to get AI recommendation: model overloaded")

	var apiErr *backend.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(rows())
	assert.Contains(t, prompt, "- D2s_v3 (eastus): 2 vCPUs, 8.0GB memory, x64, 0.096 USD/hour (Consumption)")
	assert.Contains(t, prompt, "spot capable (saves about 0.0192/hour)")
	assert.Contains(t, prompt, "- D4s_v3 (westus): 4 vCPUs, 16.0GB memory, unknown architecture, 0.192 EUR/hour,")
	assert.Contains(t, prompt, "Ratings: vCPU 5/5, memory 5/5, price 1/5.")
}

func TestOpenAIRecommender(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" D2s_v3 wins on price. "}}]}`))
	}))
	defer srv.Close()

	r, err := NewOpenAIRecommender("sk-test", "", srv.URL, zap.NewNop())
	require.NoError(t, err)

	text, err := r.Recommend(context.Background(), rows())
	require.NoError(t, err)
	assert.Equal(t, "D2s_v3 wins on price.", text)
	assert.Equal(t, DefaultModel, got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "D4s_v3 (westus)")
}

func TestOpenAIRecommender_Errors(t *testing.T) {
	_, err := NewOpenAIRecommender("", "gpt-4o", "", nil)
	assert.ErrorContains(t, err, "api key")

	r := NewOpenAIRecommenderWithAPI(chatFunc(func() (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	}), "gpt-4o", nil)
	_, err = r.Recommend(context.Background(), rows())
	assert.ErrorIs(t, err, ErrEmptyRecommendation)
	assert.EqualError(t, err, "Failed to get AI recommendation: empty recommendation")

	r = NewOpenAIRecommenderWithAPI(chatFunc(func() (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, errors.New("rate limited")
	}), "gpt-4o", nil)
	_, err = r.Recommend(context.Background(), rows())
	assert.EqualError(t, err, "Failed to get AI recommendation: rate limited")
}

type chatFunc func() (openai.ChatCompletionResponse, error)

func (f chatFunc) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f()
}
