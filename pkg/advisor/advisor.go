// Package advisor produces the AI recommendation shown under a comparison.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/younsl/pricenexus/internal/models"
	"github.com/younsl/pricenexus/pkg/backend"
	"go.uber.org/zap"
)

// DefaultModel is the chat model used when none is configured
const DefaultModel = "gpt-4o-mini"

// ErrEmptyRecommendation is returned when the model answers without content
var ErrEmptyRecommendation = errors.New("empty recommendation")

// Recommender explains which of the compared instances fits best
type Recommender interface {
	Recommend(ctx context.Context, rows []models.ComparisonRow) (string, error)
}

// Error wraps a failed recommendation for display
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "Failed to get AI recommendation: " + backend.ErrorMessage(e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// BackendAPI is the backend call behind BackendRecommender
type BackendAPI interface {
	Recommend(ctx context.Context, refs []models.VMRef) (string, error)
}

// BackendRecommender asks the pricing backend's AI endpoint
type BackendRecommender struct {
	api BackendAPI
}

// NewBackendRecommender creates a recommender backed by the pricing backend
func NewBackendRecommender(api BackendAPI) *BackendRecommender {
	return &BackendRecommender{api: api}
}

// Recommend implements Recommender
func (r *BackendRecommender) Recommend(ctx context.Context, rows []models.ComparisonRow) (string, error) {
	refs := make([]models.VMRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, models.VMRef{Region: row.Spec.Region, Name: row.Spec.Name})
	}

	text, err := r.api.Recommend(ctx, refs)
	if err != nil {
		return "", &Error{Err: err}
	}
	return strings.TrimSpace(text), nil
}

// ChatAPI is the OpenAI call behind OpenAIRecommender
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIRecommender prompts an OpenAI chat model with the rated comparison rows
type OpenAIRecommender struct {
	chat   ChatAPI
	model  string
	logger *zap.Logger
}

// NewOpenAIRecommender creates a recommender using the OpenAI API.
// A non-empty baseURL points the client at a compatible endpoint.
func NewOpenAIRecommender(apiKey, model, baseURL string, logger *zap.Logger) (*OpenAIRecommender, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key is not configured")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewOpenAIRecommenderWithAPI(openai.NewClientWithConfig(cfg), model, logger), nil
}

// NewOpenAIRecommenderWithAPI creates a recommender with a custom chat client
func NewOpenAIRecommenderWithAPI(chat ChatAPI, model string, logger *zap.Logger) *OpenAIRecommender {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIRecommender{chat: chat, model: model, logger: logger}
}

// Recommend implements Recommender
func (r *OpenAIRecommender) Recommend(ctx context.Context, rows []models.ComparisonRow) (string, error) {
	prompt := BuildPrompt(rows)
	r.logger.Debug("requesting recommendation", zap.String("model", r.model), zap.Int("instances", len(rows)))

	resp, err := r.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", &Error{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Err: ErrEmptyRecommendation}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &Error{Err: ErrEmptyRecommendation}
	}
	return text, nil
}

// BuildPrompt describes every compared instance with its price, derived metrics and ratings
func BuildPrompt(rows []models.ComparisonRow) string {
	var b strings.Builder
	b.WriteString("I'm comparing cloud virtual machine sizes. Recommend the best value option in at most 3 lines and mention the trade-off against the runner-up.\n\nInstances:\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %.0f vCPUs, %.1fGB memory, %s, %s %s/hour",
			row.Label(), row.Spec.VCPUs, row.Spec.MemoryGB, cpuArch(row.Spec), row.EffectivePrice.String(), currency(row))
		if row.PriceType != "" {
			fmt.Fprintf(&b, " (%s)", row.PriceType)
		}
		fmt.Fprintf(&b, ", %.0f IOPS/vCPU, %.2fGB memory/vCPU, %.1fGB storage/vCPU",
			row.IOPSPerVCPU, row.MemoryPerVCPU, row.StoragePerVCPU)
		if row.Spec.LowPriority {
			fmt.Fprintf(&b, ", spot capable (saves about %s/hour)", row.SpotSavings.String())
		}
		fmt.Fprintf(&b, ". Ratings: vCPU %d/5, memory %d/5, price %d/5.\n",
			row.Ratings.VCPUs, row.Ratings.MemoryGB, row.Ratings.Price)
	}
	return b.String()
}

func cpuArch(spec models.InstanceSpec) string {
	if spec.CPUArchitecture == "" {
		return "unknown architecture"
	}
	return spec.CPUArchitecture
}

func currency(row models.ComparisonRow) string {
	if row.Currency == "" {
		return "USD"
	}
	return row.Currency
}
