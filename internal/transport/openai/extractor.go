// Package openai implements the criteria extraction call against an
// OpenAI-compatible vision/text model.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/gofedgroup/sourcing/internal/domain"
	"github.com/gofedgroup/sourcing/internal/domain/taxonomy"
	"github.com/gofedgroup/sourcing/internal/metrics"
)

const (
	extractionMaxTokens   = 500
	extractionTemperature = 0.2
)

// Form is the user-supplied part of an extraction request.
type Form struct {
	Sector   []string
	Keywords []string
}

// RawCriteria is the parsed, not-yet-validated model output.
type RawCriteria struct {
	Keywords     []string `json:"keywords"`
	ColorPalette []string `json:"colorPalette"`
	Application  []string `json:"application"`
	Performance  []string `json:"performance"`
}

// Extractor calls an OpenAI-compatible chat model with a closed-world prompt
// and parses its structured JSON output.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	tax     taxonomy.Taxonomy
	logger  *zap.Logger
}

// Config holds the extraction model settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewExtractor creates an extraction client.
func NewExtractor(cfg *Config, tax taxonomy.Taxonomy) *Extractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
		tax:     tax,
		logger:  logger,
	}
}

// Extract invokes the model in text-only or text+image mode and returns the
// parsed criteria. The returned values are NOT yet validated against the
// taxonomy; that happens in the extraction usecase.
func (e *Extractor) Extract(ctx context.Context, imageURL string, form Form) (RawCriteria, error) {
	hasImage := strings.TrimSpace(imageURL) != ""
	mode := "text"
	if hasImage {
		mode = "image"
	}

	userParts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: buildUserPrompt(form, hasImage)},
	}
	if hasImage {
		userParts = append(userParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    imageURL,
				Detail: openai.ImageURLDetailHigh,
			},
		})
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.buildSystemPrompt(hasImage)},
			{Role: openai.ChatMessageRoleUser, MultiContent: userParts},
		},
		MaxTokens:   extractionMaxTokens,
		Temperature: extractionTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.ExtractionRequestsTotal.WithLabelValues(e.model, mode, "error").Inc()
		return RawCriteria{}, parseAPIError(err)
	}

	metrics.ExtractionRequestsTotal.WithLabelValues(e.model, mode, "success").Inc()
	metrics.ExtractionRequestDuration.WithLabelValues(e.model, mode).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.ExtractionTokensTotal.WithLabelValues(e.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ExtractionTokensTotal.WithLabelValues(e.model, "completion").Add(float64(resp.Usage.CompletionTokens))
		metrics.ExtractionTokensTotal.WithLabelValues(e.model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	if len(resp.Choices) == 0 {
		return RawCriteria{}, fmt.Errorf("empty completion response: %w", domain.ErrMalformedOutput)
	}

	content := resp.Choices[0].Message.Content
	e.logger.Debug("extraction completed",
		zap.String("mode", mode),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return parseCriteria(content)
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Extractor) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// buildSystemPrompt renders the closed-world instruction embedding the full
// taxonomy. The model must pick values verbatim from the lists and never
// invent or combine terms.
func (e *Extractor) buildSystemPrompt(hasImage bool) string {
	intro := "a user will submit a form of the sector they work in and the keywords of the product they need."
	if hasImage {
		intro = "a user will submit a form of the sector they work in, the keywords of the product they need, " +
			"and an image related to what they are looking for."
	}

	var b strings.Builder
	b.WriteString("You are a commercial interiors sourcing assistant; ")
	b.WriteString(intro)
	b.WriteString("\nYour duty is to respond with the 3 keywords, 3 color palette values and 2 applications " +
		"most related to the client request, optionally with matching performance tags.\n")
	b.WriteString("Select every value verbatim from the lists below; " +
		"your response must not contain anything outside these lists.\n\n")

	b.WriteString("- Keywords are:\n")
	b.WriteString(e.tax.PromptList(taxonomy.CategoryKeyword))
	b.WriteString("\n\n- Color Palette are:\n")
	b.WriteString(e.tax.PromptList(taxonomy.CategoryColor))
	b.WriteString("\n\n- Performance are:\n")
	b.WriteString(e.tax.PromptList(taxonomy.CategoryPerformance))
	b.WriteString("\n\n- Application are:\n")
	b.WriteString(e.tax.PromptList(taxonomy.CategoryApplication))

	b.WriteString("\n\nExample of your output:\n")
	b.WriteString(`{
  "keywords": ["Minimal", "Textural", "Luxe"],
  "colorPalette": ["Cream", "White", "Neutral"],
  "application": ["Wallcovering", "Carpet"],
  "performance": ["Outdoor", "Sustainable"]
}
`)
	b.WriteString("\nNOTE: every value must be selected verbatim from the provided lists; " +
		"never invent or combine terms (no separators such as \"/\"). " +
		"Return ONLY valid JSON, no markdown formatting.")

	return b.String()
}

func buildUserPrompt(form Form, hasImage bool) string {
	sector := "Not specified"
	if len(form.Sector) > 0 {
		sector = strings.Join(form.Sector, ", ")
	}
	keywords := "Not specified"
	if len(form.Keywords) > 0 {
		keywords = strings.Join(form.Keywords, ", ")
	}

	analyze := "Please analyze the user keywords"
	if hasImage {
		analyze = "Please analyze the image and user keywords"
	}

	return fmt.Sprintf(
		"User form details:\n- Sector: %s\n- User Keywords: %s\n\n%s and provide the most relevant product criteria in JSON format.",
		sector, keywords, analyze,
	)
}

// parseCriteria parses the model output as strict JSON and checks the
// required fields are present.
func parseCriteria(content string) (RawCriteria, error) {
	var raw RawCriteria
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return RawCriteria{}, fmt.Errorf("%w: %w", domain.ErrMalformedOutput, err)
	}
	if len(raw.Keywords) == 0 || len(raw.ColorPalette) == 0 || len(raw.Application) == 0 {
		return RawCriteria{}, fmt.Errorf(
			"%w: keywords, colorPalette and application are required", domain.ErrIncompleteOutput)
	}
	return raw, nil
}

// parseAPIError maps transport and API failures onto ErrUpstreamUnavailable,
// carrying the upstream HTTP status code when the API reported one.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewUpstreamError(reqErr.HTTPStatusCode, string(reqErr.Body))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewUpstreamError(apiErr.HTTPStatusCode, apiErr.Message)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamError(0, "extraction timed out")
	}

	return domain.NewUpstreamError(0, err.Error())
}
