package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/listforge/backend/internal/domain/integration"
	"github.com/listforge/backend/internal/domain/listing"
	"github.com/listforge/backend/internal/domain/shared"
)

// maxResponseSize limits response body size to prevent memory exhaustion
const maxResponseSize = 4 * 1024 * 1024 // 4MB

// Runtime setting keys resolved per call when a settings source is attached
const (
	settingModel       = "generation.model"
	settingTemperature = "generation.temperature"
)

// SettingsSource resolves runtime overrides for generation parameters.
// Lookups happen on every call, so an admin change to the model or
// temperature applies without a restart.
type SettingsSource interface {
	Get(ctx context.Context, key string) (string, error)
}

// OpenAIAdapter implements the ListingGenerator interface against any
// OpenAI-compatible chat completions endpoint.
type OpenAIAdapter struct {
	config     *OpenAIConfig
	settings   SettingsSource
	httpClient *http.Client
}

// NewOpenAIAdapter creates a new adapter with the given configuration
func NewOpenAIAdapter(config *OpenAIConfig) (*OpenAIAdapter, error) {
	return NewOpenAIAdapterWithSettings(config, nil)
}

// NewOpenAIAdapterWithSettings creates an adapter whose model and
// temperature can be overridden at runtime through the settings source
func NewOpenAIAdapterWithSettings(config *OpenAIConfig, settings SettingsSource) (*OpenAIAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &OpenAIAdapter{
		config:   config,
		settings: settings,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// resolveModel returns the runtime model override, or the configured model
func (a *OpenAIAdapter) resolveModel(ctx context.Context) string {
	if a.settings != nil {
		if value, err := a.settings.Get(ctx, settingModel); err == nil && value != "" {
			return value
		}
	}
	return a.config.Model
}

// resolveTemperature returns the runtime temperature override, or the
// configured temperature. Unparseable overrides are ignored.
func (a *OpenAIAdapter) resolveTemperature(ctx context.Context) float64 {
	if a.settings != nil {
		if value, err := a.settings.Get(ctx, settingTemperature); err == nil {
			if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
				return parsed
			}
		}
	}
	return a.config.Temperature
}

// chatRequest is the chat completions request body
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

// chatResponse is the chat completions response body
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// generationPayload is the JSON shape the model is instructed to return
type generationPayload struct {
	Sections []struct {
		Type     string   `json:"type"`
		Position int      `json:"position"`
		Variants []string `json:"variants"`
	} `json:"sections"`
	Coverage struct {
		Placed    []string        `json:"placed"`
		Remaining []string        `json:"remaining"`
		Score     decimal.Decimal `json:"score"`
	} `json:"coverage"`
}

// Generate runs one phase call and parses the structured response
func (a *OpenAIAdapter) Generate(ctx context.Context, req integration.GenerationRequest) (*integration.GenerationResult, error) {
	model := a.resolveModel(ctx)
	body := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature:    a.resolveTemperature(ctx),
		ResponseFormat: &formatSpec{Type: "json_object"},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Failed to build generation request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.config.BaseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Failed to create generation request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		if isTimeoutError(err) {
			return nil, shared.ErrProviderTimeout
		}
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Generation call failed: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Failed to read generation response: %v", err))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Failed to parse generation response: %v", err))
	}
	if parsed.Error != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Generation service error: %s", parsed.Error.Message))
	}
	if resp.StatusCode >= 400 {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Generation service returned HTTP %d", resp.StatusCode))
	}
	if len(parsed.Choices) == 0 {
		return nil, shared.NewDomainError("PROVIDER_ERROR", "Generation service returned no choices")
	}

	return a.buildResult(parsed, model)
}

// buildResult converts the model's JSON payload into a GenerationResult
func (a *OpenAIAdapter) buildResult(parsed chatResponse, requestedModel string) (*integration.GenerationResult, error) {
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	content = stripCodeFence(content)

	var payload generationPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, shared.NewDomainError("PROVIDER_ERROR", fmt.Sprintf("Generation output is not valid JSON: %v", err))
	}

	result := &integration.GenerationResult{
		ModelID:    parsed.Model,
		TokensUsed: parsed.Usage.TotalTokens,
		Coverage: listing.KeywordCoverage{
			Placed:    payload.Coverage.Placed,
			Remaining: payload.Coverage.Remaining,
			Score:     payload.Coverage.Score,
		},
	}
	if result.ModelID == "" {
		result.ModelID = requestedModel
	}
	if result.Coverage.Placed == nil {
		result.Coverage.Placed = []string{}
	}
	if result.Coverage.Remaining == nil {
		result.Coverage.Remaining = []string{}
	}

	for _, section := range payload.Sections {
		sectionType := listing.SectionType(section.Type)
		if !sectionType.IsValid() || len(section.Variants) == 0 {
			continue
		}
		result.Sections = append(result.Sections, integration.GeneratedSection{
			Type:     sectionType,
			Position: section.Position,
			Variants: section.Variants,
		})
	}
	if len(result.Sections) == 0 {
		return nil, shared.NewDomainError("PROVIDER_ERROR", "Generation output contained no usable sections")
	}
	return result, nil
}

// stripCodeFence removes a markdown fence some models wrap JSON in
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// isTimeoutError reports whether err is a deadline or network timeout
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ensure OpenAIAdapter implements the ListingGenerator interface
var _ integration.ListingGenerator = (*OpenAIAdapter)(nil)
