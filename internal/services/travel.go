package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"github.com/tripmesh/backend/internal/config"
	"github.com/tripmesh/backend/pkg/logger"
	"google.golang.org/genai"
)

// Pre-compiled regex patterns for parsing the fixed-format itinerary block
var (
	outboundPattern = regexp.MustCompile(`(?mi)^outbound[:：]\s*(.+)$`)
	returnPattern   = regexp.MustCompile(`(?mi)^return[:：]\s*(.+)$`)
	hotelPattern    = regexp.MustCompile(`(?mi)^hotel[:：]\s*(.+)$`)
	pricePatterns   = []*regexp.Regexp{
		regexp.MustCompile(`(?mi)^price[:：]\s*\$?\s*([\d,]+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)total[:：]?\s*\$?\s*([\d,]+(?:\.\d+)?)`),
	}
)

// TravelEstimate is one itinerary candidate for a destination and date range.
type TravelEstimate struct {
	OutboundFlight string
	ReturnFlight   string
	Hotel          string
	Price          float64
}

// TravelInfoProvider produces itinerary estimates for a destination over a
// date range. Implementations must be safe for concurrent use.
type TravelInfoProvider interface {
	Estimate(ctx context.Context, destination string, start, end time.Time) (*TravelEstimate, error)
}

// NewTravelProvider dispatches to the provider-specific implementation based
// on the configured provider name. Unknown names fall back to the static
// offline provider.
func NewTravelProvider(cfg *config.TravelConfig) TravelInfoProvider {
	provider := ""
	if cfg != nil {
		provider = cfg.Provider
	}

	switch provider {
	case "openai", "azure":
		return &llmTravelProvider{cfg: cfg}
	case "anthropic":
		return &anthropicTravelProvider{cfg: cfg}
	case "ollama":
		return &ollamaTravelProvider{cfg: cfg}
	case "gemini":
		return &geminiTravelProvider{cfg: cfg}
	default:
		return &StaticTravelProvider{}
	}
}

// travelPrompt asks for a strictly formatted reply so the answer can be parsed
// with the patterns above.
func travelPrompt(destination string, start, end time.Time) string {
	return fmt.Sprintf(`You are a travel booking assistant. Propose one realistic trip itinerary.

Destination: %s
Dates: %s to %s (inclusive)

Answer with EXACTLY these four lines and nothing else:
Outbound: <flight or train suggestion with rough departure time>
Return: <flight or train suggestion with rough departure time>
Hotel: <hotel name and star level>
Price: <estimated total price per person in USD, number only>`,
		destination,
		start.Format("2006-01-02"),
		end.Format("2006-01-02"))
}

// parseEstimate extracts the itinerary fields from an LLM reply. A reply that
// matches none of the patterns degrades to the raw text with price 0 rather
// than failing the whole generation run.
func parseEstimate(content string) *TravelEstimate {
	est := &TravelEstimate{}

	if m := outboundPattern.FindStringSubmatch(content); len(m) >= 2 {
		est.OutboundFlight = strings.TrimSpace(m[1])
	}
	if m := returnPattern.FindStringSubmatch(content); len(m) >= 2 {
		est.ReturnFlight = strings.TrimSpace(m[1])
	}
	if m := hotelPattern.FindStringSubmatch(content); len(m) >= 2 {
		est.Hotel = strings.TrimSpace(m[1])
	}
	for _, re := range pricePatterns {
		if m := re.FindStringSubmatch(content); len(m) >= 2 {
			raw := strings.ReplaceAll(m[1], ",", "")
			if price, err := strconv.ParseFloat(raw, 64); err == nil && price >= 0 {
				est.Price = price
				break
			}
		}
	}

	if est.OutboundFlight == "" && est.ReturnFlight == "" && est.Hotel == "" {
		est.Hotel = strings.TrimSpace(content)
	}

	return est
}

// StaticTravelProvider produces deterministic offline estimates. It is the
// default provider and the one used in tests.
type StaticTravelProvider struct{}

func (p *StaticTravelProvider) Estimate(_ context.Context, destination string, start, end time.Time) (*TravelEstimate, error) {
	nights := int(end.Sub(start).Hours()/24) + 1
	if nights < 1 {
		nights = 1
	}

	h := fnv.New32a()
	h.Write([]byte(destination))
	seed := h.Sum32()

	flightBase := 120 + float64(seed%380)
	hotelNight := 60 + float64((seed>>8)%190)
	stars := 3 + int(seed%3)

	return &TravelEstimate{
		OutboundFlight: fmt.Sprintf("Flight to %s, departs %s 09:00", destination, start.Format("2006-01-02")),
		ReturnFlight:   fmt.Sprintf("Flight from %s, departs %s 18:00", destination, end.Format("2006-01-02")),
		Hotel:          fmt.Sprintf("%s Central Hotel (%d-star)", destination, stars),
		Price:          2*flightBase + float64(nights)*hotelNight,
	}, nil
}

// llmTravelProvider handles OpenAI, OpenAI-compatible and Azure endpoints.
type llmTravelProvider struct {
	cfg *config.TravelConfig
}

func (p *llmTravelProvider) Estimate(ctx context.Context, destination string, start, end time.Time) (*TravelEstimate, error) {
	var clientConfig openai.ClientConfig
	if p.cfg.Provider == "azure" {
		// Azure requires BaseURL format: https://{resource-name}.openai.azure.com
		// Model field is used as deployment name
		clientConfig = openai.DefaultAzureConfig(p.cfg.APIKey, p.cfg.BaseURL)
	} else {
		clientConfig = openai.DefaultConfig(p.cfg.APIKey)
		if p.cfg.BaseURL != "" {
			clientConfig.BaseURL = p.cfg.BaseURL
		}
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.3)
	if p.cfg.Temperature > 0 {
		temperature = float32(p.cfg.Temperature)
	}

	model := p.cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: travelPrompt(destination, start, end)},
		},
		Temperature: temperature,
	})
	if err != nil {
		logger.Infof("[Travel] OpenAI API error: %v", err)
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseEstimate(resp.Choices[0].Message.Content), nil
}

// anthropicTravelProvider handles the Anthropic API using the native SDK.
type anthropicTravelProvider struct {
	cfg *config.TravelConfig
}

func (p *anthropicTravelProvider) Estimate(ctx context.Context, destination string, start, end time.Time) (*TravelEstimate, error) {
	opts := []option.RequestOption{option.WithAPIKey(p.cfg.APIKey)}
	if p.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(p.cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)

	model := p.cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(travelPrompt(destination, start, end))),
		},
	})
	if err != nil {
		logger.Infof("[Travel] Anthropic API error: %v", err)
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return parseEstimate(content), nil
}

// ollamaTravelProvider handles self-hosted Ollama using the native SDK.
type ollamaTravelProvider struct {
	cfg *config.TravelConfig
}

func (p *ollamaTravelProvider) Estimate(ctx context.Context, destination string, start, end time.Time) (*TravelEstimate, error) {
	baseURL := p.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := p.cfg.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: travelPrompt(destination, start, end)},
		},
		Options: map[string]interface{}{
			"temperature": p.cfg.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		logger.Infof("[Travel] Ollama API error: %v", err)
		return nil, fmt.Errorf("Ollama API error: %w", err)
	}

	return parseEstimate(content.String()), nil
}

// geminiTravelProvider handles Google Gemini using the native SDK.
type geminiTravelProvider struct {
	cfg *config.TravelConfig
}

func (p *geminiTravelProvider) Estimate(ctx context.Context, destination string, start, end time.Time) (*TravelEstimate, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: p.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("Gemini client error: %w", err)
	}

	model := p.cfg.Model
	if model == "" {
		model = "gemini-3.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(travelPrompt(destination, start, end)), nil)
	if err != nil {
		logger.Infof("[Travel] Gemini API error: %v", err)
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return parseEstimate(resp.Text()), nil
}
