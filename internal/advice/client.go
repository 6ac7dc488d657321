package advice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	DefaultMaxTokens = 1024
)

type ClientConfig struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	// BaseURL overrides the API endpoint; empty uses the SDK default.
	BaseURL string
}

// Client produces advice with the Anthropic Messages API. Without an API key every call reports
// domain.ErrAdviceUnavailable, which is an expected state rather than a failure.
type Client struct {
	api       anthropic.Client
	enabled   bool
	model     string
	maxTokens int64
	timeout   time.Duration
}

func NewClient(cfg ClientConfig) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return &Client{
		api:       anthropic.NewClient(opts...),
		enabled:   strings.TrimSpace(cfg.APIKey) != "",
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

func (c *Client) Enabled() bool {
	return c.enabled
}

func (c *Client) Advise(ctx context.Context, snapshot Snapshot) (*Advice, error) {
	if !c.enabled {
		return nil, unavailable(errors.New("no api key configured"))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt, err := buildPrompt(snapshot)
	if err != nil {
		return nil, unavailable(err)
	}

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, unavailable(fmt.Errorf("advice api call: %w", err))
	}

	var text strings.Builder

	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return nil, unavailable(errors.New("empty advice response"))
	}

	advice, err := parseAdvice(text.String())
	if err != nil {
		return nil, unavailable(err)
	}

	return advice, nil
}

const systemPrompt = `You are a professional budget advisor for students. Use encouraging but firm, student-friendly language.

If the budget is overspent, focus strictly on debt recovery and expense reduction.
Evaluate whether the savings goals are achievable given the remaining balance and each goal's duration.

Output ONLY a JSON object matching this exact schema, no markdown, no explanations:
{
  "status": "<excellent|good|warning|critical>",
  "headline": "<short headline>",
  "summary": "<two or three sentences>",
  "tips": ["<actionable tip>"],
  "suggestedReductions": [{"category": "<expense category>", "amount": <number>, "reason": "<why>"}],
  "isDebtWarning": <true|false>,
  "achievabilityScore": <number from 0 to 100>
}`

func buildPrompt(s Snapshot) (string, error) {
	categories, err := json.Marshal(s.CategoryTotals)
	if err != nil {
		return "", fmt.Errorf("encode category totals: %w", err)
	}

	goals, err := json.Marshal(s.Goals)
	if err != nil {
		return "", fmt.Errorf("encode goals: %w", err)
	}

	return fmt.Sprintf(`Analyze this financial situation:
- Monthly Allowance: %[1]s %[2]v
- Extra Income: %[1]s %[3]v
- Total Spent: %[1]s %[4]v
- Balance: %[1]s %[5]v
- Is Overspent: %[6]t
- Categories: %[7]s
- Goals: %[8]s`,
		s.Currency, s.MonthlyAllowance, s.ExtraIncome, s.TotalSpent, s.Balance, s.Overspent, categories, goals), nil
}
