package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kayz/sift/internal/config"
	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
)

// Planner turns an objective into keyword queries for engines that cannot
// run an agentic search themselves.
type Planner interface {
	Plan(ctx context.Context, objective string, maxQueries int) ([]string, error)
}

const plannerSystemPrompt = `You write web search queries.
Given a research objective, reply with short keyword queries that together cover it.
Write one query per line. No numbering, no commentary.`

const (
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// NewPlanner builds the planner selected in cfg. It returns nil when no
// provider is configured.
func NewPlanner(cfg config.PlannerConfig) (Planner, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIPlanner(cfg)
	case "anthropic":
		return NewAnthropicPlanner(cfg)
	}
	return nil, fmt.Errorf("unknown planner provider: %s", cfg.Provider)
}

// OpenAIPlanner works with any OpenAI-compatible chat completion endpoint.
type OpenAIPlanner struct {
	client *openai.Client
	model  string
}

func NewOpenAIPlanner(cfg config.PlannerConfig) (*OpenAIPlanner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("planner API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIPlanner{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}, nil
}

func (p *OpenAIPlanner) Plan(ctx context.Context, objective string, maxQueries int) ([]string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: plannerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: plannerUserPrompt(objective, maxQueries)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("openai planner: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai planner: empty response")
	}
	return parsePlannedQueries(resp.Choices[0].Message.Content, maxQueries), nil
}

type AnthropicPlanner struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicPlanner(cfg config.PlannerConfig) (*AnthropicPlanner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("planner API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicPlanner{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  model,
	}, nil
}

func (p *AnthropicPlanner) Plan(ctx context.Context, objective string, maxQueries int) ([]string, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		System:    plannerSystemPrompt,
		MaxTokens: 512,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(plannerUserPrompt(objective, maxQueries)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic planner: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText && c.Text != nil {
			sb.WriteString(*c.Text)
			sb.WriteString("\n")
		}
	}
	return parsePlannedQueries(sb.String(), maxQueries), nil
}

func plannerUserPrompt(objective string, maxQueries int) string {
	return fmt.Sprintf("Objective: %s\n\nWrite at most %d queries.", objective, maxQueries)
}

var listMarker = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s*`)

// parsePlannedQueries reads one query per line, stripping list markers and
// quotes and dropping duplicates.
func parsePlannedQueries(text string, maxQueries int) []string {
	seen := make(map[string]bool)
	var queries []string
	for _, line := range strings.Split(text, "\n") {
		q := listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		q = strings.Trim(q, "\"'`")
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		queries = append(queries, q)
		if maxQueries > 0 && len(queries) >= maxQueries {
			break
		}
	}
	return queries
}
