package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"repolens/internal/errors"
	"repolens/internal/graph"
	"repolens/internal/logging"
)

const analyzeSystemPrompt = `You are a code analysis engine. Given one source file, respond with a JSON array of its top-level symbols. Each element: {"name","kind","description","snippet","children"}. kind is one of "function","class","variable","endpoint". snippet is the symbol's own source text. children follows the same shape for nested symbols. Respond with the JSON array only.`

const relevantSystemPrompt = `You are a code navigation engine. Given a question and a list of file paths, respond with a JSON array containing only the paths most relevant to the question, most relevant first. Respond with the JSON array only.`

// OpenAI implements Service against a chat-completion API
type OpenAI struct {
	client *openai.Client
	model  string
	logger *logging.Logger
}

// OpenAIOptions configures the OpenAI analyzer
type OpenAIOptions struct {
	APIKey  string
	BaseURL string // Optional override for compatible endpoints
	Model   string // Defaults to gpt-4o-mini
}

// NewOpenAI creates an OpenAI-backed analyzer
func NewOpenAI(logger *logging.Logger, opts OpenAIOptions) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Analyze extracts the symbol tree of one file via the chat API
func (o *OpenAI) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	user := fmt.Sprintf("File: %s\n\n%s", filename, content)

	raw, err := o.complete(ctx, analyzeSystemPrompt, user)
	if err != nil {
		return nil, errors.Wrap(errors.AnalysisFailed, "analyzing "+filename, err)
	}

	var symbols []graph.SymbolNode
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil {
		return nil, errors.Wrap(errors.AnalysisFailed, "decoding symbol tree for "+filename, err)
	}

	AssignSymbolIDs(filename, symbols)
	return symbols, nil
}

// FindRelevant selects the most relevant paths for a query
func (o *OpenAI) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	user := fmt.Sprintf("Question: %s\n\nPaths:\n%s", query, strings.Join(paths, "\n"))

	raw, err := o.complete(ctx, relevantSystemPrompt, user)
	if err != nil {
		return nil, errors.Wrap(errors.AnalysisFailed, "relevance query", err)
	}

	var relevant []string
	if err := json.Unmarshal([]byte(raw), &relevant); err != nil {
		return nil, errors.Wrap(errors.AnalysisFailed, "decoding relevance response", err)
	}

	// Only echo back paths we actually offered.
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}
	filtered := relevant[:0]
	for _, p := range relevant {
		if _, ok := known[p]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (o *OpenAI) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return stripFence(resp.Choices[0].Message.Content), nil
}

// stripFence removes a markdown code fence if the model wrapped its JSON
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
