// Package summarize turns one cleaned content chunk into a structured lesson
// document by prompting an OpenAI-compatible chat model. It is a thin
// boundary: raw text in, validated document out, and it may fail or return
// nothing useful.
package summarize

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/diipperss/FYP-DATA/internal/lesson"
)

// ChatClient is the minimal interface needed to call a chat model, so any
// OpenAI-compatible or local backend can be substituted in tests.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Summarizer produces a lesson document from one chunk of cleaned prose.
type Summarizer interface {
	Summarize(ctx context.Context, text, topic, subtopic, source string) (*lesson.Document, error)
}

// Config tunes the summarization boundary.
type Config struct {
	Model string
	// MaxChunkChars truncates the input text before prompting. Default 1000.
	// Truncation lives here, in the summarization stage, not in extraction.
	MaxChunkChars int
	Temperature   float32
}

func (c *Config) defaults() {
	if c.MaxChunkChars <= 0 {
		c.MaxChunkChars = 1000
	}
}

// OpenAI implements Summarizer against a chat completion endpoint.
type OpenAI struct {
	Client ChatClient
	Config Config
}

// NewClient builds an *openai.Client for baseURL (empty means the public
// endpoint).
func NewClient(baseURL, apiKey string) *openai.Client {
	if baseURL == "" {
		return openai.NewClient(apiKey)
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return openai.NewClientWithConfig(cfg)
}

const systemPrompt = "You are an expert trading educator. You write concise, " +
	"accurate lesson content for an educational app and you output YAML only."

func lessonPrompt(text, topic, subtopic, source string) string {
	return fmt.Sprintf(`Using the source text below, create a structured lesson.

Requirements, as YAML fields:
1. title
2. summary: concise explanation (7-10 sentences)
3. key_points (3-7 bullets)
4. examples (1-3)
5. definitions (simple explanations, can include analogies)
6. common_mistakes (1-2)
7. questions_to_think (1-2)
8. source: cite the original source of the content.

Text:
%s

Topic: %s
Subtopic: %s
Source: %s

Output YAML ONLY.`, text, topic, subtopic, source)
}

// Summarize prompts the model and parses its output as a lesson document.
// An empty or invalid response is an error; callers decide whether to skip
// the chunk.
func (s *OpenAI) Summarize(ctx context.Context, text, topic, subtopic, source string) (*lesson.Document, error) {
	cfg := s.Config
	cfg.defaults()

	if len(text) > cfg.MaxChunkChars {
		text = text[:cfg.MaxChunkChars]
	}

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: lessonPrompt(text, topic, subtopic, source)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("summarize: no choices returned")
	}
	out := stripFences(resp.Choices[0].Message.Content)
	if strings.TrimSpace(out) == "" {
		return nil, fmt.Errorf("summarize: empty model output")
	}
	doc, err := lesson.Parse([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("summarize: model output: %w", err)
	}
	if doc.Source == "" {
		doc.Source = source
	}
	return doc, nil
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the YAML-only instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
