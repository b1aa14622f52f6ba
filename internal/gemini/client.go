// Package gemini adapts the Google Gen AI SDK to the chat core.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strings"

	"github.com/iksnae/hajimi/internal"
	"google.golang.org/genai"
)

// Options configures a Client
type Options struct {
	APIKey          string
	SystemPrompt    string
	Temperature     float32
	MaxOutputTokens int32
}

// Client implements internal.ChatService on top of genai
type Client struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// New creates a Client for the Gemini API backend
func New(ctx context.Context, opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{client: client, config: GenerationConfig(opts)}, nil
}

// GenerationConfig builds the per-request generation settings
func GenerationConfig(opts Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(opts.Temperature),
		MaxOutputTokens: opts.MaxOutputTokens,
	}
	if strings.TrimSpace(opts.SystemPrompt) != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}
	return config
}

// Stream implements internal.ChatService. The prior turns are compacted and
// sent ahead of prompt; each yielded string is the text of one response
// chunk.
func (c *Client) Stream(ctx context.Context, modelID string, prior []internal.Turn, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		contents, err := ToContents(internal.Compact(prior))
		if err != nil {
			yield("", err)
			return
		}
		contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

		internal.LogDebug("Streaming from %s with %d content(s)", modelID, len(contents))
		for resp, err := range c.client.Models.GenerateContentStream(ctx, modelID, contents, c.config) {
			if err != nil {
				yield("", fmt.Errorf("generate content: %w", err))
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

// ListModels implements internal.ModelLister
func (c *Client) ListModels(ctx context.Context) ([]internal.ModelInfo, error) {
	var models []internal.ModelInfo
	for m, err := range c.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list models: %w", err)
		}
		models = append(models, ToModelInfo(m))
	}
	return models, nil
}

// ToModelInfo converts an SDK model description, dropping the "models/"
// resource prefix so the name can be passed straight to /model
func ToModelInfo(m *genai.Model) internal.ModelInfo {
	return internal.ModelInfo{
		Name:        strings.TrimPrefix(m.Name, "models/"),
		DisplayName: m.DisplayName,
		Description: m.Description,
	}
}

// ToContents converts turns to SDK contents. Opaque fragments are decoded
// into genai.Part so parts such as inline data reach the service intact.
func ToContents(turns []internal.Turn) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(turns))
	for i, t := range turns {
		parts := make([]*genai.Part, 0, len(t.Fragments))
		for j, f := range t.Fragments {
			switch v := f.(type) {
			case internal.Text:
				parts = append(parts, genai.NewPartFromText(v.Content))
			case internal.Opaque:
				var part genai.Part
				if err := json.Unmarshal(v.Raw, &part); err != nil {
					return nil, fmt.Errorf("turn %d part %d: %w", i, j, err)
				}
				parts = append(parts, &part)
			default:
				return nil, fmt.Errorf("turn %d part %d: unsupported fragment %T", i, j, f)
			}
		}
		contents = append(contents, &genai.Content{Role: string(t.Role), Parts: parts})
	}
	return contents, nil
}
