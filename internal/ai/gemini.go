// Package ai wraps the hosted Gemini API behind domain.ModelClient.
package ai

import (
	"context"
	"errors"
	"fmt"

	"fin-statement-analyzer/internal/domain"

	genai "google.golang.org/genai"
)

// Gemini implements domain.ModelClient against the Google generative API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a client authenticated with an API key.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: c, model: model}, nil
}

// GenerateText sends a single-shot prompt and returns the text reply.
func (g *Gemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	return res.Text(), nil
}

// GenerateChat replays prior turns as history and sends the prompt as the
// final user message.
func (g *Gemini) GenerateChat(ctx context.Context, history []domain.ChatTurn, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		role := genai.Role(genai.RoleUser)
		if turn.Role == domain.ChatRoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	return res.Text(), nil
}
