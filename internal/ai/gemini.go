package ai

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// maxPromptInput bounds the page text sent to the model.
	maxPromptInput = 4000
)

type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing GOOGLE_API_KEY")
	}
	if model == "" {
		model = DefaultModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}
	return &Gemini{client: c, model: model}, nil
}

func (g *Gemini) prompt(ctx context.Context, text string) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}, nil)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

func (g *Gemini) Prompt(ctx context.Context, pageText string) (string, error) {
	if g.client == nil {
		return "", nil
	}
	pageText = strings.TrimSpace(pageText)
	if pageText == "" {
		return "", nil
	}
	if len(pageText) > maxPromptInput {
		pageText = pageText[:maxPromptInput]
	}
	q := "Write a flashcard prompt (one line, max 12 words, no quotes) that this slide or page answers:\n\n" + pageText
	out, err := g.prompt(ctx, q)
	if err != nil {
		return "", err
	}
	return cleanPrompt(out), nil
}
