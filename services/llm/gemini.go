package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient completes prompts against the Gemini API.
type GeminiClient struct {
	model *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{model: client.GenerativeModel(modelName)}, nil
}

// Complete sends the prompt as a chat: system messages become the system
// instruction, prior turns become history, and the final user message is
// the one sent.
func (g *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", &ProviderError{Kind: KindOther, Err: errors.New("empty prompt")}
	}

	// GenerativeModel is copied so the per-request system instruction
	// does not leak across concurrent sessions.
	model := *g.model

	var history []*genai.Content
	last := messages[len(messages)-1]
	for _, m := range messages[:len(messages)-1] {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = genai.NewUserContent(genai.Text(m.Content))
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}

	cs := model.StartChat()
	cs.History = history

	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", wrapGeminiErr(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &ProviderError{Kind: KindOther, Err: errors.New("gemini returned no candidates")}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

func wrapGeminiErr(err error) *ProviderError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return wrapErr(gerr.Code, fmt.Errorf("gemini generate error: %w", err))
	}
	return wrapErr(0, fmt.Errorf("gemini generate error: %w", err))
}
