package services

import (
	"context"
	"strings"

	"github.com/daybook/daybook/internal/apperr"
)

const summaryInstruction = `You are a warm, friendly AI companion who empathizes with the user's day and feelings.
Read the user's journal entries below and reply with 2-3 sentences of conversational, empathetic response.`

// TextModel generates text for a prompt.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SummaryService turns a batch of journal entries into one empathetic reply.
type SummaryService struct {
	model TextModel
}

// NewSummaryService accepts a nil model; Summarize then reports the feature as unavailable.
func NewSummaryService(model TextModel) *SummaryService {
	return &SummaryService{model: model}
}

func (s *SummaryService) Enabled() bool {
	return s.model != nil
}

// Summarize rejects blank input and treats an empty model reply as an upstream fault.
func (s *SummaryService) Summarize(ctx context.Context, messages string) (string, error) {
	if strings.TrimSpace(messages) == "" {
		return "", apperr.Validation("No messages to summarize")
	}
	if s.model == nil {
		return "", apperr.Unavailable("Summary service is not configured")
	}

	text, err := s.model.Generate(ctx, BuildSummaryPrompt(messages))
	if err != nil {
		return "", apperr.Upstream("AI service error", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.Upstream("AI service returned an empty reply", nil)
	}
	return text, nil
}

// BuildSummaryPrompt prefixes the entries with the fixed instruction.
func BuildSummaryPrompt(messages string) string {
	return summaryInstruction + "\n--- new journal entries ---\n" + messages
}
