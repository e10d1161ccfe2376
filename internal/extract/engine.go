package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/groq"
)

// Prompt bounds keep token usage predictable regardless of how much page
// content enhancement collected.
const (
	maxPromptResults = 3
	maxExcerptLen    = 200
)

const extractionSystemPrompt = "You are a precise information extraction assistant. Always respond with valid JSON."

const extractionPrompt = `Task: Extract structured information about %s from the following search results.

Search Results:
%s

Extract the following information in JSON format:
- email: Any email addresses found
- location: Physical location or address
- website: Main website URL
- description: Brief description
- phone: Contact phone numbers
- social_media: Dictionary of social media platforms and their links
- additional_info: Any other relevant information

Only include information evidenced by the sources above; do not invent values.
Format as valid JSON. Use null for missing information.`

// Engine turns search results into a draft Profile with one model call.
type Engine struct {
	invoker *Invoker
}

// NewEngine creates an extraction engine over the shared invoker.
func NewEngine(invoker *Invoker) *Engine {
	return &Engine{invoker: invoker}
}

// Extract asks the model for a structured profile of entity based on the
// search results. It never returns an error: invocation failures and
// malformed completions degrade to the empty "no information" profile so
// one entity can never abort a batch.
func (e *Engine) Extract(ctx context.Context, results []model.SearchResult, entity string) model.Profile {
	log := zap.L().With(zap.String("entity", entity))

	prompt := fmt.Sprintf(extractionPrompt, entity, buildContext(results))

	text, err := e.invoker.Invoke(ctx, []groq.Message{
		{Role: "system", Content: extractionSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Error("extraction invocation failed", zap.Error(err))
		return model.Profile{}
	}

	profile, err := parseProfile(text)
	if err != nil {
		log.Error("extraction returned malformed JSON", zap.Error(err))
		return model.Profile{}
	}

	return profile
}

// buildContext renders the top results into a bounded prompt block.
func buildContext(results []model.SearchResult) string {
	if len(results) > maxPromptResults {
		results = results[:maxPromptResults]
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("Title: %s\nURL: %s\nContent: %s",
			r.Title, r.Link, excerpt(r.Excerpt(), maxExcerptLen)))
	}
	return strings.Join(parts, "\n\n")
}

// excerpt truncates text to at most limit bytes without splitting a
// rune, preferring to cut at the last sentence boundary when one exists
// past the midpoint of the cap.
func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := text[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	if idx := strings.LastIndexAny(cut, ".!?"); idx > limit/2 {
		return cut[:idx+1]
	}
	return cut
}
