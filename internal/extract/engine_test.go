package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
)

func TestEngine_ExtractsProfile(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{text: `{
		"email": "contact@acme.com",
		"website": "https://acme.com",
		"social_media": {"twitter": "https://twitter.com/acme"}
	}`}}}
	eng := NewEngine(testInvoker(llm))

	p := eng.Extract(context.Background(), []model.SearchResult{
		{Title: "Acme Corp", Link: "https://acme.com", Snippet: "Widgets since 1999"},
	}, "Acme Corp")

	assert.Equal(t, "contact@acme.com", p.Email)
	assert.Equal(t, "https://acme.com", p.Website)
	assert.Equal(t, "https://twitter.com/acme", p.SocialMedia["twitter"])
}

func TestEngine_PromptIncludesEntityAndResults(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{text: `{"email": null}`}}}
	eng := NewEngine(testInvoker(llm))

	results := []model.SearchResult{
		{Title: "First", Link: "https://a.example", Snippet: "alpha"},
		{Title: "Second", Link: "https://b.example", Snippet: "beta"},
		{Title: "Third", Link: "https://c.example", Snippet: "gamma"},
		{Title: "Fourth", Link: "https://d.example", Snippet: "delta"},
	}
	eng.Extract(context.Background(), results, "Acme Corp")

	calls := llm.calls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Messages, 2)
	assert.Contains(t, calls[0].Messages[0].Content, "extraction assistant")

	prompt := calls[0].Messages[1].Content
	assert.Contains(t, prompt, "Acme Corp")
	assert.Contains(t, prompt, "First")
	assert.Contains(t, prompt, "Third")
	// Only the top results go into the prompt.
	assert.NotContains(t, prompt, "Fourth")
}

func TestEngine_PrefersEnhancedContent(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{text: `{"email": null}`}}}
	eng := NewEngine(testInvoker(llm))

	eng.Extract(context.Background(), []model.SearchResult{
		{Title: "Acme", Link: "https://acme.com", Snippet: "short snippet", Content: "full page text."},
	}, "Acme")

	prompt := llm.calls()[0].Messages[1].Content
	assert.Contains(t, prompt, "full page text.")
	assert.NotContains(t, prompt, "short snippet")
}

func TestEngine_InvocationFailureDegrades(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{err: errors.New("boom")}}}
	eng := NewEngine(testInvoker(llm))

	p := eng.Extract(context.Background(), []model.SearchResult{{Title: "x"}}, "Acme")
	assert.True(t, p.Empty())
}

func TestEngine_MalformedCompletionDegrades(t *testing.T) {
	llm := &fakeLLM{replies: []fakeReply{{text: "no json here at all"}}}
	eng := NewEngine(testInvoker(llm))

	p := eng.Extract(context.Background(), []model.SearchResult{{Title: "x"}}, "Acme")
	assert.True(t, p.Empty())
}

func TestExcerpt(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "short", excerpt("short", 200))
	})

	t.Run("cuts at sentence boundary", func(t *testing.T) {
		text := strings.Repeat("a", 150) + ". " + strings.Repeat("b", 100)
		got := excerpt(text, 200)
		assert.Len(t, got, 151)
		assert.True(t, strings.HasSuffix(got, "."))
	})

	t.Run("hard cut without late boundary", func(t *testing.T) {
		text := "x. " + strings.Repeat("y", 300)
		got := excerpt(text, 200)
		// The only period is before the midpoint, so the cap applies.
		assert.Len(t, got, 200)
	})

	t.Run("never splits a rune", func(t *testing.T) {
		text := strings.Repeat("é", 200)
		for limit := 1; limit <= 8; limit++ {
			got := excerpt(text, limit)
			assert.True(t, utf8.ValidString(got), "limit %d", limit)
			assert.LessOrEqual(t, len(got), limit)
		}
	})
}
