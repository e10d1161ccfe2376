package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
	"github.com/kshitizz36/BreakoutAI-AI-Agent/pkg/groq"
)

const verificationSystemPrompt = "You are a data verification assistant. Always respond with valid JSON."

const verificationPrompt = `Task: Verify and enhance the following extracted information about %s.

Current Information:
%s

Please:
1. Verify the format of emails, phone numbers, and URLs
2. Remove any values that are clearly invalid
3. Standardize formats where possible
4. Add a confidence_scores object mapping each populated field name to a score between 0 and 1

Return the complete corrected record as valid JSON with the same field names. Use null for missing information.`

// Verifier runs the second model pass over a draft profile.
type Verifier struct {
	invoker *Invoker
}

// NewVerifier creates a verification engine over the shared invoker.
func NewVerifier(invoker *Invoker) *Verifier {
	return &Verifier{invoker: invoker}
}

// Verify asks the model to validate and score the draft profile. The
// verified result is backfilled from the draft so verification can only
// add or correct information, never lose it. Any failure returns the
// draft unchanged.
func (v *Verifier) Verify(ctx context.Context, draft model.Profile, entity string) model.Profile {
	log := zap.L().With(zap.String("entity", entity))

	raw, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		log.Error("marshal draft profile", zap.Error(err))
		return draft
	}

	prompt := fmt.Sprintf(verificationPrompt, entity, string(raw))

	text, err := v.invoker.Invoke(ctx, []groq.Message{
		{Role: "system", Content: verificationSystemPrompt},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Warn("verification invocation failed, keeping draft", zap.Error(err))
		return draft
	}

	verified, err := parseProfile(text)
	if err != nil {
		log.Warn("verification returned malformed JSON, keeping draft", zap.Error(err))
		return draft
	}

	verified.Backfill(draft)
	verified.NormalizeScores()
	return verified
}
