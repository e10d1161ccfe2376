package extract

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/rotisserie/eris"

	"github.com/kshitizz36/BreakoutAI-AI-Agent/internal/model"
)

// profilePayload is the fixed JSON shape both model stages are asked to
// emit. Validation happens here, at the parsing boundary, so malformed
// output is handled in exactly one place per engine.
type profilePayload struct {
	Email            *string            `json:"email"`
	Location         *string            `json:"location"`
	Website          *string            `json:"website"`
	Phone            *string            `json:"phone"`
	Description      *string            `json:"description"`
	SocialMedia      map[string]string  `json:"social_media"`
	AdditionalInfo   map[string]any     `json:"additional_info"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// parseProfile decodes a model completion into a Profile. The completion
// may wrap the JSON object in markdown code fences or prose; near-JSON
// (single quotes, unquoted keys, trailing commas) is repaired before
// giving up.
func parseProfile(text string) (model.Profile, error) {
	cleaned := cleanJSON(text)
	if cleaned == "" {
		return model.Profile{}, eris.New("parse: no JSON object in completion")
	}

	var payload profilePayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return model.Profile{}, eris.Wrap(err, "parse: decode completion")
		}
		if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
			return model.Profile{}, eris.Wrap(err, "parse: decode repaired completion")
		}
	}

	p := model.Profile{
		Email:            deref(payload.Email),
		Location:         deref(payload.Location),
		Website:          deref(payload.Website),
		Phone:            deref(payload.Phone),
		Description:      deref(payload.Description),
		SocialMedia:      payload.SocialMedia,
		AdditionalInfo:   payload.AdditionalInfo,
		ConfidenceScores: payload.ConfidenceScores,
	}
	p.NormalizeScores()
	return p, nil
}

// cleanJSON extracts a JSON object from text that may contain markdown
// code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return strings.TrimSpace(text[start : end+1])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
