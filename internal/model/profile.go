package model

// Profile is the structured record extracted and verified for an entity.
// The zero value is the valid "no information found" sentinel, never an
// error by itself.
type Profile struct {
	Email       string `json:"email,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Description string `json:"description,omitempty"`

	SocialMedia    map[string]string `json:"social_media,omitempty"`
	AdditionalInfo map[string]any    `json:"additional_info,omitempty"`

	// ConfidenceScores maps a populated field name to a value in [0,1].
	ConfidenceScores map[string]float64 `json:"confidence_scores,omitempty"`
}

// profileFields lists the scalar field names a confidence score may
// reference, in output column order.
var profileFields = []string{"email", "location", "website", "phone", "description"}

// Empty reports whether the profile has no information at all.
func (p Profile) Empty() bool {
	return p.Email == "" &&
		p.Location == "" &&
		p.Website == "" &&
		p.Phone == "" &&
		p.Description == "" &&
		len(p.SocialMedia) == 0 &&
		len(p.AdditionalInfo) == 0
}

// Backfill copies any field missing from p with the corresponding value
// from draft. Verification is additive: it may enrich a draft, never
// silently drop a field the draft had.
func (p *Profile) Backfill(draft Profile) {
	if p.Email == "" {
		p.Email = draft.Email
	}
	if p.Location == "" {
		p.Location = draft.Location
	}
	if p.Website == "" {
		p.Website = draft.Website
	}
	if p.Phone == "" {
		p.Phone = draft.Phone
	}
	if p.Description == "" {
		p.Description = draft.Description
	}
	for k, v := range draft.SocialMedia {
		if _, ok := p.SocialMedia[k]; !ok {
			if p.SocialMedia == nil {
				p.SocialMedia = make(map[string]string)
			}
			p.SocialMedia[k] = v
		}
	}
	for k, v := range draft.AdditionalInfo {
		if _, ok := p.AdditionalInfo[k]; !ok {
			if p.AdditionalInfo == nil {
				p.AdditionalInfo = make(map[string]any)
			}
			p.AdditionalInfo[k] = v
		}
	}
	if p.ConfidenceScores == nil {
		p.ConfidenceScores = make(map[string]float64)
	}
}

// scalarField returns the value of a named scalar field.
func (p Profile) scalarField(name string) string {
	switch name {
	case "email":
		return p.Email
	case "location":
		return p.Location
	case "website":
		return p.Website
	case "phone":
		return p.Phone
	case "description":
		return p.Description
	default:
		return ""
	}
}

// NormalizeScores clamps confidence values into [0,1] and drops scores
// for fields the profile does not actually carry, so scores are always a
// subset of populated field names.
func (p *Profile) NormalizeScores() {
	if p.ConfidenceScores == nil {
		p.ConfidenceScores = make(map[string]float64)
		return
	}
	for name, score := range p.ConfidenceScores {
		known := false
		for _, f := range profileFields {
			if f == name {
				known = p.scalarField(f) != ""
				break
			}
		}
		switch name {
		case "social_media":
			known = len(p.SocialMedia) > 0
		case "additional_info":
			known = len(p.AdditionalInfo) > 0
		}
		if !known {
			delete(p.ConfidenceScores, name)
			continue
		}
		if score < 0 {
			p.ConfidenceScores[name] = 0
		} else if score > 1 {
			p.ConfidenceScores[name] = 1
		}
	}
}
