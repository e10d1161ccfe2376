package model

// SearchResult is one ranked hit from the search provider, optionally
// enhanced with fetched page content. Instances keep provider rank order
// and are immutable once enhancement completes.
type SearchResult struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Snippet       string `json:"snippet"`
	DisplayedLink string `json:"displayed_link"`

	// Content holds cleaned visible page text, truncated to the
	// configured cap. Empty when enhancement failed or was skipped.
	Content string `json:"content,omitempty"`
}

// Excerpt returns the best available text for prompting: enhanced
// content when present, otherwise the provider snippet.
func (r SearchResult) Excerpt() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Snippet
}
