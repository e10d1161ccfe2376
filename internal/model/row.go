package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// RowColumns is the fixed output column order for tabular export. This
// is the sole contract with the export layer.
var RowColumns = []string{
	"Entity",
	"Email",
	"Phone",
	"Website",
	"Location",
	"Description",
	"Social Media",
	"Additional Info",
	"Confidence Scores",
	"Error",
}

// Row is one flat output record: entity name plus profile fields, or an
// error string for failed jobs. One Row exists per input row, in input
// order.
type Row struct {
	Entity  string
	Profile Profile
	Error   string
}

// FromJob folds a terminal EntityJob into its output row.
func FromJob(job *EntityJob) Row {
	row := Row{Entity: job.Entity}
	if job.State == JobFailed {
		row.Error = job.Err
		return row
	}
	row.Profile = job.Profile
	return row
}

// Values renders the row in RowColumns order. Maps are rendered as
// stable "key: value" lists so spreadsheet cells are deterministic.
func (r Row) Values() []string {
	return []string{
		r.Entity,
		r.Profile.Email,
		r.Profile.Phone,
		r.Profile.Website,
		r.Profile.Location,
		r.Profile.Description,
		formatStringMap(r.Profile.SocialMedia),
		formatAnyMap(r.Profile.AdditionalInfo),
		formatScoreMap(r.Profile.ConfidenceScores),
		r.Error,
	}
}

func formatStringMap(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+m[k])
	}
	return strings.Join(parts, "; ")
}

func formatAnyMap(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+renderValue(m[k]))
	}
	return strings.Join(parts, "; ")
}

func formatScoreMap(m map[string]float64) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %.2f", k, m[k]))
	}
	return strings.Join(parts, "; ")
}

// renderValue renders an arbitrary JSON-decoded value as a cell string.
func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
