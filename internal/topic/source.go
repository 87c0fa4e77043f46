package topic

import "encoding/json"

// DefaultImportance is assumed for source records that omit the field.
const DefaultImportance = 5

// Source is one reference material entry used to ground AI prompts.
// Importance doubles as the selection weight and is always stored clamped to
// [0,10].
type Source struct {
	Name       string `json:"name"`
	Link       string `json:"link"`
	Importance int    `json:"importance"`
	Comment    string `json:"comment"`
}

// sourceRecord mirrors the on-disk shape with optional fields so defaulting
// happens in exactly one place.
type sourceRecord struct {
	Name       *string `json:"name"`
	Link       *string `json:"link"`
	Importance *int    `json:"importance"`
	Comment    *string `json:"comment"`
}

// UnmarshalJSON applies the record defaulting rules: missing name becomes
// "Unnamed Source", missing importance becomes DefaultImportance, and
// importance is clamped to its valid range.
func (s *Source) UnmarshalJSON(data []byte) error {
	var rec sourceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	s.Name = "Unnamed Source"
	if rec.Name != nil && *rec.Name != "" {
		s.Name = *rec.Name
	}
	s.Link = ""
	if rec.Link != nil {
		s.Link = *rec.Link
	}
	s.Importance = DefaultImportance
	if rec.Importance != nil {
		s.Importance = *rec.Importance
	}
	s.Importance = ClampImportance(s.Importance)
	s.Comment = ""
	if rec.Comment != nil {
		s.Comment = *rec.Comment
	}
	return nil
}

// ClampImportance forces a weight into [0,10].
func ClampImportance(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
