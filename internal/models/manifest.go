package models

import "strings"

// ManifestEntry is one stock listed in the precomputed-analysis manifest.
// Entries are written by the offline analysis pipeline and carry fields this
// service does not interpret, so everything beyond the code key is passed
// through untouched.
type ManifestEntry map[string]any

// Code returns the entry's stock code, or "" if absent.
func (e ManifestEntry) Code() string {
	if v, ok := e["code"].(string); ok {
		return strings.ToUpper(v)
	}
	return ""
}

// Manifest lists the codes with a precomputed analysis document.
type Manifest struct {
	Stocks    []ManifestEntry `json:"stocks"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// RemoveCode drops all entries for the given code and reports whether
// anything was removed.
func (m *Manifest) RemoveCode(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	kept := m.Stocks[:0]
	removed := false
	for _, e := range m.Stocks {
		if e.Code() == code {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.Stocks = kept
	return removed
}
