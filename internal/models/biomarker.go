package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// BiomarkerEntry is a single measurement of a tracked physiological or
// performance metric.
type BiomarkerEntry struct {
	ID       string  `json:"id"`
	Date     Date    `json:"date"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// UnmarshalJSON coerces a malformed value to 0 instead of failing.
func (b *BiomarkerEntry) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string          `json:"id"`
		Date     Date            `json:"date"`
		Name     string          `json:"name"`
		Value    json.RawMessage `json:"value"`
		Unit     string          `json:"unit"`
		Category string          `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding biomarker: %w", err)
	}
	*b = BiomarkerEntry{
		ID:       raw.ID,
		Date:     raw.Date,
		Name:     raw.Name,
		Value:    flexFloat(raw.Value),
		Unit:     raw.Unit,
		Category: raw.Category,
	}
	return nil
}

// SortBiomarkers orders entries by date ascending. Entries on the same date
// keep their relative order.
func SortBiomarkers(entries []BiomarkerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
}
