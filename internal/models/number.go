package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Flexible numeric decoding for data that arrives from hand-edited export
// files or older snapshots, where numbers were sometimes stored as strings.
// Anything that is not a finite number decodes to 0.

func flexFloat(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return finite(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return finite(f)
		}
	}
	return 0
}

func flexInt(raw json.RawMessage) int {
	return int(math.Round(flexFloat(raw)))
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}
