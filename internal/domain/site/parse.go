package site

import (
	"strconv"
	"strings"
)

// ParseVolume parses a client-supplied volume permissively. Unparsable
// values default to 0 rather than rejecting the request.
func ParseVolume(raw any) float64 {
	return parseNumber(raw, 0)
}

// ParseCoefficient parses a client-supplied material coefficient
// permissively, defaulting to 1.
func ParseCoefficient(raw any) float64 {
	return parseNumber(raw, 1)
}

func parseNumber(raw any, fallback float64) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		// Tolerate decimal commas from locale-formatted input.
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if s == "" {
			return fallback
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fallback
		}
		return n
	default:
		return fallback
	}
}
