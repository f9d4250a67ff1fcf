// Package ingest turns raw submissions — pasted text or uploaded file
// content — into the normalized address sequence the batch orchestrator
// consumes. It never classifies.
package ingest

import (
	"strings"
	"unicode"
)

// SplitRaw splits pasted text on newlines and commas, trims each token,
// and drops empties.
func SplitRaw(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	return clean(tokens)
}

// SplitFile extracts addresses from file content. CSV files (by
// extension or declared MIME type) are split on newlines then commas
// within each line; anything else is split on runs of whitespace or
// commas.
func SplitFile(name, content, mimeType string) []string {
	if isCSV(name, mimeType) {
		var tokens []string
		for _, line := range strings.Split(content, "\n") {
			tokens = append(tokens, strings.Split(line, ",")...)
		}
		return clean(tokens)
	}

	tokens := strings.FieldsFunc(content, func(r rune) bool {
		return unicode.IsSpace(r) || r == ','
	})
	return clean(tokens)
}

func isCSV(name, mimeType string) bool {
	if strings.HasSuffix(strings.ToLower(name), ".csv") {
		return true
	}
	switch strings.ToLower(mimeType) {
	case "text/csv", "application/csv":
		return true
	}
	return false
}

func clean(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
