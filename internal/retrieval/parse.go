package retrieval

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mealmosaic/engine/internal/models"
)

// CorpusMealCount is the exact number of meals a corpus must carry.
const CorpusMealCount = 10

// ParsePayload turns raw knowledge-API text into a validated corpus payload.
// The text may wrap the JSON in markdown fences or surrounding prose; any
// schema violation is reported as ErrInvalidPayload.
func ParsePayload(raw string) (*models.CorpusPayload, error) {
	blob, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload models.CorpusPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validatePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func validatePayload(p *models.CorpusPayload) error {
	if strings.TrimSpace(p.Culture) == "" {
		return fmt.Errorf("%w: missing culture", ErrInvalidPayload)
	}
	if len(p.Meals) != CorpusMealCount {
		return fmt.Errorf("%w: expected %d meals, got %d", ErrInvalidPayload, CorpusMealCount, len(p.Meals))
	}
	for i, meal := range p.Meals {
		if strings.TrimSpace(meal.Name) == "" {
			return fmt.Errorf("%w: meal %d has no name", ErrInvalidPayload, i)
		}
		if strings.TrimSpace(meal.Description) == "" {
			return fmt.Errorf("%w: meal %q has no description", ErrInvalidPayload, meal.Name)
		}
	}
	return nil
}

// extractJSON locates the first balanced JSON object in the text, tolerating
// markdown code fences and leading or trailing prose.
func extractJSON(raw string) (string, error) {
	s := stripCodeFences(raw)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", fmt.Errorf("%w: no JSON object found", ErrInvalidPayload)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("%w: unbalanced JSON object", ErrInvalidPayload)
}

// stripCodeFences removes markdown ``` fences, with or without a language
// tag, keeping only the fenced body when one exists.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}

	first := strings.Index(trimmed, "```")
	rest := trimmed[first+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		// Drop the language tag line ("```json").
		rest = rest[newline+1:]
	}
	if closing := strings.LastIndex(rest, "```"); closing >= 0 {
		rest = rest[:closing]
	}
	return strings.TrimSpace(rest)
}
