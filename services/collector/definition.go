package collector

import (
	"errors"
	"fmt"
	"strings"
)

// ParseDefinitions validates raw {name, path} records into artifact
// definitions. Validation is structural only and happens before any
// filesystem access: a record must carry a non-empty name and a path field
// holding either a string or a list of strings, of which at least one entry
// survives whitespace trimming. Whitespace-only patterns are dropped
// silently, as are records with no fields at all. Anything else malformed is
// a configuration error.
func ParseDefinitions(raw []map[string]any) ([]ArtifactDefinition, error) {
	defs := make([]ArtifactDefinition, 0, len(raw))
	for i, record := range raw {
		if len(record) == 0 {
			continue
		}
		name, _ := record["name"].(string)
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("artifact %d: missing or empty name", i)
		}
		patterns, err := normalizePatterns(record["path"])
		if err != nil {
			return nil, fmt.Errorf("artifact %q: %w", name, err)
		}
		defs = append(defs, ArtifactDefinition{Name: name, Patterns: patterns})
	}
	return defs, nil
}

func normalizePatterns(v any) ([]string, error) {
	switch value := v.(type) {
	case nil:
		return nil, errors.New("path is required")
	case string:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			return nil, errors.New("path is empty")
		}
		return []string{trimmed}, nil
	case []any:
		patterns := make([]string, 0, len(value))
		for _, entry := range value {
			s, ok := entry.(string)
			if !ok {
				return nil, fmt.Errorf("path entries must be strings, got %T", entry)
			}
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				patterns = append(patterns, trimmed)
			}
		}
		if len(patterns) == 0 {
			return nil, errors.New("path list holds no usable patterns")
		}
		return patterns, nil
	default:
		return nil, fmt.Errorf("path must be a string or list of strings, got %T", v)
	}
}
