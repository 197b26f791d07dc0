package collector

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// DefaultCompressionLevel is used when the config file and CLI leave the
// level unset. Maps onto the zstd default.
const DefaultCompressionLevel = 3

// RunConfig is one validated packrat run: what to collect plus the policy
// knobs.
type RunConfig struct {
	Artifacts        []ArtifactDefinition
	ContinueOnError  bool
	CompressionLevel int
}

type rawConfig struct {
	Artifacts        []map[string]any `json:"artifacts"`
	ContinueOnError  bool             `json:"continue_on_error"`
	CompressionLevel *int             `json:"compression_level"`
}

// LoadConfig reads and validates a definitions file. The file is JSON with
// comments and trailing commas tolerated. All validation errors here are
// fatal configuration errors; nothing has touched the filesystem for
// resolution yet.
func LoadConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(path, data)
}

func parseConfig(path string, data []byte) (RunConfig, error) {
	var raw rawConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return RunConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}

	defs, err := ParseDefinitions(raw.Artifacts)
	if err != nil {
		return RunConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	level := DefaultCompressionLevel
	if raw.CompressionLevel != nil {
		level = *raw.CompressionLevel
		if err := ValidateCompressionLevel(level); err != nil {
			return RunConfig{}, fmt.Errorf("%s: %w", path, err)
		}
	}

	return RunConfig{
		Artifacts:        defs,
		ContinueOnError:  raw.ContinueOnError,
		CompressionLevel: level,
	}, nil
}

// ValidateCompressionLevel rejects levels outside 0-9.
func ValidateCompressionLevel(level int) error {
	if level < 0 || level > 9 {
		return fmt.Errorf("compression level %d is outside the valid range 0-9", level)
	}
	return nil
}
