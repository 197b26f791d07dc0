package collector

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand matches the absolute wildcard pattern against the filesystem and
// splits the matches into regular files and directories. Matching is
// case-sensitive, includes dot-files, and supports `**` for recursive
// descent. Symlinked matches are classified by their target; broken links are
// dropped. Both slices empty means the pattern matched nothing, which is the
// caller's diagnostic to emit. The only error is a malformed pattern.
func Expand(pattern string) (files, dirs []string, err error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("expand %q: %w", pattern, err)
	}
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			dirs = append(dirs, match)
		case info.Mode().IsRegular():
			files = append(files, match)
		}
	}
	return files, dirs, nil
}
