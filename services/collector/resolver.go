package collector

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Resolver turns an artifact definition's patterns into a deduplicated set of
// absolute file paths. It never fails outright: every problem with an
// individual pattern is absorbed into a diagnostic and resolution moves on.
// A definition that ends up matching nothing is simply an empty result; the
// grouper decides whether that is fatal.
type Resolver struct {
	Sink Sink
}

// Resolve processes def's patterns against base. Relative patterns are
// anchored to base first. The returned paths are absolute, cleaned, sorted
// and free of duplicates.
func (r *Resolver) Resolve(base string, def ArtifactDefinition) []string {
	var found []string
	for _, pattern := range def.Patterns {
		anchored := pattern
		if !filepath.IsAbs(anchored) {
			anchored = filepath.Join(base, anchored)
		}

		if IsWildcard(anchored) {
			found = append(found, r.resolveWildcard(def.Name, pattern, anchored)...)
			continue
		}
		found = append(found, r.resolveLiteral(def.Name, pattern, anchored)...)
	}

	seen := make(map[string]struct{}, len(found))
	out := make([]string, 0, len(found))
	for _, f := range found {
		clean := filepath.Clean(f)
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	sort.Strings(out)
	return out
}

func (r *Resolver) resolveWildcard(artifact, pattern, anchored string) []string {
	files, dirs, err := Expand(anchored)
	if err != nil {
		r.warn(artifact, pattern, fmt.Sprintf("invalid pattern: %v", err))
		return nil
	}
	if len(files) == 0 && len(dirs) == 0 {
		r.warn(artifact, pattern, "glob matched nothing")
		return nil
	}
	out := files
	for _, dir := range dirs {
		out = append(out, WalkFiles(dir)...)
	}
	return out
}

func (r *Resolver) resolveLiteral(artifact, pattern, anchored string) []string {
	switch kind := Probe(anchored); kind {
	case PathFile:
		return []string{anchored}
	case PathDir:
		files := WalkFiles(anchored)
		if len(files) == 0 {
			r.warn(artifact, pattern, "directory contains no files")
		}
		return files
	case PathMissing:
		r.warn(artifact, pattern, "path does not exist")
	case PathUnreadable:
		r.warn(artifact, pattern, "path is not readable")
	default:
		r.warn(artifact, pattern, fmt.Sprintf("skipping %s entry", kind))
	}
	return nil
}

func (r *Resolver) warn(artifact, pattern, msg string) {
	if r.Sink == nil {
		return
	}
	r.Sink.Emit(Diagnostic{
		Level:    LevelWarning,
		Artifact: artifact,
		Pattern:  pattern,
		Message:  msg,
	})
}
