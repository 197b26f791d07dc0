package collector

import (
	"os"
	"path/filepath"
	"strings"
)

// CommonRoot derives the longest common ancestor directory of the parent
// directories of files. Files on different volumes share no segments, so the
// result falls back to the filesystem root of the first file's parent. An
// empty input falls back to the process working directory; callers are
// expected to short-circuit empty sets before reaching this.
func CommonRoot(files []string) string {
	if len(files) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
		return string(filepath.Separator)
	}

	first := filepath.Dir(files[0])
	volume := filepath.VolumeName(first)
	common := splitSegments(first)

	for _, f := range files[1:] {
		parent := filepath.Dir(f)
		if filepath.VolumeName(parent) != volume {
			common = nil
			break
		}
		common = commonPrefix(common, splitSegments(parent))
		if len(common) == 0 {
			break
		}
	}

	root := volume + string(filepath.Separator)
	if len(common) == 0 {
		return root
	}
	return filepath.Join(append([]string{root}, common...)...)
}

func splitSegments(path string) []string {
	trimmed := strings.TrimPrefix(path, filepath.VolumeName(path))
	var segments []string
	for _, s := range strings.Split(trimmed, string(filepath.Separator)) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
