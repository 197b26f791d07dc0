package collector

import (
	"os"
	"path/filepath"
)

// WalkFiles enumerates every regular file reachable from root by recursive
// descent, following symbolic links for both files and directories. An
// explicit work stack avoids recursion-depth limits; a visited set keyed by
// canonical path keeps cyclic symlinks from looping forever. Entries that
// cannot be read or statted are skipped. Traversal order is unspecified.
func WalkFiles(root string) []string {
	var files []string
	visited := make(map[string]struct{})
	stack := []string{root}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		canon, err := filepath.EvalSymlinks(dir)
		if err != nil {
			continue
		}
		if _, seen := visited[canon]; seen {
			continue
		}
		visited[canon] = struct{}{}

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			info, err := os.Stat(full)
			if err != nil {
				// Broken symlink or the entry vanished mid-walk.
				continue
			}
			switch {
			case info.IsDir():
				stack = append(stack, full)
			case info.Mode().IsRegular():
				files = append(files, full)
			}
		}
	}
	return files
}
