package collector

import (
	"path/filepath"
	"reflect"
	"sort"
	"testing"
)

func TestExpand(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "app.log"))
	writeFile(t, filepath.Join(base, "db.log"))
	writeFile(t, filepath.Join(base, ".hidden.log"))
	writeFile(t, filepath.Join(base, "readme.md"))
	writeFile(t, filepath.Join(base, "logs", "old", "trace.log"))

	tests := []struct {
		name      string
		pattern   string
		wantFiles []string
		wantDirs  []string
	}{
		{
			name:    "star matches files including dot-files",
			pattern: filepath.Join(base, "*.log"),
			wantFiles: []string{
				filepath.Join(base, ".hidden.log"),
				filepath.Join(base, "app.log"),
				filepath.Join(base, "db.log"),
			},
		},
		{
			name:    "double star descends",
			pattern: filepath.Join(base, "**", "*.log"),
			wantFiles: []string{
				filepath.Join(base, ".hidden.log"),
				filepath.Join(base, "app.log"),
				filepath.Join(base, "db.log"),
				filepath.Join(base, "logs", "old", "trace.log"),
			},
		},
		{
			name:     "star matches directories",
			pattern:  filepath.Join(base, "log*"),
			wantDirs: []string{filepath.Join(base, "logs")},
		},
		{
			name:    "no matches",
			pattern: filepath.Join(base, "missing", "**"),
		},
		{
			name:      "case sensitive",
			pattern:   filepath.Join(base, "APP.log"),
			wantFiles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, dirs, err := Expand(tt.pattern)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			sort.Strings(files)
			sort.Strings(dirs)
			if !reflect.DeepEqual(files, tt.wantFiles) {
				t.Fatalf("files = %v, want %v", files, tt.wantFiles)
			}
			if !reflect.DeepEqual(dirs, tt.wantDirs) {
				t.Fatalf("dirs = %v, want %v", dirs, tt.wantDirs)
			}
		})
	}
}

func TestExpandBadPattern(t *testing.T) {
	if _, _, err := Expand(filepath.Join(t.TempDir(), "[")); err == nil {
		t.Fatal("Expand() expected error for malformed pattern")
	}
}
