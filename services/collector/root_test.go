package collector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommonRoot(t *testing.T) {
	base := t.TempDir()

	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{
			name:  "single file",
			files: []string{filepath.Join(base, "logs", "app.log")},
			want:  filepath.Join(base, "logs"),
		},
		{
			name: "siblings share their directory",
			files: []string{
				filepath.Join(base, "logs", "app.log"),
				filepath.Join(base, "logs", "db.log"),
			},
			want: filepath.Join(base, "logs"),
		},
		{
			name: "divergent subtrees meet at the base",
			files: []string{
				filepath.Join(base, "coverage", "index.html"),
				filepath.Join(base, "reports", "junit.xml"),
			},
			want: base,
		},
		{
			name: "nested under sibling",
			files: []string{
				filepath.Join(base, "a", "b", "c", "one.txt"),
				filepath.Join(base, "a", "two.txt"),
			},
			want: filepath.Join(base, "a"),
		},
		{
			name: "no agreement falls back to filesystem root",
			files: []string{
				filepath.Join(string(filepath.Separator), "one", "a.txt"),
				filepath.Join(string(filepath.Separator), "two", "b.txt"),
			},
			want: string(filepath.Separator),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommonRoot(tt.files); got != tt.want {
				t.Fatalf("CommonRoot() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommonRootEmptyInputFallsBackToCwd(t *testing.T) {
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if got := CommonRoot(nil); got != cwd {
		t.Fatalf("CommonRoot(nil) = %q, want %q", got, cwd)
	}
}

func TestCommonRootFilesRelativizeWithoutDotDot(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "coverage", "index.html"),
		filepath.Join(base, "reports", "nested", "junit.xml"),
	}
	root := CommonRoot(files)
	for _, f := range files {
		rel, err := filepath.Rel(root, f)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(rel, "..") {
			t.Fatalf("relative path %q escapes root %q", rel, root)
		}
	}
}
