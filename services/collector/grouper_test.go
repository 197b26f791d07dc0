package collector

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type fakeUploader struct {
	calls []string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, name string, files []string, _ string, _ UploadOptions) (UploadResult, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return UploadResult{}, f.err
	}
	return UploadResult{ArtifactName: name, SuccessfulItems: len(files)}, nil
}

func newGrouper(base string, uploader Uploader, sink Sink, continueOnError bool) *Grouper {
	return &Grouper{
		Base:     base,
		Resolver: &Resolver{Sink: sink},
		Uploader: uploader,
		Sink:     sink,
		Options:  UploadOptions{ContinueOnError: continueOnError, CompressionLevel: DefaultCompressionLevel},
	}
}

func TestRunResolvesSingleDirectoryDefinition(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "logs", "app.log"))

	up := &fakeUploader{}
	g := newGrouper(base, up, &Recorder{}, false)

	got, err := g.Run(context.Background(), []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []ResolvedArtifact{{
		Name:  "logs",
		Files: []string{filepath.Join(base, "logs", "app.log")},
		Root:  filepath.Join(base, "logs"),
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Run() = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(up.calls, []string{"logs"}) {
		t.Fatalf("uploads = %v, want [logs]", up.calls)
	}
}

func TestRunComputesCommonParentAcrossPatterns(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "coverage", "index.html"))
	writeFile(t, filepath.Join(base, "reports", "junit.xml"))

	g := newGrouper(base, &fakeUploader{}, &Recorder{}, false)
	got, err := g.Run(context.Background(), []ArtifactDefinition{
		{Name: "r", Patterns: []string{"coverage", "reports/junit.xml"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 1 || len(got[0].Files) != 2 {
		t.Fatalf("Run() = %v, want one artifact with 2 files", got)
	}
	if got[0].Root != base {
		t.Fatalf("Root = %q, want %q", got[0].Root, base)
	}
}

func TestRunZeroFilesIsFatalWithoutContinueOnError(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "logs", "app.log"))

	up := &fakeUploader{}
	g := newGrouper(base, up, &Recorder{}, false)

	_, err := g.Run(context.Background(), []ArtifactDefinition{
		{Name: "ghost", Patterns: []string{"missing/**"}},
		{Name: "logs", Patterns: []string{"logs"}},
	})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Fatalf("error %q does not name the artifact", err)
	}
	if len(up.calls) != 0 {
		t.Fatalf("uploads = %v, want none after fatal abort", up.calls)
	}
}

func TestRunZeroFilesSkipsWithContinueOnError(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "logs", "app.log"))

	up := &fakeUploader{}
	rec := &Recorder{}
	g := newGrouper(base, up, rec, true)

	got, err := g.Run(context.Background(), []ArtifactDefinition{
		{Name: "ghost", Patterns: []string{"missing/**"}},
		{Name: "logs", Patterns: []string{"logs"}},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "logs" {
		t.Fatalf("Run() = %v, want only logs", got)
	}
	if !reflect.DeepEqual(up.calls, []string{"logs"}) {
		t.Fatalf("uploads = %v, want [logs]", up.calls)
	}

	var skipped bool
	for _, d := range rec.Warnings() {
		if d.Artifact == "ghost" && strings.Contains(d.Message, "skipping artifact") {
			skipped = true
		}
	}
	if !skipped {
		t.Fatalf("diagnostics %v missing skip warning for ghost", rec.Events())
	}
}

func TestRunUploaderFailureIsFatal(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "logs", "app.log"))

	up := &fakeUploader{err: errors.New("bucket gone")}
	g := newGrouper(base, up, &Recorder{}, true)

	_, err := g.Run(context.Background(), []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if !strings.Contains(err.Error(), "bucket gone") {
		t.Fatalf("error %q does not wrap uploader failure", err)
	}
}

func TestRunWithoutUploaderResolvesOnly(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "logs", "app.log"))

	g := newGrouper(base, nil, &Recorder{}, false)
	got, err := g.Run(context.Background(), []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Run() = %v, want one artifact", got)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := newGrouper(t.TempDir(), &fakeUploader{}, &Recorder{}, false)
	if _, err := g.Run(ctx, []ArtifactDefinition{{Name: "logs", Patterns: []string{"logs"}}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}
