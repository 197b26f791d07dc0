package collector

import "context"

// ArtifactDefinition names a group of path patterns describing files to collect.
// Built by ParseDefinitions; immutable afterwards. Name is trimmed and non-empty,
// Patterns holds at least one non-empty entry.
type ArtifactDefinition struct {
	Name     string
	Patterns []string
}

// ResolvedArtifact is one definition resolved against the filesystem: the
// deduplicated absolute file paths plus the directory used to preserve their
// relative layout during packaging.
type ResolvedArtifact struct {
	Name  string
	Files []string
	Root  string
}

// UploadOptions carries the per-run knobs the uploader cares about.
type UploadOptions struct {
	ContinueOnError  bool
	CompressionLevel int
}

// UploadResult reports what the uploader shipped for one artifact.
type UploadResult struct {
	ArtifactName    string
	SuccessfulItems int
}

// Uploader ships a resolved artifact somewhere durable. The grouper treats it
// as opaque; any error it returns aborts the run.
type Uploader interface {
	Upload(ctx context.Context, name string, files []string, root string, opts UploadOptions) (UploadResult, error)
}
