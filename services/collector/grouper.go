package collector

import (
	"context"
	"fmt"
)

// Grouper drives one collection run: it resolves each artifact definition in
// order, applies the zero-file policy, computes the root directory and hands
// the resolved artifact to the uploader. Definitions are independent of each
// other; order affects only diagnostics and upload order.
type Grouper struct {
	Base     string
	Resolver *Resolver
	Uploader Uploader // nil means resolve-only (dry runs)
	Sink     Sink
	Options  UploadOptions
}

// Run processes defs sequentially and returns the artifacts that resolved to
// at least one file. An empty file set skips the artifact with a warning when
// continue-on-error is set; otherwise it aborts the run immediately, before
// any later definition is resolved or uploaded. An uploader failure is always
// fatal.
func (g *Grouper) Run(ctx context.Context, defs []ArtifactDefinition) ([]ResolvedArtifact, error) {
	resolved := make([]ResolvedArtifact, 0, len(defs))
	for _, def := range defs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		files := g.Resolver.Resolve(g.Base, def)
		if len(files) == 0 {
			if g.Options.ContinueOnError {
				g.emit(Diagnostic{
					Level:    LevelWarning,
					Artifact: def.Name,
					Message:  "no files matched, skipping artifact",
				})
				continue
			}
			return nil, fmt.Errorf("artifact %q matched no files", def.Name)
		}

		artifact := ResolvedArtifact{
			Name:  def.Name,
			Files: files,
			Root:  CommonRoot(files),
		}

		if g.Uploader != nil {
			result, err := g.Uploader.Upload(ctx, artifact.Name, artifact.Files, artifact.Root, g.Options)
			if err != nil {
				return nil, fmt.Errorf("upload artifact %q: %w", artifact.Name, err)
			}
			g.emit(Diagnostic{
				Level:    LevelInfo,
				Artifact: result.ArtifactName,
				Message:  fmt.Sprintf("uploaded %d files", result.SuccessfulItems),
			})
		}
		resolved = append(resolved, artifact)
	}
	return resolved, nil
}

func (g *Grouper) emit(d Diagnostic) {
	if g.Sink == nil {
		return
	}
	g.Sink.Emit(d)
}
