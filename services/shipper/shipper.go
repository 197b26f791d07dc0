package shipper

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"packrat/pkg/telemetry"
	"packrat/services/collector"
)

const (
	manifestFileName = "manifest.yaml"
	filesTarPrefix   = "files"
)

// ObjectStore is the object storage surface the shipper needs. pkg/s3
// implements it.
type ObjectStore interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, sha256 string) error
}

// Shipper packages a resolved artifact into a tar.zst archive with an
// embedded yaml manifest and uploads it to object storage. It implements
// collector.Uploader.
type Shipper struct {
	Store  ObjectStore
	Bucket string
	Prefix string
	RunID  string
	Signer *Signer // optional; manifests are signed when set
	Now    func() time.Time
}

var _ collector.Uploader = (*Shipper)(nil)

// New builds a Shipper with a fresh run ID. Archives land under
// <prefix>/<run-id>/<artifact>.tar.zst.
func New(store ObjectStore, bucket string) *Shipper {
	return &Shipper{
		Store:  store,
		Bucket: bucket,
		Prefix: "artifacts",
		RunID:  uuid.NewString(),
		Now:    time.Now,
	}
}

// Upload archives files relative to root and puts the archive to the store.
// Files that vanished or became unreadable since resolution are skipped when
// opts.ContinueOnError is set, otherwise they fail the upload. The returned
// count is the number of files actually shipped.
func (s *Shipper) Upload(ctx context.Context, name string, files []string, root string, opts collector.UploadOptions) (collector.UploadResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "shipper.upload", trace.WithAttributes(
		attribute.String("artifact.name", name),
		attribute.Int("artifact.files", len(files)),
	))
	defer span.End()

	if s.Store == nil {
		return collector.UploadResult{}, errors.New("no object store configured")
	}
	if s.Bucket == "" {
		return collector.UploadResult{}, errors.New("no bucket configured")
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	entries, err := describeFiles(ctx, files, root, opts.ContinueOnError)
	if err != nil {
		return collector.UploadResult{}, err
	}
	if len(entries) == 0 {
		return collector.UploadResult{}, fmt.Errorf("artifact %q has no shippable files left", name)
	}

	manifest := Manifest{
		Version:   "1",
		Artifact:  name,
		RunID:     s.RunID,
		CreatedAt: now().UTC().Truncate(time.Second),
		Files:     entries,
	}
	if s.Signer != nil {
		payload, err := manifest.SigningBytes()
		if err != nil {
			return collector.UploadResult{}, fmt.Errorf("marshal manifest for signing: %w", err)
		}
		sig, err := s.Signer.Sign(payload)
		if err != nil {
			return collector.UploadResult{}, fmt.Errorf("sign manifest: %w", err)
		}
		manifest.SigningPublicKey = s.Signer.PublicKeyBase64()
		manifest.Signature = sig
	}

	archive, err := os.CreateTemp("", "packrat-*.tar.zst")
	if err != nil {
		return collector.UploadResult{}, fmt.Errorf("temp archive: %w", err)
	}
	defer os.Remove(archive.Name())
	defer archive.Close()

	if err := writeArchive(archive, manifest, root, entries, opts.CompressionLevel); err != nil {
		return collector.UploadResult{}, err
	}

	size, digest, err := rewindAndHash(archive)
	if err != nil {
		return collector.UploadResult{}, err
	}

	key := path.Join(s.Prefix, s.RunID, name+".tar.zst")
	if err := s.Store.PutObject(ctx, s.Bucket, key, archive, size, digest); err != nil {
		return collector.UploadResult{}, fmt.Errorf("put %s: %w", key, err)
	}

	return collector.UploadResult{ArtifactName: name, SuccessfulItems: len(entries)}, nil
}

func describeFiles(ctx context.Context, files []string, root string, continueOnError bool) ([]ManifestFile, error) {
	entries := make([]ManifestFile, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return nil, fmt.Errorf("relative path for %q: %w", file, err)
		}

		size, digest, err := hashFile(file)
		if err != nil {
			if continueOnError {
				continue
			}
			return nil, fmt.Errorf("hash %q: %w", file, err)
		}
		entries = append(entries, ManifestFile{
			Path:   filepath.ToSlash(rel),
			Size:   size,
			SHA256: digest,
		})
	}
	return entries, nil
}

func writeArchive(w io.Writer, manifest Manifest, root string, entries []ManifestFile, level int) error {
	manifestBytes, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	encoder, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	if err != nil {
		return fmt.Errorf("zstd writer: %w", err)
	}
	tw := tar.NewWriter(encoder)

	header := &tar.Header{
		Name:     manifestFileName,
		Mode:     0o644,
		Size:     int64(len(manifestBytes)),
		ModTime:  manifest.CreatedAt,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write manifest header: %w", err)
	}
	if _, err := tw.Write(manifestBytes); err != nil {
		return fmt.Errorf("write manifest body: %w", err)
	}

	for _, entry := range entries {
		full := filepath.Join(root, filepath.FromSlash(entry.Path))
		info, err := os.Stat(full)
		if err != nil {
			return fmt.Errorf("stat %q: %w", entry.Path, err)
		}
		file, err := os.Open(full)
		if err != nil {
			return fmt.Errorf("open %q: %w", entry.Path, err)
		}

		header := &tar.Header{
			Name:     path.Join(filesTarPrefix, entry.Path),
			Mode:     int64(info.Mode().Perm()),
			Size:     entry.Size,
			ModTime:  info.ModTime(),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(header); err != nil {
			file.Close()
			return fmt.Errorf("write header for %q: %w", entry.Path, err)
		}
		if _, err := io.Copy(tw, file); err != nil {
			file.Close()
			return fmt.Errorf("copy %q: %w", entry.Path, err)
		}
		file.Close()
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("close zstd: %w", err)
	}
	return nil
}

func hashFile(path string) (int64, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer file.Close()

	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hash.Sum(nil)), nil
}

func rewindAndHash(file *os.File) (int64, string, error) {
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, "", fmt.Errorf("rewind archive: %w", err)
	}
	hash := sha256.New()
	size, err := io.Copy(hash, file)
	if err != nil {
		return 0, "", fmt.Errorf("hash archive: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return 0, "", fmt.Errorf("rewind archive: %w", err)
	}
	return size, hex.EncodeToString(hash.Sum(nil)), nil
}
