package shipper

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

type archivedFile struct {
	size   int64
	sha256 string
}

// VerifyArchive reads a shipped archive from disk, checks every embedded file
// against the manifest's size and sha256, and verifies the manifest signature
// when one is present. signer may be nil; signed manifests then verify
// against their embedded public key.
func VerifyArchive(archivePath string, signer *Signer) (*Manifest, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer decoder.Close()

	var manifestBytes []byte
	contents := make(map[string]archivedFile)

	tr := tar.NewReader(decoder)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		if header.Name == manifestFileName {
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("read manifest: %w", err)
			}
			manifestBytes = data
			continue
		}

		rel, ok := strings.CutPrefix(header.Name, filesTarPrefix+"/")
		if !ok {
			continue
		}
		hash := sha256.New()
		size, err := io.Copy(hash, tr)
		if err != nil {
			return nil, fmt.Errorf("hash %q: %w", rel, err)
		}
		contents[rel] = archivedFile{size: size, sha256: hex.EncodeToString(hash.Sum(nil))}
	}

	if len(manifestBytes) == 0 {
		return nil, errors.New("archive has no manifest.yaml")
	}
	var manifest Manifest
	if err := yaml.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	if manifest.Version != "1" {
		return nil, fmt.Errorf("unsupported manifest version %q", manifest.Version)
	}

	for _, want := range manifest.Files {
		got, ok := contents[want.Path]
		if !ok {
			return nil, fmt.Errorf("file %q missing from archive", want.Path)
		}
		if got.size != want.Size {
			return nil, fmt.Errorf("size mismatch for %q: manifest %d, archive %d", want.Path, want.Size, got.size)
		}
		if !strings.EqualFold(got.sha256, want.SHA256) {
			return nil, fmt.Errorf("sha256 mismatch for %q", want.Path)
		}
	}

	if manifest.Signature != "" {
		payload, err := manifest.SigningBytes()
		if err != nil {
			return nil, fmt.Errorf("marshal manifest for verification: %w", err)
		}
		if err := signer.Verify(payload, manifest.Signature, manifest.SigningPublicKey); err != nil {
			return nil, fmt.Errorf("verify manifest signature: %w", err)
		}
	}

	return &manifest, nil
}
