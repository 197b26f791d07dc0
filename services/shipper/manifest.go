package shipper

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest is the metadata embedded at the head of every shipped archive.
type Manifest struct {
	Version          string         `yaml:"version"`
	Artifact         string         `yaml:"artifact"`
	RunID            string         `yaml:"run_id"`
	CreatedAt        time.Time      `yaml:"created_at"`
	SigningPublicKey string         `yaml:"signing_public_key,omitempty"`
	Signature        string         `yaml:"signature,omitempty"`
	Files            []ManifestFile `yaml:"files"`
}

// SigningBytes marshals the manifest without its signature for
// signing and verification.
func (m Manifest) SigningBytes() ([]byte, error) {
	clone := m
	clone.Signature = ""
	return yaml.Marshal(clone)
}

// ManifestFile describes one file within the archive. Path is relative to the
// artifact's root directory, slash-separated.
type ManifestFile struct {
	Path   string `yaml:"path"`
	Size   int64  `yaml:"size"`
	SHA256 string `yaml:"sha256"`
}
