package collector

import (
	"errors"
	"io/fs"
	"os"
)

// PathKind is the result of probing a path on disk.
type PathKind int

const (
	PathMissing PathKind = iota
	PathUnreadable
	PathFile
	PathDir
	PathOther
)

func (k PathKind) String() string {
	switch k {
	case PathMissing:
		return "missing"
	case PathUnreadable:
		return "unreadable"
	case PathFile:
		return "file"
	case PathDir:
		return "directory"
	default:
		return "other"
	}
}

// Probe reports what lives at path, following symlinks. Filesystem errors are
// folded into PathMissing/PathUnreadable instead of being returned; PathOther
// covers non-regular entities such as sockets and devices.
func Probe(path string) PathKind {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return PathMissing
		}
		return PathUnreadable
	}
	switch {
	case info.IsDir():
		return PathDir
	case info.Mode().IsRegular():
		return PathFile
	default:
		return PathOther
	}
}
