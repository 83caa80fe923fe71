package utils

import (
	"context"
	"os"
	"path/filepath"
)

// ExportSink stores a generated report file and returns where it ended up.
type ExportSink interface {
	Put(ctx context.Context, filename, contentType string, content []byte) (string, error)
}

// DirSink writes exports into a local directory.
type DirSink struct {
	Dir string
}

// EnsureDir makes sure Dir exists before a write.
func (d DirSink) EnsureDir() error {
	return os.MkdirAll(d.Dir, os.ModePerm)
}

func (d DirSink) Put(_ context.Context, filename, _ string, content []byte) (string, error) {
	if err := d.EnsureDir(); err != nil {
		return "", err
	}
	path := filepath.Join(d.Dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// MultiSink writes to every sink and returns the last location, which is the
// most public one when the R2 sink is configured last.
type MultiSink []ExportSink

func (m MultiSink) Put(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	var location string
	for _, s := range m {
		loc, err := s.Put(ctx, filename, contentType, content)
		if err != nil {
			return "", err
		}
		location = loc
	}
	return location, nil
}
