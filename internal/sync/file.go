package sync

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// FileDestination writes the export to a local file. Readers never see a
// partially written file.
type FileDestination struct {
	path string
}

// NewFileDestination returns a destination writing to path, creating its
// parent directory if needed.
func NewFileDestination(path string) (*FileDestination, error) {
	if path == "" {
		return nil, fmt.Errorf("file destination: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileDestination{path: path}, nil
}

func (d *FileDestination) Name() string {
	return "file://" + d.path
}

func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := atomic.WriteFile(d.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	return nil
}
