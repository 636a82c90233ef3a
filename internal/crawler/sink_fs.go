package crawler

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// FileSystemSink persists one artifact per page on the local filesystem.
type FileSystemSink struct {
	logger *zap.Logger
}

// NewFileSystemSink returns a filesystem-backed Sink.
func NewFileSystemSink(logger *zap.Logger) *FileSystemSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSystemSink{logger: logger}
}

// Write stores data at path. The caller guarantees the parent directory
// exists and is writable.
func (s *FileSystemSink) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	s.logger.Debug("artifact written", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
