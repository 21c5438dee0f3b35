// Package sink writes finished snapshots out. It is the external
// collaborator of the pipeline: the core never touches it.
package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/domain"
)

type FileSink struct {
	dir    string
	logger *zap.Logger
}

func NewFileSink(dir string, logger *zap.Logger) *FileSink {
	return &FileSink{dir: dir, logger: logger}
}

// Write serializes the snapshot to dir/channel_<id>_<date>.json, or to the
// explicit path when one is given.
func (s *FileSink) Write(snapshot *domain.ExportSnapshot, path string) (string, error) {
	if path == "" {
		name := fmt.Sprintf("channel_%s_%s.json",
			snapshot.Channel.ID,
			snapshot.ExportedAt.Format("2006-01-02"))
		path = filepath.Join(s.dir, name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Info("Snapshot written",
		zap.String("path", path),
		zap.Int("videos", len(snapshot.Videos)))

	return path, nil
}
