package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"deadline-tracker/internal/logger"
)

// Snapshotter exposes the persisted collection blob.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]byte, error)
}

// BackupService copies the persisted collection into timestamped files.
type BackupService struct {
	source Snapshotter
	dir    string
	now    func() time.Time
	log    zerolog.Logger
}

func NewBackupService(source Snapshotter, dir string) *BackupService {
	return &BackupService{
		source: source,
		dir:    dir,
		now:    time.Now,
		log:    logger.Component("backup"),
	}
}

// Run writes one snapshot and returns its path.
func (s *BackupService) Run(ctx context.Context) (string, error) {
	raw, err := s.source.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir %q: %w", s.dir, err)
	}

	name := fmt.Sprintf("deadlines-%s.json", s.now().UTC().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("finalize backup: %w", err)
	}

	s.log.Info().Str("path", path).Int("bytes", len(raw)).Msg("backup written")
	return path, nil
}
