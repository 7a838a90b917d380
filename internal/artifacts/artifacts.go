// Package artifacts persists accepted reply drafts outside the session
// store. Drafts save to a local directory or to the blob container,
// selected per save by target name.
package artifacts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/epistle/pkg/storage"
)

// Save targets.
const (
	TargetLocal = "local"
	TargetBlob  = "blob"
)

// Saver persists a draft to a named target and returns its location:
// a file path for local saves, a blob key for blob saves.
type Saver interface {
	Save(ctx context.Context, target string, subsession uuid.UUID, content string) (string, error)
}

type saver struct {
	cfg    Config
	blobs  storage.System
	logger *slog.Logger
}

// New creates a saver backed by the given blob storage system.
// Blob saves fail with ErrNoBlobStorage when blobs is nil.
func New(cfg Config, blobs storage.System, logger *slog.Logger) Saver {
	return &saver{
		cfg:    cfg,
		blobs:  blobs,
		logger: logger.With("system", "artifacts"),
	}
}

func (s *saver) Save(
	ctx context.Context,
	target string,
	subsession uuid.UUID,
	content string,
) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyArtifact
	}

	name := artifactName(subsession)

	switch target {
	case TargetLocal:
		return s.saveLocal(name, content)
	case TargetBlob:
		return s.saveBlob(ctx, name, content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

func (s *saver) saveLocal(name, content string) (string, error) {
	if err := os.MkdirAll(s.cfg.LocalDir, 0o755); err != nil {
		return "", fmt.Errorf("create draft directory: %w", err)
	}

	path := filepath.Join(s.cfg.LocalDir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write draft %s: %w", path, err)
	}

	s.logger.Info("draft saved", "target", TargetLocal, "path", path)
	return path, nil
}

func (s *saver) saveBlob(ctx context.Context, name, content string) (string, error) {
	if s.blobs == nil {
		return "", ErrNoBlobStorage
	}

	key := s.cfg.BlobPrefix + "/" + name
	if err := s.blobs.Upload(ctx, key, strings.NewReader(content), "text/plain"); err != nil {
		return "", fmt.Errorf("upload draft %s: %w", key, err)
	}

	s.logger.Info("draft saved", "target", TargetBlob, "key", key)
	return key, nil
}

// artifactName builds a stable, collision-free name from the subsession id
// and save time.
func artifactName(subsession uuid.UUID) string {
	stamp := time.Now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s.txt", subsession, stamp)
}
