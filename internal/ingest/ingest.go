// Package ingest resolves email-thread sources into raw text. Sources are
// inline text pasted into the conversation, files beneath a configured root
// directory, or blobs held in the storage container. PDF content is
// extracted page by page; everything else is treated as plain text.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/epistle/internal/sessions"
	"github.com/JaimeStill/epistle/pkg/storage"
)

// Source kinds accepted by Resolve.
const (
	KindInline = "inline"
	KindFile   = "file"
	KindBlob   = "blob"
)

// Result is the normalized output of source resolution.
type Result struct {
	RawText   string
	PageCount *int
}

// Resolver turns a source descriptor into raw thread text.
type Resolver interface {
	Resolve(ctx context.Context, src sessions.SourceDescriptor) (*Result, error)
}

type resolver struct {
	cfg    Config
	blobs  storage.System
	logger *slog.Logger
}

// New creates a resolver backed by the given blob storage system.
// Blob sources fail with storage errors when blobs is nil.
func New(cfg Config, blobs storage.System, logger *slog.Logger) Resolver {
	return &resolver{
		cfg:    cfg,
		blobs:  blobs,
		logger: logger.With("system", "ingest"),
	}
}

func (r *resolver) Resolve(ctx context.Context, src sessions.SourceDescriptor) (*Result, error) {
	refs := src.Refs
	if len(refs) == 0 && src.Ref != "" {
		refs = []string{src.Ref}
	}

	switch src.Kind {
	case KindInline:
		return r.resolveInline(src.Ref)
	case KindFile:
		return r.resolveMany(ctx, refs, r.readFile)
	case KindBlob:
		return r.resolveMany(ctx, refs, r.readBlob)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, src.Kind)
	}
}

func (r *resolver) resolveInline(text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptySource
	}
	if int64(len(text)) > r.cfg.MaxSourceBytes {
		return nil, ErrSourceTooLarge
	}
	return &Result{RawText: text}, nil
}

// resolveMany reads each ref concurrently, then joins the extracted parts
// in ref order so repeated resolution yields identical text.
func (r *resolver) resolveMany(
	ctx context.Context,
	refs []string,
	read func(ctx context.Context, ref string) ([]byte, error),
) (*Result, error) {
	if len(refs) == 0 {
		return nil, ErrEmptySource
	}

	parts := make([]string, len(refs))
	counts := make([]*int, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			data, err := read(gctx, ref)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", ref, err)
			}

			text, count, err := extract(ref, data)
			if err != nil {
				return fmt.Errorf("extract %s: %w", ref, err)
			}

			parts[i] = text
			counts[i] = count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var pages int
	var hasPages bool
	for _, count := range counts {
		if count != nil {
			pages += *count
			hasPages = true
		}
	}

	text := strings.TrimSpace(strings.Join(parts, "\n\n---\n\n"))
	if text == "" {
		return nil, ErrEmptySource
	}

	result := &Result{RawText: text}
	if hasPages {
		result.PageCount = &pages
	}
	return result, nil
}

func (r *resolver) readFile(_ context.Context, ref string) ([]byte, error) {
	path, err := r.rootedPath(ref)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > r.cfg.MaxSourceBytes {
		return nil, ErrSourceTooLarge
	}

	return os.ReadFile(path)
}

func (r *resolver) readBlob(ctx context.Context, ref string) ([]byte, error) {
	reader, err := r.blobs.Download(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	data, err := io.ReadAll(io.LimitReader(reader, r.cfg.MaxSourceBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.cfg.MaxSourceBytes {
		return nil, ErrSourceTooLarge
	}

	return data, nil
}

// rootedPath resolves ref beneath the configured file root and rejects
// any path that escapes it.
func (r *resolver) rootedPath(ref string) (string, error) {
	root, err := filepath.Abs(r.cfg.FileRoot)
	if err != nil {
		return "", err
	}

	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	path, err = filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if path != root && !strings.HasPrefix(path, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, ref)
	}

	return path, nil
}

// extract converts raw source bytes into text. PDF sources are extracted
// page by page; everything else passes through as UTF-8 text.
func extract(ref string, data []byte) (string, *int, error) {
	if isPDF(ref, data) {
		return extractPDF(data)
	}
	return string(data), nil, nil
}

func isPDF(ref string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(ref), ".pdf") {
		return true
	}
	return bytes.HasPrefix(data, []byte("%PDF-"))
}
