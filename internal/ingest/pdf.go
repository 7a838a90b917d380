package ingest

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// extractPDF pulls the content of every page in order and reports the
// page count alongside the joined text.
func extractPDF(data []byte) (string, *int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), nil)
	if err != nil {
		return "", nil, fmt.Errorf("read pdf: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return "", nil, fmt.Errorf("validate pdf: %w", err)
	}

	count := ctx.PageCount

	var parts []string
	for page := 1; page <= count; page++ {
		reader, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil {
			return "", nil, fmt.Errorf("extract pdf page %d: %w", page, err)
		}
		if reader == nil {
			continue
		}

		content, err := io.ReadAll(reader)
		if err != nil {
			return "", nil, fmt.Errorf("read pdf page %d: %w", page, err)
		}

		if text := strings.TrimSpace(string(content)); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), &count, nil
}
