// Package textract turns raw transcript files into Unicode text.
package textract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"hansard/internal/domain"
	"hansard/internal/port"
)

// PDF extracts the text layer of a PDF document.
type PDF struct{}

var _ port.TextExtractor = PDF{}

// Extract implements port.TextExtractor.
func (PDF) Extract(ctx context.Context, name string, data []byte) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("%w: %s: malformed pdf: %v", domain.ErrExtractionFailed, name, rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, name, err)
	}
	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: %s: page %d: %w", domain.ErrExtractionFailed, name, i, err)
		}
		writeRows(&buf, rows)
	}
	if strings.TrimSpace(buf.String()) == "" {
		return "", fmt.Errorf("%w: %s: no text layer", domain.ErrExtractionFailed, name)
	}
	return buf.String(), nil
}

// writeRows writes one line per text row, top of the page first and each
// row left to right.
func writeRows(buf *bytes.Buffer, rows pdf.Rows) {
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].Position > rows[b].Position })
	for _, row := range rows {
		texts := row.Content
		sort.SliceStable(texts, func(a, b int) bool { return texts[a].X < texts[b].X })
		for _, t := range texts {
			buf.WriteString(t.S)
		}
		buf.WriteByte('\n')
	}
}

// Plain accepts text files that are valid UTF-8. A leading byte order mark
// is dropped.
type Plain struct{}

var _ port.TextExtractor = Plain{}

// Extract implements port.TextExtractor.
func (Plain) Extract(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s: not valid UTF-8", domain.ErrExtractionFailed, name)
	}
	return string(data), nil
}

// ByExtension routes a document to an extractor by its file extension.
type ByExtension struct {
	extractors map[domain.FileType]port.TextExtractor
}

var _ port.TextExtractor = (*ByExtension)(nil)

// NewByExtension creates a router with the PDF and Plain extractors.
func NewByExtension() *ByExtension {
	return &ByExtension{extractors: map[domain.FileType]port.TextExtractor{
		domain.FileTypePDF:  PDF{},
		domain.FileTypeText: Plain{},
	}}
}

// Extract implements port.TextExtractor.
func (b *ByExtension) Extract(ctx context.Context, name string, data []byte) (string, error) {
	ft, ok := FileTypeOf(name)
	if !ok {
		return "", fmt.Errorf("%w: %w: %s", domain.ErrExtractionFailed, domain.ErrUnsupportedFileType, name)
	}
	text, err := b.extractors[ft].Extract(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("textract.ByExtension: %w", err)
	}
	return text, nil
}

// FileTypeOf maps a file name to a supported transcript type.
func FileTypeOf(name string) (domain.FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	ft, ok := domain.AllowedExtensions[ext]
	return ft, ok
}
