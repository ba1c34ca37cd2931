// Package local reads transcripts from a directory tree.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"hansard/internal/domain"
	"hansard/internal/port"
	"hansard/internal/textract"
)

type dirSource struct {
	root string
}

// NewSource creates a TranscriptSource over every supported file under root.
func NewSource(root string) port.TranscriptSource {
	return &dirSource{root: root}
}

// List walks root and returns supported files sorted by path.
func (s *dirSource) List(ctx context.Context) ([]port.TranscriptRef, error) {
	var refs []port.TranscriptRef
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := textract.FileTypeOf(d.Name()); !ok {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		refs = append(refs, port.TranscriptRef{
			Name:     d.Name(),
			Location: p,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local list %s: %w: %w", s.root, domain.ErrSourceUnavailable, err)
	}
	slices.SortFunc(refs, func(a, b port.TranscriptRef) int { return strings.Compare(a.Location, b.Location) })
	return refs, nil
}

func (s *dirSource) Fetch(ctx context.Context, ref port.TranscriptRef) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(ref.Location)
	if err != nil {
		return nil, fmt.Errorf("local read: %w", err)
	}
	return data, nil
}
