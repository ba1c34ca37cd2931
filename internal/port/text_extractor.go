package port

import "context"

// TextExtractor turns a raw transcript document into its Unicode text.
type TextExtractor interface {
	Extract(ctx context.Context, name string, data []byte) (string, error)
}
