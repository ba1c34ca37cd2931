package port

import (
	"context"
	"time"
)

// TranscriptRef identifies one transcript document in a source.
type TranscriptRef struct {
	Name     string
	Location string
	Size     int64
	Modified time.Time
}

// TranscriptSource lists and fetches raw transcript documents.
type TranscriptSource interface {
	List(ctx context.Context) ([]TranscriptRef, error)
	Fetch(ctx context.Context, ref TranscriptRef) ([]byte, error)
}
