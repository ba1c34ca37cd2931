package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrDuplicateSession    = errors.New("session with this number and date already exists")
	ErrEmptyRegistry       = errors.New("member registry is empty")
	ErrEmptyTranscript     = errors.New("transcript text is empty")
	ErrExtractionFailed    = errors.New("transcript text extraction failed")
	ErrUnsupportedFileType = errors.New("unsupported transcript file type")
	ErrSourceUnavailable   = errors.New("transcript source unavailable")
)
