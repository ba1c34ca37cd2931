package domain

// FileType represents the transcript formats the ingest pipeline accepts.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeText FileType = "txt"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"txt":  FileTypeText,
	"text": FileTypeText,
}

// DocumentStatus is the per-document outcome of a batch run.
type DocumentStatus string

const (
	DocumentStatusPersisted DocumentStatus = "persisted"
	DocumentStatusSkipped   DocumentStatus = "skipped"
	DocumentStatusFailed    DocumentStatus = "failed"
)

// ReconcileOutcome describes what happened to a captured member id at persist time.
type ReconcileOutcome string

const (
	// ReconcileUnchanged means the captured id is still the canonical id for the name.
	ReconcileUnchanged ReconcileOutcome = "unchanged"
	// ReconcileCorrected means the registry issued a new id for the same name.
	ReconcileCorrected ReconcileOutcome = "corrected"
	// ReconcileFallback means the name no longer resolves; the captured id was kept.
	ReconcileFallback ReconcileOutcome = "fallback"
)

// ReferenceKind distinguishes speaker references from attendance references.
type ReferenceKind string

const (
	ReferenceSpeaker    ReferenceKind = "speaker"
	ReferenceAttendance ReferenceKind = "attendance"
)

// FuzzyStrategyName selects the resolver's last-resort matching strategy.
type FuzzyStrategyName string

const (
	FuzzySubstring   FuzzyStrategyName = "substring"
	FuzzyJaroWinkler FuzzyStrategyName = "jarowinkler"
)

// UnknownValue is recorded for metadata fields whose marker is absent.
const UnknownValue = "Unknown"
