package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hansard/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// UnmatchedColumns is the header row of an unmatched speaker export.
var UnmatchedColumns = []string{
	"Session Number",
	"Session ID",
	"Speaker Key",
	"Raw Name",
	"Raw Constituency",
	"Line Number",
	"Recorded At",
}

// ReconciliationColumns is the header row of a reconciliation event export.
var ReconciliationColumns = []string{
	"Session ID",
	"Kind",
	"Name",
	"Captured ID",
	"Resolved ID",
	"Outcome",
	"Flagged",
	"Counter Skipped",
	"Recorded At",
}

// Writer wraps csv.Writer for exporting review data as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes a header row.
func (w *Writer) WriteHeader(columns []string) error {
	return w.csv.Write(columns)
}

// WriteUnmatched writes one row per unmatched speaker.
func (w *Writer) WriteUnmatched(rows []domain.StoredUnmatchedSpeaker) error {
	for i := range rows {
		r := &rows[i]
		if err := w.csv.Write([]string{
			r.SessionNumber,
			r.SessionID.String(),
			r.Key,
			r.RawName,
			r.RawConstituency,
			strconv.Itoa(r.LineNumber),
			r.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}

// WriteReconciliations writes one row per reconciliation event.
func (w *Writer) WriteReconciliations(events []domain.ReconciliationEvent) error {
	for i := range events {
		e := &events[i]
		if err := w.csv.Write([]string{
			e.SessionID.String(),
			string(e.Kind),
			e.Name,
			e.CapturedID.String(),
			e.ResolvedID.String(),
			string(e.Outcome),
			formatBool(e.Flagged),
			formatBool(e.CounterSkipped),
			e.CreatedAt.Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), now.Format("2006-01-02"))
}
