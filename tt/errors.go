package tt

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decoding failure classes clients may want to
// distinguish programmatically (check with errors.Is).
var (
	// ErrBufferBounds flags a read beyond the end of the font's byte buffer.
	// A truncated or corrupt file cannot produce a partial-but-safe result,
	// so this always aborts the decode.
	ErrBufferBounds = errBufferBounds

	// ErrUnsupportedKerningFormat flags a kern sub-table with a sub-format
	// other than 0. The offending sub-table is dropped.
	ErrUnsupportedKerningFormat = errors.New("kern sub-table format not supported")

	// ErrMalformedCMap flags a structurally invalid cmap sub-table.
	ErrMalformedCMap = errors.New("malformed cmap sub-table")

	// ErrUnsupportedFont flags a font without any usable cmap sub-table.
	// The font's tables are decoded regardless, but the character map
	// stays empty and character lookups will degenerate.
	ErrUnsupportedFont = errors.New("font has no usable cmap sub-table")
)

// ErrorSeverity represents the severity level of a font decoding error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font decoding.
// Errors are accumulated during the decode and can be inspected after it
// completes.
type FontError struct {
	Table    Tag           // the table where the error occurred (e.g., "kern", "cmap")
	Section  string        // specific section within the table (e.g., "Format4", "SubtableHeader")
	Issue    string        // human-readable description of the issue
	Severity ErrorSeverity // severity level of the error
	Offset   uint32        // byte offset in the font file where the error occurred (0 if unknown)
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// FontWarning represents a non-critical issue encountered during font
// decoding. Warnings indicate potential problems but do not prevent font
// usage.
type FontWarning struct {
	Table  Tag    // the table where the warning occurred
	Issue  string // human-readable description of the warning
	Offset uint32 // byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font decoding.
// This is an internal helper used by the decoder to collect issues as they
// are discovered.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

// addError records a decoding error.
func (ec *errorCollector) addError(table Tag, section string, issue string, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    issue,
		Severity: severity,
		Offset:   offset,
	})
}

// addWarning records a decoding warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

// hasErrors returns true if any errors have been recorded.
func (ec *errorCollector) hasErrors() bool {
	return len(ec.errors) > 0
}

// hasCriticalErrors returns true if any critical errors have been recorded.
func (ec *errorCollector) hasCriticalErrors() bool {
	for _, err := range ec.errors {
		if err.Severity == SeverityCritical {
			return true
		}
	}
	return false
}
