package model

import "fmt"

// CatalogFormatError reports a catalog that cannot be resolved as written:
// a missing column, a malformed target id, or a sector token that is not an
// integer. It is fatal for the whole run.
type CatalogFormatError struct {
	Line   int    // CSV record number, 0 when the error is not tied to a row
	Column string // column label from the catalog header
	Value  string // offending value, if any
	Reason string
}

// Error formats the error with as much location detail as is known.
func (e *CatalogFormatError) Error() string {
	msg := "catalog format"
	if e.Line > 0 {
		msg += fmt.Sprintf(": line %d", e.Line)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(": column %q", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(": value %q", e.Value)
	}
	return msg + ": " + e.Reason
}

// IdentifierTooLongError is returned when a target id does not fit in the
// 16-digit field of an archive path.
type IdentifierTooLongError struct {
	TargetID string
	Max      int
}

func (e *IdentifierTooLongError) Error() string {
	return fmt.Sprintf("target id %q is %d characters, exceeds %d", e.TargetID, len(e.TargetID), e.Max)
}

// EpochOutOfRangeError is returned when a sector cannot be written into the
// 4-digit sector token of an archive path.
type EpochOutOfRangeError struct {
	Epoch int
	Max   int
}

func (e *EpochOutOfRangeError) Error() string {
	return fmt.Sprintf("sector %d out of range [0, %d]", e.Epoch, e.Max)
}

// HTTPError is a non-2xx response from the catalog service or the archive.
type HTTPError struct {
	StatusCode int
	URL        string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Message)
}
