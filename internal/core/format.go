package core

import "fmt"

// ViewFormat selects how requested tables are projected into a view.
type ViewFormat string

const (
	FormatDefault    ViewFormat = "default"
	FormatSummary    ViewFormat = "summary"
	FormatComparison ViewFormat = "comparison"
)

// String implements fmt.Stringer
func (f ViewFormat) String() string {
	return string(f)
}

// IsValid returns true if the view format is one of the closed set.
func (f ViewFormat) IsValid() bool {
	switch f {
	case FormatDefault, FormatSummary, FormatComparison:
		return true
	default:
		return false
	}
}

// ParseViewFormat parses a format literal. Unknown values are an error;
// callers that need the legacy forgiving behavior downgrade to
// FormatDefault themselves.
func ParseViewFormat(s string) (ViewFormat, error) {
	f := ViewFormat(s)
	if !f.IsValid() {
		return FormatDefault, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// ExportFormat selects the serialization of a single exported table.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
	ExportXLSX ExportFormat = "xlsx"
)

// String implements fmt.Stringer
func (f ExportFormat) String() string {
	return string(f)
}

// IsValid returns true if the export format is one of the closed set.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportCSV, ExportJSON, ExportXLSX:
		return true
	default:
		return false
	}
}

// ParseExportFormat parses an export format literal. The empty string
// defaults to csv; anything else outside the closed set is an error.
// Format literals are case-sensitive.
func ParseExportFormat(s string) (ExportFormat, error) {
	if s == "" {
		return ExportCSV, nil
	}
	f := ExportFormat(s)
	if !f.IsValid() {
		return ExportCSV, fmt.Errorf("%w: %q", ErrUnknownExport, s)
	}
	return f, nil
}

// ContentType returns the MIME type callers should send with exported bytes.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportJSON:
		return "application/json; charset=utf-8"
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Extension returns the file extension (without dot) for attachment names.
func (f ExportFormat) Extension() string {
	return string(f)
}
