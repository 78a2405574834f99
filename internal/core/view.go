package core

import (
	"fmt"
	"time"
)

// View is a derived, non-persistent projection of one or more tables.
// Views are generated per request and owned by the caller; nothing here
// is written back to the table store.
type View interface {
	ViewID() string
	ViewType() ViewFormat
}

// ViewMeta carries the fields shared by every view variant.
type ViewMeta struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      ViewFormat `json:"type"`
	CreatedAt time.Time  `json:"created_at"`
}

func (m ViewMeta) ViewID() string       { return m.ID }
func (m ViewMeta) ViewType() ViewFormat { return m.Type }

// NewViewMeta builds the common view header. The id is
// "{type}_{epoch-millis}"; ids generated within the same millisecond
// collide and callers must not rely on uniqueness.
func NewViewMeta(format ViewFormat, name string) ViewMeta {
	now := time.Now()
	return ViewMeta{
		ID:        fmt.Sprintf("%s_%d", format, now.UnixMilli()),
		Name:      name,
		Type:      format,
		CreatedAt: now,
	}
}

type (
	// DefaultView wraps the resolved tables unchanged.
	DefaultView struct {
		ViewMeta
		Tables []Table `json:"tables"`
	}

	// SummaryView flattens tables into a list of labeled metrics.
	SummaryView struct {
		ViewMeta
		Metrics      []Metric `json:"metrics"`
		SourceTables []string `json:"source_tables"`
	}

	// ComparisonView aligns tables on the shared category axis (first
	// column). When fewer than two tables were supplied, Error carries a
	// human-readable message and Categories/ComparisonData are empty;
	// callers must check Error before using the matrix.
	ComparisonView struct {
		ViewMeta
		Tables         []TableRef      `json:"tables"`
		Categories     []string        `json:"categories"`
		ComparisonData []ComparisonRow `json:"comparison_data"`
		Error          string          `json:"error,omitempty"`
	}

	// Metric is one labeled value derived from a table row: the category
	// is the source table name, the name is row[0], the value row[1] and
	// Additional the remaining cells joined by ", ".
	Metric struct {
		Category   string `json:"category"`
		Name       string `json:"name"`
		Value      string `json:"value"`
		Additional string `json:"additional"`
	}

	// ComparisonRow is one category line of the comparison matrix, with
	// one value per input table in input order.
	ComparisonRow struct {
		Category string            `json:"category"`
		Values   []ComparisonValue `json:"values"`
	}

	ComparisonValue struct {
		Table      string `json:"table"`
		Value      string `json:"value"`
		Additional string `json:"additional"`
	}
)
