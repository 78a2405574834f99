// Package export serializes a single resolved table into csv, json or a
// real xlsx workbook. Delivery (content-type headers, attachment
// disposition, HTTP writing) stays with the caller.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"doctab/internal/core"
)

// Table serializes t in the requested format.
func Table(t core.Table, format core.ExportFormat) ([]byte, error) {
	switch format {
	case core.ExportCSV:
		return CSV(t), nil
	case core.ExportJSON:
		return JSON(t)
	case core.ExportXLSX:
		return XLSX(t)
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownExport, format)
	}
}

// CSV renders the table with every field quoted. Embedded quotes are
// doubled per RFC 4180; fields are joined by commas and rows by "\n",
// with a trailing newline.
func CSV(t core.Table) []byte {
	var sb strings.Builder
	writeCSVRow(&sb, t.Header)
	for _, row := range t.Rows {
		writeCSVRow(&sb, row)
	}
	return []byte(sb.String())
}

func writeCSVRow(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		sb.WriteByte('"')
	}
	sb.WriteByte('\n')
}

// JSON renders the whole table, metadata included, with 2-space
// indentation. The output round-trips back into an identical core.Table.
func JSON(t core.Table) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal table %s: %w", t.ID, err)
	}
	return data, nil
}

// XLSX builds a real single-sheet workbook: the sheet is named after the
// table, the header occupies the first row and data rows follow.
func XLSX(t core.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	if len(t.Header) > 0 {
		if err := setRow(f, sheet, 1, t.Header); err != nil {
			return nil, err
		}
	}
	for i, row := range t.Rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("row %d coordinates: %w", rowNum, err)
	}
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", rowNum, err)
	}
	return nil
}

// sheetName adapts a table name to the xlsx sheet-name rules: at most 31
// characters, none of : \ / ? * [ ].
func sheetName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Table"
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	runes := []rune(name)
	if len(runes) > 31 {
		name = string(runes[:31])
	}
	return name
}
