package tables

import "doctab/internal/core"

// SampleTables returns the deterministic two-table demo set for a
// document. Used by development/demo backends to answer list requests for
// documents the extraction pipeline has not processed; the content is
// fixed per document id so repeated seeding is idempotent.
func SampleTables(documentID string) []core.Table {
	return []core.Table{
		{
			ID:         documentID + "_t1",
			DocumentID: documentID,
			Name:       "מאזן",
			Page:       1,
			Header:     []string{"סעיף", "2023", "2022"},
			Rows: [][]string{
				{"נכסים שוטפים", "2,450,000", "2,180,000"},
				{"מזומנים ושווי מזומנים", "890,000", "720,000"},
				{"לקוחות", "1,120,000", "1,050,000"},
				{"התחייבויות שוטפות", "1,340,000", "1,290,000"},
				{"הון עצמי", "3,210,000", "2,870,000"},
			},
		},
		{
			ID:         documentID + "_t2",
			DocumentID: documentID,
			Name:       "דוח רווח והפסד",
			Page:       2,
			Header:     []string{"סעיף", "2023", "2022"},
			Rows: [][]string{
				{"הכנסות", "5,680,000", "4,920,000"},
				{"עלות המכר", "3,140,000", "2,830,000"},
				{"רווח גולמי", "2,540,000", "2,090,000"},
				{"הוצאות הנהלה וכלליות", "980,000", "870,000"},
				{"רווח נקי", "1,180,000", "905,000"},
			},
		},
	}
}
