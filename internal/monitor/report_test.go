package monitor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport_SummaryLine(t *testing.T) {
	filtered := ClassifiedEdits{
		"Alice": {{
			ID:            id64(5),
			Type:          ChangeEdit,
			Title:         "Weather",
			RevisionID:    11,
			OldRevisionID: 10,
			OldLength:     100,
			NewLength:     123,
			Timestamp:     time.Date(2026, 5, 1, 10, 30, 0, 0, time.UTC),
			Comment:       "fix table",
			User:          "Alice",
		}},
	}

	report := FormatReport(filtered, nil)

	assert.Contains(t, report, "\nEdits of Alice:\n")
	assert.Contains(t, report, "\t2026-05-01T10:30:00Z edit: Weather (+23) fix table\n")
}

func TestFormatReport_NegativeDeltaAndLogSuffix(t *testing.T) {
	filtered := ClassifiedEdits{
		"203.0.113.5": {{
			LogID:     id64(9),
			Type:      ChangeLog,
			Title:     "Weather",
			OldLength: 50,
			NewLength: 40,
			Timestamp: time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC),
			Comment:   "",
			LogType:   "delete",
			LogAction: "delete",
			User:      "203.0.113.5",
		}},
	}

	report := FormatReport(filtered, nil)

	assert.Contains(t, report, "log (delete: delete): Weather (-10) ")
}

func TestFormatReport_DiffLinesOnlyForQualifyingEdits(t *testing.T) {
	filtered := ClassifiedEdits{
		"Alice": {
			{Type: ChangeNew, Title: "Fresh", RevisionID: 20, User: "Alice"},
			{Type: ChangeEdit, Title: "Weather", RevisionID: 11, OldRevisionID: 10, User: "Alice"},
		},
	}
	lookup := func(rc ChangeRecord) []DiffOp {
		require.True(t, rc.Qualifying(), "lookup must only be called for qualifying edits")
		return []DiffOp{
			{Kind: DiffEqual, BeforeStart: 1, BeforeLines: []string{"a"}},
			{Kind: DiffReplace, BeforeStart: 2, BeforeLines: []string{"b"}, AfterLines: []string{"c"}},
		}
	}

	report := FormatReport(filtered, lookup)

	assert.Contains(t, report, "\t\tchanged line 2: \"b\" -> \"c\"\n")
	assert.NotContains(t, report, "unchanged")
}

func TestFormatReport_EmptyBucketsSkipped(t *testing.T) {
	filtered := ClassifiedEdits{
		"Bob":   {},
		"Alice": {{Type: ChangeEdit, Title: "Weather", User: "Alice"}},
	}

	report := FormatReport(filtered, nil)

	assert.Contains(t, report, "Edits of Alice:")
	assert.NotContains(t, report, "Bob")
}

func TestFormatReport_UsersSortedForDeterminism(t *testing.T) {
	filtered := ClassifiedEdits{
		"Zed":   {{Type: ChangeEdit, Title: "Z", User: "Zed"}},
		"Alice": {{Type: ChangeEdit, Title: "A", User: "Alice"}},
		"Mia":   {{Type: ChangeEdit, Title: "M", User: "Mia"}},
	}

	first := FormatReport(filtered, nil)

	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FormatReport(filtered, nil))
	}
	assert.Less(t,
		strings.Index(first, "Edits of Alice:"),
		strings.Index(first, "Edits of Mia:"),
	)
	assert.Less(t,
		strings.Index(first, "Edits of Mia:"),
		strings.Index(first, "Edits of Zed:"),
	)
}

func TestFormatReport_EmptyInput(t *testing.T) {
	assert.Empty(t, FormatReport(ClassifiedEdits{}, nil))
}
