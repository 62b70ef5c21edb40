package monitor

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DiffLookup resolves the rendered diff for a qualifying edit. It is
// supplied by the caller so formatting stays free of transport concerns.
type DiffLookup func(ChangeRecord) []DiffOp

// FormatReport assembles the final textual report: one section per user
// with a non-empty edit list, users in sorted order so repeated runs over
// the same input produce identical bytes.
func FormatReport(filtered ClassifiedEdits, lookup DiffLookup) string {
	users := make([]string, 0, len(filtered))
	for user, edits := range filtered {
		if len(edits) > 0 {
			users = append(users, user)
		}
	}
	sort.Strings(users)

	var b strings.Builder
	for _, user := range users {
		fmt.Fprintf(&b, "\nEdits of %s:\n", user)
		for _, edit := range filtered[user] {
			fmt.Fprintf(&b, "\t%s\n", formatSummary(edit))
			if !edit.Qualifying() || lookup == nil {
				continue
			}
			for _, op := range lookup(edit) {
				if op.Kind == DiffEqual {
					continue
				}
				fmt.Fprintf(&b, "\t\t%s\n", op)
			}
		}
	}
	return b.String()
}

func formatSummary(rc ChangeRecord) string {
	return fmt.Sprintf("%s %s%s: %s (%+d) %s",
		rc.Timestamp.UTC().Format(time.RFC3339),
		rc.Type,
		formatLogInfo(rc),
		rc.Title,
		rc.NewLength-rc.OldLength,
		rc.Comment,
	)
}

func formatLogInfo(rc ChangeRecord) string {
	if rc.LogType == "" || rc.LogAction == "" {
		return ""
	}
	return fmt.Sprintf(" (%s: %s)", rc.LogType, rc.LogAction)
}
