package monitor

import "fmt"

// MalformedRecordError reports a record that violates an invariant the
// pipeline depends on, such as a content-pair fetch resolving to other
// than two revisions. The affected edit is skipped with a warning; the
// rest of the batch is still processed.
type MalformedRecordError struct {
	Title  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record for %q: %s", e.Title, e.Reason)
}
