package monitor

import "time"

// ChangeType is the kind of entry a wiki reports on its recent changes feed.
type ChangeType string

const (
	ChangeEdit       ChangeType = "edit"
	ChangeExternal   ChangeType = "external"
	ChangeNew        ChangeType = "new"
	ChangeLog        ChangeType = "log"
	ChangeCategorize ChangeType = "categorize"
)

// ChangeRecord is one entry of a recent-changes batch. It is produced by the
// transport layer and consumed read-only by the pipeline.
//
// ID and LogID are pointers because pure log entries carry no recent-change
// id and non-log entries carry no log id. A nil id contributes nothing to
// watermark accounting; it is never folded to zero.
type ChangeRecord struct {
	ID            *int64
	Type          ChangeType
	Namespace     int
	Title         string
	PageID        int64
	RevisionID    int64
	OldRevisionID int64
	User          string
	UserID        int64
	OldLength     int64
	NewLength     int64
	Timestamp     time.Time
	Comment       string
	LogID         *int64
	LogType       string
	LogAction     string
}

// Qualifying reports whether the record has both revision ids and is
// therefore eligible for content diffing. Page creations and log-only
// entries have no "before" revision to diff against.
func (r ChangeRecord) Qualifying() bool {
	return r.OldRevisionID > 0 && r.RevisionID > 0
}

// RevisionContent is a single revision's text body with its metadata,
// fetched on demand for a qualifying edit.
type RevisionContent struct {
	ID        int64
	ParentID  int64
	User      string
	Timestamp time.Time
	Comment   string
	Content   string
}

// ClassifiedEdits maps an untrusted user identity to that user's records
// from the batch, in feed order. A flagged identity with no matching
// records keeps an empty slice; the formatter skips it but the watermark
// accounting still sees it.
type ClassifiedEdits map[string][]ChangeRecord
