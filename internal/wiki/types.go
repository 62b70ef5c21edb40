package wiki

import (
	"time"

	"wikipatrol/internal/monitor"
)

// Wire types for api.php query responses. Field names follow the
// MediaWiki JSON, including the "*" key revision bodies arrive under.

type queryResponse struct {
	Query queryBody `json:"query"`
}

type queryBody struct {
	RecentChanges []recentChangeJSON  `json:"recentchanges"`
	Pages         map[string]pageJSON `json:"pages"`
}

type recentChangeJSON struct {
	RcID      *int64    `json:"rcid"`
	Type      string    `json:"type"`
	Namespace int       `json:"ns"`
	Title     string    `json:"title"`
	PageID    int64     `json:"pageid"`
	RevID     int64     `json:"revid"`
	OldRevID  int64     `json:"old_revid"`
	User      string    `json:"user"`
	UserID    int64     `json:"userid"`
	OldLen    int64     `json:"oldlen"`
	NewLen    int64     `json:"newlen"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment"`
	LogID     *int64    `json:"logid"`
	LogType   string    `json:"logtype"`
	LogAction string    `json:"logaction"`
}

func (r recentChangeJSON) toRecord() monitor.ChangeRecord {
	return monitor.ChangeRecord{
		ID:            r.RcID,
		Type:          monitor.ChangeType(r.Type),
		Namespace:     r.Namespace,
		Title:         r.Title,
		PageID:        r.PageID,
		RevisionID:    r.RevID,
		OldRevisionID: r.OldRevID,
		User:          r.User,
		UserID:        r.UserID,
		OldLength:     r.OldLen,
		NewLength:     r.NewLen,
		Timestamp:     r.Timestamp,
		Comment:       r.Comment,
		LogID:         r.LogID,
		LogType:       r.LogType,
		LogAction:     r.LogAction,
	}
}

type pageJSON struct {
	PageID    int64          `json:"pageid"`
	Namespace int            `json:"ns"`
	Title     string         `json:"title"`
	Revisions []revisionJSON `json:"revisions"`
}

type revisionJSON struct {
	RevID     int64     `json:"revid"`
	ParentID  int64     `json:"parentid"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment"`
	Content   string    `json:"*"`
}

func (r revisionJSON) toContent() monitor.RevisionContent {
	return monitor.RevisionContent{
		ID:        r.RevID,
		ParentID:  r.ParentID,
		User:      r.User,
		Timestamp: r.Timestamp,
		Comment:   r.Comment,
		Content:   r.Content,
	}
}
