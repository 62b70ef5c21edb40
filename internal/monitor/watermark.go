package monitor

import "wikipatrol/internal/storage"

// FilterByWatermark drops users whose activity was fully covered by the
// previous run and computes the next watermark.
//
// A user is retained when at least one of their records carries a
// recent-change id above the old change mark or a log id above the old
// log mark. Absent ids contribute no evidence; a user with no ids at all
// is dropped.
//
// The next watermark advances over ALL classified users, retained or not,
// so nothing observed this run can be re-reported later. An empty input
// leaves the watermark unchanged.
func FilterByWatermark(classified ClassifiedEdits, old storage.Watermark) (ClassifiedEdits, storage.Watermark) {
	filtered := make(ClassifiedEdits)
	next := old

	for user, edits := range classified {
		var maxChange, maxLog int64
		var hasChange, hasLog bool
		for _, rc := range edits {
			if rc.ID != nil && (!hasChange || *rc.ID > maxChange) {
				maxChange, hasChange = *rc.ID, true
			}
			if rc.LogID != nil && (!hasLog || *rc.LogID > maxLog) {
				maxLog, hasLog = *rc.LogID, true
			}
		}

		if hasChange && maxChange > next.ChangeID {
			next.ChangeID = maxChange
		}
		if hasLog && maxLog > next.LogID {
			next.LogID = maxLog
		}

		if (hasChange && maxChange > old.ChangeID) || (hasLog && maxLog > old.LogID) {
			filtered[user] = edits
		}
	}

	return filtered, next
}
