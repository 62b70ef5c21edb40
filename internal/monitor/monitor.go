package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"wikipatrol/internal/storage"
)

// Client is the wiki transport the pipeline consumes. RecentChanges
// fetches one batch of the change feed; ContentPair resolves the old and
// new bodies of a qualifying edit, in that order.
type Client interface {
	RecentChanges(ctx context.Context) ([]ChangeRecord, error)
	ContentPair(ctx context.Context, title string, oldID, newID int64) (before, after *RevisionContent, err error)
}

// Monitor runs the batch pipeline: fetch, classify, watermark-filter,
// diff, format, persist. One Run is a single stateless pass.
type Monitor struct {
	client       Client
	store        storage.WatermarkStore
	classifier   *Classifier
	wiki         string
	fetchWorkers int
	logger       *slog.Logger
}

// New creates a Monitor for one wiki, keyed by its host name.
func New(client Client, store storage.WatermarkStore, classifier *Classifier, wiki string, fetchWorkers int, logger *slog.Logger) *Monitor {
	if fetchWorkers <= 0 {
		fetchWorkers = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		client:       client,
		store:        store,
		classifier:   classifier,
		wiki:         wiki,
		fetchWorkers: fetchWorkers,
		logger:       logger,
	}
}

// RunResult is the outcome of one pipeline pass.
type RunResult struct {
	// Report is the human-readable report, empty when nothing qualified.
	Report string

	// Users and Edits count what the report covers.
	Users int
	Edits int

	// Marks is the watermark persisted for the next run.
	Marks storage.Watermark

	// Warnings carries non-fatal trouble: skipped diffs, a failed
	// watermark store. The report above is still complete apart from
	// what each warning names.
	Warnings []string
}

// Run executes one pass. A failed batch fetch aborts the run; everything
// past that point degrades to warnings rather than losing the report.
func (m *Monitor) Run(ctx context.Context) (*RunResult, error) {
	log := m.logger.With("wiki", m.wiki, "run_id", uuid.NewString())

	batch, err := m.client.RecentChanges(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching recent changes: %w", err)
	}
	log.Debug("fetched recent changes", "records", len(batch))

	old, err := m.store.Load(ctx, m.wiki)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("watermark load failed, reporting everything", "error", err)
		}
		old = storage.None()
	}

	classified := m.classifier.Classify(batch)
	filtered, next := FilterByWatermark(classified, old)

	res := &RunResult{Marks: next}
	diffs, warnings := m.renderDiffs(ctx, filtered, log)
	res.Warnings = warnings
	res.Report = FormatReport(filtered, func(rc ChangeRecord) []DiffOp {
		return diffs[rc.RevisionID]
	})
	for _, edits := range filtered {
		if len(edits) > 0 {
			res.Users++
			res.Edits += len(edits)
		}
	}

	if err := m.store.Store(ctx, m.wiki, next); err != nil {
		warn := fmt.Sprintf("watermark not stored, next run may repeat this report: %v", err)
		log.Warn("watermark store failed", "error", err)
		res.Warnings = append(res.Warnings, warn)
	}

	log.Info("run complete",
		"users", res.Users,
		"edits", res.Edits,
		"change_id", next.ChangeID,
		"log_id", next.LogID,
	)
	return res, nil
}

// renderDiffs fetches content pairs for every qualifying edit with a
// bounded worker pool and renders their diffs, keyed by new revision id.
// Each edit's diff is an independent pure computation, so fetch order
// does not matter; the formatter reassembles by id in feed order. A
// failed fetch skips that one diff and records a warning.
func (m *Monitor) renderDiffs(ctx context.Context, filtered ClassifiedEdits, log *slog.Logger) (map[int64][]DiffOp, []string) {
	var pending []ChangeRecord
	seen := make(map[int64]bool)
	for _, edits := range filtered {
		for _, rc := range edits {
			if rc.Qualifying() && !seen[rc.RevisionID] {
				seen[rc.RevisionID] = true
				pending = append(pending, rc)
			}
		}
	}

	var mu sync.Mutex
	diffs := make(map[int64][]DiffOp, len(pending))
	var warnings []string

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.fetchWorkers)
	for _, rc := range pending {
		g.Go(func() error {
			before, after, err := m.client.ContentPair(ctx, rc.Title, rc.OldRevisionID, rc.RevisionID)
			if err != nil {
				log.Warn("content pair fetch failed", "title", rc.Title, "error", err)
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("diff unavailable for %q: %v", rc.Title, err))
				mu.Unlock()
				return nil
			}
			ops := RenderDiff(before.Content, after.Content)
			mu.Lock()
			diffs[rc.RevisionID] = ops
			mu.Unlock()
			return nil
		})
	}
	// Workers never return an error; failures degrade to warnings above.
	_ = g.Wait()

	return diffs, warnings
}
