// Package runlog aggregates a finished run into a RunRecord and appends it
// to the durable run-history log
package runlog

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"
	"claimscout/internal/services/ingest/domain"
)

// historyHeader is the run-history column set; rows are append-only
var historyHeader = []string{
	"run_timestamp",
	"new_post_count",
	"new_comment_count",
	"duplicate_skip_count",
	"oldest_item_timestamp",
	"newest_item_timestamp",
}

// Log summarizes runs and appends them to the history file at Path
type Log struct {
	Path string

	log logger.Logger
}

// New constructs a Log
func New(path string) *Log {
	return &Log{Path: path, log: *logger.Named("runlog")}
}

// Summarize implements domain.SummaryPort. Pure aggregation: counts per kind
// plus the accepted items' timestamp extremes. Empty runs yield zero extremes
func (l *Log) Summarize(
	posts, comments []domain.Item,
	duplicates int,
	runID string,
	started, finished time.Time,
) domain.RunRecord {
	rec := domain.RunRecord{
		RunID:          runID,
		StartedAt:      started.UTC(),
		FinishedAt:     finished.UTC(),
		NewPosts:       len(posts),
		NewComments:    len(comments),
		DuplicateSkips: duplicates,
	}
	for _, it := range posts {
		observe(&rec, it.CreatedAt)
	}
	for _, it := range comments {
		observe(&rec, it.CreatedAt)
	}
	return rec
}

func observe(rec *domain.RunRecord, ts time.Time) {
	if ts.IsZero() {
		return
	}
	if rec.OldestItem.IsZero() || ts.Before(rec.OldestItem) {
		rec.OldestItem = ts
	}
	if rec.NewestItem.IsZero() || ts.After(rec.NewestItem) {
		rec.NewestItem = ts
	}
}

// Append adds one row to the history log, creating it (with header) on first
// use. Prior rows are never rewritten
func (l *Log) Append(ctx context.Context, rec domain.RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(l.Path), 0o755); err != nil {
		return perr.Writef("run history dir create failed: %v", err)
	}
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return perr.Writef("run history %s open failed: %v", l.Path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return perr.Writef("run history %s stat failed: %v", l.Path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			return perr.Writef("run history header write failed: %v", err)
		}
	}
	if err := w.Write(row(rec)); err != nil {
		return perr.Writef("run history row write failed: %v", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return perr.Writef("run history flush failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return perr.Writef("run history close failed: %v", err)
	}

	logger.C(ctx).Info().
		Str("path", l.Path).
		Int("new_posts", rec.NewPosts).
		Int("new_comments", rec.NewComments).
		Msg("run history appended")
	return nil
}

func row(rec domain.RunRecord) []string {
	return []string{
		rec.StartedAt.UTC().Format(time.RFC3339),
		strconv.Itoa(rec.NewPosts),
		strconv.Itoa(rec.NewComments),
		strconv.Itoa(rec.DuplicateSkips),
		stamp(rec.OldestItem),
		stamp(rec.NewestItem),
	}
}

// stamp renders a timestamp column; zero times render empty
func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
