package domain

import (
	"context"
	"time"
)

// RunnerPort is the public port exposed by the ingest module
type RunnerPort interface {
	Run(ctx context.Context) (RunRecord, error)
}

// PostIter yields posts from a finite, non-restartable listing walk.
// Next returns io.EOF when exhausted
type PostIter interface {
	Next() (Post, error)
}

// CommentIter yields one submission's qualifying comments.
// Next returns io.EOF when exhausted
type CommentIter interface {
	Next() (Comment, error)
}

// FetcherPort abstracts the upstream forum API behind finite lazy sequences
// so the pipeline stays independent of any client's pagination protocol
type FetcherPort interface {
	// SearchPosts searches for submissions matching keyword, newest first
	SearchPosts(ctx context.Context, keyword string, max int) PostIter

	// HotPosts walks the popular-submissions pool
	HotPosts(ctx context.Context, max int) PostIter

	// TopComments yields up to limit top-scored top-level comments of p
	TopComments(ctx context.Context, p Post, limit int) CommentIter
}

// SeenSet is one run's dedup view: loaded base plus buffered additions
type SeenSet interface {
	Contains(id string) bool
	Add(id string)
	Pending() int
}

// SeenStorePort loads and atomically replaces the durable seen-set
type SeenStorePort interface {
	Load(ctx context.Context) (SeenSet, error)
	Persist(ctx context.Context, s SeenSet) error
}

// MatcherPort decides relevance; pure, no I/O
type MatcherPort interface {
	// Match returns the first configured keyword contained in text
	Match(text string) (keyword string, ok bool)
}

// ExporterPort writes the run's accepted items in every output format.
// It returns the paths written; a failure in one format must not prevent
// attempting the others
type ExporterPort interface {
	Write(ctx context.Context, rec RunRecord, items []Item) (paths []string, err error)
}

// SummaryPort aggregates a run and appends it to the run-history log
type SummaryPort interface {
	// Summarize is pure aggregation and must not fail on empty input
	Summarize(posts, comments []Item, duplicates int, runID string, started, finished time.Time) RunRecord

	// Append adds one row to the durable run-history log, never rewriting
	// prior rows
	Append(ctx context.Context, rec RunRecord) error
}
