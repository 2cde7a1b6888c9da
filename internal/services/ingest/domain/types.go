// Package domain holds the core types and port contracts for the ingest
// pipeline
package domain

import (
	"time"

	"claimscout/internal/adapters/ingest/reddit"
)

// Post and Comment re-export the fetcher shapes the pipeline consumes
type (
	// Post is a candidate submission from the upstream listing
	Post = reddit.Post
	// Comment is a candidate comment from a submission's tree
	Comment = reddit.Comment
)

// Kind tags an accepted item as a post or a comment
type Kind string

// Item kinds
const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Item is one accepted post or comment, normalized for export.
// ID is globally unique upstream and is the sole deduplication key
type Item struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Keyword   string    `json:"matched_keyword"`
	Subreddit string    `json:"subreddit"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Score     int       `json:"score"`
	Permalink string    `json:"url"`
	ParentID  string    `json:"post_id,omitempty"`
	CreatedAt time.Time `json:"created_utc"`
}

// Text returns the item's full text: title and body for posts, body for
// comments. This is the tabular export's text column
func (it Item) Text() string {
	if it.Title == "" {
		return it.Body
	}
	if it.Body == "" {
		return it.Title
	}
	return it.Title + "\n\n" + it.Body
}

// ItemFromPost normalizes an accepted submission
func ItemFromPost(p Post, keyword string) Item {
	return Item{
		ID:        p.ID,
		Kind:      KindPost,
		Keyword:   keyword,
		Subreddit: p.Subreddit,
		Title:     p.Title,
		Body:      p.Body,
		Author:    p.Author,
		Score:     p.Score,
		Permalink: p.Permalink,
		CreatedAt: p.CreatedAt.UTC(),
	}
}

// ItemFromComment normalizes an accepted comment
func ItemFromComment(c Comment, keyword string) Item {
	return Item{
		ID:        c.ID,
		Kind:      KindComment,
		Keyword:   keyword,
		Subreddit: c.Subreddit,
		Body:      c.Body,
		Author:    c.Author,
		Score:     c.Score,
		Permalink: c.Permalink,
		ParentID:  c.PostID,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

// RunRecord is one execution's immutable outcome, appended to the
// run-history log and never rewritten
type RunRecord struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	NewPosts       int
	NewComments    int
	DuplicateSkips int

	// Zero when the run accepted no items
	OldestItem time.Time
	NewestItem time.Time
}

// State names the pipeline phases; a pipeline walks them strictly forward
// and is not reused after Finalized
type State string

// Pipeline states
const (
	StateInit       State = "init"
	StateSearching  State = "searching_posts"
	StateCollecting State = "collecting_comments"
	StateFinalized  State = "finalized"
)
