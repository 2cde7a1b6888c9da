// Package source binds the upstream Reddit client and the seen-set store to
// the ingest domain ports
package source

import (
	"context"

	"claimscout/internal/adapters/ingest/reddit"
	"claimscout/internal/services/ingest/domain"
	"claimscout/internal/services/seenset"
)

// Fetcher adapts a reddit.Client to domain.FetcherPort, fixing the target
// subreddit for the run
type Fetcher struct {
	Client    *reddit.Client
	Subreddit string
}

// NewFetcher constructs the fetcher binding
func NewFetcher(c *reddit.Client, subreddit string) *Fetcher {
	if c == nil {
		panic("source.NewFetcher requires a non nil client")
	}
	return &Fetcher{Client: c, Subreddit: subreddit}
}

// SearchPosts walks the subreddit search listing for keyword, newest first
func (f *Fetcher) SearchPosts(ctx context.Context, keyword string, max int) domain.PostIter {
	return f.Client.SearchPosts(ctx, f.Subreddit, keyword, max)
}

// HotPosts walks the subreddit hot listing
func (f *Fetcher) HotPosts(ctx context.Context, max int) domain.PostIter {
	return f.Client.HotPosts(ctx, f.Subreddit, max)
}

// TopComments yields p's top-scored top-level comments
func (f *Fetcher) TopComments(ctx context.Context, p domain.Post, limit int) domain.CommentIter {
	return f.Client.TopComments(ctx, f.Subreddit, p.ID, limit)
}

// SeenStore adapts *seenset.Store to domain.SeenStorePort
type SeenStore struct {
	Store *seenset.Store
}

// Load reads the durable seen-set
func (s SeenStore) Load(ctx context.Context) (domain.SeenSet, error) {
	set, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Persist flushes the run's additions atomically
func (s SeenStore) Persist(ctx context.Context, set domain.SeenSet) error {
	return s.Store.Persist(ctx, set.(*seenset.Set))
}
