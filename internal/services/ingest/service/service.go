// Package service implements the ingestion pipeline state machine
package service

import (
	"context"
	stderrs "errors"
	"io"
	"time"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"
	"claimscout/internal/services/ingest/domain"

	"github.com/google/uuid"
)

// Config holds per-run pipeline settings
type Config struct {
	// Keywords in file order; empty means a clean zero-item run
	Keywords []string

	// SearchLimit caps posts walked per keyword search; <=0 walks the
	// whole listing
	SearchLimit int

	// CommentLimit is the explicit "popular enough to scan" budget per
	// post; <=0 -> 50
	CommentLimit int

	// ScanHot widens the comment pool from accepted posts to the
	// subreddit hot listing, capped at HotLimit posts
	ScanHot  bool
	HotLimit int

	// SkipComments skips the comment phase entirely
	SkipComments bool
}

// Service drives one run from Init to Finalized. It is single-use: build a
// fresh Service per execution
type Service struct {
	Seen    domain.SeenStorePort
	Fetch   domain.FetcherPort
	Match   domain.MatcherPort
	Export  domain.ExporterPort
	Summary domain.SummaryPort
	Cfg     Config

	state domain.State
	now   func() time.Time
}

// New constructs the pipeline service
func New(
	seen domain.SeenStorePort,
	fetch domain.FetcherPort,
	match domain.MatcherPort,
	export domain.ExporterPort,
	summary domain.SummaryPort,
	cfg Config,
) *Service {
	if seen == nil {
		panic("ingest.Service requires a non nil seen store")
	}
	if fetch == nil {
		panic("ingest.Service requires a non nil fetcher")
	}
	if match == nil {
		panic("ingest.Service requires a non nil matcher")
	}
	if summary == nil {
		panic("ingest.Service requires a non nil summarizer")
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = 50
	}
	return &Service{
		Seen:    seen,
		Fetch:   fetch,
		Match:   match,
		Export:  export,
		Summary: summary,
		Cfg:     cfg,
		state:   domain.StateInit,
		now:     time.Now,
	}
}

// State returns the current pipeline phase
func (s *Service) State() domain.State { return s.state }

func (s *Service) setState(ctx context.Context, st domain.State) {
	s.state = st
	logger.C(ctx).Debug().Str("state", string(st)).Msg("pipeline state")
}

// Run implements domain.RunnerPort. Fatal errors (auth, corrupt store, bad
// config) abort before any seen-set mutation is persisted; per-unit fetch
// failures degrade to zero results for that unit. A non-nil RunRecord error
// pair (rec, err) with err coded Write means the run completed but one or
// more artifacts failed
func (s *Service) Run(ctx context.Context) (domain.RunRecord, error) {
	if s.state != domain.StateInit {
		return domain.RunRecord{}, perr.InvalidArgf("pipeline already ran (state %s)", s.state)
	}

	runID := uuid.NewString()[:8]
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)
	started := s.now().UTC()

	set, err := s.Seen.Load(ctx)
	if err != nil {
		return domain.RunRecord{}, err
	}

	var (
		posts      []domain.Item
		comments   []domain.Item
		duplicates int
	)

	// SearchingPosts: seen check, then match, then accept-and-mark.
	// Dedup is interleaved here, not a separate pass
	s.setState(ctx, domain.StateSearching)
	for _, kw := range s.Cfg.Keywords {
		if err := ctx.Err(); err != nil {
			return domain.RunRecord{}, err
		}
		log.Info().Str("keyword", kw).Msg("searching posts")

		it := s.Fetch.SearchPosts(ctx, kw, s.Cfg.SearchLimit)
		found := 0
		for {
			p, err := it.Next()
			if stderrs.Is(err, io.EOF) {
				break
			}
			if err != nil {
				if cerr := cancelled(ctx, err); cerr != nil {
					return domain.RunRecord{}, cerr
				}
				if perr.Fatal(err) {
					return domain.RunRecord{}, perr.WithUnit(err, kw)
				}
				// Retries are exhausted inside the fetcher; treat as
				// zero results for this keyword and move on
				log.Warn().Err(err).Str("keyword", kw).Msg("post search degraded to no results")
				break
			}
			if set.Contains(p.ID) {
				duplicates++
				continue
			}
			matched, ok := s.Match.Match(p.FullText())
			if !ok {
				continue
			}
			set.Add(p.ID)
			posts = append(posts, domain.ItemFromPost(p, matched))
			found++
		}
		log.Info().Str("keyword", kw).Int("new_posts", found).Msg("keyword search done")
	}

	// CollectingComments: same seen -> match -> accept cycle per comment.
	// A comment-fetch failure never discards the parent post
	if !s.Cfg.SkipComments {
		s.setState(ctx, domain.StateCollecting)
		pool, err := s.commentPool(ctx, posts)
		if err != nil {
			if cerr := cancelled(ctx, err); cerr != nil {
				return domain.RunRecord{}, cerr
			}
			if perr.Fatal(err) {
				return domain.RunRecord{}, err
			}
			log.Warn().Err(err).Msg("comment pool fetch degraded to accepted posts only")
		}
		for _, p := range pool {
			if err := ctx.Err(); err != nil {
				return domain.RunRecord{}, err
			}
			cit := s.Fetch.TopComments(ctx, p, s.Cfg.CommentLimit)
			for {
				c, err := cit.Next()
				if stderrs.Is(err, io.EOF) {
					break
				}
				if err != nil {
					if cerr := cancelled(ctx, err); cerr != nil {
						return domain.RunRecord{}, cerr
					}
					if perr.Fatal(err) {
						return domain.RunRecord{}, perr.WithUnit(err, p.ID)
					}
					log.Warn().Err(err).Str("post", p.ID).Msg("comment fetch failed; post kept")
					break
				}
				if set.Contains(c.ID) {
					duplicates++
					continue
				}
				matched, ok := s.Match.Match(c.Body)
				if !ok {
					continue
				}
				set.Add(c.ID)
				comments = append(comments, domain.ItemFromComment(c, matched))
			}
		}
	}

	// A run may only finalize with a live context; an interrupted run must
	// leave the durable store exactly as it was loaded
	if err := ctx.Err(); err != nil {
		return domain.RunRecord{}, err
	}

	// Finalized: summarize, flush the seen-set once, then emit artifacts.
	// Artifact failures are per-format and never roll back dedup state
	s.setState(ctx, domain.StateFinalized)
	finished := s.now().UTC()
	rec := s.Summary.Summarize(posts, comments, duplicates, runID, started, finished)

	if err := s.Seen.Persist(ctx, set); err != nil {
		return domain.RunRecord{}, err
	}

	var outErr error
	all := append(append([]domain.Item{}, posts...), comments...)
	if s.Export != nil {
		paths, werr := s.Export.Write(ctx, rec, all)
		if werr != nil {
			log.Error().Err(werr).Msg("one or more artifacts failed")
			outErr = werr
		}
		for _, p := range paths {
			log.Info().Str("artifact", p).Msg("artifact written")
		}
	}
	if err := s.Summary.Append(ctx, rec); err != nil {
		log.Error().Err(err).Msg("run history append failed")
		outErr = stderrs.Join(outErr, err)
	}

	log.Info().
		Int("new_posts", rec.NewPosts).
		Int("new_comments", rec.NewComments).
		Int("duplicate_skips", rec.DuplicateSkips).
		Msg("run finalized")
	return rec, outErr
}

// cancelled surfaces the context error hiding behind an iterator failure so
// an interrupt is never mistaken for a degraded fetch
func cancelled(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// commentPool picks the posts whose comments get scanned: the run's accepted
// posts, or the hot listing when configured
func (s *Service) commentPool(ctx context.Context, accepted []domain.Item) ([]domain.Post, error) {
	if !s.Cfg.ScanHot {
		out := make([]domain.Post, 0, len(accepted))
		for _, it := range accepted {
			out = append(out, domain.Post{
				ID:        it.ID,
				Subreddit: it.Subreddit,
				Title:     it.Title,
				Body:      it.Body,
				Author:    it.Author,
				Score:     it.Score,
				Permalink: it.Permalink,
				CreatedAt: it.CreatedAt,
			})
		}
		return out, nil
	}

	var out []domain.Post
	it := s.Fetch.HotPosts(ctx, s.Cfg.HotLimit)
	for {
		p, err := it.Next()
		if stderrs.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
}
