// Package module assembles the ingest pipeline from its adapters
package module

import (
	"context"
	"os"
	"path/filepath"

	"claimscout/internal/adapters/ingest/reddit"
	"claimscout/internal/core/keywords"
	"claimscout/internal/core/match"
	"claimscout/internal/modkit"
	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/validate"
	"claimscout/internal/services/export"
	"claimscout/internal/services/ingest/domain"
	"claimscout/internal/services/ingest/service"
	"claimscout/internal/services/ingest/source"
	"claimscout/internal/services/runlog"
	"claimscout/internal/services/seenset"
)

// Ports defines the ingest module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the ingest module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports

	client *reddit.Client
	store  *seenset.Store
	terms  []string
}

// New constructs the ingest module, wiring adapters and the service from
// config in deps.Cfg. Keyword and credential problems surface here so the
// binary fails before touching the network or the seen store
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	if err := validate.Struct(opts); err != nil {
		return nil, err
	}

	terms, err := keywords.Load(opts.KeywordsFile)
	if err != nil {
		return nil, err
	}

	client := reddit.NewClient(reddit.Options{
		UserAgent:    opts.UserAgent,
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		Username:     opts.Username,
		Password:     opts.Password,
		MaxRetries:   opts.MaxRetries,
		RetryBase:    opts.RetryBase,
		PerMinute:    opts.PerMinute,
		Timeout:      opts.Timeout,
	})

	store := seenset.New(filepath.Join(opts.ResultsDir, opts.SeenFile))

	svc := service.New(
		source.SeenStore{Store: store},
		source.NewFetcher(client, opts.Subreddit),
		match.New(terms),
		export.New(opts.ResultsDir),
		runlog.New(filepath.Join(opts.ResultsDir, opts.HistoryFile)),
		service.Config{
			Keywords:     terms,
			SearchLimit:  opts.SearchLimit,
			CommentLimit: opts.CommentLimit,
			ScanHot:      opts.ScanHot,
			HotLimit:     opts.HotLimit,
			SkipComments: opts.SkipComments,
		},
	)

	m := &Module{deps: deps, opts: opts, client: client, store: store, terms: terms}
	m.ports = Ports{Runner: lockedRunner{store: store, inner: svc}}
	return m, nil
}

// Name returns the module name
func (m *Module) Name() string { return "ingest" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Doctor runs the preflight checks: credentials present, keyword list
// non-empty, results dir writable, and the upstream API reachable as the
// configured identity
func (m *Module) Doctor(ctx context.Context) error {
	if len(m.terms) == 0 {
		return perr.Validationf("keyword file %s has no keywords", m.opts.KeywordsFile)
	}
	if err := os.MkdirAll(m.opts.ResultsDir, 0o755); err != nil {
		return perr.Writef("results dir %s not writable: %v", m.opts.ResultsDir, err)
	}
	probe, err := os.CreateTemp(m.opts.ResultsDir, ".doctor-*")
	if err != nil {
		return perr.Writef("results dir %s not writable: %v", m.opts.ResultsDir, err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	me, err := m.client.Me(ctx)
	if err != nil {
		return err
	}
	m.deps.Log.Info().Str("identity", me).Int("keywords", len(m.terms)).Msg("doctor checks passed")
	return nil
}

// lockedRunner serializes runs against the shared seen store: the exclusive
// lock is held for the full pipeline, not just Load and Persist
type lockedRunner struct {
	store *seenset.Store
	inner domain.RunnerPort
}

func (r lockedRunner) Run(ctx context.Context) (domain.RunRecord, error) {
	if err := r.store.Acquire(); err != nil {
		return domain.RunRecord{}, err
	}
	defer r.store.Release()
	return r.inner.Run(ctx)
}
