// Command claimscout runs one incremental ingestion pass over a subreddit:
// keyword search of posts, comment collection, dedup against the seen store,
// and artifact export plus a run-history row
package main

import (
	"context"
	stderrs "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"claimscout/internal/core/version"
	"claimscout/internal/modkit"
	"claimscout/internal/modkit/module"
	"claimscout/internal/platform/config"
	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"

	ingestdom "claimscout/internal/services/ingest/domain"
	ingestmod "claimscout/internal/services/ingest/module"

	"gopkg.in/yaml.v3"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

// seedEnvFromYAML loads a flat string-to-string YAML file and surfaces each
// key as an env var. Real env vars win over file values
func seedEnvFromYAML(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return perr.Validationf("config file %s not readable: %v", path, err)
	}
	var kv map[string]string
	if err := yaml.Unmarshal(b, &kv); err != nil {
		return perr.Validationf("config file %s not valid yaml: %v", path, err)
	}
	for k, v := range kv {
		if _, ok := os.LookupEnv(k); !ok {
			_ = os.Setenv(k, v)
		}
	}
	return nil
}

func main() {
	var (
		fConfig       = flag.String("config", "", "optional yaml file of KEY: value pairs seeded into the environment")
		fKeywords     = flag.String("keywords", "", "keyword file path (overrides CORE_INGEST_KEYWORDS_FILE)")
		fSubreddit    = flag.String("subreddit", "", "target subreddit (overrides CORE_INGEST_SUBREDDIT)")
		fResults      = flag.String("results", "", "results directory (overrides CORE_INGEST_RESULTS_DIR)")
		fScanHot      = flag.Bool("scan-hot", false, "scan comments of the hot listing instead of only accepted posts")
		fSkipComments = flag.Bool("skip-comments", false, "skip the comment collection phase")
		fDoctor       = flag.Bool("doctor", false, "run preflight checks and exit")
		fVersion      = flag.Bool("version", false, "print build information and exit")
	)
	flag.Parse()

	if *fVersion {
		bi := version.Info()
		fmt.Printf("%s %s (%s, %s)\n", bi.Service, bi.Version, bi.Commit, bi.Date)
		return
	}

	if *fConfig != "" {
		if err := seedEnvFromYAML(*fConfig); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(perr.ExitCode(err))
		}
	}

	logger.Init(logger.FromEnv())
	l := logger.Get()

	mustSetEnv("CORE_INGEST_KEYWORDS_FILE", *fKeywords)
	mustSetEnv("CORE_INGEST_SUBREDDIT", *fSubreddit)
	mustSetEnv("CORE_INGEST_RESULTS_DIR", *fResults)
	if *fScanHot {
		mustSetEnv("CORE_INGEST_SCAN_HOT", "1")
	}
	if *fSkipComments {
		mustSetEnv("CORE_INGEST_SKIP_COMMENTS", "1")
	}

	deps := modkit.Deps{Cfg: config.New(), Log: *l}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ing, err := ingestmod.New(deps)
	if err != nil {
		l.Error().Err(err).Msg("ingest module init failed")
		os.Exit(perr.ExitCode(err))
	}

	if *fDoctor {
		if err := ing.Doctor(ctx); err != nil {
			l.Error().Err(err).Msg("doctor checks failed")
			os.Exit(perr.ExitCode(err))
		}
		return
	}

	runner := module.MustPortsOf[ingestdom.RunnerPort](ing)
	rec, err := runner.Run(ctx)
	if err != nil {
		if stderrs.Is(err, context.Canceled) {
			l.Warn().Msg("ingest run interrupted; seen store left untouched")
			os.Exit(perr.ExitCode(err))
		}
		if perr.IsCode(err, perr.ErrorCodeWrite) {
			// Run finished; only artifact output was lossy
			l.Warn().Err(err).Str("run_id", rec.RunID).Msg("run completed with artifact failures")
			os.Exit(perr.ExitCode(err))
		}
		l.Error().Err(err).Msg("ingest run failed")
		os.Exit(perr.ExitCode(err))
	}

	l.Info().
		Str("run_id", rec.RunID).
		Int("new_posts", rec.NewPosts).
		Int("new_comments", rec.NewComments).
		Int("duplicate_skips", rec.DuplicateSkips).
		Msg("ingest run complete")

	if deps.Cfg.Prefix("CORE_INGEST_").MayBool("TRIGGERS_DISABLED", false) {
		l.Info().Msg("downstream triggers disabled; artifacts left for manual pickup")
	}
}
