package module

import (
	"time"

	"claimscout/internal/platform/config"
)

// Options holds configuration for the ingest pipeline and its Reddit source
type Options struct {
	Subreddit    string `validate:"required"`
	KeywordsFile string `validate:"required"`

	SearchLimit  int `validate:"gte=0"`
	HotLimit     int `validate:"gte=0"`
	CommentLimit int `validate:"gt=0"`
	ScanHot      bool
	SkipComments bool

	ResultsDir  string `validate:"required"`
	SeenFile    string `validate:"required"`
	HistoryFile string `validate:"required"`

	// Reddit script-app credentials; Username/Password optional
	ClientID     string `validate:"required"`
	ClientSecret string `validate:"required"`
	Username     string
	Password     string
	UserAgent    string

	MaxRetries int           `validate:"gte=0"`
	RetryBase  time.Duration `validate:"gte=0"`
	PerMinute  int           `validate:"gt=0"`
	Timeout    time.Duration
}

// FromConfig reads ingest options from config with CORE_INGEST_ and REDDIT_
// prefixes
func FromConfig(cfg config.Conf) Options {
	ing := cfg.Prefix("CORE_INGEST_")
	rd := cfg.Prefix("REDDIT_")
	return Options{
		Subreddit:    ing.MayString("SUBREDDIT", "VeteransBenefits"),
		KeywordsFile: ing.MayString("KEYWORDS_FILE", "keywords.txt"),
		SearchLimit:  ing.MayInt("SEARCH_LIMIT", 500),
		HotLimit:     ing.MayInt("HOT_LIMIT", 200),
		CommentLimit: ing.MayInt("COMMENT_LIMIT", 50),
		ScanHot:      ing.MayBool("SCAN_HOT", false),
		SkipComments: ing.MayBool("SKIP_COMMENTS", false),
		ResultsDir:   ing.MayString("RESULTS_DIR", "results"),
		SeenFile:     ing.MayString("SEEN_FILE", "seen_ids.json"),
		HistoryFile:  ing.MayString("HISTORY_FILE", "run_history.csv"),

		ClientID:     rd.MayString("CLIENT_ID", ""),
		ClientSecret: rd.MayString("CLIENT_SECRET", ""),
		Username:     rd.MayString("USERNAME", ""),
		Password:     rd.MayString("PASSWORD", ""),
		UserAgent:    rd.MayString("USER_AGENT", "claimscout/1.0 (veterans claims research)"),
		MaxRetries:   rd.MayInt("RETRIES", 4),
		RetryBase:    rd.MayDuration("RETRY_BASE", 500*time.Millisecond),
		PerMinute:    rd.MayInt("PER_MINUTE", 60),
		Timeout:      rd.MayDuration("TIMEOUT", 15*time.Second),
	}
}
