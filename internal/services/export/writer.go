// Package export writes one run's accepted items as JSON, CSV and plain-text
// artifacts. Formats are independent: a failure in one is recorded and the
// rest are still attempted
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	stderrs "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"
	pstrings "claimscout/internal/platform/strings"
	"claimscout/internal/services/ingest/domain"
)

// Formats supported by the writer
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
)

// Writer emits run artifacts under Dir. Zero-item runs still produce
// artifacts so every run leaves a traceable result
type Writer struct {
	Dir     string
	Formats []string

	log logger.Logger
}

// New constructs a Writer; empty formats means all three
func New(dir string, formats ...string) *Writer {
	if len(formats) == 0 {
		formats = []string{FormatJSON, FormatCSV, FormatTXT}
	}
	return &Writer{Dir: dir, Formats: formats, log: *logger.Named("export")}
}

// baseName derives the shared artifact stem from the run identity
func baseName(rec domain.RunRecord) string {
	stamp := rec.StartedAt.UTC().Format("20060102-150405")
	return pstrings.SafeFilename(fmt.Sprintf("run-%s-%s", stamp, rec.RunID), 80)
}

// Write implements domain.ExporterPort
func (w *Writer) Write(ctx context.Context, rec domain.RunRecord, items []domain.Item) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, perr.Writef("results dir %s create failed: %v", w.Dir, err)
	}

	base := filepath.Join(w.Dir, baseName(rec))
	var (
		paths []string
		errs  []error
	)
	for _, format := range w.Formats {
		path := base + "." + format
		var err error
		switch format {
		case FormatJSON:
			err = w.writeJSON(path, rec, items)
		case FormatCSV:
			err = w.writeCSV(path, items)
		case FormatTXT:
			err = w.writeTXT(path, rec, items)
		default:
			err = perr.InvalidArgf("unknown export format %q", format)
		}
		if err != nil {
			w.log.Error().Err(err).Str("format", format).Str("path", path).Msg("artifact write failed")
			errs = append(errs, perr.WithUnit(err, format))
			continue
		}
		paths = append(paths, path)
	}
	return paths, stderrs.Join(errs...)
}

// jsonArtifact is the machine-readable artifact shape: run identity up top,
// full item attributes below
type jsonArtifact struct {
	RunID      string        `json:"run_id"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	ItemCount  int           `json:"item_count"`
	Items      []domain.Item `json:"items"`
}

func (w *Writer) writeJSON(path string, rec domain.RunRecord, items []domain.Item) error {
	if items == nil {
		items = []domain.Item{}
	}
	b, err := json.MarshalIndent(jsonArtifact{
		RunID:      rec.RunID,
		StartedAt:  rec.StartedAt,
		FinishedAt: rec.FinishedAt,
		ItemCount:  len(items),
		Items:      items,
	}, "", "  ")
	if err != nil {
		return perr.Writef("json marshal failed: %v", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return perr.Writef("json artifact write failed: %v", err)
	}
	return nil
}

// csvHeader is the fixed tabular column set
var csvHeader = []string{"id", "kind", "keyword", "author", "timestamp", "text"}

func (w *Writer) writeCSV(path string, items []domain.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return perr.Writef("csv artifact create failed: %v", err)
	}
	defer func() { _ = f.Close() }()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return perr.Writef("csv header write failed: %v", err)
	}
	for _, it := range items {
		row := []string{
			it.ID,
			string(it.Kind),
			it.Keyword,
			it.Author,
			it.CreatedAt.UTC().Format(time.RFC3339),
			it.Text(),
		}
		if err := cw.Write(row); err != nil {
			return perr.Writef("csv row write failed: %v", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return perr.Writef("csv flush failed: %v", err)
	}
	if err := f.Close(); err != nil {
		return perr.Writef("csv artifact close failed: %v", err)
	}
	return nil
}

func (w *Writer) writeTXT(path string, rec domain.RunRecord, items []domain.Item) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Run %s\n", rec.RunID)
	fmt.Fprintf(&b, "Started:  %s\n", rec.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Finished: %s\n", rec.FinishedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Items:    %d\n", len(items))

	for _, it := range items {
		b.WriteString("\n" + strings.Repeat("-", 72) + "\n")
		fmt.Fprintf(&b, "[%s] %s (keyword: %s)\n", it.Kind, it.ID, it.Keyword)
		fmt.Fprintf(&b, "by %s at %s | score %d\n", it.Author, it.CreatedAt.UTC().Format(time.RFC3339), it.Score)
		if it.Permalink != "" {
			fmt.Fprintf(&b, "%s\n", it.Permalink)
		}
		b.WriteString("\n" + it.Text() + "\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return perr.Writef("txt artifact write failed: %v", err)
	}
	return nil
}
