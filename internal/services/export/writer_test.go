package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/services/ingest/domain"
)

func sampleRun() (domain.RunRecord, []domain.Item) {
	started := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	rec := domain.RunRecord{
		RunID:      "ab12cd34",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Minute),
	}
	items := []domain.Item{
		{
			ID:        "t3p1",
			Kind:      domain.KindPost,
			Keyword:   "denied claim",
			Subreddit: "VeteransBenefits",
			Title:     "Claim denied, again",
			Body:      "Third denial this year.",
			Author:    "vet1",
			Score:     41,
			Permalink: "https://reddit.com/r/VeteransBenefits/p1",
			CreatedAt: started.Add(-time.Hour),
		},
		{
			ID:        "t1c1",
			Kind:      domain.KindComment,
			Keyword:   "c&p exam",
			Subreddit: "VeteransBenefits",
			Body:      "The C&P exam took, with \"quotes\" and\nnewlines, ten minutes.",
			Author:    "vet2",
			Score:     7,
			ParentID:  "t3p1",
			CreatedAt: started.Add(-30 * time.Minute),
		},
	}
	return rec, items
}

func TestWrite_AllThreeArtifacts(t *testing.T) {
	dir := t.TempDir()
	rec, items := sampleRun()

	paths, err := New(dir).Write(context.Background(), rec, items)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v, want three artifacts", paths)
	}
	base := "run-20260829-103000-ab12cd34"
	for i, ext := range []string{".json", ".csv", ".txt"} {
		want := filepath.Join(dir, base+ext)
		if paths[i] != want {
			t.Fatalf("paths[%d] = %s, want %s", i, paths[i], want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("artifact missing: %v", err)
		}
	}
}

func TestWrite_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, items := sampleRun()

	if _, err := New(dir, FormatJSON).Write(context.Background(), rec, items); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "run-20260829-103000-ab12cd34.json"))
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		RunID     string        `json:"run_id"`
		ItemCount int           `json:"item_count"`
		Items     []domain.Item `json:"items"`
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("artifact not valid json: %v", err)
	}
	if got.RunID != rec.RunID || got.ItemCount != len(items) {
		t.Fatalf("header = %+v", got)
	}
	if len(got.Items) != len(items) {
		t.Fatalf("items = %d, want %d", len(got.Items), len(items))
	}
	for i := range items {
		if got.Items[i].ID != items[i].ID ||
			got.Items[i].Keyword != items[i].Keyword ||
			got.Items[i].Body != items[i].Body ||
			!got.Items[i].CreatedAt.Equal(items[i].CreatedAt) {
			t.Fatalf("item %d did not round trip: %+v vs %+v", i, got.Items[i], items[i])
		}
	}
}

func TestWrite_CSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rec, items := sampleRun()

	if _, err := New(dir, FormatCSV).Write(context.Background(), rec, items); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := os.Open(filepath.Join(dir, "run-20260829-103000-ab12cd34.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("artifact not valid csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus two items", len(rows))
	}
	if rows[0][0] != "id" || rows[0][5] != "text" {
		t.Fatalf("header = %v", rows[0])
	}
	// embedded quotes and newlines must survive the csv encoding
	if rows[2][5] != items[1].Text() {
		t.Fatalf("comment text did not round trip: %q", rows[2][5])
	}
	if rows[1][5] != items[0].Title+"\n\n"+items[0].Body {
		t.Fatalf("post text column = %q", rows[1][5])
	}
}

func TestWrite_TXTContainsItems(t *testing.T) {
	dir := t.TempDir()
	rec, items := sampleRun()

	if _, err := New(dir, FormatTXT).Write(context.Background(), rec, items); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, "run-20260829-103000-ab12cd34.txt"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(b)
	for _, needle := range []string{rec.RunID, items[0].Title, items[1].Body, "keyword: denied claim"} {
		if !strings.Contains(text, needle) {
			t.Fatalf("txt artifact missing %q", needle)
		}
	}
}

func TestWrite_ZeroItemsStillWritesArtifacts(t *testing.T) {
	dir := t.TempDir()
	rec, _ := sampleRun()

	paths, err := New(dir).Write(context.Background(), rec, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("paths = %v, want three artifacts for an empty run", paths)
	}
}

func TestWrite_UnknownFormatIsolated(t *testing.T) {
	dir := t.TempDir()
	rec, items := sampleRun()

	paths, err := New(dir, FormatJSON, "parquet", FormatCSV).Write(context.Background(), rec, items)
	if err == nil {
		t.Fatal("expected an error for the unknown format")
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v, want json and csv despite the failed format", paths)
	}
	if perr.IsCode(err, perr.ErrorCodeWrite) {
		t.Fatalf("unknown format should surface as InvalidArgument, got %v", err)
	}
}
