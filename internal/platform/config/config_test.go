package config

import (
	"testing"
	"time"

	"claimscout/internal/platform/testkit"
)

func TestPrefix_Composes(t *testing.T) {
	t.Setenv("CORE_INGEST_SUBREDDIT", "VeteransBenefits")
	cfg := New().Prefix("CORE_").Prefix("INGEST_")
	if got := cfg.MayString("SUBREDDIT", ""); got != "VeteransBenefits" {
		t.Fatalf("got %q", got)
	}
}

func TestMustString_PanicsOnMissing(t *testing.T) {
	testkit.MustPanic(t, func() {
		New().Prefix("CLAIMSCOUT_TEST_").MustString("DEFINITELY_MISSING")
	})
}

func TestMay_DefaultsAndParses(t *testing.T) {
	t.Setenv("T_STR", "  value  ")
	t.Setenv("T_INT", "42")
	t.Setenv("T_BOOL", "1")
	t.Setenv("T_DUR", "750ms")
	t.Setenv("T_BAD_INT", "not-a-number")

	cfg := New().Prefix("T_")
	if got := cfg.MayString("STR", "d"); got != "value" {
		t.Fatalf("MayString trims: got %q", got)
	}
	if got := cfg.MayString("MISSING", "d"); got != "d" {
		t.Fatalf("MayString default: got %q", got)
	}
	if got := cfg.MayInt("INT", 0); got != 42 {
		t.Fatalf("MayInt: got %d", got)
	}
	if got := cfg.MayInt("BAD_INT", 7); got != 7 {
		t.Fatalf("MayInt falls back on junk: got %d", got)
	}
	if got := cfg.MayBool("BOOL", false); !got {
		t.Fatal("MayBool: got false")
	}
	if got := cfg.MayDuration("DUR", 0); got != 750*time.Millisecond {
		t.Fatalf("MayDuration: got %v", got)
	}
	if got := cfg.MayDuration("MISSING", time.Second); got != time.Second {
		t.Fatalf("MayDuration default: got %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	t.Setenv("T_LIST", " a , ,b,c ")
	got := New().Prefix("T_").MayCSV("LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("MayCSV = %v", got)
	}
	def := []string{"x"}
	if got := New().Prefix("T_").MayCSV("MISSING", def); len(got) != 1 || got[0] != "x" {
		t.Fatalf("MayCSV default = %v", got)
	}
}
