package strings

import (
	"testing"

	"claimscout/internal/platform/testkit"
)

func TestSafeFilename_Table(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxlen int
		want   string
	}{
		{"already safe", "run-20260829.json", 0, "run-20260829.json"},
		{"spaces collapse", "denied claim  report", 0, "denied_claim_report"},
		{"run of junk is one underscore", "c&p / exam!", 0, "c_p_exam"},
		{"leading junk dropped", "  ///report", 0, "report"},
		{"truncated", "abcdefghij", 4, "abcd"},
		{"empty becomes untitled", "  \t ", 0, "untitled"},
		{"all junk becomes untitled", "!!!", 0, "untitled"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SafeFilename(tc.in, tc.maxlen); got != tc.want {
				t.Fatalf("SafeFilename(%q, %d) = %q, want %q", tc.in, tc.maxlen, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("no-op truncate: %q", got)
	}
	got := Truncate("héllo world", 2)
	// must not split the two-byte é
	if got != "h…" {
		t.Fatalf("rune boundary: %q", got)
	}
}

func TestMustString(t *testing.T) {
	if got := MustString("ok", "field"); got != "ok" {
		t.Fatalf("got %q", got)
	}
	testkit.MustPanic(t, func() { MustString("   ", "field") })
}

func TestPtrDeref(t *testing.T) {
	if Ptr("") != nil {
		t.Fatal("Ptr of empty is nil")
	}
	p := Ptr("v")
	if Deref(p) != "v" || Deref(nil) != "" {
		t.Fatal("Deref round trip failed")
	}
}

func TestIfEmpty(t *testing.T) {
	def := []string{"d"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "d" {
		t.Fatalf("got %v", got)
	}
	in := []string{"a"}
	if got := IfEmpty(in, def); len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}
