package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"
)

func TestCodeOf_WrappedAndPlain(t *testing.T) {
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatal("plain error maps to Unknown")
	}

	base := Corruptf("store bad")
	wrapped := fmt.Errorf("outer: %w", base)
	if CodeOf(wrapped) != ErrorCodeCorrupt {
		t.Fatal("code must survive fmt wrapping")
	}
	if !IsCode(wrapped, ErrorCodeCorrupt) {
		t.Fatal("IsCode must unwrap")
	}
}

func TestWrap_PreservesRootCause(t *testing.T) {
	cause := stderrs.New("disk gone")
	err := Wrapf(cause, ErrorCodeWrite, "artifact write failed")
	if !stderrs.Is(err, cause) {
		t.Fatal("Is must reach the cause")
	}
	if Root(err) != cause {
		t.Fatalf("Root = %v, want cause", Root(err))
	}
}

func TestWithUnitAndOp(t *testing.T) {
	base := Writef("csv failed")
	tagged := WithUnit(WithOp(base, "export"), "csv")
	e, ok := As(tagged)
	if !ok {
		t.Fatal("As failed")
	}
	if e.Unit() != "csv" || e.Op() != "export" {
		t.Fatalf("unit/op = %q/%q", e.Unit(), e.Op())
	}
	// original untouched
	if orig, _ := As(base); orig.Unit() != "" {
		t.Fatal("WithUnit must copy, not mutate")
	}
}

func TestRetryableAndFatal(t *testing.T) {
	tests := []struct {
		err       error
		retryable bool
		fatal     bool
	}{
		{Unavailablef("x"), true, false},
		{TooManyf("x"), true, false},
		{Unauthorizedf("x"), false, true},
		{Forbiddenf("x"), false, true},
		{Validationf("x"), false, true},
		{InvalidArgf("x"), false, true},
		{Corruptf("x"), false, true},
		{Lockedf("x"), false, true},
		{Writef("x"), false, false},
		{Internalf("x"), false, false},
	}
	for _, tc := range tests {
		if got := Retryable(tc.err); got != tc.retryable {
			t.Errorf("Retryable(%v) = %v, want %v", tc.err, got, tc.retryable)
		}
		if got := Fatal(tc.err); got != tc.fatal {
			t.Errorf("Fatal(%v) = %v, want %v", tc.err, got, tc.fatal)
		}
	}
}

func TestExitCode_Table(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{Validationf("bad config"), ExitConfig},
		{InvalidArgf("bad flag"), ExitConfig},
		{Unauthorizedf("bad creds"), ExitAuth},
		{Forbiddenf("no access"), ExitAuth},
		{Corruptf("bad store"), ExitCorrupt},
		{Lockedf("held"), ExitLocked},
		{Writef("disk"), ExitPartialOut},
		{stderrs.New("anything else"), ExitFailure},
		{context.Canceled, ExitCancelled},
		{context.DeadlineExceeded, ExitCancelled},
		{fmt.Errorf("run aborted: %w", context.Canceled), ExitCancelled},
	}
	for _, tc := range tests {
		if got := ExitCode(tc.err); got != tc.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
