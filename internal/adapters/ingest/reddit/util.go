package reddit

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// parseRateHeaders reads Reddit's rate headers. Remaining is fractional;
// reset is seconds-until-window-reset rather than an epoch
func parseRateHeaders(h http.Header, now time.Time) (remaining float64, reset time.Time, retryAfter int) {
	remaining = -1
	if s := h.Get("X-Ratelimit-Remaining"); s != "" {
		remaining, _ = strconv.ParseFloat(s, 64)
	}
	if s := h.Get("X-Ratelimit-Reset"); s != "" {
		if sec, err := strconv.Atoi(s); err == nil && sec > 0 {
			reset = now.Add(time.Duration(sec) * time.Second).UTC()
		}
	}
	retryAfter = atoi(h.Get("Retry-After"))
	return
}

// computeWait decides how long to wait based on headers
func computeWait(remaining float64, reset time.Time, retryAfter int, now time.Time) time.Duration {
	if retryAfter > 0 {
		return time.Duration(retryAfter) * time.Second
	}
	if remaining <= 0 && !reset.IsZero() {
		if reset.After(now) {
			return reset.Sub(now)
		}
		return 0
	}
	return 0
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	i, _ := strconv.Atoi(s)
	return i
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}
