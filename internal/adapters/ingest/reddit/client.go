// Package reddit provides a resilient Reddit OAuth client for the ingest pipeline
package reddit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	perr "claimscout/internal/platform/errors"
	"claimscout/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	authURLDefault   = "https://www.reddit.com"
	apiURLDefault    = "https://oauth.reddit.com"
	defaultTimeout   = 15 * time.Second
	defaultUA        = "claimscout ingest client"
	defaultMaxRetry  = 4
	defaultRetryBase = 500 * time.Millisecond
	defaultPerMinute = 60
	defaultPageSize  = 100
)

// Options configures the Client
type Options struct {
	AuthURL   string
	APIURL    string
	UserAgent string
	Timeout   time.Duration

	// Script-app credentials; Username/Password are optional and switch the
	// token grant from client_credentials to password
	ClientID     string
	ClientSecret string
	Username     string
	Password     string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration

	// Global requests-per-minute ceiling enforced before every call
	PerMinute int

	// Listing page size for paginated endpoints
	PageSize int
}

// Client is a minimal Reddit API client with token caching, paced requests,
// and retry on transient or rate limited responses
type Client struct {
	http    *http.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger

	tokMu sync.Mutex
	tok   token

	now   func() time.Time
	sleep func(time.Duration)
}

type token struct {
	value   string
	expires time.Time
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.AuthURL == "" {
		o.AuthURL = authURLDefault
	}
	if o.APIURL == "" {
		o.APIURL = apiURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.PerMinute <= 0 {
		o.PerMinute = defaultPerMinute
	}
	if o.PageSize <= 0 || o.PageSize > 100 {
		o.PageSize = defaultPageSize
	}
	interval := time.Minute / time.Duration(o.PerMinute)
	return &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		log:     *logger.Named("reddit"),
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// ensureToken returns a cached bearer token, fetching a fresh one when the
// cache is empty or about to expire. Token failures are fatal by contract:
// a run must abort rather than proceed unauthenticated
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.tokMu.Lock()
	defer c.tokMu.Unlock()

	if c.tok.value != "" && c.now().Add(30*time.Second).Before(c.tok.expires) {
		return c.tok.value, nil
	}

	form := url.Values{}
	if c.opts.Username != "" && c.opts.Password != "" {
		form.Set("grant_type", "password")
		form.Set("username", c.opts.Username)
		form.Set("password", c.opts.Password)
	} else {
		form.Set("grant_type", "client_credentials")
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.opts.AuthURL+"/api/v1/access_token", strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "reddit token request build failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.opts.ClientID, c.opts.ClientSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "reddit token request failed")
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", perr.Unauthorizedf("reddit rejected app credentials (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", perr.Unavailablef("reddit token endpoint status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&tr); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "reddit token decode failed")
	}
	// Reddit returns 200 with an error body for bad password grants
	if tr.Error != "" || tr.AccessToken == "" {
		return "", perr.Unauthorizedf("reddit token grant refused: %s", tr.Error)
	}

	ttl := time.Duration(tr.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	c.tok = token{value: tr.AccessToken, expires: c.now().Add(ttl)}
	return c.tok.value, nil
}

// invalidateToken drops the cached token so the next call re-authenticates
func (c *Client) invalidateToken() {
	c.tokMu.Lock()
	c.tok = token{}
	c.tokMu.Unlock()
}

// Do issues a paced GET with auth, retries, and rate limit handling
func (c *Client) Do(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u := c.opts.APIURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	attempts := 0
	refreshed := false
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tok, err := c.ensureToken(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "reddit new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Authorization", "bearer "+tok)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "reddit do failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("reddit transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		rem, reset, retryAfter := parseRateHeaders(resp.Header, c.now())
		c.log.Debug().
			Str("path", path).
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Float64("rate_remaining", rem).
			Time("rate_reset", reset).
			Int("retry_after_s", retryAfter).
			Msg("reddit http response")

		switch resp.StatusCode {
		case http.StatusOK:
			return resp, nil
		case http.StatusUnauthorized:
			// Cached token may have expired mid-run; refresh exactly once
			_ = drainAndClose(resp.Body)
			if !refreshed {
				refreshed = true
				c.invalidateToken()
				continue
			}
			return nil, perr.Unauthorizedf("reddit rejected bearer token")
		case http.StatusForbidden:
			_ = drainAndClose(resp.Body)
			return nil, perr.Forbiddenf("reddit access forbidden for %s", path)
		case http.StatusTooManyRequests:
			wait := computeWait(rem, reset, retryAfter, c.now())
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.TooManyf("reddit rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Msg("reddit rate limited backing off")
			c.sleep(wait)
			attempts++
			continue
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return nil, perr.Unavailablef("reddit transient server error")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("reddit transient error retrying")
			c.sleep(back)
			attempts++
			continue
		default:
			// read a small tail for diagnostics then return
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return nil, perr.Newf(
				perr.ErrorCodeUnknown, "reddit unexpected status %d body %s", resp.StatusCode, string(body),
			)
		}
	}
}

// getJSON issues Do and decodes the body into out
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, path, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("reddit close body failed")
		}
	}()
	lim := io.LimitReader(resp.Body, 8<<20)
	if err := json.NewDecoder(lim).Decode(out); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "reddit decode failed for %s", path)
	}
	return nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	max := int64(30 * time.Second / time.Millisecond)
	if ms > max {
		ms = max
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}
