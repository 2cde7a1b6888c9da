package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
)

// PostIter walks a paginated submission listing lazily. Each Next may issue a
// fresh network page fetch; iterators are finite and non-restartable.
// Next returns io.EOF when the listing is exhausted
type PostIter struct {
	c     *Client
	ctx   context.Context
	path  string
	query url.Values

	after  string
	buf    []Post
	pos    int
	served int
	max    int
	done   bool
}

// Next returns the next post or io.EOF at the end of the listing
func (it *PostIter) Next() (Post, error) {
	for {
		if it.pos < len(it.buf) {
			p := it.buf[it.pos]
			it.pos++
			it.served++
			if it.max > 0 && it.served > it.max {
				return Post{}, io.EOF
			}
			return p, nil
		}
		if it.done || (it.max > 0 && it.served >= it.max) {
			return Post{}, io.EOF
		}
		if err := it.fetchPage(); err != nil {
			return Post{}, err
		}
	}
}

func (it *PostIter) fetchPage() error {
	q := url.Values{}
	for k, vs := range it.query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if it.after != "" {
		q.Set("after", it.after)
	}

	var env listingEnvelope
	if err := it.c.getJSON(it.ctx, it.path, q, &env); err != nil {
		it.done = true
		return err
	}
	it.buf = it.buf[:0]
	it.pos = 0
	for _, child := range env.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		var pd postData
		if err := json.Unmarshal(child.Data, &pd); err != nil {
			it.c.log.Warn().Err(err).Msg("reddit skipping undecodable submission")
			continue
		}
		it.buf = append(it.buf, pd.toPost())
	}

	it.after = env.Data.After
	if it.after == "" || len(env.Data.Children) == 0 {
		it.done = true
	}
	return nil
}

// SearchPosts searches a subreddit for submissions matching keyword as an
// exact quoted phrase, newest first. max caps the total posts yielded;
// max <= 0 walks the whole listing
func (c *Client) SearchPosts(ctx context.Context, subreddit, keyword string, max int) *PostIter {
	q := url.Values{}
	q.Set("q", `"`+keyword+`"`)
	q.Set("restrict_sr", "1")
	q.Set("sort", "new")
	q.Set("t", "all")
	q.Set("limit", strconv.Itoa(c.opts.PageSize))
	return &PostIter{
		c:     c,
		ctx:   ctx,
		path:  fmt.Sprintf("/r/%s/search", url.PathEscape(subreddit)),
		query: q,
		max:   max,
	}
}

// HotPosts walks the subreddit hot listing, capped at max posts
func (c *Client) HotPosts(ctx context.Context, subreddit string, max int) *PostIter {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.opts.PageSize))
	return &PostIter{
		c:     c,
		ctx:   ctx,
		path:  fmt.Sprintf("/r/%s/hot", url.PathEscape(subreddit)),
		query: q,
		max:   max,
	}
}

// CommentIter yields the top-scored top-level comments of one submission.
// The tree is fetched once on the first Next; "more" stubs are not expanded
type CommentIter struct {
	c      *Client
	ctx    context.Context
	path   string
	query  url.Values
	buf    []Comment
	pos    int
	loaded bool
}

// Next returns the next comment or io.EOF when the listing is exhausted
func (it *CommentIter) Next() (Comment, error) {
	if !it.loaded {
		if err := it.fetch(); err != nil {
			return Comment{}, err
		}
	}
	if it.pos >= len(it.buf) {
		return Comment{}, io.EOF
	}
	cm := it.buf[it.pos]
	it.pos++
	return cm, nil
}

func (it *CommentIter) fetch() error {
	it.loaded = true

	// The comments endpoint returns a two-element array: the submission
	// listing, then the comment listing
	var envs []listingEnvelope
	if err := it.c.getJSON(it.ctx, it.path, it.query, &envs); err != nil {
		return err
	}
	if len(envs) < 2 {
		return nil
	}
	for _, child := range envs[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var cd commentData
		if err := json.Unmarshal(child.Data, &cd); err != nil {
			it.c.log.Warn().Err(err).Msg("reddit skipping undecodable comment")
			continue
		}
		it.buf = append(it.buf, cd.toComment())
	}
	return nil
}

// TopComments fetches up to limit top-level comments of a submission sorted
// by score. limit is the explicit "popular enough to scan" budget
func (c *Client) TopComments(ctx context.Context, subreddit, postID string, limit int) *CommentIter {
	q := url.Values{}
	q.Set("sort", "top")
	q.Set("depth", "1")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return &CommentIter{
		c:     c,
		ctx:   ctx,
		path:  fmt.Sprintf("/r/%s/comments/%s", url.PathEscape(subreddit), url.PathEscape(postID)),
		query: q,
	}
}

// Me fetches the identity attached to the current token; used by doctor
// preflight to prove the API is reachable and credentials resolve
func (c *Client) Me(ctx context.Context) (string, error) {
	var out struct {
		Name string `json:"name"`
	}
	if err := c.getJSON(ctx, "/api/v1/me", nil, &out); err != nil {
		return "", err
	}
	return out.Name, nil
}
