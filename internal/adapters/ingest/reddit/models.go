package reddit

import (
	"encoding/json"
	"strings"
	"time"
)

// Post is a normalized submission from a listing endpoint
type Post struct {
	ID        string
	Subreddit string
	Title     string
	Body      string
	Author    string
	Permalink string
	Score     int
	CreatedAt time.Time
}

// FullText joins title and body for keyword matching
func (p Post) FullText() string {
	if p.Body == "" {
		return p.Title
	}
	return p.Title + "\n\n" + p.Body
}

// Comment is a normalized comment from a comment-tree endpoint
type Comment struct {
	ID        string
	PostID    string
	Subreddit string
	Author    string
	Body      string
	Permalink string
	Score     int
	CreatedAt time.Time
}

// tokenResponse is the OAuth token endpoint body. Reddit reports grant
// refusals as an error field on a 200 response
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Wire shapes. Listings nest typed "things" under kind tags: t3 submissions,
// t1 comments, "more" stubs for collapsed branches

type listingEnvelope struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string          `json:"after"`
	Children []thingEnvelope `json:"children"`
}

type thingEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type postData struct {
	ID         string  `json:"id"`
	Subreddit  string  `json:"subreddit"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	Author     string  `json:"author"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

type commentData struct {
	ID         string  `json:"id"`
	LinkID     string  `json:"link_id"`
	Subreddit  string  `json:"subreddit"`
	Author     string  `json:"author"`
	Body       string  `json:"body"`
	Permalink  string  `json:"permalink"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
}

func (d postData) toPost() Post {
	return Post{
		ID:        d.ID,
		Subreddit: d.Subreddit,
		Title:     d.Title,
		Body:      d.Selftext,
		Author:    d.Author,
		Permalink: d.Permalink,
		Score:     d.Score,
		CreatedAt: fromEpoch(d.CreatedUTC),
	}
}

func (d commentData) toComment() Comment {
	return Comment{
		ID:        d.ID,
		PostID:    strings.TrimPrefix(d.LinkID, "t3_"),
		Subreddit: d.Subreddit,
		Author:    d.Author,
		Body:      d.Body,
		Permalink: d.Permalink,
		Score:     d.Score,
		CreatedAt: fromEpoch(d.CreatedUTC),
	}
}

func fromEpoch(sec float64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}
