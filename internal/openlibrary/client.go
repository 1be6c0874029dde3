// Package openlibrary is a client for the Open Library bibliographic
// API, used to prefill book records. Lookups are best effort: empty or
// malformed responses mean "no match", never an error the caller has to
// handle.
package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"shelfsite/internal/library"
)

const (
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"
)

// Client talks to the Open Library API.
type Client struct {
	// BaseURL is the API host; overridable for tests.
	BaseURL string
	// CoversURL is the cover-image host.
	CoversURL string
	// Retries and Backoff bound connection-error retries.
	Retries int
	Backoff time.Duration

	http *http.Client
}

// New returns a Client against the public Open Library API.
func New() *Client {
	return &Client{
		BaseURL:   defaultBaseURL,
		CoversURL: defaultCoversURL,
		Retries:   3,
		Backoff:   500 * time.Millisecond,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Result is one candidate record from a search or ISBN lookup.
type Result struct {
	Key              string
	Title            string
	Author           string
	FirstPublishYear int
	Pages            int
	CoverID          int64
	CoverEditionKey  string
}

// Book converts a lookup result into a book record prefill. The
// publish year becomes a January 1st ISO date, matching how the site
// stores dates it only knows the year of.
func (c *Client) Book(r Result) library.Book {
	b := library.Book{
		Title:  r.Title,
		Author: r.Author,
		Pages:  r.Pages,
	}
	if r.FirstPublishYear > 0 {
		b.PublishDate = fmt.Sprintf("%d-01-01", r.FirstPublishYear)
	}
	b.Cover = c.coverURL(r)
	if r.Key != "" {
		b.Link = c.BaseURL + r.Key
	}
	return b
}

// coverURL prefers the edition-key cover over the generic cover id.
func (c *Client) coverURL(r Result) string {
	if r.CoverEditionKey != "" {
		return fmt.Sprintf("%s/b/olid/%s-L.jpg", c.CoversURL, r.CoverEditionKey)
	}
	if r.CoverID > 0 {
		return fmt.Sprintf("%s/b/id/%d-L.jpg", c.CoversURL, r.CoverID)
	}
	return ""
}

type searchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	CoverI              int64    `json:"cover_i"`
	CoverEditionKey     string   `json:"cover_edition_key"`
}

type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

// Search queries by title or free text, returning up to limit
// candidates in the API's relevance order.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	u := fmt.Sprintf("%s/search.json?q=%s&limit=%d", c.BaseURL, url.QueryEscape(query), limit)
	var sr searchResponse
	ok, err := c.getJSON(ctx, u, &sr)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	results := make([]Result, 0, len(sr.Docs))
	for _, d := range sr.Docs {
		r := Result{
			Key:              d.Key,
			Title:            d.Title,
			FirstPublishYear: d.FirstPublishYear,
			Pages:            d.NumberOfPagesMedian,
			CoverID:          d.CoverI,
			CoverEditionKey:  d.CoverEditionKey,
		}
		if len(d.AuthorName) > 0 {
			r.Author = d.AuthorName[0]
		}
		results = append(results, r)
	}
	return results, nil
}

type editionResponse struct {
	Title         string  `json:"title"`
	PublishDate   string  `json:"publish_date"`
	NumberOfPages int     `json:"number_of_pages"`
	Covers        []int64 `json:"covers"`
	Authors       []struct {
		Key string `json:"key"`
	} `json:"authors"`
}

type authorResponse struct {
	Name string `json:"name"`
}

// LookupISBN fetches the edition record for a 10- or 13-digit ISBN.
// Returns nil for an unknown or malformed response. The author name
// requires a second request; its failure just leaves the author empty.
func (c *Client) LookupISBN(ctx context.Context, isbn string) (*Result, error) {
	clean := cleanISBN(isbn)
	u := fmt.Sprintf("%s/isbn/%s.json", c.BaseURL, clean)
	var ed editionResponse
	ok, err := c.getJSON(ctx, u, &ed)
	if err != nil {
		return nil, err
	}
	if !ok || ed.Title == "" {
		return nil, nil
	}
	r := &Result{
		Key:              "/isbn/" + clean,
		Title:            ed.Title,
		FirstPublishYear: extractYear(ed.PublishDate),
		Pages:            ed.NumberOfPages,
	}
	if len(ed.Covers) > 0 {
		r.CoverID = ed.Covers[0]
	}
	if len(ed.Authors) > 0 {
		var au authorResponse
		if ok, err := c.getJSON(ctx, c.BaseURL+ed.Authors[0].Key+".json", &au); err == nil && ok {
			r.Author = au.Name
		}
	}
	return r, nil
}

// IsISBN reports whether a query looks like an ISBN rather than a
// title search.
func IsISBN(query string) bool {
	clean := cleanISBN(query)
	return len(clean) == 10 || len(clean) == 13
}

func cleanISBN(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if strings.ContainsFunc(s, func(r rune) bool {
		return r != '-' && r != ' ' && (r < '0' || r > '9')
	}) {
		return ""
	}
	return b.String()
}

var yearRe = regexp.MustCompile(`\d{4}`)

// extractYear pulls a 4-digit year out of Open Library's freeform
// publish_date values ("Sep 1, 2011", "1996", …).
func extractYear(date string) int {
	m := yearRe.FindString(date)
	if m == "" {
		return 0
	}
	var year int
	_, _ = fmt.Sscanf(m, "%d", &year)
	return year
}

// getJSON fetches and decodes u into out. Connection errors are
// retried; a non-200 status or an undecodable body reports ok=false
// (no match) rather than an error.
func (c *Client) getJSON(ctx context.Context, u string, out any) (bool, error) {
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	var resp *http.Response
	attempts := c.Retries
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return false, err
		}
		resp, err = c.http.Do(req)
		if err == nil {
			break
		}
		if attempts == 0 {
			return false, fmt.Errorf("querying open library: %w", err)
		}
		attempts--
		select {
		case <-time.After(c.Backoff):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, nil
	}
	return true, nil
}
