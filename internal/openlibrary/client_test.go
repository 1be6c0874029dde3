package openlibrary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	c := New()
	c.BaseURL = baseURL
	c.CoversURL = "https://covers.example.com"
	c.Retries = 0
	c.Backoff = time.Millisecond
	return c
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("q"); got != "the hobbit" {
			t.Errorf("q = %q", got)
		}
		_, _ = w.Write([]byte(`{"docs": [
			{"key": "/works/OL262758W", "title": "The Hobbit",
			 "author_name": ["J.R.R. Tolkien"], "first_publish_year": 1937,
			 "number_of_pages_median": 310, "cover_i": 14627509,
			 "cover_edition_key": "OL51711484M"},
			{"key": "/works/OL123W", "title": "The Hobbit Companion"}
		]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	results, err := c.Search(context.Background(), "the hobbit", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	r := results[0]
	if r.Title != "The Hobbit" || r.Author != "J.R.R. Tolkien" {
		t.Errorf("result = %+v", r)
	}
	if r.FirstPublishYear != 1937 || r.Pages != 310 {
		t.Errorf("year/pages = %d/%d", r.FirstPublishYear, r.Pages)
	}
	if results[1].Author != "" {
		t.Errorf("missing author_name should stay empty, got %q", results[1].Author)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>rate limited</html>`))
	}))
	defer srv.Close()

	results, err := testClient(srv.URL).Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("malformed body should not error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	results, err := testClient(srv.URL).Search(context.Background(), "x", 5)
	if err != nil {
		t.Fatalf("500 should not error: %v", err)
	}
	if results != nil {
		t.Errorf("got %v, want nil", results)
	}
}

func TestSearch_RetriesConnectionErrors(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("server does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack: %v", err)
			}
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(`{"docs": [{"title": "Dune"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.Retries = 3
	results, err := c.Search(context.Background(), "dune", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}
	if len(results) != 1 || results[0].Title != "Dune" {
		t.Errorf("results = %+v", results)
	}
}

func TestLookupISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/isbn/9780547928227.json":
			_, _ = w.Write([]byte(`{"title": "The Hobbit", "publish_date": "Sep 18, 2012",
				"number_of_pages": 300, "covers": [14627509],
				"authors": [{"key": "/authors/OL26320A"}]}`))
		case "/authors/OL26320A.json":
			_, _ = w.Write([]byte(`{"name": "J.R.R. Tolkien"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	r, err := c.LookupISBN(context.Background(), "978-0-547-92822-7")
	if err != nil {
		t.Fatalf("LookupISBN: %v", err)
	}
	if r == nil {
		t.Fatal("got nil result")
	}
	if r.Title != "The Hobbit" || r.Author != "J.R.R. Tolkien" {
		t.Errorf("result = %+v", r)
	}
	if r.FirstPublishYear != 2012 || r.Pages != 300 || r.CoverID != 14627509 {
		t.Errorf("year/pages/cover = %d/%d/%d", r.FirstPublishYear, r.Pages, r.CoverID)
	}
}

func TestLookupISBN_Unknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	r, err := testClient(srv.URL).LookupISBN(context.Background(), "0000000000")
	if err != nil {
		t.Fatalf("LookupISBN: %v", err)
	}
	if r != nil {
		t.Errorf("got %+v, want nil", r)
	}
}

func TestLookupISBN_AuthorFetchFailureKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/isbn/0451524934.json" {
			_, _ = w.Write([]byte(`{"title": "1984", "publish_date": "1950",
				"authors": [{"key": "/authors/OL118077A"}]}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := testClient(srv.URL).LookupISBN(context.Background(), "0451524934")
	if err != nil {
		t.Fatalf("LookupISBN: %v", err)
	}
	if r == nil || r.Title != "1984" {
		t.Fatalf("result = %+v", r)
	}
	if r.Author != "" {
		t.Errorf("author should stay empty when its fetch fails, got %q", r.Author)
	}
	if r.FirstPublishYear != 1950 {
		t.Errorf("year = %d, want 1950", r.FirstPublishYear)
	}
}

func TestBook(t *testing.T) {
	c := testClient("https://openlibrary.example.com")

	b := c.Book(Result{
		Key:              "/works/OL262758W",
		Title:            "The Hobbit",
		Author:           "J.R.R. Tolkien",
		FirstPublishYear: 1937,
		Pages:            310,
		CoverEditionKey:  "OL51711484M",
		CoverID:          14627509,
	})
	if b.PublishDate != "1937-01-01" {
		t.Errorf("publishDate = %q", b.PublishDate)
	}
	if want := "https://covers.example.com/b/olid/OL51711484M-L.jpg"; b.Cover != want {
		t.Errorf("cover = %q, want %q (edition key wins over cover id)", b.Cover, want)
	}
	if want := "https://openlibrary.example.com/works/OL262758W"; b.Link != want {
		t.Errorf("link = %q, want %q", b.Link, want)
	}

	b = c.Book(Result{Title: "No Edition", CoverID: 42})
	if want := "https://covers.example.com/b/id/42-L.jpg"; b.Cover != want {
		t.Errorf("cover = %q, want %q", b.Cover, want)
	}
	if b.PublishDate != "" || b.Link != "" {
		t.Errorf("zero year/key should stay empty: %q %q", b.PublishDate, b.Link)
	}
}

func TestIsISBN(t *testing.T) {
	for _, q := range []string{"0451524934", "9780547928227", "978-0-547-92822-7", "0 451 52493 4"} {
		if !IsISBN(q) {
			t.Errorf("IsISBN(%q) = false, want true", q)
		}
	}
	for _, q := range []string{"the hobbit", "1984", "978054792822", "97805479282270"} {
		if IsISBN(q) {
			t.Errorf("IsISBN(%q) = true, want false", q)
		}
	}
}
