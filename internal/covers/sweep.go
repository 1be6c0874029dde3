package covers

import (
	"context"
	"os"
	"path/filepath"

	"shelfsite/internal/library"
)

// Candidate is a book with an external cover URL and no cached copy.
type Candidate struct {
	Book library.BookWithMeta
	URL  string
}

// Outcome reports what happened to one candidate during a sweep.
type Outcome struct {
	Title      string
	CoverLocal string // set on success, library-relative
	Err        error
}

// Scan walks the library for books that reference an external cover but
// have no local one yet. Unparsable records are reported in skipped,
// same as library enumeration.
func Scan(lib library.Library) ([]Candidate, []string, error) {
	books, skipped, err := lib.Books()
	if err != nil {
		return nil, nil, err
	}
	var out []Candidate
	for _, b := range books {
		if b.CoverLocal != "" || !b.HasExternalCover() {
			continue
		}
		out = append(out, Candidate{Book: b, URL: b.Cover})
	}
	return out, skipped, nil
}

// Cache downloads each candidate's cover into the library's covers
// directory and records the local path in the book file. Candidates are
// processed independently: one failure is reported in its outcome and
// the sweep moves on, and a book record is only rewritten after its
// download fully succeeded.
func (f *Fetcher) Cache(ctx context.Context, lib library.Library, candidates []Candidate) []Outcome {
	outcomes := make([]Outcome, 0, len(candidates))
	coversDir := lib.CoversDir()
	if err := os.MkdirAll(coversDir, 0755); err != nil {
		for _, c := range candidates {
			outcomes = append(outcomes, Outcome{Title: c.Book.Title, Err: err})
		}
		return outcomes
	}
	for _, c := range candidates {
		name := UniqueName(coversDir, c.Book.Title, "jpg")
		if err := f.Download(ctx, c.URL, filepath.Join(coversDir, name)); err != nil {
			outcomes = append(outcomes, Outcome{Title: c.Book.Title, Err: err})
			continue
		}
		coverLocal := "covers/" + name
		if err := lib.SetCoverLocal(c.Book.FilePath, coverLocal); err != nil {
			outcomes = append(outcomes, Outcome{Title: c.Book.Title, Err: err})
			continue
		}
		outcomes = append(outcomes, Outcome{Title: c.Book.Title, CoverLocal: coverLocal})
	}
	return outcomes
}
