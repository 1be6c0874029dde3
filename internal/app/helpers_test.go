package app

import (
	"testing"

	"shelfsite/internal/library"
)

func TestParseBookRef(t *testing.T) {
	tests := []struct {
		arg, shelfFlag string
		wantShelf      string
		wantFile       string
		wantErr        bool
	}{
		{"top5/the-hobbit.json", "", "top5", "the-hobbit.json", false},
		{"top5/the-hobbit", "", "top5", "the-hobbit.json", false},
		{"the-hobbit.json", "top5", "top5", "the-hobbit.json", false},
		{"top5/sub/dir.json", "", "", "", true},
		{"the-hobbit.json", "", "", "", true},
		{"top5/", "", "", "", true},
	}
	for _, tt := range tests {
		shelf, file, err := parseBookRef(tt.arg, tt.shelfFlag)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseBookRef(%q, %q): expected error", tt.arg, tt.shelfFlag)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseBookRef(%q, %q): %v", tt.arg, tt.shelfFlag, err)
			continue
		}
		if shelf != tt.wantShelf || file != tt.wantFile {
			t.Errorf("parseBookRef(%q, %q) = %q, %q; want %q, %q",
				tt.arg, tt.shelfFlag, shelf, file, tt.wantShelf, tt.wantFile)
		}
	}
}

func TestMergePrefill_FlagsWin(t *testing.T) {
	found := library.Book{
		Title:       "The Hobbit",
		Author:      "J.R.R. Tolkien",
		PublishDate: "1937-01-01",
		Pages:       310,
		Cover:       "https://covers.example.com/b/id/1-L.jpg",
	}
	flags := library.Book{
		Author: "Tolkien",
		Notes:  "a classic",
	}

	got := mergePrefill(flags, found)
	if got.Title != "The Hobbit" {
		t.Errorf("title = %q, want the matched title", got.Title)
	}
	if got.Author != "Tolkien" {
		t.Errorf("author = %q, flag should win", got.Author)
	}
	if got.PublishDate != "1937-01-01" || got.Pages != 310 {
		t.Errorf("prefill lost: %+v", got)
	}
	if got.Notes != "a classic" {
		t.Errorf("notes = %q", got.Notes)
	}
}

func TestMergePrefill_EmptyFlagsKeepPrefill(t *testing.T) {
	found := library.Book{Title: "Dune", Author: "Frank Herbert", Cover: "https://x/y.jpg"}
	got := mergePrefill(library.Book{}, found)
	if got != found {
		t.Errorf("got %+v, want prefill unchanged", got)
	}
}
