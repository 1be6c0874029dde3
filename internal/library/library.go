// Package library implements the file-backed data model of a book site:
// a config.json document, shelf folders under books/, and one JSON record
// per book. All mutations go through Library so the on-disk layout and
// the config stay consistent.
package library

import "path/filepath"

// Library is a handle on a site directory. The zero value is not usable;
// construct with New.
type Library struct {
	root string
}

// New returns a Library rooted at the given site directory.
func New(root string) Library {
	return Library{root: root}
}

// Root returns the site directory.
func (l Library) Root() string { return l.root }

// BooksDir returns the books root (<site>/books).
func (l Library) BooksDir() string { return filepath.Join(l.root, "books") }

// CoversDir returns the cached-covers directory (<site>/books/covers).
func (l Library) CoversDir() string { return filepath.Join(l.BooksDir(), "covers") }

// ConfigPath returns the site configuration document path.
func (l Library) ConfigPath() string { return filepath.Join(l.root, "config.json") }

// ShelfDir returns the directory backing a shelf.
func (l Library) ShelfDir(s Shelf) string { return filepath.Join(l.BooksDir(), s.Folder) }
