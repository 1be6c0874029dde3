package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SaveBook validates the record and writes it to the shelf's folder,
// creating the folder if absent. An existing file of the same name is
// overwritten (the update path). When fileName is empty the name is
// derived from the title; returns the resulting path either way.
func (l Library) SaveBook(shelfID, fileName string, b Book) (string, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return "", err
	}
	shelf := cfg.ShelfByID(shelfID)
	if shelf == nil {
		return "", fmt.Errorf("shelf %q not found", shelfID)
	}
	if err := b.Validate(); err != nil {
		return "", err
	}
	if fileName == "" {
		fileName = BookFileName(b.Title)
	}
	// The record must land inside the shelf folder.
	if strings.ContainsAny(fileName, `/\`) || fileName == "." || fileName == ".." {
		return "", fmt.Errorf("invalid book file name %q", fileName)
	}
	dir := l.ShelfDir(*shelf)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating shelf directory: %w", err)
	}
	path := filepath.Join(dir, fileName)
	if err := writeBook(path, &b); err != nil {
		return "", err
	}
	return path, nil
}

// DeleteBook removes a record file. Deleting a missing file is not an
// error.
func (l Library) DeleteBook(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

// MoveBook renames a record into the target shelf's folder, preserving
// the base name. The rename is a single operation so the book never
// exists in both places or neither.
func (l Library) MoveBook(path, targetShelfID string) (string, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return "", err
	}
	target := cfg.ShelfByID(targetShelfID)
	if target == nil {
		return "", fmt.Errorf("target shelf %q not found", targetShelfID)
	}
	dir := l.ShelfDir(*target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating shelf directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("moving book: %w", err)
	}
	return dest, nil
}

// SetCoverLocal rewrites a single record's coverLocal field in place,
// leaving every other field untouched.
func (l Library) SetCoverLocal(path, coverLocal string) error {
	b, err := readBook(path)
	if err != nil {
		return err
	}
	b.CoverLocal = coverLocal
	return writeBook(path, b)
}

// CreateShelf creates the backing directory and then appends the shelf
// to the config sequence. If the directory cannot be created the config
// is left unmodified. An empty Folder defaults to the slug of the id.
func (l Library) CreateShelf(s Shelf) error {
	cfg, err := l.LoadConfig()
	if err != nil {
		return err
	}
	if s.ID == "" {
		return fmt.Errorf("shelf id is required")
	}
	if cfg.ShelfByID(s.ID) != nil {
		return fmt.Errorf("shelf %q already exists", s.ID)
	}
	if s.Folder == "" {
		s.Folder = Slug(s.ID)
	}
	if s.Label == "" {
		s.Label = s.ID
	}
	if err := os.MkdirAll(l.ShelfDir(s), 0755); err != nil {
		return fmt.Errorf("creating shelf directory: %w", err)
	}
	cfg.Shelves = append(cfg.Shelves, s)
	return l.SaveConfig(cfg)
}

// UpdateShelf changes a shelf's display label. ID and folder are
// immutable once created.
func (l Library) UpdateShelf(shelfID, label string) error {
	cfg, err := l.LoadConfig()
	if err != nil {
		return err
	}
	shelf := cfg.ShelfByID(shelfID)
	if shelf == nil {
		return fmt.Errorf("shelf %q not found", shelfID)
	}
	shelf.Label = label
	return l.SaveConfig(cfg)
}

// DeleteShelf removes an empty shelf: its directory (if present) and its
// config entry. A shelf that still contains book records is refused.
func (l Library) DeleteShelf(shelfID string) error {
	cfg, err := l.LoadConfig()
	if err != nil {
		return err
	}
	shelf := cfg.ShelfByID(shelfID)
	if shelf == nil {
		return fmt.Errorf("shelf %q not found", shelfID)
	}
	dir := l.ShelfDir(*shelf)
	names, err := listRecords(dir)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading shelf %q: %w", shelfID, err)
	}
	if len(names) > 0 {
		return fmt.Errorf("cannot delete shelf %q: it contains %d book(s)", shelf.Label, len(names))
	}
	if err == nil {
		if err := os.Remove(dir); err != nil {
			return fmt.Errorf("removing shelf directory: %w", err)
		}
	}
	kept := cfg.Shelves[:0]
	for _, s := range cfg.Shelves {
		if s.ID != shelfID {
			kept = append(kept, s)
		}
	}
	cfg.Shelves = kept
	return l.SaveConfig(cfg)
}

// ReorderShelves rewrites the config sequence to match orderedIDs. Every
// current shelf must appear exactly once; no files are touched.
func (l Library) ReorderShelves(orderedIDs []string) error {
	cfg, err := l.LoadConfig()
	if err != nil {
		return err
	}
	if len(orderedIDs) != len(cfg.Shelves) {
		return fmt.Errorf("expected %d shelf ids, got %d", len(cfg.Shelves), len(orderedIDs))
	}
	reordered := make([]Shelf, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		shelf := cfg.ShelfByID(id)
		if shelf == nil {
			return fmt.Errorf("shelf %q not found", id)
		}
		if seen[id] {
			return fmt.Errorf("shelf %q listed twice", id)
		}
		seen[id] = true
		reordered = append(reordered, *shelf)
	}
	cfg.Shelves = reordered
	return l.SaveConfig(cfg)
}

// MergeShelves moves every book from one shelf into another, then
// deletes the emptied source shelf. Each move is attempted
// independently; failures are aggregated and the source shelf is kept
// if any book could not be moved.
func (l Library) MergeShelves(sourceID, targetID string) (moved int, err error) {
	if sourceID == targetID {
		return 0, fmt.Errorf("cannot merge shelf %q into itself", sourceID)
	}
	cfg, err := l.LoadConfig()
	if err != nil {
		return 0, err
	}
	if cfg.ShelfByID(sourceID) == nil {
		return 0, fmt.Errorf("shelf %q not found", sourceID)
	}
	if cfg.ShelfByID(targetID) == nil {
		return 0, fmt.Errorf("shelf %q not found", targetID)
	}
	books, _, err := l.Books()
	if err != nil {
		return 0, err
	}
	var errs []error
	for _, b := range books {
		if b.ShelfID != sourceID {
			continue
		}
		if _, err := l.MoveBook(b.FilePath, targetID); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", b.FileName, err))
			continue
		}
		moved++
	}
	if len(errs) > 0 {
		return moved, errors.Join(errs...)
	}
	return moved, l.DeleteShelf(sourceID)
}
