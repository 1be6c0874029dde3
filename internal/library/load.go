package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Books enumerates every book record, shelf by shelf in config order.
// A shelf whose directory does not exist contributes zero books. Files
// that are not .json or that fail to parse are skipped; each skip is
// reported in the second return value, never as a fatal error.
func (l Library) Books() ([]BookWithMeta, []string, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	var books []BookWithMeta
	var skipped []string
	for _, shelf := range cfg.Shelves {
		dir := l.ShelfDir(shelf)
		names, err := listRecords(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, nil, fmt.Errorf("reading shelf %q: %w", shelf.ID, err)
		}
		for _, name := range names {
			path := filepath.Join(dir, name)
			b, err := readBook(path)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			books = append(books, BookWithMeta{
				Book:       *b,
				FilePath:   path,
				FileName:   name,
				ShelfID:    shelf.ID,
				ShelfLabel: shelf.Label,
			})
		}
	}
	return books, skipped, nil
}

// BookByPath loads a single record without shelf resolution.
func (l Library) BookByPath(path string) (*Book, error) {
	return readBook(path)
}

// BookByRef loads the record fileName on the shelf shelfID.
func (l Library) BookByRef(shelfID, fileName string) (*BookWithMeta, error) {
	cfg, err := l.LoadConfig()
	if err != nil {
		return nil, err
	}
	shelf := cfg.ShelfByID(shelfID)
	if shelf == nil {
		return nil, fmt.Errorf("unknown shelf %q", shelfID)
	}
	path := filepath.Join(l.ShelfDir(*shelf), fileName)
	b, err := readBook(path)
	if err != nil {
		return nil, err
	}
	return &BookWithMeta{
		Book:       *b,
		FilePath:   path,
		FileName:   fileName,
		ShelfID:    shelf.ID,
		ShelfLabel: shelf.Label,
	}, nil
}

// listRecords returns the .json entries of dir, sorted lexicographically
// so iteration order is stable across builds.
func listRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func readBook(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading book: %w", err)
	}
	var b Book
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing book: %w", err)
	}
	return &b, nil
}

func writeBook(path string, b *Book) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding book: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing book: %w", err)
	}
	return nil
}
