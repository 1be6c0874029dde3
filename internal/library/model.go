package library

import (
	"fmt"
	"strings"
)

// Click behaviors for a book card on the published site.
const (
	ClickOverlay  = "overlay"
	ClickRedirect = "redirect"
)

// CategoryOther is the fallback category for books saved without one.
const CategoryOther = "Other"

// Categories is the conventional vocabulary offered by the admin surfaces.
// Category itself is free text; anything outside this list still round-trips.
var Categories = []string{
	"Programming",
	"Self-Improvement",
	"Business",
	"Science",
	"Biography",
	"Fiction",
	CategoryOther,
}

// Config is the site configuration document (config.json at the site root).
// Shelf order is meaningful: it is the display order of the published site.
type Config struct {
	SiteTitle    string  `json:"siteTitle"`
	SiteSubtitle string  `json:"siteSubtitle"`
	FooterText   string  `json:"footerText"`
	Shelves      []Shelf `json:"shelves"`
}

// Shelf is a named, ordered grouping of books backed by one directory
// under the books root. ID and Folder are immutable once created.
type Shelf struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Folder string `json:"folder"`
}

// ShelfByID returns the shelf with the given id, or nil.
func (c *Config) ShelfByID(id string) *Shelf {
	for i := range c.Shelves {
		if c.Shelves[i].ID == id {
			return &c.Shelves[i]
		}
	}
	return nil
}

// Validate checks the config invariants: shelf ids unique and non-empty.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.Shelves))
	for _, s := range c.Shelves {
		if s.ID == "" {
			return fmt.Errorf("shelf with empty id (folder %q)", s.Folder)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate shelf id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Book is one record file in a shelf folder. Optional fields carry
// omitempty so an absent field stays absent on re-save.
type Book struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Category      string `json:"category"`
	PublishDate   string `json:"publishDate"`
	Pages         int    `json:"pages,omitempty"`
	Cover         string `json:"cover,omitempty"`
	CoverLocal    string `json:"coverLocal,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Link          string `json:"link,omitempty"`
	ClickBehavior string `json:"clickBehavior"`
}

// Validate normalizes a book in place and reports the first violation.
// Title and author are required; category and clickBehavior get defaults.
func (b *Book) Validate() error {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.Author == "" {
		return fmt.Errorf("author is required")
	}
	if b.Pages < 0 {
		return fmt.Errorf("pages must be a positive number")
	}
	if b.Category == "" {
		b.Category = CategoryOther
	}
	switch b.ClickBehavior {
	case ClickOverlay, ClickRedirect:
	case "":
		b.ClickBehavior = ClickOverlay
	default:
		return fmt.Errorf("unknown clickBehavior %q", b.ClickBehavior)
	}
	return nil
}

// minDisplayPages is the threshold below which a page count is treated
// as a placeholder. Small values are kept in storage but never shown.
const minDisplayPages = 5

// DisplayPages returns the page count for display, or 0 when the
// stored value is a placeholder.
func (b *Book) DisplayPages() int {
	if b.Pages < minDisplayPages {
		return 0
	}
	return b.Pages
}

// HasExternalCover reports whether the book points at a remote cover URL.
func (b *Book) HasExternalCover() bool {
	return strings.HasPrefix(b.Cover, "http://") || strings.HasPrefix(b.Cover, "https://")
}

// BookWithMeta is a Book plus its on-disk location, attached at load time.
// The location fields are derived and never persisted.
type BookWithMeta struct {
	Book
	FilePath   string `json:"-"`
	FileName   string `json:"-"`
	ShelfID    string `json:"-"`
	ShelfLabel string `json:"-"`
}

// SearchBooks returns the books whose title, author, or category contains
// the query, case-insensitively.
func SearchBooks(books []BookWithMeta, query string) []BookWithMeta {
	q := strings.ToLower(query)
	var out []BookWithMeta
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Category), q) {
			out = append(out, b)
		}
	}
	return out
}
