package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfsite/internal/library"
	"shelfsite/internal/openlibrary"
)

func newAddCmd() *cobra.Command {
	var (
		shelfID   string
		author    string
		category  string
		published string
		pages     int
		coverURL  string
		notes     string
		link      string
		click     string
		fileName  string
		lookup    bool
	)

	cmd := &cobra.Command{
		Use:   "add <title|isbn>",
		Short: "Add a book record to a shelf",
		Long: `Add a book to a shelf as a new JSON record. The file name is derived
from the title once and never changes afterwards, even if the title is
edited later.

With --lookup the argument is sent to Open Library first (a 10- or
13-digit argument is treated as an ISBN) and the match prefills title,
author, year, pages, and cover URL. Explicit flags win over prefills.

Examples:
  shelfsite add "The Pragmatic Programmer" --shelf top5 --author "Hunt & Thomas"
  shelfsite add 9780135957059 --shelf top5 --lookup
  shelfsite add "Dune" --shelf fiction --author "Frank Herbert" --published 1965-08-01 --pages 412`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]

			b := library.Book{
				Title:         arg,
				Author:        author,
				Category:      category,
				PublishDate:   published,
				Pages:         pages,
				Cover:         coverURL,
				Notes:         notes,
				Link:          link,
				ClickBehavior: click,
			}

			if lookup {
				found, err := lookupBook(cmd, arg)
				if err != nil {
					return err
				}
				if found == nil {
					warn("no Open Library match for %q — saving with flags only", arg)
				} else {
					b = mergePrefill(b, *found)
				}
			}

			path, err := lib.SaveBook(shelfID, fileName, b)
			if err != nil {
				return err
			}
			ok("Added %s to shelf %s", color.WhiteString(b.Title), shelfID)
			fmt.Printf("  %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&shelfID, "shelf", "", "Target shelf id (required)")
	cmd.Flags().StringVar(&author, "author", "", "Author")
	cmd.Flags().StringVar(&category, "category", "", "Category (default: Other)")
	cmd.Flags().StringVar(&published, "published", "", "Publish date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&pages, "pages", 0, "Page count")
	cmd.Flags().StringVar(&coverURL, "cover", "", "Cover image URL")
	cmd.Flags().StringVar(&notes, "notes", "", "Freeform notes")
	cmd.Flags().StringVar(&link, "link", "", "External link")
	cmd.Flags().StringVar(&click, "click", "", "Click behavior: overlay or redirect")
	cmd.Flags().StringVar(&fileName, "file", "", "Override the record file name")
	cmd.Flags().BoolVar(&lookup, "lookup", false, "Prefill from Open Library (title search or ISBN)")

	_ = cmd.MarkFlagRequired("shelf")
	return cmd
}

// lookupBook queries Open Library for the argument, by ISBN when it
// looks like one and by title otherwise.
func lookupBook(cmd *cobra.Command, arg string) (*library.Book, error) {
	client := openlibrary.New()
	ctx := cmd.Context()

	if openlibrary.IsISBN(arg) {
		r, err := client.LookupISBN(ctx, arg)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil
		}
		b := client.Book(*r)
		return &b, nil
	}

	results, err := client.Search(ctx, arg, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	b := client.Book(results[0])
	return &b, nil
}

// mergePrefill overlays explicit flag values onto the lookup result.
// The matched title is taken as canonical; everything else defers to
// flags the user actually set.
func mergePrefill(flags library.Book, found library.Book) library.Book {
	out := found
	if flags.Author != "" {
		out.Author = flags.Author
	}
	if flags.Category != "" {
		out.Category = flags.Category
	}
	if flags.PublishDate != "" {
		out.PublishDate = flags.PublishDate
	}
	if flags.Pages != 0 {
		out.Pages = flags.Pages
	}
	if flags.Cover != "" {
		out.Cover = flags.Cover
	}
	if flags.Notes != "" {
		out.Notes = flags.Notes
	}
	if flags.Link != "" {
		out.Link = flags.Link
	}
	if flags.ClickBehavior != "" {
		out.ClickBehavior = flags.ClickBehavior
	}
	return out
}
