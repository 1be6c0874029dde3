package app

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfsite/internal/library"
)

func newListCmd() *cobra.Command {
	var shelfID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books shelf by shelf",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			books, skipped, err := lib.Books()
			if err != nil {
				return err
			}
			reportSkipped(skipped)

			if shelfID != "" {
				var filtered []library.BookWithMeta
				for _, b := range books {
					if b.ShelfID == shelfID {
						filtered = append(filtered, b)
					}
				}
				books = filtered
			}

			printBooks(books)
			return nil
		},
	}

	cmd.Flags().StringVar(&shelfID, "shelf", "", "Only list this shelf")
	return cmd
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title, author, or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			books, skipped, err := lib.Books()
			if err != nil {
				return err
			}
			reportSkipped(skipped)

			matches := library.SearchBooks(books, args[0])
			if len(matches) == 0 {
				fmt.Println("no matches")
				return nil
			}
			printBooks(matches)
			return nil
		},
	}
}

// printBooks renders books grouped under shelf headings, preserving
// shelf order.
func printBooks(books []library.BookWithMeta) {
	currentShelf := ""
	for _, b := range books {
		if b.ShelfID != currentShelf {
			currentShelf = b.ShelfID
			header("%s  (%s)", b.ShelfLabel, b.ShelfID)
		}
		cover := " "
		if b.CoverLocal != "" {
			cover = color.GreenString("●")
		} else if b.HasExternalCover() {
			cover = color.YellowString("○")
		}
		fmt.Printf("  %s %-40s %-24s %s\n",
			cover, b.Title, b.Author, color.New(color.Faint).Sprint(b.FileName))
	}
}
