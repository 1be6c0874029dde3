package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	var (
		shelfID string
		toShelf string
	)

	cmd := &cobra.Command{
		Use:   "move <shelf/file>",
		Short: "Move a book to a different shelf",
		Long: `Move a book record to another shelf. The file keeps its name; only
its directory changes, so the move is a single rename.

Example:
  shelfsite move top5/the-hobbit.json --to good`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := findBook(args[0], shelfID)
			if err != nil {
				return err
			}
			if b.ShelfID == toShelf {
				return fmt.Errorf("book is already on shelf %q", toShelf)
			}
			newPath, err := lib.MoveBook(b.FilePath, toShelf)
			if err != nil {
				return err
			}
			ok("Moved %s: %s → %s", b.Title, b.ShelfID, toShelf)
			fmt.Printf("  %s\n", newPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&shelfID, "shelf", "", "Source shelf (when the argument is a bare file name)")
	cmd.Flags().StringVar(&toShelf, "to", "", "Destination shelf id (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var shelfID string

	cmd := &cobra.Command{
		Use:   "delete <shelf/file>",
		Short: "Delete a book record",
		Long: `Delete a book record file. The cached cover, if any, stays in
books/covers; remove it with 'covers rm' when it is no longer wanted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := findBook(args[0], shelfID)
			if err != nil {
				return err
			}
			if err := lib.DeleteBook(b.FilePath); err != nil {
				return err
			}
			ok("Deleted %s from shelf %s", b.Title, b.ShelfID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shelfID, "shelf", "", "Shelf (when the argument is a bare file name)")
	return cmd
}
