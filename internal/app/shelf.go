package app

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfsite/internal/library"
)

func newShelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Manage shelves",
	}
	cmd.AddCommand(
		newShelfListCmd(),
		newShelfCreateCmd(),
		newShelfRenameCmd(),
		newShelfDeleteCmd(),
		newShelfReorderCmd(),
		newShelfMergeCmd(),
	)
	return cmd
}

func newShelfListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shelves in display order",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := lib.LoadConfig()
			if err != nil {
				return err
			}
			books, skipped, err := lib.Books()
			if err != nil {
				return err
			}
			reportSkipped(skipped)

			counts := make(map[string]int)
			for _, b := range books {
				counts[b.ShelfID]++
			}
			for _, s := range cfg.Shelves {
				fmt.Printf("  %-16s %-24s %s  %s\n",
					s.ID, s.Label,
					color.New(color.Faint).Sprintf("books/%s", s.Folder),
					color.CyanString("%d book(s)", counts[s.ID]))
			}
			return nil
		},
	}
}

func newShelfCreateCmd() *cobra.Command {
	var (
		label  string
		folder string
	)

	cmd := &cobra.Command{
		Use:   "create <id>",
		Short: "Create a new shelf",
		Long: `Create a shelf: its directory under books/ first, then its config
entry, appended at the end of the display order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s := library.Shelf{ID: args[0], Label: label, Folder: folder}
			if err := lib.CreateShelf(s); err != nil {
				return err
			}
			ok("Created shelf %s", s.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Display label (default: the id)")
	cmd.Flags().StringVar(&folder, "folder", "", "Directory name under books/ (default: slug of the id)")
	return cmd
}

func newShelfRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <label>",
		Short: "Change a shelf's display label",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := lib.UpdateShelf(args[0], args[1]); err != nil {
				return err
			}
			ok("Shelf %s is now labeled %q", args[0], args[1])
			return nil
		},
	}
}

func newShelfDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an empty shelf",
		Long:  "Delete a shelf and its directory. Refuses if the shelf still holds books.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := lib.DeleteShelf(args[0]); err != nil {
				return err
			}
			ok("Deleted shelf %s", args[0])
			return nil
		},
	}
}

func newShelfReorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id,id,...>",
		Short: "Set the display order of all shelves",
		Long: `Reorder shelves. The argument must name every shelf exactly once;
the published site shows shelves in this order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var ids []string
			for _, id := range strings.Split(args[0], ",") {
				if id = strings.TrimSpace(id); id != "" {
					ids = append(ids, id)
				}
			}
			if err := lib.ReorderShelves(ids); err != nil {
				return err
			}
			ok("Shelf order: %s", strings.Join(ids, " → "))
			return nil
		},
	}
}

func newShelfMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <source> <target>",
		Short: "Move every book from one shelf into another",
		Long: `Move all books from the source shelf to the target shelf, then delete
the source. The source survives if any book fails to move.`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			moved, err := lib.MergeShelves(args[0], args[1])
			if moved > 0 {
				fmt.Printf("moved %d book(s) to %s\n", moved, args[1])
			}
			if err != nil {
				return err
			}
			ok("Merged shelf %s into %s", args[0], args[1])
			return nil
		},
	}
	return cmd
}
