package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfsite/internal/covers"
	"shelfsite/internal/tui"
	"shelfsite/internal/util"
)

func newCoversCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "covers",
		Short: "Manage cached cover images",
	}
	cmd.AddCommand(newCoversSyncCmd(), newCoversRmCmd())
	return cmd
}

func newCoversSyncCmd() *cobra.Command {
	var (
		all   bool
		check bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download missing covers into books/covers",
		Long: `Find books that reference an external cover URL but have no cached
copy, download the images, and record the local path in each book
file. Without flags an interactive picker selects which covers to
fetch; --all skips the picker, --check only reports what is missing.

Each cover is handled independently: a failed download is reported
and the sweep moves on, leaving that book record untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidates, skipped, err := covers.Scan(lib)
			if err != nil {
				return err
			}
			reportSkipped(skipped)

			if len(candidates) == 0 {
				ok("All covers cached")
				return nil
			}

			if check {
				header("%d cover(s) missing", len(candidates))
				for _, c := range candidates {
					fmt.Printf("  %-40s %s\n", c.Book.Title, color.New(color.Faint).Sprint(c.URL))
				}
				return nil
			}

			if !all {
				if !util.IsTTY() {
					return fmt.Errorf("no terminal for interactive selection — use --all or --check")
				}
				options := make([]tui.CoverOption, len(candidates))
				for i, c := range candidates {
					options[i] = tui.CoverOption{Title: c.Book.Title, URL: c.URL}
				}
				picked, err := tui.RunCoverPicker(options)
				if err != nil {
					if errors.Is(err, tui.ErrPickerAborted) {
						fmt.Println("canceled")
						return nil
					}
					return err
				}
				selected := make([]covers.Candidate, 0, len(picked))
				for _, i := range picked {
					selected = append(selected, candidates[i])
				}
				candidates = selected
			}

			fetcher := covers.NewFetcher()
			fetcher.Timeout = sets.Covers.Timeout()
			fetcher.Retries = sets.Covers.Retries
			fetcher.Backoff = sets.Covers.Backoff()

			failed := 0
			for _, o := range fetcher.Cache(cmd.Context(), lib, candidates) {
				if o.Err != nil {
					failed++
					warn("%s: %v", o.Title, o.Err)
					continue
				}
				ok("%s → %s", o.Title, o.CoverLocal)
			}
			if failed > 0 {
				return fmt.Errorf("%d cover(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Download every missing cover without asking")
	cmd.Flags().BoolVar(&check, "check", false, "Report missing covers without downloading")
	return cmd
}

func newCoversRmCmd() *cobra.Command {
	var shelfID string

	cmd := &cobra.Command{
		Use:   "rm <shelf/file>",
		Short: "Remove a book's cached cover",
		Long: `Delete a book's cached cover file and clear its coverLocal field.
The external cover URL stays, so a later sync can re-fetch it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b, err := findBook(args[0], shelfID)
			if err != nil {
				return err
			}
			if b.CoverLocal == "" {
				fmt.Println("no cached cover")
				return nil
			}
			coverPath := filepath.Join(lib.BooksDir(), filepath.FromSlash(b.CoverLocal))
			if err := covers.Delete(coverPath); err != nil {
				return err
			}
			if err := lib.SetCoverLocal(b.FilePath, ""); err != nil {
				return err
			}
			ok("Removed cover for %s", b.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&shelfID, "shelf", "", "Shelf (when the argument is a bare file name)")
	return cmd
}
