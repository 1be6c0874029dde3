package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"shelfsite/internal/build"
)

func newBuildCmd() *cobra.Command {
	var (
		distDir string
		sample  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the static site bundle",
		Long: `Rebuild the dist/ bundle from scratch: static assets, the rendered
index.html, config.json, every book record, the books/index.json
manifest, and the cached covers. The output depends only on the
library contents, so rebuilding an unchanged library is a no-op diff.

--sample builds from the books-sample/ tree instead of the live
library, useful for previewing the site chrome with known data.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts := build.Options{DistDir: distDir}
			if sample {
				opts.SourceDir = filepath.Join(lib.Root(), "books-sample")
			}

			res, err := build.Run(lib, opts)
			if err != nil {
				return err
			}
			for _, w := range res.Warnings {
				warn("%s", w)
			}
			for _, sc := range res.PerShelf {
				fmt.Printf("  %-24s %d book(s)\n", sc.Folder, sc.Count)
			}
			ok("Built %d book(s)", res.Books)
			return nil
		},
	}

	cmd.Flags().StringVar(&distDir, "dist", "", "Output directory (default: <site>/dist)")
	cmd.Flags().BoolVar(&sample, "sample", false, "Build from books-sample/ instead of the live library")
	return cmd
}
