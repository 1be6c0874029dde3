// Package app wires the engine packages into the shelfsite CLI. Every
// command resolves the library from flags and settings, calls into the
// engine, and formats the outcome; none of them carry logic of their
// own.
package app

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"shelfsite/internal/library"
	"shelfsite/internal/settings"
	"shelfsite/internal/util"
)

var (
	sets *settings.Settings
	lib  library.Library

	flagSite    string
	flagConfig  string
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "shelfsite",
	Short: "Manage a personal book-recommendation site",
	Long: `shelfsite manages a static book-recommendation site: shelves of JSON
book records, their cover images, and the deterministic bundle the
public site is served from.

The library lives in a plain directory — config.json plus one folder
per shelf under books/ — so everything stays diffable and portable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSite, "site", "", "Library root (default: settings site.path)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file path (default: ~/.config/shelfsite/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		// Local overrides, same shape the admin tooling used.
		_ = godotenv.Load()

		if flagConfig != "" {
			os.Setenv("SHELFSITE_CONFIG", flagConfig)
		}
		var err error
		sets, err = settings.Load()
		if err != nil {
			return err
		}

		root := sets.Site.Path
		if flagSite != "" {
			root = flagSite
		}
		lib = library.New(root)
		return nil
	}

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newSearchCmd(),
		newMoveCmd(),
		newDeleteCmd(),
		newShelfCmd(),
		newSiteCmd(),
		newBuildCmd(),
		newServeCmd(),
		newCoversCmd(),
		newVersionCmd(),
	)
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
