package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSiteCmd() *cobra.Command {
	var (
		title    string
		subtitle string
		footer   string
	)

	cmd := &cobra.Command{
		Use:   "site",
		Short: "Show or edit the site-wide texts",
		Long: `Show the site title, subtitle, and footer, or update them with flags.
These land in config.json and are rendered into the page template at
build time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := lib.LoadConfig()
			if err != nil {
				return err
			}

			changed := false
			if cmd.Flags().Changed("title") {
				cfg.SiteTitle = title
				changed = true
			}
			if cmd.Flags().Changed("subtitle") {
				cfg.SiteSubtitle = subtitle
				changed = true
			}
			if cmd.Flags().Changed("footer") {
				cfg.FooterText = footer
				changed = true
			}
			if changed {
				if err := lib.SaveConfig(cfg); err != nil {
					return err
				}
				ok("Site texts updated")
			}

			fmt.Printf("  title:    %s\n", cfg.SiteTitle)
			fmt.Printf("  subtitle: %s\n", cfg.SiteSubtitle)
			fmt.Printf("  footer:   %s\n", cfg.FooterText)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Site title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Site subtitle")
	cmd.Flags().StringVar(&footer, "footer", "", "Footer text")
	return cmd
}
