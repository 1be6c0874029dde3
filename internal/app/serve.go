package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"shelfsite/internal/preview"
)

func newServeCmd() *cobra.Command {
	var distDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the built bundle on loopback",
		Long: `Serve the dist/ bundle over HTTP on 127.0.0.1 until interrupted.
When the configured port is taken the next ones are tried, so a
second preview does not collide with the first. The server binds
loopback only; this is a preview, not a deployment.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if distDir == "" {
				distDir = filepath.Join(lib.Root(), sets.Site.DistDir)
			}

			mgr := preview.NewManager()
			mgr.Host = sets.Serve.Host
			mgr.StartPort = sets.Serve.Port
			mgr.MaxAttempts = sets.Serve.MaxAttempts

			info, err := mgr.Start(distDir)
			if err != nil {
				return err
			}
			defer mgr.Stop()

			ok("Previewing %s", distDir)
			fmt.Printf("  %s\n", color.CyanString(info.URL))
			fmt.Println("  Press Ctrl+C to stop.")

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&distDir, "dist", "", "Bundle directory (default: <site>/<dist_dir>)")
	return cmd
}
