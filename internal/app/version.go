package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

// appVersion is set from main at startup.
var appVersion = "dev"

// SetVersion records the build version stamped into the binary.
func SetVersion(v string) {
	if v != "" {
		appVersion = v
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shelfsite version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shelfsite %s\n", appVersion)
		},
	}
}
