// Command assetctl loads asset type definitions into a running designare server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "assetctl",
		Short:         "Manage builder asset types",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newImportCmd())
	return root
}
