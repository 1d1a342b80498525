package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "template-engine",
		Short:        "Render notice templates with localized dates and inline barcodes",
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newRenderCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
