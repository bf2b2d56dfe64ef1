// Command talond runs the talon counting time-series service: a sharded
// table of timelines behind a line-oriented TCP protocol and an HTTP
// query/metrics API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "talond",
		Short:         "talond serves counting time series over TCP and HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
