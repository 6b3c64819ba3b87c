// Package main is the entry point for the GIMS API server and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gims",
	Short: "Ground-support inventory management system",
	Long: `GIMS tracks ground-support equipment stock for airline maintenance:
request, receive, costing (RRP) and issue documents with approval
workflows, borrow tracking and lead-time prediction.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
