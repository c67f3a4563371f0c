//go:build !linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "List the host's own processes as a starting point for a workload file (Linux only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("seed reads /proc and is only available on Linux")
		},
	}
}
