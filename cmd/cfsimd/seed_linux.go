//go:build linux

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cfssim/cfssim/pkg/hostseed"
)

func newSeedCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "List the host's own processes, converted to kernel-internal nice values, as a starting point for a workload file",
		RunE: func(cmd *cobra.Command, args []string) error {
			procs, err := hostseed.Seed(limit)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Println("processes:")
			for _, p := range procs {
				fmt.Printf("  - name: %q\n    nice: %d\n    workTicks: 10000\n", p.Name, p.Nice)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of host processes to sample")
	return cmd
}
