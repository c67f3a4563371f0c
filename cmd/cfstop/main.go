package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	ui "github.com/gizak/termui/v3"
	w "github.com/gizak/termui/v3/widgets"
	"github.com/spf13/cobra"

	"github.com/cfssim/cfssim/pkg/sched"
	"github.com/cfssim/cfssim/pkg/simcpu"
	"github.com/cfssim/cfssim/pkg/workload"
)

func main() {
	var workloadPath string
	var cpus int

	root := &cobra.Command{
		Use:   "cfstop",
		Short: "Live terminal dashboard of a running workload's per-process vruntime and runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(workloadPath, cpus)
		},
	}
	root.Flags().StringVarP(&workloadPath, "workload", "w", "", "path to a workload YAML file (required)")
	root.Flags().IntVar(&cpus, "cpus", 1, "number of virtual CPUs")
	_ = root.MarkFlagRequired("workload")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(workloadPath string, cpus int) error {
	mix, err := workload.Load(workloadPath)
	if err != nil {
		return fmt.Errorf("load workload: %w", err)
	}
	if cpus <= 0 {
		cpus = mix.CPUs
	}

	tbl := sched.NewTable(sched.DefaultCapacity)
	sim := simcpu.NewSimulation(tbl)
	for _, spec := range mix.Specs() {
		if _, err := sim.Spawn(spec); err != nil {
			return fmt.Errorf("spawn %q: %w", spec.Name, err)
		}
	}

	if err := ui.Init(); err != nil {
		return fmt.Errorf("init termui: %w", err)
	}
	defer ui.Close()

	list := w.NewList()
	list.Title = "process table"
	list.TextStyle = ui.NewStyle(ui.ColorWhite)

	gauge := w.NewGauge()
	gauge.Title = "running process's share of total accounted runtime"
	gauge.Percent = 0

	termWidth, termHeight := ui.TerminalDimensions()
	grid := ui.NewGrid()
	grid.SetRect(0, 0, termWidth, termHeight)
	grid.Set(
		ui.NewRow(1.0/6, ui.NewCol(1.0, gauge)),
		ui.NewRow(5.0/6, ui.NewCol(1.0, list)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx, cpus)

	draw := func() {
		snap := tbl.Snapshot()
		sort.Slice(snap, func(i, j int) bool { return snap[i].PID < snap[j].PID })

		rows := make([]string, 0, len(snap))
		var runningWeight, totalWeight uint32
		for _, p := range snap {
			rows = append(rows, fmt.Sprintf("%-12s pid=%-4d %-7s nice=%-3d runtime=%-8d vruntime=%d",
				p.Name, p.PID, p.State.String(), p.Nice, p.Runtime, p.VRuntime))
			if p.State == sched.Running {
				runningWeight = p.Runtime
			}
			totalWeight += p.Runtime
		}
		list.Rows = rows
		if totalWeight > 0 {
			gauge.Percent = int(100 * runningWeight / totalWeight)
		}

		ui.Render(grid)
	}

	draw()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	events := ui.PollEvents()
	for {
		select {
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			case "<Resize>":
				termWidth, termHeight = ui.TerminalDimensions()
				grid.SetRect(0, 0, termWidth, termHeight)
				ui.Clear()
				draw()
			}
		case <-ticker.C:
			draw()
		case <-ctx.Done():
			draw()
			return nil
		}
	}
}
