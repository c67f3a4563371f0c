package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/spf13/cobra"

	"github.com/cfssim/cfssim/pkg/metrics"
	"github.com/cfssim/cfssim/pkg/sched"
	"github.com/cfssim/cfssim/pkg/simcpu"
	"github.com/cfssim/cfssim/pkg/types"
	"github.com/cfssim/cfssim/pkg/weight"
	"github.com/cfssim/cfssim/pkg/workload"
)

func defaultCPUCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

func main() {
	root := &cobra.Command{
		Use:   "cfsimd",
		Short: "CFS-style scheduler simulator",
		Long: `cfsimd simulates a CFS-style process scheduler bolted onto a fixed-size
process table, the way a teaching kernel's proc.c might. It can run a
declarative workload to completion, print a ps-style snapshot, and read or
write a process's nice value.`,
	}

	root.AddCommand(newRunCmd(), newPSCmd(), newNiceCmd(), newSeedCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		workloadPath   string
		cpus           int
		richPS         bool
		colorPS        bool
		prometheusAddr string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload to completion and print a final ps-style snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkload(cmd.Context(), workloadPath, cpus, richPS, colorPS, prometheusAddr)
		},
	}

	cmd.Flags().StringVarP(&workloadPath, "workload", "w", "", "path to a workload YAML file (required)")
	cmd.Flags().IntVar(&cpus, "cpus", 0, "number of virtual CPUs (0 = use the workload file's cpus value, which defaults to 1)")
	cmd.Flags().BoolVar(&richPS, "rich", false, "render the final snapshot as a bordered table instead of fixed-width columns")
	cmd.Flags().BoolVar(&colorPS, "color", true, "colorize priority columns (ignored without --rich)")
	cmd.Flags().StringVar(&prometheusAddr, "prometheus", "", "address to serve Prometheus metrics on while running (e.g. :9090)")
	_ = cmd.MarkFlagRequired("workload")

	return cmd
}

func runWorkload(ctx context.Context, path string, cpus int, rich, useColor bool, prometheusAddr string) error {
	mix, err := workload.Load(path)
	if err != nil {
		return fmt.Errorf("load workload: %w", err)
	}
	if cpus <= 0 {
		cpus = mix.CPUs
	}
	if cpus <= 0 {
		cpus = defaultCPUCount()
	}

	tbl := sched.NewTable(sched.DefaultCapacity)
	sim := simcpu.NewSimulation(tbl)

	var coll *metrics.Collector
	if prometheusAddr != "" {
		reg := prometheus.NewRegistry()
		coll = metrics.NewCollector(tbl)
		coll.Register(reg)
		sim.OnTick(func(_ int32, ts uint32) { coll.ObserveTimeslice(ts) })

		srv := &http.Server{Addr: prometheusAddr, Handler: metrics.ServeHTTP(reg, coll)}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("prometheus server", "err", err)
			}
		}()
		defer srv.Close()
		slog.Info("serving prometheus metrics", "addr", prometheusAddr)
	}

	for _, spec := range mix.Specs() {
		if _, err := sim.Spawn(spec); err != nil {
			return fmt.Errorf("spawn %q: %w", spec.Name, err)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sim.Run(ctx, cpus)
	slog.Info("run complete", "elapsed", time.Since(start), "cpus", cpus)

	printPS(tbl, rich, useColor)
	return nil
}

func newPSCmd() *cobra.Command {
	var workloadPath string
	cmd := &cobra.Command{
		Use:   "ps",
		Short: "Spawn a workload's processes without running them and print the initial ps snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			mix, err := workload.Load(workloadPath)
			if err != nil {
				return fmt.Errorf("load workload: %w", err)
			}
			tbl := sched.NewTable(sched.DefaultCapacity)
			sim := simcpu.NewSimulation(tbl)
			for _, spec := range mix.Specs() {
				if _, err := sim.Spawn(spec); err != nil {
					return fmt.Errorf("spawn %q: %w", spec.Name, err)
				}
			}
			fmt.Print(tbl.Ps(0))
			return nil
		},
	}
	cmd.Flags().StringVarP(&workloadPath, "workload", "w", "", "path to a workload YAML file (required)")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}

func newNiceCmd() *cobra.Command {
	var (
		workloadPath string
		setTo        int
	)
	cmd := &cobra.Command{
		Use:   "nice NAME",
		Short: "Get, or get-and-set, one named process's nice value within a freshly spawned workload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			mix, err := workload.Load(workloadPath)
			if err != nil {
				return fmt.Errorf("load workload: %w", err)
			}
			tbl := sched.NewTable(sched.DefaultCapacity)
			sim := simcpu.NewSimulation(tbl)
			var pid int32 = -1
			for _, spec := range mix.Specs() {
				p, err := sim.Spawn(spec)
				if err != nil {
					return fmt.Errorf("spawn %q: %w", spec.Name, err)
				}
				if spec.Name == name {
					pid = p
				}
			}
			if pid < 0 {
				return fmt.Errorf("no process named %q in %s", name, workloadPath)
			}
			if cmd.Flags().Changed("set") {
				if err := tbl.SetNice(pid, setTo); err != nil {
					return fmt.Errorf("setnice: %w", err)
				}
			}
			nice, err := tbl.GetNice(pid)
			if err != nil {
				return fmt.Errorf("getnice: %w", err)
			}
			fmt.Printf("%s (pid %d): nice=%d\n", name, pid, nice)
			return nil
		},
	}
	cmd.Flags().StringVarP(&workloadPath, "workload", "w", "", "path to a workload YAML file (required)")
	cmd.Flags().IntVar(&setTo, "set", 0, "set the process's nice value before printing it")
	_ = cmd.MarkFlagRequired("workload")
	return cmd
}

func printPS(tbl *sched.Table, rich, useColor bool) {
	if !rich {
		fmt.Print(tbl.Ps(0))
		return
	}

	snap := tbl.Snapshot()
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"name", "pid", "state", "priority", "runtime/weight", "runtime", "vruntime"})
	for _, p := range snap {
		priority := fmt.Sprintf("%d", p.Nice)
		if useColor {
			priority = colorizePriority(p.Nice)
		}
		table.Append([]string{
			p.Name,
			fmt.Sprintf("%d", p.PID),
			p.State.String(),
			priority,
			fmt.Sprintf("%d", p.Runtime/weight.Weight(p.Nice)),
			types.Millitick(p.Runtime).String(),
			types.Millitick(p.VRuntime).String(),
		})
	}
	table.Render()
}

func colorizePriority(nice uint8) string {
	s := fmt.Sprintf("%d", nice)
	switch {
	case nice < weight.Neutral:
		return color.New(color.FgRed).Sprint(s)
	case nice > weight.Neutral:
		return color.New(color.FgGreen).Sprint(s)
	default:
		return s
	}
}
