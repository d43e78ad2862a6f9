package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teviroff/trackers"
)

// trackerOpts assembles the library options shared by every demo subcommand.
func trackerOpts(a *app) []trackers.Option {
	opts := []trackers.Option{
		trackers.WithEmitter(a.hub),
		trackers.WithColor(a.cfg.Output.Color),
	}
	if a.cfg.Output.ForceTTY {
		opts = append(opts, trackers.WithForceTTY(true))
	}
	return opts
}

// newForCmd runs a fixed-length tracked loop.
func newForCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "for",
		Short: "Runs a fixed-length loop wrapped with a ForTracker",

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			steps := make([]int, a.cfg.Demo.Steps)
			for i := range steps {
				steps[i] = i
			}
			for range trackers.ForSlice("lazy loop", steps, trackerOpts(a)...) {
				time.Sleep(a.cfg.Demo.StepDelay)
			}

			a.logger.Info("for demo finished", zap.Int("steps", a.cfg.Demo.Steps))
			return nil
		},
	}
	return cmd
}

// newWhileCmd runs a condition-driven loop wrapped with a WhileTracker.
func newWhileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "while",
		Short: "Runs a condition-driven loop wrapped with a WhileTracker",

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			remaining := a.cfg.Demo.Steps
			w := trackers.While("busy loop", trackerOpts(a)...)
			for w.Check(remaining > 0) {
				remaining--
				time.Sleep(a.cfg.Demo.StepDelay)
			}

			a.logger.Info("while demo finished", zap.Int64("iterations", w.Count()))
			return nil
		},
	}
	return cmd
}

// newTaskCmd runs background work under a TaskTracker heartbeat.
func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Sleeps under a TaskTracker heartbeat",

		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			opts := append(trackerOpts(a), trackers.WithInterval(a.cfg.Demo.Interval))
			task := trackers.Task("long task", opts...)
			task.Start()
			time.Sleep(a.cfg.Demo.Duration)
			task.Stop()

			a.logger.Info("task demo finished", zap.Int64("heartbeats", task.Count()))
			return nil
		},
	}
	return cmd
}
