package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"skillarcade/internal/app"
	"skillarcade/internal/devtools"
	"skillarcade/internal/levels"
	"skillarcade/internal/ui"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := app.DefaultConfig()
	root := &cobra.Command{
		Use:           "skillarcade",
		Short:         "Timing, memory and routing mini-games with saved progress",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadEnv(cmd, &cfg)
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the progress database")
	flags.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: sqlite or bolt")
	flags.StringVar(&cfg.LogPath, "log", cfg.LogPath, "write JSON event log to this file")
	flags.StringVar(&cfg.TuningPath, "tuning", cfg.TuningPath, "YAML file overriding engine timings")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log debug events")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "fixed challenge seed (0 picks a random one)")
	flags.StringVar(&cfg.UI.StyleVariant, "style", cfg.UI.StyleVariant, "color theme: modern_arcade, cozy_clean or retro_terminal")

	root.AddCommand(
		newPlayCmd(&cfg),
		newSimulateCmd(&cfg),
		newProgressCmd(&cfg),
		newStatsCmd(&cfg),
		newResetCmd(&cfg),
	)
	return root
}

// loadEnv applies SKILLARCADE_* variables without clobbering flags the user
// set explicitly.
func loadEnv(cmd *cobra.Command, cfg *app.Config) error {
	flagged := *cfg
	if err := app.LoadEnv(cfg); err != nil {
		return err
	}
	restore := map[string]func(){
		"data-dir": func() { cfg.DataDir = flagged.DataDir },
		"backend":  func() { cfg.Backend = flagged.Backend },
		"log":      func() { cfg.LogPath = flagged.LogPath },
		"tuning":   func() { cfg.TuningPath = flagged.TuningPath },
		"debug":    func() { cfg.Debug = flagged.Debug },
		"seed":     func() { cfg.Seed = flagged.Seed },
		"style":    func() { cfg.UI.StyleVariant = flagged.UI.StyleVariant },
		"scenario": func() { cfg.Gameplay.Scenario = flagged.Gameplay.Scenario },
	}
	for name, fn := range restore {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			fn()
		}
	}
	return nil
}

func withApp(cmd *cobra.Command, cfg *app.Config, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, *cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func levelArgs(a *app.App, args []string) (levels.Config, error) {
	level, err := strconv.Atoi(args[2])
	if err != nil {
		return levels.Config{}, fmt.Errorf("level %q is not a number", args[2])
	}
	return a.LevelConfig(args[0], args[1], level)
}

func newPlayCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "play <game> <tier> <level>",
		Short: "Play a level in the terminal",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app.App) error {
				lc, err := levelArgs(a, args)
				if err != nil {
					return err
				}
				res, err := a.Play(ctx, lc)
				if err != nil && ctx.Err() == nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderResult(a.Theme(), res))
				return nil
			})
		},
	}
}

func newSimulateCmd(cfg *app.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <game> <tier> <level>",
		Short: "Let the autopilot play a level and record the result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app.App) error {
				lc, err := levelArgs(a, args)
				if err != nil {
					return err
				}
				res, err := a.Simulate(ctx, lc, cfg.Gameplay.Scenario)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, ui.RenderResult(a.Theme(), res.Session))
				fmt.Fprintf(out, "%s: %d inputs\n", res.Pilot.Scenario, res.Pilot.Inputs)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&cfg.Gameplay.Scenario, "scenario", cfg.Gameplay.Scenario, fmt.Sprintf("autopilot scenario %v", devtools.Scenarios))
	return cmd
}

func newProgressCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "progress [game]",
		Short: "Show unlocked and cleared levels",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			games := levels.Variants
			if len(args) == 1 {
				v, err := levels.ParseVariant(args[0])
				if err != nil {
					return err
				}
				games = []levels.Variant{v}
			}
			return withApp(cmd, cfg, func(ctx context.Context, a *app.App) error {
				for _, g := range games {
					rep := a.Report(ctx, g)
					fmt.Fprintln(cmd.OutOrStdout(), ui.RenderProgress(a.Theme(), rep.Variant, rep.Overall, rep.Tiers))
				}
				return nil
			})
		},
	}
}

func newStatsCmd(cfg *app.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show overall statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, cfg, func(ctx context.Context, a *app.App) error {
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderStats(a.Theme(), a.Statistics(ctx)))
				return nil
			})
		},
	}
}

func newResetCmd(cfg *app.Config) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Erase all saved progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset erases all progress; pass --yes to confirm")
			}
			return withApp(cmd, cfg, func(ctx context.Context, a *app.App) error {
				if err := a.Reset(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "progress cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
