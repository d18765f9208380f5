package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/config"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/fsutil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/monitoring"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/render"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/report"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/round"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/server"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/timeutil"
)

// framesSubdir holds the PNG frames inside a run directory.
const framesSubdir = "frames"

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the comparison rounds and write the report.",
	Long: "`simulate` runs 1-3 rounds. Each round generates random lane counts and drains them " +
		"first with the normal plan, then with the quantum plan, pacing every step by --step-delay.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := simulationConfigFromFlags(cmd)
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}

		verbose, _ := cmd.Flags().GetBool("verbose")
		monitoring.SetVerbose(verbose)

		opts := runOptions{Config: cfg, FS: fsutil.OSFileSystem{}, Clock: timeutil.RealClock{}, Out: cmd.OutOrStdout()}
		opts.Frames, _ = cmd.Flags().GetBool("frames")
		opts.Live, _ = cmd.Flags().GetBool("live")
		opts.ClearScreen = opts.Live && isTerminal(opts.Out)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		run, err := runSimulation(ctx, opts)
		if err != nil {
			log.Fatalf("Simulation failed: %v", err)
		}

		addr, _ := cmd.Flags().GetString("serve")
		if addr == "" {
			return
		}
		srv := server.New(server.Config{Address: addr, FramesDir: filepath.Join(run.Dir, framesSubdir)}, run.Summary)
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("Error serving report: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	addSimulateFlags(simulateCmd)
}

func addSimulateFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("config", "", "Path to a JSON simulation config (e.g. "+config.DefaultConfigPath+")")
	flags.Int("rounds", 1, fmt.Sprintf("Number of rounds (%d-%d)", config.MinRounds, config.MaxRounds))
	flags.Duration("step-delay", 500*time.Millisecond, fmt.Sprintf("Pause after every step (%s-%s)", config.MinStepDelay, config.MaxStepDelay))
	flags.Bool("force-priority", false, "Give one lane an ambulance that the quantum plan always serves first")
	flags.String("priority-lane", "UP", "Ambulance lane used with --force-priority, one of: "+junction.GetValidLanesString())
	flags.String("output", "runs", "Directory that receives one sub-directory per run")
	flags.Bool("frames", true, "Write a PNG frame for every step")
	flags.Bool("live", true, "Print a text view of every step to stdout")
	flags.Uint64("seed", 0, "Random seed (0 picks one)")
	flags.String("serve", "", "Serve the report on this address after the run, e.g. localhost:8080")
	flags.Bool("verbose", false, "Enable debug logging")
}

// simulationConfigFromFlags loads --config, if given, and applies every flag
// the user set explicitly on top of it.
func simulationConfigFromFlags(cmd *cobra.Command) (*config.SimulationConfig, error) {
	flags := cmd.Flags()
	cfg := config.EmptySimulationConfig()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadSimulationConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("rounds") {
		v, _ := flags.GetInt("rounds")
		cfg.SetRounds(v)
	}
	if flags.Changed("step-delay") {
		v, _ := flags.GetDuration("step-delay")
		cfg.SetStepDelay(v)
	}
	// --priority-lane only takes effect with --force-priority. Without an
	// explicit lane, forcing keeps the file's lane and falls back to UP.
	if flags.Changed("force-priority") {
		if force, _ := flags.GetBool("force-priority"); force {
			lane := junction.Up.String()
			if flags.Changed("priority-lane") {
				lane, _ = flags.GetString("priority-lane")
			} else if l := cfg.GetPriorityLane(); l.Valid() {
				lane = l.String()
			}
			cfg.SetPriorityLane(lane)
		} else {
			cfg.SetPriorityLane("")
		}
	}
	if flags.Changed("output") {
		v, _ := flags.GetString("output")
		cfg.SetOutputDir(v)
	}
	if flags.Changed("seed") {
		v, _ := flags.GetUint64("seed")
		cfg.SetSeed(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// isTerminal reports whether w is a terminal, so redirected output never
// receives ANSI clear sequences.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runOptions bundles what a simulation run needs besides the configuration.
type runOptions struct {
	Config *config.SimulationConfig
	FS     fsutil.FileSystem
	Clock  timeutil.Clock
	// Out receives the live text frames and the final table.
	Out         io.Writer
	Frames      bool
	Live        bool
	ClearScreen bool
}

// runResult describes a finished run.
type runResult struct {
	ID      string
	Dir     string
	Seed    uint64
	Summary *report.Summary
}

func runSimulation(ctx context.Context, opts runOptions) (*runResult, error) {
	cfg := opts.Config
	run := &runResult{ID: uuid.New().String(), Seed: cfg.GetSeed()}
	run.Dir = filepath.Join(cfg.GetOutputDir(), run.ID)
	if run.Seed == 0 {
		run.Seed = rand.Uint64()
	}

	var renderers render.Multi
	var frames *render.PlotRenderer
	if opts.Frames {
		frames = render.NewPlotRenderer(opts.FS, filepath.Join(run.Dir, framesSubdir))
		renderers = append(renderers, frames)
	}
	if opts.Live {
		text := render.NewTextRenderer(opts.Out)
		text.Clear = opts.ClearScreen
		renderers = append(renderers, text)
	}

	roundCfg := round.Config{
		Rounds:        cfg.GetRounds(),
		StepDelay:     cfg.GetStepDelay(),
		Priority:      cfg.GetPriorityLane(),
		StepsPerVisit: cfg.GetStepsPerVisit(),
		MinCars:       cfg.GetMinCars(),
		MaxCars:       cfg.GetMaxCars(),
	}
	runner, err := round.NewRunner(roundCfg,
		round.WithClock(opts.Clock),
		round.WithRenderer(renderers),
		round.WithRand(rand.New(rand.NewPCG(run.Seed, run.Seed>>1))),
	)
	if err != nil {
		return nil, err
	}

	monitoring.Logf("run %s: %d round(s), step delay %s, priority %s, seed %d",
		run.ID, roundCfg.Rounds, roundCfg.StepDelay, roundCfg.Priority, run.Seed)

	results, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}

	sum := report.Build(results)
	sum.RunID = run.ID
	run.Summary = &sum
	if err := sum.Save(opts.FS, run.Dir); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if frames != nil {
		monitoring.Logf("run %s: wrote %d frames", run.ID, frames.Written())
	}
	monitoring.Logf("run %s: report written to %s", run.ID, run.Dir)

	fmt.Fprintln(opts.Out)
	if err := sum.WriteTable(opts.Out); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}
	return run, nil
}
