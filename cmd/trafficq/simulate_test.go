package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/config"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/fsutil"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/junction"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/report"
	"github.com/reyhaanzameer-7744/traffic-Q/internal/timeutil"
)

func parseFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "simulate"}
	addSimulateFlags(cmd)
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestSimulationConfigFromFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		rounds    int
		delay     time.Duration
		priority  junction.Lane
		output    string
		expectErr bool
	}{
		{name: "defaults", rounds: 1, delay: 500 * time.Millisecond, priority: junction.NoLane, output: "runs"},
		{
			name:   "explicit values",
			args:   []string{"--rounds", "3", "--step-delay", "1.5s", "--output", "/tmp/out"},
			rounds: 3, delay: 1500 * time.Millisecond, priority: junction.NoLane, output: "/tmp/out",
		},
		{
			name:   "forced priority defaults to UP",
			args:   []string{"--force-priority"},
			rounds: 1, delay: 500 * time.Millisecond, priority: junction.Up, output: "runs",
		},
		{
			name:   "forced priority lane",
			args:   []string{"--force-priority", "--priority-lane", "left"},
			rounds: 1, delay: 500 * time.Millisecond, priority: junction.Left, output: "runs",
		},
		{
			name:   "lane without force is ignored",
			args:   []string{"--priority-lane", "DOWN"},
			rounds: 1, delay: 500 * time.Millisecond, priority: junction.NoLane, output: "runs",
		},
		{name: "too many rounds", args: []string{"--rounds", "4"}, expectErr: true},
		{name: "delay too short", args: []string{"--step-delay", "100ms"}, expectErr: true},
		{name: "bad lane", args: []string{"--force-priority", "--priority-lane", "north"}, expectErr: true},
		{name: "missing config file", args: []string{"--config", "/nonexistent/sim.json"}, expectErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := simulationConfigFromFlags(parseFlags(t, tt.args...))
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.rounds, cfg.GetRounds())
			assert.Equal(t, tt.delay, cfg.GetStepDelay())
			assert.Equal(t, tt.priority, cfg.GetPriorityLane())
			assert.Equal(t, tt.output, cfg.GetOutputDir())
		})
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"rounds": 2, "step_delay": "1s", "priority_lane": "RIGHT", "seed": 7}`), 0644))

	cfg, err := simulationConfigFromFlags(parseFlags(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.GetRounds())
	assert.Equal(t, junction.Right, cfg.GetPriorityLane())
	assert.Equal(t, uint64(7), cfg.GetSeed())

	cfg, err = simulationConfigFromFlags(parseFlags(t, "--config", path, "--rounds", "3", "--force-priority=false"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.GetRounds())
	assert.Equal(t, time.Second, cfg.GetStepDelay())
	assert.Equal(t, junction.NoLane, cfg.GetPriorityLane())

	cfg, err = simulationConfigFromFlags(parseFlags(t, "--config", path, "--force-priority"))
	require.NoError(t, err)
	assert.Equal(t, junction.Right, cfg.GetPriorityLane(), "forcing keeps the file's lane")

	cfg, err = simulationConfigFromFlags(parseFlags(t, "--config", path, "--priority-lane", "DOWN"))
	require.NoError(t, err)
	assert.Equal(t, junction.Right, cfg.GetPriorityLane(), "lane without force leaves the file alone")

	cfg, err = simulationConfigFromFlags(parseFlags(t, "--config", path, "--force-priority", "--priority-lane", "DOWN"))
	require.NoError(t, err)
	assert.Equal(t, junction.Down, cfg.GetPriorityLane())
}

func testRunOptions(t *testing.T, cfg *config.SimulationConfig) (runOptions, *fsutil.MemoryFileSystem, *timeutil.MockClock, *bytes.Buffer) {
	t.Helper()
	mfs := fsutil.NewMemoryFileSystem()
	clock := timeutil.NewMockClock(time.Unix(0, 0))
	var out bytes.Buffer
	return runOptions{Config: cfg, FS: mfs, Clock: clock, Out: &out, Frames: true, Live: true}, mfs, clock, &out
}

func TestRunSimulation(t *testing.T) {
	cfg := config.EmptySimulationConfig()
	cfg.SetRounds(2)
	cfg.SetStepDelay(200 * time.Millisecond)
	cfg.SetPriorityLane("LEFT")
	cfg.SetSeed(42)
	cfg.SetOutputDir("/runs")

	opts, mfs, clock, out := testRunOptions(t, cfg)
	run, err := runSimulation(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, uint64(42), run.Seed)
	assert.Equal(t, filepath.Join("/runs", run.ID), run.Dir)
	require.Len(t, run.Summary.Rounds, 2)
	assert.Equal(t, run.ID, run.Summary.RunID)
	assert.Equal(t, junction.Left, run.Summary.Priority)

	steps := 0
	for _, r := range run.Summary.Rounds {
		left := r.Initial.Count(junction.Left)
		assert.GreaterOrEqual(t, left, cfg.GetMinCars()+1, "priority lane gets a bonus vehicle")
		assert.LessOrEqual(t, left, cfg.GetMaxCars()+1)
		steps += r.Normal.Steps + r.Quantum.Steps
	}
	assert.Len(t, clock.Sleeps(), steps)

	for _, name := range []string{report.TableFile, report.CSVFile, report.JSONFile, report.ChartFile} {
		assert.True(t, mfs.Exists(filepath.Join(run.Dir, name)), name)
	}
	frames := mfs.Files(filepath.Join(run.Dir, framesSubdir))
	assert.Len(t, frames, steps)
	assert.True(t, mfs.Exists(filepath.Join(run.Dir, framesSubdir, "round-02", "quantum", "step-0001.png")))

	text := out.String()
	assert.Contains(t, text, "Normal Simulation - Step 1")
	assert.Contains(t, text, "Quantum Simulation - Step 1 (LEFT lane moving)")
	assert.Contains(t, text, "Time Saved (minutes)")
	assert.Contains(t, text, "Quantum System Avg:")
	assert.NotContains(t, text, "\033[2J")
}

func TestRunSimulationIsReproducibleWithSeed(t *testing.T) {
	cfg := config.EmptySimulationConfig()
	cfg.SetRounds(3)
	cfg.SetSeed(99)

	initials := func() []junction.State {
		opts, _, _, _ := testRunOptions(t, cfg)
		opts.Frames, opts.Live = false, false
		run, err := runSimulation(context.Background(), opts)
		require.NoError(t, err)
		var got []junction.State
		for _, r := range run.Summary.Rounds {
			got = append(got, r.Initial)
		}
		return got
	}
	first := initials()
	assert.Equal(t, first, initials())
}

func TestRunSimulationCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts, mfs, _, _ := testRunOptions(t, config.EmptySimulationConfig())
	_, err := runSimulation(ctx, opts)
	assert.ErrorIs(t, err, context.Canceled)

	for _, f := range mfs.Files("runs") {
		assert.False(t, strings.HasSuffix(f, report.JSONFile), "no report for a cancelled run")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "trafficq dev")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "redirected output is not a terminal")
}
