package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	equeue "github.com/eapache/queue"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/ringqueue/internal/logctx"
	"github.com/randomizedcoder/ringqueue/internal/queue"
	"github.com/randomizedcoder/ringqueue/internal/term"
)

// Test helper to isolate viper config between tests
func isolateViper(t *testing.T) {
	t.Helper()
	viper.Reset()

	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix+"_") {
			key, val, _ := strings.Cut(env, "=")
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, val) })
		}
	}
	t.Cleanup(viper.Reset)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func testContext() context.Context {
	return logctx.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPatternAt(t *testing.T) {
	tests := []struct {
		n    int
		want byte
	}{
		{0, 'A'},
		{1, ' '},
		{5, 'A'},
		{7, 'B'},
		{11, 'C'},
		{13, 'D'},
		{14, 'B'},
		{17, 'E'},
		{22, 'C'},
		{26, 'D'},
		{34, 'E'},
		{35, 'A'},
		{77, 'B'},
		{143, 'C'},
		{221, 'D'},
	}
	for _, tc := range tests {
		assert.Equal(t, string(tc.want), string(patternAt(tc.n)), "n=%d", tc.n)
	}
}

func TestPaint(t *testing.T) {
	var out bytes.Buffer
	tm, err := term.New(&out, 5, 2, term.WithFlushThreshold(0))
	require.NoError(t, err)

	paint(tm, false)
	require.NoError(t, tm.Flush())
	assert.Equal(t, "A    \x1b[1B\x1b[5DA B  ", out.String())
}

func TestPaint_Color(t *testing.T) {
	var out bytes.Buffer
	tm, err := term.New(&out, 8, 1, term.WithFlushThreshold(0))
	require.NoError(t, err)

	paint(tm, true)
	require.NoError(t, tm.Flush())
	assert.Equal(t, "\x1b[91mA    A \x1b[92mB\x1b[0m", out.String())
}

func TestRunBench(t *testing.T) {
	var out bytes.Buffer
	err := runBench(testContext(), &out, benchConfig{iterations: 1000, burst: 100, step: 8})
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "RingQueue:")
	assert.Contains(t, s, "eapache/queue:")
	assert.Contains(t, s, "Channel:")
	assert.Contains(t, s, "steady push/pop")
	assert.Contains(t, s, "burst push/pop")
	assert.NotContains(t, s, "grows=0 ")
}

func TestRunBench_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  benchConfig
	}{
		{"zero iterations", benchConfig{iterations: 0, burst: 10, step: 4}},
		{"zero burst", benchConfig{iterations: 10, burst: 0, step: 4}},
		{"zero step", benchConfig{iterations: 10, burst: 10, step: 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := runBench(testContext(), io.Discard, tc.cfg)
			require.Error(t, err)
		})
	}

	err := runBench(testContext(), io.Discard, benchConfig{iterations: 10, burst: 10, step: 0})
	require.ErrorIs(t, err, queue.ErrInvalidGrowthStep)
}

func TestRunBench_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	cancel()
	err := runBench(ctx, io.Discard, benchConfig{iterations: 10, burst: 10, step: 4})
	require.ErrorIs(t, err, context.Canceled)
}

func TestQueueAdapters(t *testing.T) {
	for _, q := range []interface {
		Push(int) bool
		Pop() (int, bool)
	}{
		eapacheQueue{q: equeue.New()},
		make(chanQueue, 2),
	} {
		_, ok := q.Pop()
		assert.False(t, ok)
		require.NoError(t, burst(q, 3, 2))
	}

	full := make(chanQueue, 1)
	assert.True(t, full.Push(1))
	assert.False(t, full.Push(2))
}

func TestBenchCmd_Flags(t *testing.T) {
	isolateViper(t)

	out, err := execute(t, "bench", "-n", "200", "--burst", "50", "--growth-step", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "200 iterations, growth step 4, burst 50")
	assert.Equal(t, 4, viper.GetInt(FlagGrowthStep))
}

func TestBenchCmd_Env(t *testing.T) {
	isolateViper(t)
	t.Setenv("RINGQUEUE_BURST", "20")
	t.Setenv("RINGQUEUE_GROWTH_STEP", "16")

	out, err := execute(t, "bench", "-n", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "100 iterations, growth step 16, burst 20")
}

func TestBenchCmd_FlagBeatsEnv(t *testing.T) {
	isolateViper(t)
	t.Setenv("RINGQUEUE_BURST", "20")

	out, err := execute(t, "bench", "-n", "100", "--burst", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "burst 10")
}

func TestBenchCmd_ConfigFile(t *testing.T) {
	isolateViper(t)
	path := filepath.Join(t.TempDir(), "ringqueue.yaml")
	require.NoError(t, os.WriteFile(path, []byte("iterations: 90\nburst: 30\ngrowth-step: 2\n"), 0o600))

	out, err := execute(t, "bench", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "90 iterations, growth step 2, burst 30")
}

func TestBenchCmd_Defaults(t *testing.T) {
	isolateViper(t)
	root := NewRootCmd()
	bench, _, err := root.Find([]string{"bench"})
	require.NoError(t, err)

	assert.Equal(t, "10000000", bench.Flags().Lookup(FlagIterations).DefValue)
	assert.Equal(t, "4096", bench.Flags().Lookup(FlagBurst).DefValue)
	assert.Equal(t, "256", root.PersistentFlags().Lookup(FlagGrowthStep).DefValue)
	assert.Equal(t, "info", root.PersistentFlags().Lookup(FlagLogLevel).DefValue)
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	isolateViper(t)
	_, err := execute(t, "bench", "-n", "10", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), FlagLogLevel)
}

func TestRootCmd_MissingConfig(t *testing.T) {
	isolateViper(t)
	_, err := execute(t, "bench", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
