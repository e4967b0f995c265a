package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	equeue "github.com/eapache/queue"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/randomizedcoder/ringqueue/internal/logctx"
	"github.com/randomizedcoder/ringqueue/internal/queue"
)

type benchConfig struct {
	iterations int
	burst      int
	step       int
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare the ring queue with eapache/queue and a buffered channel",
		Long: `Runs two workloads over each queue:
  steady: one push and one pop per iteration
  burst:  push --burst items, then pop them all, repeated`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := benchConfig{
				iterations: viper.GetInt(FlagIterations),
				burst:      viper.GetInt(FlagBurst),
				step:       viper.GetInt(FlagGrowthStep),
			}
			return runBench(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().IntP(FlagIterations, "n", 10_000_000, "Number of push/pop pairs per workload")
	cmd.Flags().Int(FlagBurst, 4096, "Items pushed per burst round")
	return cmd
}

// eapacheQueue adapts eapache/queue, which doubles and halves its
// power-of-two buffer, to the Queue contract.
type eapacheQueue struct {
	q *equeue.Queue
}

func (e eapacheQueue) Push(v int) bool {
	e.q.Add(v)
	return true
}

func (e eapacheQueue) Pop() (int, bool) {
	if e.q.Length() == 0 {
		return 0, false
	}
	return e.q.Remove().(int), true
}

// chanQueue adapts a buffered channel to the Queue contract.
// Push fails rather than blocks when the buffer is full.
type chanQueue chan int

func (c chanQueue) Push(v int) bool {
	select {
	case c <- v:
		return true
	default:
		return false
	}
}

func (c chanQueue) Pop() (int, bool) {
	select {
	case v := <-c:
		return v, true
	default:
		return 0, false
	}
}

type contender struct {
	name string
	q    queue.Queue[int]
}

func runBench(ctx context.Context, w io.Writer, cfg benchConfig) error {
	logger := logctx.From(ctx)
	if cfg.iterations < 1 {
		return xerrors.Errorf("%s must be positive, got %d", FlagIterations, cfg.iterations)
	}
	if cfg.burst < 1 {
		return xerrors.Errorf("%s must be positive, got %d", FlagBurst, cfg.burst)
	}

	rq, err := queue.New[int](queue.WithGrowthStep(cfg.step), queue.WithLogger(logger))
	if err != nil {
		return err
	}
	contenders := []contender{
		{"RingQueue", rq},
		{"eapache/queue", eapacheQueue{equeue.New()}},
		{"Channel", make(chanQueue, cfg.burst)},
	}

	fmt.Fprintf(w, "Benchmarking queues (%d iterations, growth step %d, burst %d)\n", cfg.iterations, cfg.step, cfg.burst)
	fmt.Fprintln(w, "─────────────────────────────────────────────────")

	rounds := cfg.iterations / cfg.burst
	if rounds < 1 {
		rounds = 1
	}
	workloads := []struct {
		name  string
		pairs int
		run   func(queue.Queue[int]) error
	}{
		{"steady push/pop", cfg.iterations, func(q queue.Queue[int]) error { return steady(q, cfg.iterations) }},
		{"burst push/pop", rounds * cfg.burst, func(q queue.Queue[int]) error { return burst(q, rounds, cfg.burst) }},
	}

	for _, wl := range workloads {
		fmt.Fprintf(w, "\nResults (%s):\n", wl.name)
		for _, c := range contenders {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			if err := wl.run(c.q); err != nil {
				return xerrors.Errorf("%s %s: %w", c.name, wl.name, err)
			}
			dur := time.Since(start)
			perOp := float64(dur.Nanoseconds()) / float64(wl.pairs)
			fmt.Fprintf(w, "  %-14s %v (%.2f ns/op)\n", c.name+":", dur, perOp)
			logger.Debug("workload finished", "queue", c.name, "workload", wl.name, "duration", dur)
		}
	}

	stats := rq.Stats()
	fmt.Fprintf(w, "\nRingQueue resizes: grows=%d shrinks=%d final capacity=%d\n", stats.Grows, stats.Shrinks, rq.Cap())
	logger.Info("bench complete", "grows", stats.Grows, "shrinks", stats.Shrinks, "failed_grows", stats.FailedGrows)
	return nil
}

func steady(q queue.Queue[int], n int) error {
	for i := 0; i < n; i++ {
		if !q.Push(i) {
			return xerrors.Errorf("push %d failed", i)
		}
		if _, ok := q.Pop(); !ok {
			return xerrors.Errorf("pop %d failed", i)
		}
	}
	return nil
}

func burst(q queue.Queue[int], rounds, size int) error {
	for r := 0; r < rounds; r++ {
		for i := 0; i < size; i++ {
			if !q.Push(i) {
				return xerrors.Errorf("round %d: push %d failed", r, i)
			}
		}
		for i := 0; i < size; i++ {
			if v, ok := q.Pop(); !ok || v != i {
				return xerrors.Errorf("round %d: pop %d returned %d, %t", r, i, v, ok)
			}
		}
	}
	return nil
}
