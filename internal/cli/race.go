package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/mapretry/cmap"
	"github.com/utkarsh5026/mapretry/internal/cpu"
	"github.com/utkarsh5026/mapretry/metrics"
	"github.com/utkarsh5026/mapretry/retry"
)

const (
	modeInsert    = "insert"
	modeIncrement = "increment"
)

// errInvariant is returned when a race run observes a broken map guarantee.
var errInvariant = errors.New("contention invariant violated")

type raceConfig struct {
	mode       string
	workers    int
	keys       int
	increments int
	attempts   int
	delay      time.Duration
	timeout    time.Duration
	pin        bool
	ci         bool
}

// raceReport summarises one race run.
type raceReport struct {
	Mode          string
	Workers       int
	Calls         int64
	Succeeded     int64
	Exhausted     int64
	Cancelled     int64
	Attempts      float64
	Elapsed       time.Duration
	InvariantHeld bool
	Detail        string
}

func newRaceCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Race goroutines for the same keys through the retry layer",
		Long: `race starts --workers goroutines that contend for --keys keys.

In insert mode every worker tries to claim every key with a retried insert;
each key must end up with exactly one winner. In increment mode workers
read a counter and bump it with a retried compare-and-swap; the sum of all
counters must equal the number of successful swaps.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := raceConfig{
				mode:       v.GetString("mode"),
				workers:    v.GetInt("workers"),
				keys:       v.GetInt("keys"),
				increments: v.GetInt("increments"),
				attempts:   v.GetInt("attempts"),
				delay:      v.GetDuration("delay"),
				timeout:    v.GetDuration("timeout"),
				pin:        v.GetBool("pin"),
				ci:         v.GetBool("ci"),
			}
			logger := newLogger(cmd.ErrOrStderr(), v.GetString("log-level"), v.GetBool("plain"))
			return race(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
		},
	}

	f := cmd.Flags()
	f.String("mode", modeInsert, "Contention pattern: insert or increment")
	f.Int("workers", 8, "Number of contending goroutines")
	f.Int("keys", 64, "Number of distinct keys")
	f.Int("increments", 100, "Increments per worker (increment mode)")
	f.Int("attempts", retry.DefaultAttempts, "Attempt budget per operation")
	f.Duration("delay", 0, "Pause between attempts")
	f.Duration("timeout", 0, "Abort the run after this long (0 = no limit)")
	f.Bool("pin", false, "Pin each worker to a CPU core")
	f.Bool("ci", false, "CI mode: no progress bar")

	return cmd
}

func race(ctx context.Context, out, errOut io.Writer, cfg raceConfig, logger *slog.Logger) error {
	if cfg.workers < 1 || cfg.keys < 1 {
		return fmt.Errorf("workers and keys must be positive, got %d and %d", cfg.workers, cfg.keys)
	}
	if cfg.attempts < 1 {
		return fmt.Errorf("attempts must be at least 1, got %d", cfg.attempts)
	}
	if cfg.mode != modeInsert && cfg.mode != modeIncrement {
		return fmt.Errorf("unknown mode %q (want %s or %s)", cfg.mode, modeInsert, modeIncrement)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	printRaceConfig(out, cfg)

	var bar *progressbar.ProgressBar
	if !cfg.ci {
		bar = newProgressBar(errOut, cfg.totalCalls(), fmt.Sprintf("Racing: %s", cfg.mode))
	}

	report, err := runRace(ctx, cfg, logger, bar)
	if bar != nil {
		_ = bar.Finish()
		_, _ = fmt.Fprintln(errOut)
	}
	if err != nil {
		return err
	}

	renderRaceReport(out, report)
	if !report.InvariantHeld {
		return fmt.Errorf("%w: %s", errInvariant, report.Detail)
	}
	return nil
}

func (cfg raceConfig) totalCalls() int {
	if cfg.mode == modeIncrement {
		return cfg.workers * cfg.increments
	}
	return cfg.workers * cfg.keys
}

// tally accumulates outcomes from all workers.
type tally struct {
	calls, succeeded, exhausted, cancelled atomic.Int64
}

func (t *tally) add(res retry.Outcome) {
	t.calls.Add(1)
	switch res {
	case retry.OutcomeSucceeded:
		t.succeeded.Add(1)
	case retry.OutcomeExhausted:
		t.exhausted.Add(1)
	case retry.OutcomeCancelled:
		t.cancelled.Add(1)
	}
}

func runRace(ctx context.Context, cfg raceConfig, logger *slog.Logger, bar *progressbar.ProgressBar) (raceReport, error) {
	reg := prometheus.NewRegistry()
	obs, err := metrics.NewObserver(reg, "mapretry")
	if err != nil {
		return raceReport{}, err
	}

	opts := []retry.Option{
		retry.WithAttempts(cfg.attempts),
		retry.WithDelay(cfg.delay),
		retry.WithObserver(obs),
		retry.WithLogger(logger),
	}

	m := cmap.New[int, int]()
	var t tally
	wins := make([]atomic.Int32, cfg.keys)
	winner := make([]atomic.Int32, cfg.keys)

	if cfg.mode == modeIncrement {
		for k := range cfg.keys {
			m.Store(k, 0)
		}
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := range cfg.workers {
		g.Go(func() error {
			if cfg.pin {
				release, err := cpu.Pin(w)
				defer release()
				if err != nil {
					logger.Warn("could not pin worker", "worker", w, "error", err)
				}
			}

			step := func(k int) error {
				var res retry.Result[int]
				var err error
				if cfg.mode == modeInsert {
					res, err = retry.InsertResult(gctx, m, k, w, opts...)
					if res.Succeeded() {
						wins[k].Add(1)
						winner[k].Store(int32(w))
					}
				} else {
					res, err = increment(gctx, m, k, opts)
				}

				t.add(res.Outcome)
				if bar != nil {
					_ = bar.Add(1)
				}
				if retry.IsCancelled(err) {
					return nil
				}
				return err
			}

			n := cfg.keys
			if cfg.mode == modeIncrement {
				n = cfg.increments
			}
			for i := range n {
				if gctx.Err() != nil {
					return nil
				}
				if err := step((w + i) % cfg.keys); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return raceReport{}, err
	}

	report := raceReport{
		Mode:      cfg.mode,
		Workers:   cfg.workers,
		Calls:     t.calls.Load(),
		Succeeded: t.succeeded.Load(),
		Exhausted: t.exhausted.Load(),
		Cancelled: t.cancelled.Load(),
		Attempts:  sumCounter(reg, "mapretry_retry_attempts_total"),
		Elapsed:   time.Since(start),
	}

	if cfg.mode == modeInsert {
		report.InvariantHeld, report.Detail = checkSingleWinner(m, wins, winner, ctx.Err() != nil)
	} else {
		report.InvariantHeld, report.Detail = checkCounterSum(m, report.Succeeded)
	}

	logger.Debug("race finished",
		"mode", report.Mode,
		"calls", report.Calls,
		"attempts", report.Attempts,
		"elapsed", report.Elapsed,
	)
	return report, nil
}

// increment reads key and bumps it by one with a retried compare-and-swap.
// A concurrent writer makes the expected value stale, so the swap exhausts
// instead of overwriting the other writer's update.
func increment(ctx context.Context, m *cmap.ShardedMap[int, int], key int, opts []retry.Option) (retry.Result[int], error) {
	cur, err := retry.LookupResult(ctx, m, key, opts...)
	if err != nil || !cur.Succeeded() {
		return retry.Result[int]{Outcome: cur.Outcome, Attempts: cur.Attempts}, err
	}
	return retry.ReplaceResult(ctx, m, key, cur.Value+1, cur.Value, opts...)
}

func checkSingleWinner(m *cmap.ShardedMap[int, int], wins, winner []atomic.Int32, partial bool) (bool, string) {
	for k := range wins {
		n := wins[k].Load()
		if n > 1 {
			return false, fmt.Sprintf("key %d has %d winners", k, n)
		}
		v, present := m.TryLookup(k)
		if n == 0 {
			if present || !partial {
				return false, fmt.Sprintf("key %d has no winner (present=%v)", k, present)
			}
			continue
		}
		if !present || int32(v) != winner[k].Load() {
			return false, fmt.Sprintf("key %d holds %d, winner was %d", k, v, winner[k].Load())
		}
	}
	return true, "every key has exactly one winner"
}

func checkCounterSum(m *cmap.ShardedMap[int, int], succeeded int64) (bool, string) {
	var sum int64
	m.Range(func(_ int, v int) bool {
		sum += int64(v)
		return true
	})
	if sum != succeeded {
		return false, fmt.Sprintf("counters sum to %d but %d swaps succeeded", sum, succeeded)
	}
	return true, fmt.Sprintf("counters sum to %d successful swaps", sum)
}

// sumCounter adds up every series of the named counter family in reg.
func sumCounter(reg *prometheus.Registry, name string) float64 {
	families, err := reg.Gather()
	if err != nil {
		return 0
	}

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
