package calculation

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/rgehrsitz/rpsim/internal/domain"
	"github.com/rgehrsitz/rpsim/internal/market"
	"github.com/shopspring/decimal"
)

// BatchRunner runs many independent simulation paths on a bounded pool of
// workers. Each path owns its own state; nothing is shared between runs.
type BatchRunner struct {
	engine  *Engine
	workers int
}

// NewBatchRunner creates a runner. workers <= 0 uses one worker per CPU.
func NewBatchRunner(engine *Engine, workers int) *BatchRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &BatchRunner{engine: engine, workers: workers}
}

// Run simulates every path the provider supplies. Cancelling ctx stops the
// batch between runs and returns ctx.Err(). The result carries the batch
// summary and the yearly detail of the median-terminal-value run.
func (br *BatchRunner) Run(ctx context.Context, plan domain.PlanInput, provider market.Provider) (*domain.PlanResult, error) {
	n := provider.Runs()
	if n <= 0 {
		return nil, &SimulationError{Operation: "batch", Message: fmt.Sprintf("%s provider supplies no runs", provider.Name())}
	}
	br.engine.logger.Infof("batch: %d %s runs on %d workers", n, provider.Name(), min(br.workers, n))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*domain.PlanResult, n)
	jobs := make(chan int)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for w := 0; w < min(br.workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				series, err := provider.Path(i)
				if err != nil {
					fail(&SimulationError{Operation: "batch", Message: fmt.Sprintf("run %d", i+1), Cause: err})
					continue
				}
				res, err := br.engine.RunWithSeries(ctx, plan, series)
				if err != nil {
					fail(err)
					continue
				}
				results[i] = res
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary, median := Summarize(results)
	out := *results[median]
	out.Mode = plan.WithDefaults().Market.Mode
	out.Summary = summary
	out.Assumptions = append(append([]string{}, out.Assumptions...),
		fmt.Sprintf("Batch: %d %s runs; yearly detail shows the median run, the lower middle one when the count is even", n, provider.Name()))
	if w := countWarned(results); w > 0 {
		out.Warnings = append(append([]string{}, out.Warnings...),
			fmt.Sprintf("%d of %d runs reported solver warnings", w, n))
	}
	return &out, nil
}

func countWarned(results []*domain.PlanResult) int {
	c := 0
	for _, r := range results {
		if len(r.Warnings) > 0 {
			c++
		}
	}
	return c
}

// Percentiles reported in PlanSummary.TerminalPercentiles.
var summaryPercentiles = []int{10, 25, 50, 75, 90}

// Summarize computes batch statistics and returns the index of the run with
// the median terminal value. For an even number of runs the median is the
// lower of the two middle runs, so the reported value is always the terminal
// value of the returned run. A run succeeds when no year has a shortfall.
func Summarize(results []*domain.PlanResult) (*domain.PlanSummary, int) {
	n := len(results)
	s := &domain.PlanSummary{Runs: n, TerminalPercentiles: map[string]decimal.Decimal{}}
	if n == 0 {
		return s, -1
	}

	order := make([]int, n)
	successes := 0
	for i, r := range results {
		order[i] = i
		if r.ShortfallYears() == 0 {
			successes++
		}
		if sf := r.TotalShortfall(); sf.GreaterThan(s.WorstCaseShortfall) {
			s.WorstCaseShortfall = sf
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].TerminalValue().LessThan(results[order[b]].TerminalValue())
	})

	s.SuccessProbability = decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(n)))
	median := order[(n-1)/2]
	s.MedianTerminalValue = results[median].TerminalValue()
	for _, p := range summaryPercentiles {
		s.TerminalPercentiles[fmt.Sprintf("p%d", p)] = results[order[nearestRank(p, n)]].TerminalValue()
	}
	return s, median
}

// nearestRank returns the zero-based index of the p-th percentile of n sorted values.
func nearestRank(p, n int) int {
	idx := (p*n+99)/100 - 1
	if idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}
