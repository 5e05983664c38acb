package majorana

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

/*
Pool runs Monte-Carlo batches of independent engines on a fixed set of
workers. An Engine itself is single-threaded; the pool never shares one
between goroutines. Each trial builds its own engine from the batch
configuration with a seed derived from the batch seed and the trial index, so
a batch is reproducible regardless of scheduling.
*/
type Pool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	jobs    chan Trial
	workers []*Worker
	metrics *Metrics
}

// NewPool starts workers goroutines that live until Close or ctx is done.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Trial, workers*10),
		metrics: NewMetrics(),
	}

	for i := 0; i < workers; i++ {
		p.startWorker(i)
	}

	errnie.Info("NewPool - workers %d", workers)

	return p
}

func (p *Pool) startWorker(id int) {
	w := &Worker{id: id, pool: p}
	p.workers = append(p.workers, w)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		w.run(p.ctx)
	}()
}

// Metrics holds the counters of every trial the pool has run.
func (p *Pool) Metrics() *Metrics {
	return p.metrics
}

/*
Run executes a batch and blocks until every trial reported or ctx is done.

Parameters:
  - ctx: bounds this batch only; cancelling it returns the partial tally
  - trials: number of engines to run
  - cfg: template configuration, its Seed is replaced per trial
  - fn: the trial body

Returns the tally, and an error when the batch was cut short, trials is negative
or cfg is invalid.
Trial failures are counted in the tally, not returned.
*/
func (p *Pool) Run(ctx context.Context, trials int, cfg *Config, fn TrialFunc, opts ...BatchOption) (*Tally, error) {
	batch := Batch{Trials: trials, Config: cfg, Fn: fn}
	for _, opt := range opts {
		opt(&batch)
	}

	if batch.Trials < 0 {
		return nil, errors.Errorf("trial count must not be negative, got %d", batch.Trials)
	}

	if err := batch.Config.Validate(); err != nil {
		return nil, err
	}

	if batch.Fn == nil {
		return nil, errors.New("nil trial function")
	}

	trials = batch.Trials

	tally := &Tally{
		Trials:   trials,
		Outcomes: make([]int, trials),
		Metrics:  NewMetrics(),
	}
	for i := range tally.Outcomes {
		tally.Outcomes[i] = -1
	}

	start := time.Now()
	results := make(chan TrialResult, trials)

	template := *batch.Config
	template.Record = batch.KeepTranscripts

	submitted := 0
submit:
	for ; submitted < trials; submitted++ {
		trial := Trial{
			Index:     submitted,
			Seed:      batch.SeedBase + uint64(submitted),
			Config:    template,
			Fn:        batch.Fn,
			StartTime: time.Now(),
			results:   results,
		}

		select {
		case p.jobs <- trial:
		case <-ctx.Done():
			break submit
		case <-p.ctx.Done():
			break submit
		}
	}

	var err error
	for received := 0; received < submitted; received++ {
		select {
		case r := <-results:
			tally.add(r)
		case <-ctx.Done():
			err = errors.Wrap(ctx.Err(), "batch cancelled")
		case <-p.ctx.Done():
			err = errors.Wrap(p.ctx.Err(), "pool closed")
		}

		if err != nil {
			break
		}
	}

	if err == nil && submitted < trials {
		err = errors.Errorf("batch cut short after %d of %d trials", submitted, trials)
	}

	tally.Elapsed = time.Since(start)
	p.metrics.Merge(tally.Metrics)

	errnie.Info("Run - %d trials, %d ones, %d zeros, %d failures in %v",
		trials, tally.Ones, tally.Zeros, tally.Failures, tally.Elapsed)

	return tally, err
}

// Close stops the workers and waits for them to exit.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.cancel()
	p.wg.Wait()
}
