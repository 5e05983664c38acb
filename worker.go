package majorana

import (
	"context"
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

// Worker processes trials
type Worker struct {
	id   int
	pool *Pool
}

func (w *Worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trial := <-w.pool.jobs:
			result := w.process(trial)

			// The results channel is sized for the whole batch.
			trial.results <- result
		}
	}
}

func (w *Worker) process(trial Trial) (result TrialResult) {
	result = TrialResult{Index: trial.Index, Seed: trial.Seed}

	defer func() {
		result.Duration = time.Since(trial.StartTime)
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("trial %d panicked: %v", trial.Index, r)
			errnie.Warn("worker %d: %v", w.id, result.Err)
		}
	}()

	cfg := trial.Config
	seed := trial.Seed
	cfg.Seed = &seed

	engine, err := NewEngine(&cfg)
	if err != nil {
		result.Err = err
		return result
	}

	result.Outcome, result.Err = trial.Fn(engine)
	result.Metrics = engine.Metrics()

	if result.Err != nil {
		errnie.Warn("worker %d: trial %d (seed %d) failed: %v", w.id, trial.Index, trial.Seed, result.Err)
	}

	return result
}
