package majorana

import "time"

// TrialFunc drives one freshly built engine and returns the bit the trial measures.
type TrialFunc func(e *Engine) (int, error)

// Trial is one unit of work for the pool: a seeded engine run.
type Trial struct {
	Index     int
	Seed      uint64
	Config    Config
	Fn        TrialFunc
	StartTime time.Time
	results   chan<- TrialResult
}

// TrialResult is what a worker reports back for a Trial.
type TrialResult struct {
	Index    int
	Seed     uint64
	Outcome  int
	Err      error
	Metrics  *Metrics
	Duration time.Duration
}

// Batch describes a set of trials sharing one configuration.
type Batch struct {
	Trials   int
	SeedBase uint64
	Config   *Config
	Fn       TrialFunc
	// KeepTranscripts records every engine's events. Off by default for speed.
	KeepTranscripts bool
}

// BatchOption is a function type for configuring batches.
type BatchOption func(*Batch)

// WithSeedBase sets the seed of trial 0; trial i uses SeedBase+i.
func WithSeedBase(seed uint64) BatchOption {
	return func(b *Batch) {
		b.SeedBase = seed
	}
}

// WithTranscripts keeps each trial engine's transcript recording on.
func WithTranscripts() BatchOption {
	return func(b *Batch) {
		b.KeepTranscripts = true
	}
}

/*
Tally aggregates a batch. Outcomes is indexed by trial, so it does not depend
on which worker finished first.
*/
type Tally struct {
	Trials   int
	Ones     int
	Zeros    int
	Failures int
	Outcomes []int
	Errors   []error
	Metrics  *Metrics
	Elapsed  time.Duration
}

// Fraction is the share of successful trials that returned 1.
func (t *Tally) Fraction() float64 {
	done := t.Ones + t.Zeros
	if done == 0 {
		return 0
	}
	return float64(t.Ones) / float64(done)
}

func (t *Tally) add(r TrialResult) {
	if r.Metrics != nil {
		t.Metrics.Merge(r.Metrics)
	}

	if r.Err != nil {
		t.Failures++
		t.Errors = append(t.Errors, r.Err)
		t.Outcomes[r.Index] = -1
		return
	}

	t.Outcomes[r.Index] = r.Outcome
	if r.Outcome == 1 {
		t.Ones++
	} else {
		t.Zeros++
	}
}
