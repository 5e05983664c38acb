package majorana

import (
	"fmt"
	"math/rand/v2"

	"github.com/theapemachine/errnie"
)

/*
Engine is a measurement-only parity processor. Its only primitives are
projective parity reads (MZ, MX, MZZ, MXX); logical Clifford gates are built
on top of them by the gadgets in gadgets.go.

Each engine owns one Tableau, one noise model, one seeded random source and
one transcript. Two engines built from the same Config (including Seed) and
driven by the same sequence of calls produce identical transcripts.

An Engine is single-threaded: it is not safe for concurrent use without
external locking.
*/
type Engine struct {
	n          int
	tableau    *Tableau
	noise      NoiseModel
	seed       uint64
	rng        *rand.Rand
	record     bool
	transcript *Transcript
	step       int
	metrics    *Metrics
	outcomes   map[string]int
}

/*
NewEngine creates an engine in the |0...0> state.

Parameters:
  - cfg: qubit count, noise rates, optional seed and the recording switch

Returns an error when the qubit count is not positive or a noise rate lies
outside [0,1].
*/
func NewEngine(cfg *Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tableau, err := NewTableau(cfg.Qubits)
	if err != nil {
		return nil, err
	}

	seed := rand.Uint64()
	if cfg.Seed != nil {
		seed = *cfg.Seed
	}

	errnie.Debug(
		"NewEngine - qubits %d, p_m %v, p_z %v, p_poison %v, seed %d",
		cfg.Qubits, cfg.Noise.ReadoutError, cfg.Noise.Dephasing, cfg.Noise.Poisoning, seed,
	)

	return &Engine{
		n:          cfg.Qubits,
		tableau:    tableau,
		noise:      cfg.Noise,
		seed:       seed,
		rng:        newRNG(seed),
		record:     cfg.Record,
		transcript: &Transcript{},
		metrics:    NewMetrics(),
		outcomes:   make(map[string]int),
	}, nil
}

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// N is the number of qubits.
func (e *Engine) N() int { return e.n }

// Seed is the seed the random source was built from, drawn or configured.
func (e *Engine) Seed() uint64 { return e.seed }

// Noise returns the noise model.
func (e *Engine) Noise() NoiseModel { return e.noise }

// Step is the number of events logged so far.
func (e *Engine) Step() int { return e.step }

// Metrics returns the live counters.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Transcript returns a copy of the recorded events.
func (e *Engine) Transcript() *Transcript {
	return NewTranscript(e.transcript.entries)
}

// Snapshot returns a deep copy of the tableau.
func (e *Engine) Snapshot() *Tableau {
	return e.tableau.Clone()
}

// Stabilizers renders the current generators.
func (e *Engine) Stabilizers() []string {
	return e.tableau.Stabilizers()
}

// Peek reports the outcome a measurement of p would give if it is already fixed.
func (e *Engine) Peek(p Pauli) (outcome int, ok bool, err error) {
	return e.tableau.Peek(p)
}

/*
FermionParity reports the total fermion parity when the state fixes it. It
never collapses the state; ok is false when the parity is not determined.
*/
func (e *Engine) FermionParity() (parity int, ok bool, err error) {
	return e.tableau.Peek(AllZ(e.n))
}

/*
LastOutcome returns the most recent reported outcome for a read, keyed by op
and qubits, for example "mz_0" or "mxx_1_2".
*/
func (e *Engine) LastOutcome(key string) (int, bool) {
	outcome, ok := e.outcomes[key]
	return outcome, ok
}

// MZ measures Z on qubit q.
func (e *Engine) MZ(q int) (int, error) {
	return e.mz(q, "")
}

// MX measures X on qubit q through a transient Hadamard basis change.
func (e *Engine) MX(q int) (int, error) {
	return e.mx(q, "")
}

// MZZ measures the joint parity Z_q1 Z_q2.
func (e *Engine) MZZ(q1, q2 int) (int, error) {
	return e.mzz(q1, q2, "")
}

// MXX measures the joint parity X_q1 X_q2.
func (e *Engine) MXX(q1, q2 int) (int, error) {
	return e.mxx(q1, q2, "")
}

func (e *Engine) mz(q int, gadget string) (int, error) {
	p, err := ZOn(e.n, q)
	if err != nil {
		return 0, err
	}
	return e.read(OpMZ, p, []int{q}, gadget)
}

func (e *Engine) mx(q int, gadget string) (int, error) {
	p, err := ZOn(e.n, q)
	if err != nil {
		return 0, err
	}

	e.tableau.h(q)
	outcome, err := e.read(OpMX, p, []int{q}, gadget)
	e.tableau.h(q)

	return outcome, err
}

func (e *Engine) mzz(q1, q2 int, gadget string) (int, error) {
	p, err := ZOn(e.n, q1, q2)
	if err != nil {
		return 0, err
	}
	return e.read(OpMZZ, p, []int{q1, q2}, gadget)
}

func (e *Engine) mxx(q1, q2 int, gadget string) (int, error) {
	p, err := ZOn(e.n, q1, q2)
	if err != nil {
		return 0, err
	}

	e.tableau.h(q1)
	e.tableau.h(q2)
	outcome, err := e.read(OpMXX, p, []int{q1, q2}, gadget)
	e.tableau.h(q1)
	e.tableau.h(q2)

	return outcome, err
}

// read measures p on the tableau, applies readout noise and logs the result.
func (e *Engine) read(op Op, p Pauli, qubits []int, gadget string) (int, error) {
	ideal, random, err := e.tableau.Measure(p, e.rng)
	if err != nil {
		return 0, err
	}

	reported, flipped := e.noise.readout(ideal, e.rng)
	e.metrics.recordMeasurement(random, flipped)

	e.log(Entry{
		Op:      op,
		Qubits:  qubits,
		Outcome: reported,
		Ideal:   &ideal,
		Gadget:  gadget,
	})
	e.outcomes[outcomeKey(op, qubits)] = reported

	errnie.Debug("%s %v -> %d (ideal %d, random %v)", op, qubits, reported, ideal, random)

	return reported, nil
}

/*
IdleStep advances the device by one tick of the noise model: every qubit may
dephase (Z error with probability p_z), then the whole array may be poisoned
(fermion parity flip with probability p_poison). Each effect that fires is
logged.
*/
func (e *Engine) IdleStep() error {
	hit := e.noise.dephased(e.n, e.rng)
	for _, q := range hit {
		e.tableau.zError(q)
		e.log(Entry{Op: OpDephase, Qubits: []int{q}})
	}

	poisoned := e.noise.poisoned(e.rng)
	if poisoned {
		if err := e.poison(); err != nil {
			return err
		}
	}

	e.metrics.recordIdle(len(hit), poisoned)

	return nil
}

// poison flips the total fermion parity by a forced all-Z projection.
func (e *Engine) poison() error {
	before, err := e.tableau.FermionParity(e.rng)
	if err != nil {
		return err
	}

	after := before ^ 1
	if err := e.tableau.Project(AllZ(e.n), after); err != nil {
		return err
	}

	e.log(Entry{
		Op:       OpPoison,
		Qubits:   allQubits(e.n),
		Outcome:  after,
		Ideal:    &before,
		Severity: SeverityHigh,
	})

	errnie.Warn("quasiparticle poisoning at step %d: parity %d -> %d", e.step-1, before, after)

	return nil
}

// correct applies a feed-forward Clifford correction and logs it.
func (e *Engine) correct(op Op, q int, gadget string) {
	switch op {
	case OpH:
		e.tableau.h(q)
	case OpS:
		e.tableau.sGate(q)
	}

	e.metrics.recordCorrection()
	e.log(Entry{Op: op, Qubits: []int{q}, Gadget: gadget})
}

// log stamps the entry with the step counter and appends it when recording.
func (e *Engine) log(entry Entry) {
	entry.Step = e.step
	entry.Time = e.step

	if e.record {
		e.transcript.append(entry)
	}

	e.step++
}

func outcomeKey(op Op, qubits []int) string {
	key := string(op)
	for _, q := range qubits {
		key += fmt.Sprintf("_%d", q)
	}
	return key
}

func allQubits(n int) []int {
	qs := make([]int, n)
	for i := range qs {
		qs[i] = i
	}
	return qs
}
