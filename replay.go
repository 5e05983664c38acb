package majorana

import (
	"github.com/pkg/errors"
	"github.com/theapemachine/errnie"
)

/*
Replay rebuilds a prior run from its transcript without drawing randomness.

The tableau, step counter, transcript and metrics are reset. Each entry is then
re-executed with its recorded result forced: measurements project onto the
true (pre-readout-noise) outcome when it was recorded, poisoning events force
the parity before and then after the flip, dephasing and feed-forward entries
are re-applied. The rebuilt transcript reports the same outcomes as the
original, and the tableau ends bit-identical to the original run's.

Entries must come from an engine with the same qubit count. An entry with an
unknown op, wrong qubit list or out-of-range bit stops the replay with an
error naming its step; the engine then holds the state reached so far.
*/
func (e *Engine) Replay(entries []Entry) error {
	errnie.Info("Replay - %d entries on %d qubits", len(entries), e.n)

	fresh, err := NewTableau(e.n)
	if err != nil {
		return err
	}

	e.tableau = fresh
	e.transcript.reset()
	e.step = 0
	e.metrics.reset()
	e.outcomes = make(map[string]int)

	for _, entry := range entries {
		if err := entry.validate(e.n); err != nil {
			errnie.Warn("Replay - rejected entry at step %d: %v", entry.Step, err)
			return err
		}

		if err := e.replayEntry(entry); err != nil {
			return errors.Wrapf(err, "replay step %d", entry.Step)
		}
	}

	return nil
}

// ReplayTranscript replays every entry of t.
func (e *Engine) ReplayTranscript(t *Transcript) error {
	return e.Replay(t.entries)
}

func (e *Engine) replayEntry(entry Entry) error {
	qs := entry.Qubits

	switch entry.Op {
	case OpMZ, OpMZZ:
		return e.replayRead(entry, nil)
	case OpMX, OpMXX:
		return e.replayRead(entry, qs)
	case OpPoison:
		all := AllZ(e.n)
		if _, err := e.tableau.project(all, *entry.Ideal); err != nil {
			return err
		}
		if _, err := e.tableau.project(all, entry.Outcome); err != nil {
			return err
		}
		e.metrics.recordIdle(0, true)
	case OpDephase:
		e.tableau.zError(qs[0])
		e.metrics.recordIdle(1, false)
	case OpH, OpS:
		e.correct(entry.Op, qs[0], entry.Gadget)
		return nil
	default:
		return errors.Wrapf(ErrUnknownOp, "%q", entry.Op)
	}

	e.log(copyEntry(entry))
	return nil
}

// replayRead forces a Z-type projection, bracketed by Hadamards on basis.
func (e *Engine) replayRead(entry Entry, basis []int) error {
	p, err := ZOn(e.n, entry.Qubits...)
	if err != nil {
		return err
	}

	for _, q := range basis {
		e.tableau.h(q)
	}

	collapsed, err := e.tableau.project(p, entry.forced())

	for _, q := range basis {
		e.tableau.h(q)
	}

	if err != nil {
		return err
	}

	e.metrics.recordMeasurement(collapsed, entry.forced() != entry.Outcome)
	e.outcomes[outcomeKey(entry.Op, entry.Qubits)] = entry.Outcome
	e.log(copyEntry(entry))

	return nil
}

func copyEntry(entry Entry) Entry {
	out := entry
	out.Qubits = append([]int(nil), entry.Qubits...)
	if entry.Ideal != nil {
		ideal := *entry.Ideal
		out.Ideal = &ideal
	}
	return out
}
