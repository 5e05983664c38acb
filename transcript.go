package majorana

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Op names the kind of a transcript entry.
type Op string

const (
	OpMZ      Op = "mz"
	OpMX      Op = "mx"
	OpMZZ     Op = "mzz"
	OpMXX     Op = "mxx"
	OpPoison  Op = "poison"
	OpDephase Op = "dephase"
	OpH       Op = "h"
	OpS       Op = "s"
)

// SeverityHigh tags poisoning events.
const SeverityHigh = "HIGH"

// arity is the number of qubits an entry of this kind names, -1 for all of them.
func (op Op) arity() (int, bool) {
	switch op {
	case OpMZ, OpMX, OpDephase, OpH, OpS:
		return 1, true
	case OpMZZ, OpMXX:
		return 2, true
	case OpPoison:
		return -1, true
	}
	return 0, false
}

/*
Entry is one record of the transcript. Every kind shares the same fields so
the serialized form is uniform; which of them carry meaning depends on Op:

  - measurements: Outcome is the reported bit, Ideal the bit before readout noise.
  - poison: Ideal is the fermion parity before the event, Outcome the parity after,
    Severity is set.
  - dephase: a Z error on Qubits[0]; Outcome is unused.
  - h, s: a feed-forward correction applied to the tableau; Outcome is unused.

Gadget names the gadget an entry was emitted by, if any.
*/
type Entry struct {
	Step     int    `json:"step" yaml:"step"`
	Op       Op     `json:"op" yaml:"op"`
	Qubits   []int  `json:"qubits" yaml:"qubits,flow"`
	Outcome  int    `json:"outcome" yaml:"outcome"`
	Time     int    `json:"time" yaml:"time"`
	Ideal    *int   `json:"ideal,omitempty" yaml:"ideal,omitempty"`
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty"`
	Gadget   string `json:"gadget,omitempty" yaml:"gadget,omitempty"`
}

// validate checks an entry against an engine of n qubits.
func (e Entry) validate(n int) error {
	arity, ok := e.Op.arity()
	if !ok {
		return errors.Wrapf(ErrUnknownOp, "step %d: %q", e.Step, e.Op)
	}

	if arity < 0 {
		arity = n
	}

	if len(e.Qubits) != arity {
		return errors.Wrapf(ErrMalformedEntry, "step %d: %s expects %d qubits, got %v", e.Step, e.Op, arity, e.Qubits)
	}

	if err := checkQubits(n, e.Qubits...); err != nil {
		return errors.Wrapf(err, "step %d", e.Step)
	}

	if err := checkOutcome(e.Outcome); err != nil {
		return errors.Wrapf(ErrMalformedEntry, "step %d: outcome %d", e.Step, e.Outcome)
	}

	if e.Ideal != nil {
		if err := checkOutcome(*e.Ideal); err != nil {
			return errors.Wrapf(ErrMalformedEntry, "step %d: ideal %d", e.Step, *e.Ideal)
		}
	}

	if e.Op == OpPoison && e.Ideal == nil {
		return errors.Wrapf(ErrMalformedEntry, "step %d: poison entry without prior parity", e.Step)
	}

	return nil
}

// forced is the outcome replay projects onto: the true bit when it was recorded.
func (e Entry) forced() int {
	if e.Ideal != nil {
		return *e.Ideal
	}
	return e.Outcome
}

/*
Transcript is the append-only, ordered record of every decision the engine
made. Insertion order is replay order.
*/
type Transcript struct {
	entries []Entry
}

// NewTranscript wraps existing entries, for example ones read back with Decode.
func NewTranscript(entries []Entry) *Transcript {
	return &Transcript{entries: copyEntries(entries)}
}

func (t *Transcript) append(e Entry) {
	t.entries = append(t.entries, e)
}

func (t *Transcript) reset() {
	t.entries = nil
}

// Len is the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in order.
func (t *Transcript) Entries() []Entry {
	return copyEntries(t.entries)
}

/*
Since returns the entries whose step is at or after step, in order. A step
past the end yields an empty slice.
*/
func (t *Transcript) Since(step int) []Entry {
	for i, e := range t.entries {
		if e.Step >= step {
			return copyEntries(t.entries[i:])
		}
	}
	return []Entry{}
}

// copyEntries deep-copies entries so callers never share qubit slices or ideal bits with the log.
func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = copyEntry(e)
	}
	return out
}

// Count returns how many entries have the given op.
func (t *Transcript) Count(op Op) int {
	count := 0
	for _, e := range t.entries {
		if e.Op == op {
			count++
		}
	}
	return count
}

// Format selects the interchange encoding of a transcript.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
}

// Encode writes all entries to w.
func (t *Transcript) Encode(w io.Writer, format Format) error {
	entries := t.entries
	if entries == nil {
		entries = []Entry{}
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(entries), "encode transcript")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return errors.Wrap(err, "encode transcript")
		}
		return errors.Wrap(enc.Close(), "encode transcript")
	}

	return errors.Wrapf(ErrUnknownFormat, "%q", format)
}

// Decode reads a transcript previously written by Encode.
func Decode(r io.Reader, format Format) (*Transcript, error) {
	var entries []Entry

	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&entries); err != nil {
			return nil, errors.Wrap(err, "decode transcript")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "decode transcript")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}

	return &Transcript{entries: entries}, nil
}
