package majorana

import "github.com/pkg/errors"

var (
	ErrQubitCount      = errors.New("qubit count must be positive")
	ErrQubitOutOfRange = errors.New("qubit index out of range")
	ErrDuplicateQubit  = errors.New("qubits must be distinct")
	ErrPauliLength     = errors.New("pauli length does not match qubit count")
	ErrPauliSymbol     = errors.New("invalid pauli symbol")
	ErrNoiseRate       = errors.New("noise rate must be within [0,1]")
	ErrOutcome         = errors.New("outcome must be 0 or 1")
	ErrNotInGroup      = errors.New("operator commutes with every generator but is not in the stabilizer group")
	ErrUnknownOp       = errors.New("unknown transcript operation")
	ErrMalformedEntry  = errors.New("malformed transcript entry")
	ErrUnknownFormat   = errors.New("unknown transcript format")
)

func checkQubit(n, q int) error {
	if q < 0 || q >= n {
		return errors.Wrapf(ErrQubitOutOfRange, "qubit %d, n=%d", q, n)
	}
	return nil
}

// checkQubits validates range and pairwise distinctness.
func checkQubits(n int, qs ...int) error {
	for i, q := range qs {
		if err := checkQubit(n, q); err != nil {
			return err
		}
		for _, p := range qs[:i] {
			if p == q {
				return errors.Wrapf(ErrDuplicateQubit, "qubit %d appears twice in %v", q, qs)
			}
		}
	}
	return nil
}

func checkOutcome(outcome int) error {
	if outcome != 0 && outcome != 1 {
		return errors.Wrapf(ErrOutcome, "got %d", outcome)
	}
	return nil
}
