package majorana

import (
	"strings"

	"github.com/pkg/errors"
)

/*
Pauli is an n-qubit Pauli operator in symplectic form. Each qubit carries an
X bit and a Z bit:

	(0,0) = I   (1,0) = X   (0,1) = Z   (1,1) = Y

The sign is implicit (+1). A Pauli is immutable once constructed and is only
used as the argument of a measurement or projection.
*/
type Pauli struct {
	x []bool
	z []bool
}

// NewPauli builds a Pauli from explicit bit vectors. The slices are copied.
func NewPauli(x, z []bool) (Pauli, error) {
	if len(x) != len(z) {
		return Pauli{}, errors.Wrapf(ErrPauliLength, "x has %d bits, z has %d", len(x), len(z))
	}

	if len(x) == 0 {
		return Pauli{}, ErrQubitCount
	}

	p := Pauli{x: make([]bool, len(x)), z: make([]bool, len(z))}
	copy(p.x, x)
	copy(p.z, z)

	return p, nil
}

/*
ParsePauli reads a string such as "IXZY", one symbol per qubit, qubit 0 first.
Lower-case symbols are accepted.
*/
func ParsePauli(s string) (Pauli, error) {
	if s == "" {
		return Pauli{}, ErrQubitCount
	}

	p := Pauli{x: make([]bool, len(s)), z: make([]bool, len(s))}

	// One byte per qubit; any byte outside IXYZ, including part of a
	// multi-byte rune, is rejected.
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'I', 'i':
		case 'X', 'x':
			p.x[i] = true
		case 'Z', 'z':
			p.z[i] = true
		case 'Y', 'y':
			p.x[i], p.z[i] = true, true
		default:
			return Pauli{}, errors.Wrapf(ErrPauliSymbol, "%q at position %d", s, i)
		}
	}

	return p, nil
}

// ZOn returns the operator with Z on each listed qubit and I elsewhere.
func ZOn(n int, qubits ...int) (Pauli, error) {
	return singleKind(n, false, qubits)
}

// XOn returns the operator with X on each listed qubit and I elsewhere.
func XOn(n int, qubits ...int) (Pauli, error) {
	return singleKind(n, true, qubits)
}

// AllZ is the total fermion parity operator Z_0 Z_1 ... Z_{n-1}.
func AllZ(n int) Pauli {
	p := Pauli{x: make([]bool, n), z: make([]bool, n)}
	for q := range p.z {
		p.z[q] = true
	}
	return p
}

func singleKind(n int, xType bool, qubits []int) (Pauli, error) {
	if n <= 0 {
		return Pauli{}, ErrQubitCount
	}

	if err := checkQubits(n, qubits...); err != nil {
		return Pauli{}, err
	}

	p := Pauli{x: make([]bool, n), z: make([]bool, n)}
	for _, q := range qubits {
		if xType {
			p.x[q] = true
		} else {
			p.z[q] = true
		}
	}

	return p, nil
}

// Len is the number of qubits the operator acts on.
func (p Pauli) Len() int {
	return len(p.x)
}

// At returns the X and Z bits on qubit q.
func (p Pauli) At(q int) (x, z bool) {
	return p.x[q], p.z[q]
}

// Commutes reports whether p and o commute (symplectic inner product is 0).
func (p Pauli) Commutes(o Pauli) bool {
	acc := false
	for q := range p.x {
		acc = acc != ((p.x[q] && o.z[q]) != (p.z[q] && o.x[q]))
	}
	return !acc
}

func (p Pauli) String() string {
	var b strings.Builder
	b.Grow(len(p.x))

	for q := range p.x {
		b.WriteByte(pauliSymbol(p.x[q], p.z[q]))
	}

	return b.String()
}

func pauliSymbol(x, z bool) byte {
	switch {
	case x && z:
		return 'Y'
	case x:
		return 'X'
	case z:
		return 'Z'
	default:
		return 'I'
	}
}
