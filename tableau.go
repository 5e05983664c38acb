package majorana

import (
	"math/rand/v2"
	"strings"

	"github.com/pkg/errors"
)

/*
Tableau holds the n generators of an n-qubit stabilizer group in symplectic
form. Row i is generator i; column q is qubit q. The X and Z bits live in two
flat row-major arenas of n*n bits, the signs in a vector of n bits (true means
the generator carries a -1 phase).

The tableau is the sole owner of quantum state. Every operation mutates it in
place. It starts in the computational basis state |0...0>, stabilized by
+Z_i for every qubit i.

A Tableau is not safe for concurrent use.
*/
type Tableau struct {
	n int
	x []bool
	z []bool
	s []bool
}

// NewTableau returns the |0...0> state on n qubits.
func NewTableau(n int) (*Tableau, error) {
	if n <= 0 {
		return nil, errors.Wrapf(ErrQubitCount, "got %d", n)
	}

	t := &Tableau{
		n: n,
		x: make([]bool, n*n),
		z: make([]bool, n*n),
		s: make([]bool, n),
	}

	for i := 0; i < n; i++ {
		t.z[i*n+i] = true
	}

	return t, nil
}

// N is the number of qubits (and generators).
func (t *Tableau) N() int {
	return t.n
}

// Clone returns an independent deep copy.
func (t *Tableau) Clone() *Tableau {
	c := &Tableau{
		n: t.n,
		x: make([]bool, len(t.x)),
		z: make([]bool, len(t.z)),
		s: make([]bool, len(t.s)),
	}

	copy(c.x, t.x)
	copy(c.z, t.z)
	copy(c.s, t.s)

	return c
}

// Equal reports whether both tableaux hold bit-identical generator rows.
func (t *Tableau) Equal(o *Tableau) bool {
	if o == nil || t.n != o.n {
		return false
	}

	for i := range t.x {
		if t.x[i] != o.x[i] || t.z[i] != o.z[i] {
			return false
		}
	}

	for i := range t.s {
		if t.s[i] != o.s[i] {
			return false
		}
	}

	return true
}

// H conjugates every generator by a Hadamard on qubit q.
func (t *Tableau) H(q int) error {
	if err := checkQubit(t.n, q); err != nil {
		return err
	}

	t.h(q)
	return nil
}

// S conjugates every generator by a Phase gate on qubit q.
func (t *Tableau) S(q int) error {
	if err := checkQubit(t.n, q); err != nil {
		return err
	}

	t.sGate(q)
	return nil
}

// CNOT conjugates every generator by a controlled-NOT from c onto target.
func (t *Tableau) CNOT(c, target int) error {
	if err := checkQubits(t.n, c, target); err != nil {
		return err
	}

	t.cnot(c, target)
	return nil
}

func (t *Tableau) h(q int) {
	for i := 0; i < t.n; i++ {
		k := i*t.n + q
		if t.x[k] && t.z[k] {
			t.s[i] = !t.s[i]
		}
		t.x[k], t.z[k] = t.z[k], t.x[k]
	}
}

func (t *Tableau) sGate(q int) {
	for i := 0; i < t.n; i++ {
		k := i*t.n + q
		if t.x[k] && t.z[k] {
			t.s[i] = !t.s[i]
		}
		t.z[k] = t.z[k] != t.x[k]
	}
}

func (t *Tableau) cnot(c, target int) {
	for i := 0; i < t.n; i++ {
		kc, kt := i*t.n+c, i*t.n+target
		if t.x[kc] && t.z[kt] && (t.x[kt] == t.z[kc]) {
			t.s[i] = !t.s[i]
		}
		t.x[kt] = t.x[kt] != t.x[kc]
		t.z[kc] = t.z[kc] != t.z[kt]
	}
}

/*
ApplyError applies the Pauli p as a physical error. Conjugating by a Pauli
never changes the X/Z bits of a generator, it only negates the generators
that anticommute with p.
*/
func (t *Tableau) ApplyError(p Pauli) error {
	if err := t.checkPauli(p); err != nil {
		return err
	}

	for i := 0; i < t.n; i++ {
		if t.anticommutes(p, i) {
			t.s[i] = !t.s[i]
		}
	}

	return nil
}

// zError applies a Z error on qubit q without building a Pauli.
func (t *Tableau) zError(q int) {
	for i := 0; i < t.n; i++ {
		if t.x[i*t.n+q] {
			t.s[i] = !t.s[i]
		}
	}
}

/*
Measure performs a projective measurement of p and returns the outcome bit
(0 for the +1 eigenvalue, 1 for -1) together with whether the outcome was drawn
at random.

When p commutes with every generator the outcome is already fixed by the
state. It is read off a clone, so the live tableau is not touched. Otherwise
one bit is drawn from src and the state collapses onto the matching
eigenspace of p.
*/
func (t *Tableau) Measure(p Pauli, src rand.Source) (outcome int, random bool, err error) {
	if err = t.checkPauli(p); err != nil {
		return 0, false, err
	}

	pivot := t.firstAnticommuting(p)
	if pivot < 0 {
		d, err := t.decompose(p)
		if err != nil {
			return 0, false, err
		}
		return b2i(d.sign), false, nil
	}

	outcome = int(src.Uint64() & 1)
	t.collapse(p, pivot, outcome)

	return outcome, true, nil
}

/*
Peek returns the outcome a measurement of p would produce if that outcome is
already determined. ok is false when p anticommutes with some generator, in
which case a measurement would be random. The tableau is never modified.
*/
func (t *Tableau) Peek(p Pauli) (outcome int, ok bool, err error) {
	if err = t.checkPauli(p); err != nil {
		return 0, false, err
	}

	if t.firstAnticommuting(p) >= 0 {
		return 0, false, nil
	}

	d, err := t.decompose(p)
	if err != nil {
		return 0, false, err
	}

	return b2i(d.sign), true, nil
}

/*
Project forces a measurement of p to yield outcome, without drawing any
randomness. It is what replay and quasiparticle poisoning use.

If p anticommutes with a generator, this is the ordinary collapse with the
given outcome. If p is already determined and the forced outcome disagrees,
the sign of exactly one generator is flipped: the lowest-index generator that
takes part in the product forming p. This is a single best-effort row flip,
not a general phase-matching search.
*/
func (t *Tableau) Project(p Pauli, outcome int) error {
	_, err := t.project(p, outcome)
	return err
}

// project is Project that also reports whether the state collapsed.
func (t *Tableau) project(p Pauli, outcome int) (collapsed bool, err error) {
	if err = t.checkPauli(p); err != nil {
		return false, err
	}

	if err = checkOutcome(outcome); err != nil {
		return false, err
	}

	if pivot := t.firstAnticommuting(p); pivot >= 0 {
		t.collapse(p, pivot, outcome)
		return true, nil
	}

	d, err := t.decompose(p)
	if err != nil {
		return false, err
	}

	if b2i(d.sign) == outcome {
		return false, nil
	}

	for i, used := range d.rows {
		if used {
			t.s[i] = !t.s[i]
			return false, nil
		}
	}

	return false, errors.Wrapf(ErrNotInGroup, "cannot force %s to outcome %d", p, outcome)
}

// FermionParity measures the all-Z operator, the total fermion parity.
func (t *Tableau) FermionParity(src rand.Source) (int, error) {
	outcome, _, err := t.Measure(AllZ(t.n), src)
	return outcome, err
}

// Commutes reports whether every pair of generators commutes.
func (t *Tableau) Commutes() bool {
	for a := 0; a < t.n; a++ {
		for b := a + 1; b < t.n; b++ {
			if !t.rowsCommute(a, b) {
				return false
			}
		}
	}
	return true
}

// Generator returns row i as a Pauli and its sign bit.
func (t *Tableau) Generator(i int) (Pauli, bool) {
	x, z := t.row(i)
	p, _ := NewPauli(x, z)
	return p, t.s[i]
}

// Stabilizers renders each generator as a signed string such as "-XZI".
func (t *Tableau) Stabilizers() []string {
	out := make([]string, t.n)

	for i := range out {
		p, neg := t.Generator(i)
		sign := "+"
		if neg {
			sign = "-"
		}
		out[i] = sign + p.String()
	}

	return out
}

func (t *Tableau) String() string {
	return strings.Join(t.Stabilizers(), "\n")
}

func (t *Tableau) checkPauli(p Pauli) error {
	if p.Len() != t.n {
		return errors.Wrapf(ErrPauliLength, "pauli has %d qubits, tableau has %d", p.Len(), t.n)
	}
	return nil
}

func (t *Tableau) row(i int) (x, z []bool) {
	return t.x[i*t.n : (i+1)*t.n], t.z[i*t.n : (i+1)*t.n]
}

func (t *Tableau) anticommutes(p Pauli, i int) bool {
	x, z := t.row(i)
	acc := false
	for q := 0; q < t.n; q++ {
		acc = acc != ((p.x[q] && z[q]) != (p.z[q] && x[q]))
	}
	return acc
}

func (t *Tableau) rowsCommute(a, b int) bool {
	xa, za := t.row(a)
	xb, zb := t.row(b)
	acc := false
	for q := 0; q < t.n; q++ {
		acc = acc != ((xa[q] && zb[q]) != (za[q] && xb[q]))
	}
	return !acc
}

func (t *Tableau) firstAnticommuting(p Pauli) int {
	for i := 0; i < t.n; i++ {
		if t.anticommutes(p, i) {
			return i
		}
	}
	return -1
}

// collapse is the stabilizer update for a random-outcome measurement of p.
func (t *Tableau) collapse(p Pauli, pivot, outcome int) {
	px, pz := t.row(pivot)

	for j := 0; j < t.n; j++ {
		if j == pivot || !t.anticommutes(p, j) {
			continue
		}
		jx, jz := t.row(j)
		mulInto(jx, jz, &t.s[j], px, pz, t.s[pivot])
	}

	copy(px, p.x)
	copy(pz, p.z)
	t.s[pivot] = outcome == 1
}

// rowMul replaces row dst with row src times row dst.
func (t *Tableau) rowMul(dst, src int) {
	dx, dz := t.row(dst)
	sx, sz := t.row(src)
	mulInto(dx, dz, &t.s[dst], sx, sz, t.s[src])
}

func (t *Tableau) swapRows(a, b int) {
	if a == b {
		return
	}

	n := t.n
	for q := 0; q < n; q++ {
		t.x[a*n+q], t.x[b*n+q] = t.x[b*n+q], t.x[a*n+q]
		t.z[a*n+q], t.z[b*n+q] = t.z[b*n+q], t.z[a*n+q]
	}
	t.s[a], t.s[b] = t.s[b], t.s[a]
}

// bit addresses the 2n symplectic columns: X_0..X_{n-1} then Z_0..Z_{n-1}.
func (t *Tableau) bit(i, col int) bool {
	if col < t.n {
		return t.x[i*t.n+col]
	}
	return t.z[i*t.n+col-t.n]
}

// decomposition expresses an operator as a product of the live generators.
type decomposition struct {
	sign bool
	rows []bool
}

/*
decompose finds the generators whose product equals p (up to sign) and the
sign of that product. It row-reduces a clone over GF(2), tracking phases and
which original generators each reduced row is made of, then eliminates p
against the reduced rows. p must commute with every generator.
*/
func (t *Tableau) decompose(p Pauli) (decomposition, error) {
	n := t.n
	c := t.Clone()

	combo := make([]bool, n*n)
	for i := 0; i < n; i++ {
		combo[i*n+i] = true
	}

	pivots := make([]int, 0, n)

	for col, r := 0, 0; col < 2*n && r < n; col++ {
		k := -1
		for i := r; i < n; i++ {
			if c.bit(i, col) {
				k = i
				break
			}
		}

		if k < 0 {
			continue
		}

		c.swapRows(r, k)
		for q := 0; q < n; q++ {
			combo[r*n+q], combo[k*n+q] = combo[k*n+q], combo[r*n+q]
		}

		for i := 0; i < n; i++ {
			if i != r && c.bit(i, col) {
				c.rowMul(i, r)
				for q := 0; q < n; q++ {
					combo[i*n+q] = combo[i*n+q] != combo[r*n+q]
				}
			}
		}

		pivots = append(pivots, col)
		r++
	}

	rx := make([]bool, n)
	rz := make([]bool, n)
	copy(rx, p.x)
	copy(rz, p.z)

	ax := make([]bool, n)
	az := make([]bool, n)
	d := decomposition{rows: make([]bool, n)}

	for i, col := range pivots {
		set := rz[col%n]
		if col < n {
			set = rx[col]
		}

		if !set {
			continue
		}

		cx, cz := c.row(i)
		mulInto(ax, az, &d.sign, cx, cz, c.s[i])

		for q := 0; q < n; q++ {
			rx[q] = rx[q] != cx[q]
			rz[q] = rz[q] != cz[q]
			d.rows[q] = d.rows[q] != combo[i*n+q]
		}
	}

	for q := 0; q < n; q++ {
		if rx[q] || rz[q] {
			return decomposition{}, errors.Wrapf(ErrNotInGroup, "operator %s", p)
		}
	}

	return d, nil
}

/*
mulInto sets (dx, dz, ds) to the product (sx, sz, ss) * (dx, dz, ds). Both
operands must commute, so the result is Hermitian and its phase is real.
The phase is tracked as a power of i; phaseExponent gives the contribution of
each qubit.
*/
func mulInto(dx, dz []bool, ds *bool, sx, sz []bool, ss bool) {
	sum := 0
	if *ds {
		sum += 2
	}
	if ss {
		sum += 2
	}

	for q := range dx {
		sum += phaseExponent(sx[q], sz[q], dx[q], dz[q])
		dx[q] = dx[q] != sx[q]
		dz[q] = dz[q] != sz[q]
	}

	sum %= 4
	if sum < 0 {
		sum += 4
	}

	*ds = sum == 2
}

// phaseExponent is the power of i picked up by the single-qubit product P1*P2.
func phaseExponent(x1, z1, x2, z2 bool) int {
	switch {
	case !x1 && !z1:
		return 0
	case x1 && z1:
		return b2i(z2) - b2i(x2)
	case x1:
		return b2i(z2) * (2*b2i(x2) - 1)
	default:
		return b2i(x2) * (1 - 2*b2i(z2))
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
