package majorana

const (
	GadgetH    = "h_parity"
	GadgetS    = "s_parity"
	GadgetCNOT = "cnot_parity"
)

/*
GadgetOutcome carries the reported bits a gadget saw: the parity reads that
drove its corrections and the final ancilla resets.
*/
type GadgetOutcome struct {
	Parities []int
	Resets   []int
}

/*
HParity synthesizes a logical Hadamard on q from measurements only:

	o := MXX(q, anc)
	if o == 1: Phase(anc) twice, a net Z on the ancilla
	MZ(anc)  // decouple and reset

The ancilla must be distinct from q and is owned by the caller.
*/
func (e *Engine) HParity(q, anc int) (GadgetOutcome, error) {
	if err := checkQubits(e.n, q, anc); err != nil {
		return GadgetOutcome{}, err
	}

	o, err := e.mxx(q, anc, GadgetH)
	if err != nil {
		return GadgetOutcome{}, err
	}

	if o == 1 {
		e.correct(OpS, anc, GadgetH)
		e.correct(OpS, anc, GadgetH)
	}

	return e.finish(GadgetH, []int{o}, anc)
}

/*
SParity synthesizes a logical Phase gate on q:

	o := MZZ(q, anc)
	if o == 1: Hadamard(anc)
	MZ(anc)
*/
func (e *Engine) SParity(q, anc int) (GadgetOutcome, error) {
	if err := checkQubits(e.n, q, anc); err != nil {
		return GadgetOutcome{}, err
	}

	o, err := e.mzz(q, anc, GadgetS)
	if err != nil {
		return GadgetOutcome{}, err
	}

	if o == 1 {
		e.correct(OpH, anc, GadgetS)
	}

	return e.finish(GadgetS, []int{o}, anc)
}

/*
CNOTParity synthesizes a logical CNOT from control c onto target t using two
ancillas:

	o1 := MXX(c, a1)
	o2 := MXX(t, a2)
	o3 := MZZ(a1, a2)
	if o1 == 1: Phase(t)
	if o2 == 1: Phase(c)
	if o3 == 1: Phase(c), Phase(t)
	MZ(a1), MZ(a2)

All four qubits must be distinct.
*/
func (e *Engine) CNOTParity(c, t, a1, a2 int) (GadgetOutcome, error) {
	if err := checkQubits(e.n, c, t, a1, a2); err != nil {
		return GadgetOutcome{}, err
	}

	o1, err := e.mxx(c, a1, GadgetCNOT)
	if err != nil {
		return GadgetOutcome{}, err
	}

	o2, err := e.mxx(t, a2, GadgetCNOT)
	if err != nil {
		return GadgetOutcome{}, err
	}

	o3, err := e.mzz(a1, a2, GadgetCNOT)
	if err != nil {
		return GadgetOutcome{}, err
	}

	if o1 == 1 {
		e.correct(OpS, t, GadgetCNOT)
	}
	if o2 == 1 {
		e.correct(OpS, c, GadgetCNOT)
	}
	if o3 == 1 {
		e.correct(OpS, c, GadgetCNOT)
		e.correct(OpS, t, GadgetCNOT)
	}

	return e.finish(GadgetCNOT, []int{o1, o2, o3}, a1, a2)
}

// finish measures every ancilla out with MZ, whatever the parities were.
func (e *Engine) finish(gadget string, parities []int, ancillas ...int) (GadgetOutcome, error) {
	out := GadgetOutcome{Parities: parities, Resets: make([]int, 0, len(ancillas))}

	for _, a := range ancillas {
		r, err := e.mz(a, gadget)
		if err != nil {
			return out, err
		}
		out.Resets = append(out.Resets, r)
	}

	e.metrics.recordGadget(gadget)

	return out, nil
}
