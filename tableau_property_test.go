package majorana

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"pgregory.net/rapid"
)

var pauliSymbols = []byte{'I', 'X', 'Y', 'Z'}

func drawPauli(t *rapid.T, n int, label string) Pauli {
	b := make([]byte, n)
	for q := range b {
		b[q] = rapid.SampledFrom(pauliSymbols).Draw(t, label)
	}
	p, err := ParsePauli(string(b))
	if err != nil {
		t.Fatalf("parse %q: %v", b, err)
	}
	return p
}

// scramble applies a random sequence of gates, errors and measurements.
func scramble(t *rapid.T, tb *Tableau, src rand.Source) {
	n := tb.N()
	steps := rapid.IntRange(0, 30).Draw(t, "steps")

	for i := 0; i < steps; i++ {
		q := rapid.IntRange(0, n-1).Draw(t, "q")

		switch rapid.IntRange(0, 4).Draw(t, "kind") {
		case 0:
			tb.h(q)
		case 1:
			tb.sGate(q)
		case 2:
			if n > 1 {
				r := (q + rapid.IntRange(1, n-1).Draw(t, "offset")) % n
				tb.cnot(q, r)
			}
		case 3:
			if err := tb.ApplyError(drawPauli(t, n, "error")); err != nil {
				t.Fatal(err)
			}
		case 4:
			if _, _, err := tb.Measure(drawPauli(t, n, "measure"), src); err != nil {
				t.Fatal(err)
			}
		}
	}
}

func TestTableauStaysAbelian(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(t, "n")
		tb, _ := NewTableau(n)
		src := rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 7)

		scramble(t, tb, src)

		if !tb.Commutes() {
			t.Fatalf("generators stopped commuting:\n%s", tb)
		}
	})
}

func TestMeasurementIsRepeatable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "n")
		tb, _ := NewTableau(n)
		src := rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 11)

		scramble(t, tb, src)

		p := drawPauli(t, n, "p")
		first, _, err := tb.Measure(p, src)
		if err != nil {
			t.Fatal(err)
		}

		after := tb.Clone()
		second, random, err := tb.Measure(p, src)
		if err != nil {
			t.Fatal(err)
		}

		if random || second != first {
			t.Fatalf("re-measuring %s gave %d (random %v) after %d", p, second, random, first)
		}

		if !tb.Equal(after) {
			t.Fatalf("deterministic read changed the state: %s", spew.Sdump(tb.Stabilizers()))
		}
	})
}

func TestPeekAgreesWithMeasure(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "n")
		tb, _ := NewTableau(n)
		src := rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 13)

		scramble(t, tb, src)

		p := drawPauli(t, n, "p")
		peeked, ok, err := tb.Peek(p)
		if err != nil {
			t.Fatal(err)
		}

		measured, random, err := tb.Measure(p, src)
		if err != nil {
			t.Fatal(err)
		}

		if ok == random {
			t.Fatalf("peek ok=%v but measure random=%v for %s", ok, random, p)
		}
		if ok && peeked != measured {
			t.Fatalf("peek %d, measure %d for %s on %s", peeked, measured, p, spew.Sdump(tb.Stabilizers()))
		}
	})
}

func TestProjectForcesOutcome(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 5).Draw(t, "n")
		tb, _ := NewTableau(n)
		src := rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 17)

		scramble(t, tb, src)

		p := drawPauli(t, n, "p")
		if p.String() == strings.Repeat("I", n) {
			return
		}

		want := rapid.IntRange(0, 1).Draw(t, "outcome")
		if err := tb.Project(p, want); err != nil {
			t.Fatal(err)
		}

		got, ok, err := tb.Peek(p)
		if err != nil {
			t.Fatal(err)
		}
		if !ok || got != want {
			t.Fatalf("forced %s to %d, now reads %d (determined %v)", p, want, got, ok)
		}
		if !tb.Commutes() {
			t.Fatalf("projection broke commutation:\n%s", tb)
		}
	})
}

func TestSelfInverseGates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 5).Draw(t, "n")
		tb, _ := NewTableau(n)
		src := rand.NewPCG(rapid.Uint64().Draw(t, "seed"), 19)

		scramble(t, tb, src)
		before := tb.Clone()

		q := rapid.IntRange(0, n-1).Draw(t, "q")
		r := (q + rapid.IntRange(1, n-1).Draw(t, "offset")) % n

		tb.h(q)
		tb.h(q)
		tb.cnot(q, r)
		tb.cnot(q, r)
		for i := 0; i < 4; i++ {
			tb.sGate(r)
		}

		if !tb.Equal(before) {
			t.Fatalf("H^2 CNOT^2 S^4 changed\n%s\ninto\n%s", before, tb)
		}
	})
}
