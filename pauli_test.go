package majorana

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParsePauli(t *testing.T) {
	Convey("Given pauli strings", t, func() {
		Convey("When parsing a valid mixed-case string", func() {
			p, err := ParsePauli("IXzY")

			Convey("Then every qubit carries the right bits", func() {
				So(err, ShouldBeNil)
				So(p.Len(), ShouldEqual, 4)
				So(p.String(), ShouldEqual, "IXZY")

				x, z := p.At(0)
				So(x || z, ShouldBeFalse)
				x, z = p.At(1)
				So(x, ShouldBeTrue)
				So(z, ShouldBeFalse)
				x, z = p.At(3)
				So(x && z, ShouldBeTrue)
			})
		})

		Convey("When parsing an unknown symbol", func() {
			_, err := ParsePauli("IXQ")
			So(errors.Is(err, ErrPauliSymbol), ShouldBeTrue)
		})

		Convey("When parsing non-ASCII look-alikes", func() {
			for _, s := range []string{"ıZ", "ＸZ", "Zé"} {
				_, err := ParsePauli(s)
				So(errors.Is(err, ErrPauliSymbol), ShouldBeTrue)
			}
		})

		Convey("When parsing an empty string", func() {
			_, err := ParsePauli("")
			So(errors.Is(err, ErrQubitCount), ShouldBeTrue)
		})
	})
}

func TestPauliConstructors(t *testing.T) {
	Convey("Given the helper constructors", t, func() {
		Convey("ZOn and XOn place operators on the listed qubits", func() {
			z, err := ZOn(4, 1, 3)
			So(err, ShouldBeNil)
			So(z.String(), ShouldEqual, "IZIZ")

			x, err := XOn(3, 0)
			So(err, ShouldBeNil)
			So(x.String(), ShouldEqual, "XII")
		})

		Convey("AllZ is the total parity operator", func() {
			So(AllZ(3).String(), ShouldEqual, "ZZZ")
		})

		Convey("Out-of-range and repeated qubits are rejected", func() {
			_, err := ZOn(2, 2)
			So(errors.Is(err, ErrQubitOutOfRange), ShouldBeTrue)

			_, err = ZOn(2, -1)
			So(errors.Is(err, ErrQubitOutOfRange), ShouldBeTrue)

			_, err = XOn(3, 1, 1)
			So(errors.Is(err, ErrDuplicateQubit), ShouldBeTrue)
		})

		Convey("NewPauli copies its input and checks lengths", func() {
			xs := []bool{true, false}
			zs := []bool{false, false}
			p, err := NewPauli(xs, zs)
			So(err, ShouldBeNil)

			xs[0] = false
			So(p.String(), ShouldEqual, "XI")

			_, err = NewPauli([]bool{true}, []bool{true, false})
			So(errors.Is(err, ErrPauliLength), ShouldBeTrue)
		})
	})
}

func TestPauliCommutes(t *testing.T) {
	Convey("Given pairs of operators", t, func() {
		pairs := []struct {
			a, b     string
			commutes bool
		}{
			{"X", "Z", false},
			{"X", "Y", false},
			{"Y", "Y", true},
			{"XX", "ZZ", true},
			{"XI", "IZ", true},
			{"XZ", "ZI", false},
			{"XYZ", "ZYX", true},
		}

		for _, pair := range pairs {
			a, _ := ParsePauli(pair.a)
			b, _ := ParsePauli(pair.b)
			So(a.Commutes(b), ShouldEqual, pair.commutes)
			So(b.Commutes(a), ShouldEqual, pair.commutes)
		}
	})
}
