package majorana

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func xRead(e *Engine) (int, error) {
	return e.MX(0)
}

func TestPoolRun(t *testing.T) {
	Convey("Given a running pool", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		pool := NewPool(ctx, 4)

		Reset(func() {
			pool.Close()
			cancel()
		})

		Convey("When the same batch runs on one and on four workers", func() {
			single := NewPool(ctx, 1)
			defer single.Close()

			a, err := single.Run(ctx, 64, NewConfig(1), xRead, WithSeedBase(100))
			So(err, ShouldBeNil)

			b, err := pool.Run(ctx, 64, NewConfig(1), xRead, WithSeedBase(100))
			So(err, ShouldBeNil)

			Convey("Then the outcomes match trial by trial", func() {
				So(b.Outcomes, ShouldResemble, a.Outcomes)
				So(a.Ones+a.Zeros, ShouldEqual, 64)
			})
		})

		Convey("When some trials fail or panic", func() {
			tally, err := pool.Run(ctx, 12, NewConfig(1), func(e *Engine) (int, error) {
				switch e.Seed() % 3 {
				case 1:
					return 0, errors.New("bad trial")
				case 2:
					panic("boom")
				}
				return e.MZ(0)
			})

			Convey("Then they are counted and the batch still completes", func() {
				So(err, ShouldBeNil)
				So(tally.Failures, ShouldEqual, 8)
				So(len(tally.Errors), ShouldEqual, 8)
				So(tally.Zeros, ShouldEqual, 4)
				So(tally.Outcomes[0], ShouldEqual, 0)
				So(tally.Outcomes[1], ShouldEqual, -1)
				So(tally.Outcomes[2], ShouldEqual, -1)
			})
		})

		Convey("When trials measure", func() {
			tally, err := pool.Run(ctx, 20, NewConfig(2), func(e *Engine) (int, error) {
				return e.MZZ(0, 1)
			})
			So(err, ShouldBeNil)

			Convey("Then their metrics are merged into the tally and the pool", func() {
				So(tally.Metrics.Measurements, ShouldEqual, int64(20))
				So(pool.Metrics().Measurements, ShouldEqual, int64(20))
				So(tally.Fraction(), ShouldEqual, 0.0)
			})
		})

		Convey("When transcripts are kept", func() {
			var lengths = make(chan int, 5)
			_, err := pool.Run(ctx, 5, NewConfig(1, WithRecording(false)), func(e *Engine) (int, error) {
				o, err := e.MZ(0)
				lengths <- e.Transcript().Len()
				return o, err
			}, WithTranscripts())
			So(err, ShouldBeNil)
			close(lengths)

			Convey("Then every engine records", func() {
				for l := range lengths {
					So(l, ShouldEqual, 1)
				}
			})
		})

		Convey("When the batch is invalid", func() {
			_, err := pool.Run(ctx, 3, NewConfig(0), xRead)
			So(errors.Is(err, ErrQubitCount), ShouldBeTrue)

			_, err = pool.Run(ctx, 3, NewConfig(1), nil)
			So(err, ShouldNotBeNil)

			tally, err := pool.Run(ctx, -1, NewConfig(2), xRead)
			So(err, ShouldNotBeNil)
			So(tally, ShouldBeNil)
		})

		Convey("When the batch context is already cancelled", func() {
			done, stop := context.WithCancel(ctx)
			stop()

			tally, err := pool.Run(done, 1000, NewConfig(1), xRead)

			Convey("Then the partial tally comes back with an error", func() {
				So(err, ShouldNotBeNil)
				So(tally, ShouldNotBeNil)
				So(tally.Ones+tally.Zeros+tally.Failures, ShouldBeLessThan, 1000)
			})
		})
	})
}
