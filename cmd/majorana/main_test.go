package main

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/theapemachine/majorana"
)

func TestWriteTranscript(t *testing.T) {
	Convey("Given a recorded run", t, func() {
		e, err := majorana.NewEngine(majorana.NewConfig(2, majorana.WithSeed(1)))
		So(err, ShouldBeNil)
		_, _ = e.MZZ(0, 1)

		Convey("When it is written to a file", func() {
			path := filepath.Join(t.TempDir(), "run.yaml")
			So(writeTranscript(path, majorana.FormatYAML, e.Transcript()), ShouldBeNil)

			Convey("Then the file decodes back to the same entries", func() {
				f, err := os.Open(path)
				So(err, ShouldBeNil)
				defer f.Close()

				back, err := majorana.Decode(f, majorana.FormatYAML)
				So(err, ShouldBeNil)
				So(back.Entries(), ShouldResemble, e.Transcript().Entries())
			})
		})

		Convey("When the path cannot be created", func() {
			err := writeTranscript(t.TempDir(), majorana.FormatJSON, e.Transcript())
			So(err, ShouldNotBeNil)
		})

		Convey("When the format is unknown", func() {
			path := filepath.Join(t.TempDir(), "run.txt")
			err := writeTranscript(path, majorana.Format("txt"), e.Transcript())
			So(err, ShouldNotBeNil)
		})
	})
}
