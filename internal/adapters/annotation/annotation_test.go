package annotation_test

import (
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/TrevorCOConnor/go-to-one/internal/adapters/annotation"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/life"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/match"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timeline"
)

const header = "sec\tmilli\tname\tpitch\tplayer1_life\tplayer2_life\tupdate_type\n"

func rows(lines ...string) *strings.Reader {
	return strings.NewReader(header + strings.Join(lines, "\n") + "\n")
}

func TestParseFullFile(t *testing.T) {
	Convey("Given a well-formed annotation file", t, func() {
		r := rows(
			"0\t0\tDorinthea Ironsong\t\t\t\thero2",
			"0\t0\tKatsu, the Wanderer\t\t\t\thero1",
			"0\t0\t\t\t\t40\tlife",
			"0\t0\t\t\t40\t\tlife",
			"2\t0\tSink Below\t1\t\t\tcard",
			"2\t500\t\t\t\t\tzoom",
			"5\t250\t\t\t-4\t\tlife",
			"8\t0\t\t\t\t\tturn",
			"30\t0\t\t\t\t\twin2",
		)

		Convey("When parsed", func() {
			setup, tl, err := annotation.Parse(r)
			So(err, ShouldBeNil)

			Convey("Then hero rows seed identity regardless of order", func() {
				So(setup.Hero1, ShouldEqual, "Katsu, the Wanderer")
				So(setup.Hero2, ShouldEqual, "Dorinthea Ironsong")
			})

			Convey("Then the first life row decides the first turn", func() {
				So(setup.FirstTurn, ShouldEqual, match.Player2)
				So(setup.Life1, ShouldEqual, 40)
				So(setup.Life2, ShouldEqual, 40)
			})

			Convey("Then the remaining rows become ordered events", func() {
				So(tl.Remaining(), ShouldEqual, 5)

				due := tl.PopDue(timecode.At(2, 0))
				So(due, ShouldHaveLength, 1)
				card, ok := due[0].(timeline.CardPlayed)
				So(ok, ShouldBeTrue)
				So(card.Name, ShouldEqual, "Sink Below")
				So(card.Pitch, ShouldEqual, 1)

				due = tl.PopDue(timecode.At(6, 0))
				So(due, ShouldHaveLength, 2)
				So(due[0].Kind(), ShouldEqual, timeline.KindZoom)
				change, ok := due[1].(timeline.LifeChanged)
				So(ok, ShouldBeTrue)
				So(change.Player, ShouldEqual, match.Player1)
				So(change.Update, ShouldResemble, life.Update{Op: life.Subtract, Amount: 4})

				due = tl.PopDue(timecode.At(30, 0))
				So(due, ShouldHaveLength, 2)
				So(due[0].Kind(), ShouldEqual, timeline.KindTurnChanged)
				won, ok := due[1].(timeline.Won)
				So(ok, ShouldBeTrue)
				So(won.Player, ShouldEqual, match.Player2)
			})
		})
	})
}

func TestParseSetupFailures(t *testing.T) {
	Convey("Given annotation files with broken setup blocks", t, func() {
		Convey("When a hero row is missing", func() {
			r := rows(
				"0\t0\tKatsu, the Wanderer\t\t\t\thero1",
				"0\t0\t\t\t40\t\tlife",
				"0\t0\t\t\t\t40\tlife",
				"2\t0\tSink Below\t1\t\t\tcard",
			)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrBadSetup), ShouldBeTrue)
		})

		Convey("When a starting life row sets both players", func() {
			r := rows(
				"0\t0\tKatsu, the Wanderer\t\t\t\thero1",
				"0\t0\tDorinthea Ironsong\t\t\t\thero2",
				"0\t0\t\t\t40\t40\tlife",
				"0\t0\t\t\t\t40\tlife",
			)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrBadSetup), ShouldBeTrue)
		})

		Convey("When a starting life total is not a number", func() {
			r := rows(
				"0\t0\tKatsu, the Wanderer\t\t\t\thero1",
				"0\t0\tDorinthea Ironsong\t\t\t\thero2",
				"0\t0\t\t\tforty\t\tlife",
				"0\t0\t\t\t\t40\tlife",
			)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrBadSetup), ShouldBeTrue)
		})
	})
}

func TestParseRowFailures(t *testing.T) {
	setup := []string{
		"0\t0\tKatsu, the Wanderer\t\t\t\thero1",
		"0\t0\tDorinthea Ironsong\t\t\t\thero2",
		"0\t0\t\t\t40\t\tlife",
		"0\t0\t\t\t\t40\tlife",
	}

	Convey("Given annotation files with broken event rows", t, func() {
		Convey("When a life token has no operator", func() {
			r := rows(append(setup, "5\t0\t\t\t4\t\tlife")...)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrMalformedRow), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "row 6")
		})

		Convey("When the update type is unknown", func() {
			r := rows(append(setup, "5\t0\t\t\t\t\tmulligan")...)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrMalformedRow), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "mulligan")
		})

		Convey("When a card row has no name", func() {
			r := rows(append(setup, "5\t0\t\t1\t\t\tcard")...)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrMalformedRow), ShouldBeTrue)
		})

		Convey("When timestamps go backwards", func() {
			r := rows(append(setup,
				"5\t0\tSink Below\t1\t\t\tcard",
				"4\t0\t\t\t\t\tturn",
			)...)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrMalformedRow), ShouldBeTrue)
		})

		Convey("When a row has the wrong number of columns", func() {
			r := rows(append(setup, "5\t0\tcard")...)
			_, _, err := annotation.Parse(r)
			So(errors.Is(err, annotation.ErrMalformedRow), ShouldBeTrue)
		})
	})
}
