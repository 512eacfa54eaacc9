package cardshow_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/TrevorCOConnor/go-to-one/internal/domain/cardshow"
	"github.com/TrevorCOConnor/go-to-one/internal/domain/timecode"
)

type fakeLoader struct {
	loads []cardshow.Card
	err   error
}

func (f *fakeLoader) Load(name string, pitch int) (cardshow.Art, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.loads = append(f.loads, cardshow.Card{Name: name, Pitch: pitch})
	return name, nil
}

func TestFlipInTiming(t *testing.T) {
	Convey("Given an idle session and a card played at second two", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))
		s.Enqueue(cardshow.Card{Name: "Sink Below", Pitch: 1})

		Convey("When stepped at the card's timestamp", func() {
			_, err := s.Step(timecode.At(2, 0))
			So(err, ShouldBeNil)

			Convey("Then the card back starts rotating out immediately", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardBackRotatingOut)
				So(s.Loaded(), ShouldBeTrue)
				So(loader.loads, ShouldHaveLength, 1)
			})

			Convey("And the full flip completes one rotate duration later", func() {
				_, err := s.Step(timecode.At(2, 750))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseDisplaying)
			})
		})

		Convey("When stepped at the midpoint of the flip", func() {
			_, err := s.Step(timecode.At(2, 0))
			So(err, ShouldBeNil)
			d, err := s.Step(timecode.At(2, 375))
			So(err, ShouldBeNil)

			Convey("Then the card front is rotating in from progress zero", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardFrontRotatingIn)
				So(d.Progress, ShouldAlmostEqual, 0, 0.001)
			})
		})
	})
}

func TestQueuedCardSkipsIdle(t *testing.T) {
	Convey("Given a card on display and a second card queued behind it", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))
		s.Enqueue(cardshow.Card{Name: "Pummel", Pitch: 2})
		_, err := s.Step(timecode.At(2, 0))
		So(err, ShouldBeNil)
		_, err = s.Step(timecode.At(2, 750))
		So(err, ShouldBeNil)
		So(s.Phase(), ShouldEqual, cardshow.PhaseDisplaying)

		s.Enqueue(cardshow.Card{Name: "Wounding Blow", Pitch: 3})

		Convey("When the display duration expires", func() {
			_, err := s.Step(timecode.At(9, 0))
			So(err, ShouldBeNil)

			Convey("Then the first card rotates out instead of holding extended", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardFrontRotatingOut)
			})

			Convey("And the second card rotates straight in without going idle", func() {
				_, err := s.Step(timecode.At(9, 200))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardFrontRotatingIn)
				So(loader.loads, ShouldHaveLength, 2)
				So(loader.loads[1].Name, ShouldEqual, "Wounding Blow")

				_, err = s.Step(timecode.At(9, 500))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseDisplaying)
			})
		})
	})
}

func TestExtendedDisplayAndRetire(t *testing.T) {
	Convey("Given a card on display with nothing queued", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))
		s.Enqueue(cardshow.Card{Name: "Command and Conquer", Pitch: 1})
		_, err := s.Step(timecode.At(2, 0))
		So(err, ShouldBeNil)

		Convey("When the display duration expires", func() {
			_, err := s.Step(timecode.At(9, 0))
			So(err, ShouldBeNil)

			Convey("Then the card holds in extended display", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseExtendedDisplaying)
			})

			Convey("And after the extended hold it flips out and goes idle", func() {
				_, err := s.Step(timecode.At(21, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardFrontRotatingOut)

				d, err := s.Step(timecode.At(22, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseIdle)
				So(s.Loaded(), ShouldBeFalse)
				So(d.Art, ShouldBeNil)
			})
		})
	})
}

func TestZoomCycle(t *testing.T) {
	Convey("Given a card on display", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))
		s.Enqueue(cardshow.Card{Name: "Enlightened Strike", Pitch: 1})
		_, err := s.Step(timecode.At(2, 0))
		So(err, ShouldBeNil)
		_, err = s.Step(timecode.At(2, 750))
		So(err, ShouldBeNil)

		Convey("When a zoom is requested", func() {
			s.RequestZoom()
			d, err := s.Step(timecode.At(3, 0))
			So(err, ShouldBeNil)

			Convey("Then the session starts zooming in from scale zero", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseZoomingIn)
				So(d.Zoom, ShouldBeLessThan, 0.01)
			})

			Convey("Then the eased scale passes the midpoint halfway through", func() {
				d, err := s.Step(timecode.At(4, 0))
				So(err, ShouldBeNil)
				So(d.Progress, ShouldAlmostEqual, 0.5, 0.001)
				So(d.Zoom, ShouldAlmostEqual, 0.5, 0.01)
			})

			Convey("Then the cycle holds, reverses, and settles before rotating out", func() {
				d, err := s.Step(timecode.At(5, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseZoomDisplaying)
				So(d.Zoom, ShouldEqual, 1)

				s.RequestZoom() // ignored while already zooming

				d, err = s.Step(timecode.At(8, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseZoomingOut)
				So(d.Zoom, ShouldBeGreaterThan, 0.99)

				_, err = s.Step(timecode.At(10, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhasePostZoom)

				_, err = s.Step(timecode.At(11, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseCardFrontRotatingOut)
			})
		})
	})
}

func TestZoomWhileIdleDiscarded(t *testing.T) {
	Convey("Given an idle session with no card loaded", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))

		Convey("When a zoom is requested before any card has shown", func() {
			s.RequestZoom()
			_, err := s.Step(timecode.At(1, 0))
			So(err, ShouldBeNil)

			Convey("Then the session stays idle", func() {
				So(s.Phase(), ShouldEqual, cardshow.PhaseIdle)
			})

			Convey("Then a later card displays without zooming", func() {
				s.Enqueue(cardshow.Card{Name: "Scar for a Scar", Pitch: 1})
				_, err := s.Step(timecode.At(2, 0))
				So(err, ShouldBeNil)
				_, err = s.Step(timecode.At(3, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseDisplaying)

				_, err = s.Step(timecode.At(4, 0))
				So(err, ShouldBeNil)
				So(s.Phase(), ShouldEqual, cardshow.PhaseDisplaying)
			})
		})
	})
}

func TestLoadFailureAborts(t *testing.T) {
	Convey("Given a loader that cannot resolve card art", t, func() {
		loader := &fakeLoader{err: errors.New("no art on disk")}
		s := cardshow.New(loader, timecode.At(0, 0))
		s.Enqueue(cardshow.Card{Name: "Unlisted Proxy", Pitch: 1})

		Convey("When the card comes due", func() {
			_, err := s.Step(timecode.At(2, 0))

			Convey("Then the step surfaces the load failure", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "load card")
				So(err.Error(), ShouldContainSubstring, "Unlisted Proxy")
			})
		})
	})
}

func TestCatchUpIsBounded(t *testing.T) {
	Convey("Given a deep queue and a clock far ahead of the phase timer", t, func() {
		loader := &fakeLoader{}
		s := cardshow.New(loader, timecode.At(0, 0))
		for i := 0; i < 10; i++ {
			s.Enqueue(cardshow.Card{Name: "Snatch", Pitch: 1})
		}

		Convey("When stepped once", func() {
			_, err := s.Step(timecode.At(500, 0))
			So(err, ShouldBeNil)

			Convey("Then the advance chain is capped rather than unbounded", func() {
				So(s.QueueLen(), ShouldBeGreaterThan, 0)
				So(s.QueueLen(), ShouldBeLessThan, 10)
			})

			Convey("Then following steps finish the catch-up", func() {
				for i := 1; i <= 10; i++ {
					_, err := s.Step(timecode.At(uint64(500+i), 0))
					So(err, ShouldBeNil)
				}
				So(s.QueueLen(), ShouldEqual, 0)
				So(s.Phase(), ShouldEqual, cardshow.PhaseIdle)
				So(s.Loaded(), ShouldBeFalse)
			})
		})
	})
}
