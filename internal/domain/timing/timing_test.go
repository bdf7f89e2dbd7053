package timing_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/selection"
	"github.com/okian/rapidrun/internal/domain/timing"
	. "github.com/smartystreets/goconvey/convey"
)

// fixedSource replays values in order.
type fixedSource struct {
	values []int
	ns     []int
}

func (f *fixedSource) IntN(n int) int {
	f.ns = append(f.ns, n)
	v := f.values[0]
	f.values = f.values[1:]
	return v
}

func result(ids ...string) *selection.Result {
	groups := []string{"A", "B", "C", "D", "E", "F"}
	res := &selection.Result{RunID: "test"}
	for i, id := range ids {
		res.Representatives = append(res.Representatives, &selection.Representative{
			Group:  groups[i],
			Record: model.Record{ID: id, Group: groups[i]},
		})
	}
	return res
}

func TestTimer_AssignDurations(t *testing.T) {
	Convey("Given a timer with a scripted source", t, func() {
		src := &fixedSource{values: []int{45, 5, 90, 0}}
		timer := timing.NewTimer(timing.WithSource(src))
		res := result("1", "2", "3", "4")

		Convey("When assigning durations", func() {
			err := timer.AssignDurations(context.Background(), res)

			Convey("Then each representative is timed in place", func() {
				So(err, ShouldBeNil)
				So(res.Representatives[0].Seconds, ShouldEqual, 45)
				So(res.Representatives[1].Seconds, ShouldEqual, 5)
				So(res.Representatives[2].Seconds, ShouldEqual, 90)
				So(res.Representatives[3].Seconds, ShouldEqual, 0)
				for _, rep := range res.Representatives {
					So(rep.Timed, ShouldBeTrue)
				}
			})

			Convey("And draws cover the closed range [0, 90]", func() {
				So(src.ns, ShouldResemble, []int{91, 91, 91, 91})
			})
		})
	})

	Convey("Given the default timer", t, func() {
		timer := timing.NewTimer(timing.WithSource(selection.NewSource(7)))
		lo, hi := timer.Range()
		So(lo, ShouldEqual, 0)
		So(hi, ShouldEqual, 90)

		Convey("When assigning many times", func() {
			Convey("Then every duration is within [0, 90]", func() {
				for i := 0; i < 200; i++ {
					res := result("1", "2", "3", "4")
					So(timer.AssignDurations(context.Background(), res), ShouldBeNil)
					for _, rep := range res.Representatives {
						So(rep.Seconds, ShouldBeBetweenOrEqual, 0, 90)
					}
				}
			})
		})
	})

	Convey("Given a custom range", t, func() {
		src := &fixedSource{values: []int{3}}
		timer := timing.NewTimer(timing.WithSource(src), timing.WithRange(10, 20))
		res := result("1")

		So(timer.AssignDurations(context.Background(), res), ShouldBeNil)
		So(src.ns, ShouldResemble, []int{11})
		So(res.Representatives[0].Seconds, ShouldEqual, 13)
	})

	Convey("Given an invalid range option", t, func() {
		timer := timing.NewTimer(timing.WithRange(50, 10))
		lo, hi := timer.Range()
		So(lo, ShouldEqual, 0)
		So(hi, ShouldEqual, 90)
	})

	Convey("Given a range wider than a day", t, func() {
		src := &fixedSource{values: []int{7}}
		timer := timing.NewTimer(timing.WithSource(src), timing.WithRange(0, math.MaxInt))
		lo, hi := timer.Range()
		So(lo, ShouldEqual, 0)
		So(hi, ShouldEqual, 90)

		res := result("1")
		So(timer.AssignDurations(context.Background(), res), ShouldBeNil)
		So(src.ns, ShouldResemble, []int{91})
	})

	Convey("Given the widest accepted range", t, func() {
		timer := timing.NewTimer(timing.WithRange(0, timing.MaxSeconds))
		_, hi := timer.Range()
		So(hi, ShouldEqual, timing.MaxSeconds)
	})

	Convey("Given a malformed representative in the batch", t, func() {
		src := &fixedSource{values: []int{30, 60}}
		timer := timing.NewTimer(timing.WithSource(src))
		res := result("1", "", "3")

		Convey("When assigning durations", func() {
			err := timer.AssignDurations(context.Background(), res)

			Convey("Then the error is reported per item", func() {
				So(errors.Is(err, timing.ErrAssignment), ShouldBeTrue)
				var ae *timing.AssignmentError
				So(errors.As(err, &ae), ShouldBeTrue)
				So(ae.Group, ShouldEqual, "B")
			})

			Convey("And the rest of the batch is still timed", func() {
				So(res.Representatives[0].Timed, ShouldBeTrue)
				So(res.Representatives[0].Seconds, ShouldEqual, 30)
				So(res.Representatives[1].Timed, ShouldBeFalse)
				So(res.Representatives[2].Timed, ShouldBeTrue)
				So(res.Representatives[2].Seconds, ShouldEqual, 60)
			})
		})
	})

	Convey("Given a nil result", t, func() {
		So(timing.NewTimer().AssignDurations(context.Background(), nil), ShouldBeNil)
	})
}

func TestRank(t *testing.T) {
	Convey("Given timed representatives with a tie", t, func() {
		res := result("1", "2", "3", "4")
		for i, s := range []int{40, 12, 40, 7} {
			res.Representatives[i].Seconds = s
			res.Representatives[i].Timed = true
		}

		Convey("When ranking", func() {
			ranked := timing.Rank(res)

			Convey("Then durations are non-decreasing", func() {
				for i := 1; i < len(ranked); i++ {
					So(ranked[i].Seconds, ShouldBeGreaterThanOrEqualTo, ranked[i-1].Seconds)
				}
			})

			Convey("And ties keep group order", func() {
				So(ranked[0].Group, ShouldEqual, "D")
				So(ranked[1].Group, ShouldEqual, "B")
				So(ranked[2].Group, ShouldEqual, "A")
				So(ranked[3].Group, ShouldEqual, "C")
			})

			Convey("And the selection order is left alone", func() {
				So(res.Representatives[0].Group, ShouldEqual, "A")
			})
		})
	})

	Convey("Given a partially timed result", t, func() {
		res := result("1", "2")
		res.Representatives[1].Seconds = 10
		res.Representatives[1].Timed = true

		So(timing.Rank(res), ShouldHaveLength, 1)
	})

	Convey("Given a nil result", t, func() {
		So(timing.Rank(nil), ShouldBeNil)
	})
}

func TestVisualize(t *testing.T) {
	Convey("Given the default marker", t, func() {
		timer := timing.NewTimer()

		So(timer.Visualize(&selection.Representative{Seconds: 45}), ShouldEqual, "**** 45s")
		So(timer.Visualize(&selection.Representative{Seconds: 5}), ShouldEqual, " 5s")
		So(timer.Visualize(&selection.Representative{Seconds: 0}), ShouldEqual, " 0s")
		So(timer.Visualize(&selection.Representative{Seconds: 90}), ShouldEqual, "********* 90s")
		So(timer.Visualize(&selection.Representative{Seconds: 10}), ShouldEqual, "* 10s")
	})

	Convey("Given a custom marker", t, func() {
		timer := timing.NewTimer(timing.WithMarker("#"))
		So(timer.Visualize(&selection.Representative{Seconds: 23}), ShouldEqual, "## 23s")
	})

	Convey("Given a negative duration", t, func() {
		So(timing.Bar(-5, "*"), ShouldEqual, " -5s")
	})
}

func TestPosition(t *testing.T) {
	Convey("Given podium ranks", t, func() {
		So(timing.Position(0), ShouldEqual, "1st")
		So(timing.Position(1), ShouldEqual, "2nd")
		So(timing.Position(2), ShouldEqual, "3rd")
		So(timing.Position(3), ShouldEqual, "4th")
	})

	Convey("Given ranks past the podium", t, func() {
		So(timing.Position(4), ShouldEqual, "5th")
		So(timing.Position(10), ShouldEqual, "11th")
		So(timing.Position(11), ShouldEqual, "12th")
		So(timing.Position(12), ShouldEqual, "13th")
		So(timing.Position(20), ShouldEqual, "21st")
		So(timing.Position(21), ShouldEqual, "22nd")
		So(timing.Position(22), ShouldEqual, "23rd")
		So(timing.Position(110), ShouldEqual, "111th")
	})

	Convey("Given ranked representatives", t, func() {
		ranked := result("1", "2", "3", "4", "5").Representatives
		standings := timing.Standings(ranked)

		So(standings, ShouldHaveLength, 5)
		So(standings[0].Position, ShouldEqual, "1st")
		So(standings[4].Position, ShouldEqual, "5th")
		So(standings[4].Representative, ShouldEqual, ranked[4])
	})
}
