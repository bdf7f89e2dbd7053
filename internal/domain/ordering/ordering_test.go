package ordering_test

import (
	"testing"

	"github.com/okian/rapidrun/internal/domain/model"
	"github.com/okian/rapidrun/internal/domain/ordering"
	. "github.com/smartystreets/goconvey/convey"
)

type item struct {
	id  string
	grp string
	pos int
}

func TestSortBy(t *testing.T) {
	Convey("Given group labels", t, func() {
		labels := []string{"C", "A", "B", "A"}

		Convey("When sorted by identity", func() {
			sorted := ordering.SortBy(labels, ordering.Identity[string])

			Convey("Then they are ascending", func() {
				So(sorted, ShouldResemble, []string{"A", "A", "B", "C"})
			})

			Convey("And the input is left alone", func() {
				So(labels, ShouldResemble, []string{"C", "A", "B", "A"})
			})
		})
	})

	Convey("Given labelled items with equal keys", t, func() {
		items := []item{{grp: "C", pos: 0}, {grp: "A", pos: 1}, {grp: "B", pos: 2}, {grp: "A", pos: 3}}

		Convey("When sorted by group", func() {
			sorted := ordering.SortBy(items, func(it item) string { return it.grp })

			Convey("Then equal groups keep their input order", func() {
				So(sorted[0].pos, ShouldEqual, 1)
				So(sorted[1].pos, ShouldEqual, 3)
				So(sorted[2].grp, ShouldEqual, "B")
				So(sorted[3].grp, ShouldEqual, "C")
			})
		})
	})

	Convey("Given durations with ties", t, func() {
		durations := []item{{id: "a", pos: 40}, {id: "b", pos: 10}, {id: "c", pos: 40}, {id: "d", pos: 0}}

		Convey("When sorted by duration", func() {
			sorted := ordering.SortBy(durations, func(it item) int { return it.pos })

			Convey("Then the order is non-decreasing and stable", func() {
				ids := make([]string, len(sorted))
				for i, it := range sorted {
					ids[i] = it.id
				}
				So(ids, ShouldResemble, []string{"d", "b", "a", "c"})
			})
		})
	})
}

func TestSortFunc(t *testing.T) {
	Convey("Given records with numeric identifiers", t, func() {
		records := []item{{id: "10", grp: "B"}, {id: "2", grp: "A"}, {id: "3", grp: "A"}}

		Convey("When sorted by identifier", func() {
			sorted := ordering.SortFunc(records, func(a, b item) int { return model.CompareIDs(a.id, b.id) })

			Convey("Then identifiers are in numeric order", func() {
				So(sorted[0].id, ShouldEqual, "2")
				So(sorted[1].id, ShouldEqual, "3")
				So(sorted[2].id, ShouldEqual, "10")
			})

			Convey("And the output is a permutation of the input", func() {
				So(len(sorted), ShouldEqual, len(records))
				for _, r := range records {
					So(sorted, ShouldContain, r)
				}
			})
		})
	})

	Convey("Given an empty input", t, func() {
		sorted := ordering.SortFunc([]item{}, func(a, b item) int { return 0 })
		So(sorted, ShouldBeEmpty)
	})
}
