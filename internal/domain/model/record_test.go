package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/rapidrun/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRecordFields(t *testing.T) {
	convey.Convey("Given a record", t, func() {
		rec := model.Record{
			ID:      "7",
			Name:    "Thunder",
			Jockey:  "Ann",
			Age:     "4",
			Breed:   "Arabian",
			History: "1st, 2nd, 3rd",
			Group:   "A",
		}

		convey.Convey("When replacing its fields", func() {
			updated := rec.WithFields(model.Fields{Name: "Storm", Group: "B"})

			convey.Convey("Then the identifier is kept and the rest replaced", func() {
				convey.So(updated.ID, convey.ShouldEqual, "7")
				convey.So(updated.Name, convey.ShouldEqual, "Storm")
				convey.So(updated.Jockey, convey.ShouldEqual, "")
				convey.So(updated.Group, convey.ShouldEqual, "B")
			})

			convey.Convey("And the original is untouched", func() {
				convey.So(rec.Name, convey.ShouldEqual, "Thunder")
			})
		})

		convey.Convey("When reading its fields back", func() {
			convey.So(rec.WithFields(rec.Fields()), convey.ShouldResemble, rec)
		})
	})
}

func TestCompareIDs(t *testing.T) {
	convey.Convey("Given identifiers to compare", t, func() {
		convey.Convey("Numeric identifiers compare as numbers", func() {
			convey.So(model.CompareIDs("2", "10"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("10", "2"), convey.ShouldEqual, 1)
			convey.So(model.CompareIDs("03", "3"), convey.ShouldEqual, 0)
			convey.So(model.CompareIDs("-5", "2"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("-10", "-2"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("-0", "0"), convey.ShouldEqual, 0)
		})

		convey.Convey("Integers wider than int still compare by value", func() {
			convey.So(model.CompareIDs("100000000000000000000", "99999999999999999999"), convey.ShouldEqual, 1)
			convey.So(model.CompareIDs("99999999999999999999", "100000000000000000000"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("7", "100000000000000000000"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("-100000000000000000000", "1"), convey.ShouldEqual, -1)
		})

		convey.Convey("Numeric identifiers sort before non-numeric ones", func() {
			convey.So(model.CompareIDs("99", "abc"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("abc", "1"), convey.ShouldEqual, 1)
		})

		convey.Convey("Non-numeric identifiers compare as strings", func() {
			convey.So(model.CompareIDs("x1", "x2"), convey.ShouldEqual, -1)
			convey.So(model.CompareIDs("b", "a"), convey.ShouldEqual, 1)
		})
	})
}

func TestGroupSet(t *testing.T) {
	convey.Convey("Given the default group set", t, func() {
		groups := model.NewGroupSet()

		convey.Convey("Then it holds A to D", func() {
			convey.So(groups.Labels(), convey.ShouldResemble, []string{"A", "B", "C", "D"})
		})

		convey.Convey("When checking labels", func() {
			ok, valid := groups.Check("c")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(valid, convey.ShouldResemble, []string{"A", "B", "C", "D"})

			ok, _ = groups.Check("E")
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When validating labels", func() {
			label, err := groups.Validate(" b ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(label, convey.ShouldEqual, "B")

			_, err = groups.Validate("Z")
			convey.So(errors.Is(err, model.ErrInvalidGroup), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "A, B, C, D")
		})
	})

	convey.Convey("Given a custom group set with duplicates", t, func() {
		groups := model.NewGroupSet("x", "Y", "X", " ")

		convey.Convey("Then labels are normalized and deduplicated", func() {
			convey.So(groups.Labels(), convey.ShouldResemble, []string{"X", "Y"})
		})

		convey.Convey("And mutating the returned labels does not leak", func() {
			labels := groups.Labels()
			labels[0] = "Q"
			convey.So(groups.Contains("X"), convey.ShouldBeTrue)
		})
	})
}
