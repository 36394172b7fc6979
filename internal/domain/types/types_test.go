package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/model"
	"github.com/okian/drawscope/internal/domain/pattern"
	"github.com/okian/drawscope/internal/domain/scoring"
	types "github.com/okian/drawscope/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromResult(t *testing.T) {
	Convey("Given an analysis result", t, func() {
		day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
		res := analysis.Result{
			Query:      "310",
			Mode:       "contains",
			WindowDays: 14,
			LatestDate: day,
			TargetDate: day.AddDate(0, 0, 1),
			Matches: []analysis.Match{
				{
					Occurrence:      model.Occurrence{Date: day, Label: "05-01-2024", Slot: "1st", Number: "3105", Position: 0, LastDigit: 5, RecordIndex: 7},
					Groups:          []string{"pattern2"},
					CombinedDigits:  []int{0, 4, 5},
					CombinedNumbers: []string{"3100", "3104", "3105"},
				},
			},
			Groups: []analysis.GroupPrediction{
				{
					Group:             pattern.Group{ID: "pattern2", Digits: []int{0, 4, 5}},
					Occurrences:       1,
					Continuity:        scoring.Continuity{Direction: scoring.Forward, Score: 1.0 / 3.0, LastDigit: 5, HasLast: true, Points: 1},
					WeightedFrequency: []scoring.Ranked{{Digit: 5, Weight: 1, Observed: true}, {Digit: 0, Weight: 0.05}},
					PredictedDigits:   []int{5, 0, 4},
					PredictedNumbers:  []string{"3105", "3100", "3104"},
					Assessment:        scoring.Assessment{Level: scoring.Medium, Reasoning: "Group pattern2 [0,4,5] appeared 1 time."},
				},
				{
					Group: pattern.Group{Digits: []int{2, 6, 8}},
				},
			},
			Summary: analysis.Summary{TotalMatches: 1, UniqueDates: 1, GroupsHit: 1, LastSeen: day},
		}

		Convey("When converting to the wire form", func() {
			out := types.FromResult(res)

			Convey("Then dates use the canonical layout", func() {
				So(out.LatestDate, ShouldEqual, "2024-01-05")
				So(out.Summary.LastSeen, ShouldEqual, "2024-01-05")
				So(out.Matches[0].Date, ShouldEqual, "2024-01-05")
				So(out.Matches[0].Label, ShouldEqual, "05-01-2024")
				So(out.TargetDate, ShouldEqual, "2024-01-06")
			})

			Convey("Then matches carry their record index, groups and combined prediction", func() {
				m := out.Matches[0]
				So(m.RecordIndex, ShouldEqual, 7)
				So(m.Groups, ShouldResemble, []string{"pattern2"})
				So(m.CombinedNumbers, ShouldResemble, []string{"3100", "3104", "3105"})
			})

			Convey("Then groups carry confidence and reasoning", func() {
				So(out.Groups[0].Confidence, ShouldEqual, "medium")
				So(out.Groups[0].Reasoning, ShouldStartWith, "Group pattern2")
			})

			Convey("Then groups carry key, strategy and rounded scores", func() {
				So(out.Groups[0].Key, ShouldEqual, "pattern2")
				So(out.Groups[0].Strategy, ShouldEqual, types.StrategyFrequency)
				So(out.Groups[0].Continuity.Score, ShouldEqual, 0.333333)
				So(*out.Groups[0].Continuity.LastDigit, ShouldEqual, 5)
				So(out.Groups[1].Key, ShouldEqual, "2,6,8")
				So(out.Groups[1].Strategy, ShouldEqual, types.StrategyFallback)
				So(out.Groups[1].Continuity.Direction, ShouldEqual, "none")
				So(out.Groups[1].Continuity.LastDigit, ShouldBeNil)
			})

			Convey("Then the JSON uses snake case keys", func() {
				b, err := json.Marshal(out)
				So(err, ShouldBeNil)
				s := string(b)
				So(s, ShouldContainSubstring, `"window_days":14`)
				So(s, ShouldContainSubstring, `"predicted_numbers":["3105","3100","3104"]`)
				So(s, ShouldContainSubstring, `"key":"pattern2","id":"pattern2","digits":[0,4,5]`)
				So(s, ShouldContainSubstring, `"last_digit":5`)
				So(s, ShouldContainSubstring, `"target_date":"2024-01-06"`)
				So(s, ShouldContainSubstring, `"record_index":7`)
			})
		})
	})

	Convey("Given an empty result", t, func() {
		out := types.FromResult(analysis.Result{Query: "999"})

		Convey("Then lists are empty, not null", func() {
			b, err := json.Marshal(out)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"groups":[]`)
			So(string(b), ShouldContainSubstring, `"matches":[]`)
			So(out.Summary.LastSeen, ShouldEqual, "")
		})
	})
}

func TestFromTable(t *testing.T) {
	Convey("Given the default table", t, func() {
		groups := types.FromTable(pattern.Default())

		Convey("Then every group is listed in order", func() {
			So(len(groups), ShouldEqual, 9)
			So(groups[0], ShouldResemble, types.Group{Key: "pattern1", ID: "pattern1", Digits: []int{0, 1}})
			So(groups[8].Digits, ShouldResemble, []int{3, 6})
		})
	})

	Convey("Given a sequential prediction", t, func() {
		g := analysis.GroupPrediction{Occurrences: 3, Sequential: true}

		Convey("Then its strategy is sequential", func() {
			So(types.Strategy(g), ShouldEqual, types.StrategySequential)
		})
	})
}
