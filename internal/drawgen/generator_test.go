package drawgen_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/drawgen"
	"github.com/okian/drawscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testConfig() drawgen.Config {
	cfg := drawgen.DefaultConfig()
	cfg.Days = 30
	cfg.Seed = 42
	cfg.End = time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)
	return cfg
}

func TestGenerate(t *testing.T) {
	Convey("Given a seeded configuration", t, func() {
		ctx := context.Background()
		cfg := testConfig()

		Convey("When generating", func() {
			records, err := drawgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then days are consecutive, oldest first, ending at End", func() {
				So(len(records), ShouldEqual, 30)
				So(records[0].Label, ShouldEqual, "02-03-2024")
				So(records[29].Label, ShouldEqual, "31-03-2024")
				for i := 1; i < len(records); i++ {
					So(records[i].Date.Sub(records[i-1].Date), ShouldEqual, 24*time.Hour)
				}
			})

			Convey("Then every day carries the nine prize slots", func() {
				r := records[0]
				So(len(r.Slots), ShouldEqual, 9)
				So(r.Slots[0].ID, ShouldEqual, "1st")
				So(r.Slots[8].ID, ShouldEqual, "100")
				So(r.NumberCount(), ShouldEqual, 93)
			})

			Convey("Then numbers are digit strings of at most four digits", func() {
				for _, r := range records {
					for _, s := range r.Slots {
						for _, n := range s.Numbers {
							So(len(n), ShouldBeBetweenOrEqual, 1, 4)
							So(strings.Trim(n, "0123456789"), ShouldBeEmpty)
						}
					}
				}
			})
		})

		Convey("When generating twice with different worker counts", func() {
			a, err := drawgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)
			cfg.Workers = 1
			b, err := drawgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then the output is identical", func() {
				So(cmp.Diff(a, b), ShouldBeEmpty)
			})
		})

		Convey("When the seed changes", func() {
			a, _ := drawgen.Generate(ctx, cfg)
			cfg.Seed++
			b, _ := drawgen.Generate(ctx, cfg)

			Convey("Then the numbers change", func() {
				So(cmp.Diff(a, b), ShouldNotBeEmpty)
			})
		})

		Convey("When zeros are kept", func() {
			cfg.TrimZeros = false
			records, err := drawgen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then every number has four digits", func() {
				for _, s := range records[0].Slots {
					for _, n := range s.Numbers {
						So(len(n), ShouldEqual, 4)
					}
				}
			})
		})
	})

	Convey("Given invalid configurations", t, func() {
		ctx := context.Background()

		cfg := testConfig()
		cfg.Days = 0
		_, err := drawgen.Generate(ctx, cfg)
		So(errors.Is(err, drawgen.ErrInvalidDays), ShouldBeTrue)

		cfg = testConfig()
		cfg.Slots = []drawgen.SlotSpec{{ID: "1st", Count: 1}, {ID: "1st", Count: 2}}
		_, err = drawgen.Generate(ctx, cfg)
		So(errors.Is(err, drawgen.ErrInvalidSlots), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := drawgen.Generate(ctx, testConfig())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestWrite(t *testing.T) {
	Convey("Given a generated dataset written as JSON", t, func() {
		var buf bytes.Buffer
		n, err := drawgen.Write(context.Background(), &buf, testConfig())
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 30)

		Convey("Then the JSON source reads it back unchanged", func() {
			ds, err := source.DecodeJSON(&buf)
			So(err, ShouldBeNil)
			So(ds.Skipped, ShouldEqual, 0)
			So(len(ds.Records), ShouldEqual, 30)

			want, _ := drawgen.Generate(context.Background(), testConfig())
			So(ds.Records[5].Label, ShouldEqual, want[5].Label)
			So(ds.Records[5].Date.Equal(want[5].Date), ShouldBeTrue)
			So(cmp.Diff(want[5].Slots, ds.Records[5].Slots), ShouldBeEmpty)
		})
	})
}
