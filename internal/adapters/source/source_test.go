package source_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/drawscope/internal/adapters/source"
	"github.com/okian/drawscope/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateParser(t *testing.T) {
	Convey("Given the default date parser", t, func() {
		p := source.NewDateParser()

		Convey("Then every supported layout yields the same civil date", func() {
			for _, s := range []string{"2024-01-05", "05-01-2024", "05/01/2024", "2024/01/05", "2024-01-05T10:00:00+07:00", " 2024-01-05 "} {
				d, err := p.Parse(s)
				So(err, ShouldBeNil)
				So(d, ShouldEqual, civil(2024, time.January, 5))
			}
		})

		Convey("Then day and month may omit their leading zero", func() {
			for _, s := range []string{"5-1-2024", "2024-1-5", "5/1/2024", "2024/1/5", "05-1-2024", "2024-01-5"} {
				d, err := p.Parse(s)
				So(err, ShouldBeNil)
				So(d, ShouldEqual, civil(2024, time.January, 5))
			}
			d, err := p.Parse("25-12-2023")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, civil(2023, time.December, 25))
		})

		Convey("Then garbage is rejected", func() {
			for _, s := range []string{"", "yesterday", "2024-13-40", "32-1-2024", "5-1-24"} {
				_, err := p.Parse(s)
				So(errors.Is(err, source.ErrInvalidDate), ShouldBeTrue)
			}
		})
	})

	Convey("Given custom layouts", t, func() {
		p := source.NewDateParser("Jan 2 2006", " ")

		Convey("Then only those layouts are tried", func() {
			So(p.Layouts(), ShouldResemble, []string{"Jan 2 2006"})
			d, err := p.Parse("Mar 7 2023")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, civil(2023, time.March, 7))
			_, err = p.Parse("2023-03-07")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDecodeJSON(t *testing.T) {
	Convey("Given a dataset with result objects", t, func() {
		doc := `[
			{"date": "05-01-2024", "result": {"1st": "3105", "2nd": 1234, "5000": ["0012", 3310], "100": null, "200": true}},
			{"date": "06-01-2024", "result": {"1st": "7781"}}
		]`

		Convey("When decoding", func() {
			ds, err := source.DecodeJSON(strings.NewReader(doc))
			So(err, ShouldBeNil)

			Convey("Then slots keep document order and numbers keep their text", func() {
				So(len(ds.Records), ShouldEqual, 2)
				want := []model.Slot{
					{ID: "1st", Numbers: []string{"3105"}},
					{ID: "2nd", Numbers: []string{"1234"}},
					{ID: "5000", Numbers: []string{"0012", "3310"}},
				}
				So(cmp.Diff(want, ds.Records[0].Slots), ShouldBeEmpty)
				So(ds.Records[0].Label, ShouldEqual, "05-01-2024")
				So(ds.Records[0].Date, ShouldEqual, civil(2024, time.January, 5))
				So(ds.Skipped, ShouldEqual, 0)
			})
		})
	})

	Convey("Given each day shape", t, func() {
		cases := map[string]string{
			"prizes":  `[{"date": "2024-02-01", "prizes": {"first": "1234", "second": ["2345", "3456"]}}]`,
			"slots":   `[{"day": "2024-02-01", "slots": [{"slot": "first", "number": "1234"}, {"name": "second", "number": 2345}, {"slot": "second", "number": "3456"}]}]`,
			"results": `[{"d": "2024-02-01", "results": {"first": 1234, "second": ["2345", "3456"]}}]`,
			"flat":    `[{"date": "2024-02-01", "first": "1234", "second": ["2345", "3456"]}]`,
			"keyed":   `{"2024-02-01": {"first": "1234", "second": ["2345", "3456"]}}`,
		}
		want := []model.Slot{
			{ID: "first", Numbers: []string{"1234"}},
			{ID: "second", Numbers: []string{"2345", "3456"}},
		}

		Convey("Then all decode to the same record", func() {
			for name, doc := range cases {
				ds, err := source.DecodeJSON(strings.NewReader(doc))
				So(err, ShouldBeNil)
				So(len(ds.Records), ShouldEqual, 1)
				So(cmp.Diff(want, ds.Records[0].Slots), ShouldBeEmpty)
				So(ds.Records[0].Date, ShouldEqual, civil(2024, time.February, 1))
				if name == "keyed" {
					So(ds.Records[0].Label, ShouldEqual, "2024-02-01")
				}
			}
		})
	})

	Convey("Given days with unusable dates", t, func() {
		doc := `[{"date": "someday", "result": {"1st": "1"}}, {"result": {"1st": "2"}}, 42, {"date": "2024-01-01", "result": {"1st": "3"}}]`

		Convey("Then they are skipped and counted", func() {
			ds, err := source.DecodeJSON(strings.NewReader(doc))
			So(err, ShouldBeNil)
			So(len(ds.Records), ShouldEqual, 1)
			So(ds.Skipped, ShouldEqual, 3)
			So(ds.Invalid, ShouldResemble, []string{"someday", ""})
		})
	})

	Convey("Given documents that are not datasets", t, func() {
		Convey("Then a scalar is an unsupported shape", func() {
			_, err := source.DecodeJSON(strings.NewReader(`42`))
			So(errors.Is(err, source.ErrUnsupportedShape), ShouldBeTrue)
		})

		Convey("Then broken JSON fails", func() {
			_, err := source.DecodeJSON(strings.NewReader(`[{"date": `))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestWriteJSON(t *testing.T) {
	Convey("Given records with ordered slots", t, func() {
		records := []model.Record{{
			Date:  civil(2024, time.March, 9),
			Label: "2024-03-09",
			Slots: []model.Slot{{ID: "1st", Numbers: []string{"0417"}}, {ID: "500", Numbers: []string{"1200", "0031"}}},
		}}

		Convey("When written with a day-first layout", func() {
			var buf bytes.Buffer
			So(source.WriteJSON(&buf, records, "02-01-2006"), ShouldBeNil)

			Convey("Then the document uses the result shape", func() {
				So(buf.String(), ShouldContainSubstring, `{"date": "09-03-2024", "result": {"1st": "0417", "500": ["1200","0031"]}}`)
			})

			Convey("And decoding it restores the slots in order", func() {
				ds, err := source.DecodeJSON(&buf)
				So(err, ShouldBeNil)
				So(cmp.Diff(records[0].Slots, ds.Records[0].Slots), ShouldBeEmpty)
				So(ds.Records[0].Date, ShouldEqual, records[0].Date)
			})
		})

		Convey("When there are no records", func() {
			var buf bytes.Buffer
			So(source.WriteJSON(&buf, nil, ""), ShouldBeNil)
			So(buf.String(), ShouldEqual, "[]\n")
		})
	})
}

func TestFileSource(t *testing.T) {
	Convey("Given a JSON file on disk", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")
		So(os.WriteFile(path, []byte(`[{"date": "2024/05/01", "result": {"1st": "5555"}}]`), 0o600), ShouldBeNil)

		Convey("Then it loads", func() {
			src := source.NewFileSource(path)
			So(src.Name(), ShouldEqual, "json:"+path)
			ds, err := src.Load(context.Background())
			So(err, ShouldBeNil)
			So(len(ds.Records), ShouldEqual, 1)
		})

		Convey("Then custom layouts restrict what parses", func() {
			ds, err := source.NewFileSource(path, source.WithDateLayouts("2006-01-02")).Load(context.Background())
			So(err, ShouldBeNil)
			So(ds.Records, ShouldBeEmpty)
			So(ds.Skipped, ShouldEqual, 1)
		})

		Convey("Then a missing file reports ErrLoad", func() {
			_, err := source.NewFileSource(filepath.Join(dir, "nope.json")).Load(context.Background())
			So(errors.Is(err, source.ErrLoad), ShouldBeTrue)
		})

		Convey("Then a cancelled context reports ErrLoad", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := source.NewFileSource(path).Load(ctx)
			So(errors.Is(err, source.ErrLoad), ShouldBeTrue)
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestSQLiteSource(t *testing.T) {
	Convey("Given a database written from records", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "draws.db")
		records := []model.Record{
			{Date: civil(2024, time.January, 1), Label: "2024-01-01", Slots: []model.Slot{{ID: "1st", Numbers: []string{"0102"}}, {ID: "2nd", Numbers: []string{"4410", "7781"}}}},
			{Date: civil(2024, time.January, 5), Label: "2024-01-05", Slots: []model.Slot{{ID: "1st", Numbers: []string{"3105"}}}},
		}
		So(source.WriteSQLite(ctx, path, "", records, "02-01-2006"), ShouldBeNil)

		Convey("When loading it back", func() {
			src := source.NewSQLiteSource(path)
			ds, err := src.Load(ctx)
			So(err, ShouldBeNil)

			Convey("Then days, slots and numbers keep their order", func() {
				So(len(ds.Records), ShouldEqual, 2)
				So(ds.Records[0].Label, ShouldEqual, "01-01-2024")
				So(ds.Records[0].Date, ShouldEqual, records[0].Date)
				So(cmp.Diff(records[0].Slots, ds.Records[0].Slots), ShouldBeEmpty)
				So(cmp.Diff(records[1].Slots, ds.Records[1].Slots), ShouldBeEmpty)
				So(src.Name(), ShouldEqual, "sqlite:"+path+"#draws")
			})
		})

		Convey("When reading a table that does not exist", func() {
			_, err := source.NewSQLiteSource(path, source.WithTable("other")).Load(ctx)

			Convey("Then ErrLoad is returned", func() {
				So(errors.Is(err, source.ErrLoad), ShouldBeTrue)
			})
		})

		Convey("When the table name is not an identifier", func() {
			_, err := source.NewSQLiteSource(path, source.WithTable("draws; DROP TABLE draws")).Load(ctx)
			werr := source.WriteSQLite(ctx, path, "x y", records, "")

			Convey("Then it is rejected before touching the database", func() {
				So(errors.Is(err, source.ErrInvalidTable), ShouldBeTrue)
				So(errors.Is(werr, source.ErrInvalidTable), ShouldBeTrue)
			})
		})
	})
}
