package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/drawscope/internal/adapters/http/api"
	"github.com/okian/drawscope/internal/domain/analysis"
	"github.com/okian/drawscope/internal/domain/match"
	"github.com/okian/drawscope/internal/domain/types"
	"github.com/okian/drawscope/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records the last analysis request and answers with a
// fixed result or error.
type mockDependencies struct {
	ready      bool
	err        error
	lastQuery  string
	lastOpts   analysis.Options
	lastReqID  string
	calls      int
	stats      types.Stats
	groupsList []types.Group
}

func (m *mockDependencies) Analyze(ctx context.Context, query string, opts analysis.Options) (types.Analysis, error) {
	m.calls++
	m.lastQuery = query
	m.lastOpts = opts
	m.lastReqID, _ = logger.RequestID(ctx)
	if m.err != nil {
		return types.Analysis{}, m.err
	}
	return types.Analysis{
		Query:      query,
		Mode:       "contains",
		WindowDays: 14,
		LatestDate: "2024-01-05",
		Summary:    types.Summary{TotalMatches: 1, UniqueDates: 1, GroupsHit: 1, LastSeen: "2024-01-05"},
		Groups: []types.GroupPrediction{{
			Group:            types.Group{Key: "pattern2", ID: "pattern2", Digits: []int{0, 4, 5}},
			Occurrences:      1,
			Strategy:         types.StrategyFrequency,
			PredictedDigits:  []int{5, 0, 4},
			PredictedNumbers: []string{"3105", "3100", "3104"},
		}},
		Matches: []types.Match{{Date: "2024-01-05", Label: "05-01-2024", Slot: "1st", Number: "3105", LastDigit: 5}},
	}, nil
}

func (m *mockDependencies) Groups() []types.Group { return m.groupsList }

func (m *mockDependencies) Ready() bool { return m.ready }

func (m *mockDependencies) GetStats() types.Stats { return m.stats }

func newMux(deps *mockDependencies, opts ...api.ServerOption) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func get(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{
			ready:      true,
			stats:      types.Stats{State: "ready", Records: 2, LatestDate: "2024-01-05"},
			groupsList: []types.Group{{Key: "pattern1", ID: "pattern1", Digits: []int{0, 1}}},
		}
		mux := newMux(deps)

		Convey("Then health endpoint serves metrics", func() {
			w := get(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then stats endpoint serves the service stats", func() {
			w := get(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var st types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st, ShouldResemble, deps.stats)
		})

		Convey("Then groups endpoint lists the table", func() {
			w := get(mux, "/groups")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"key":"pattern1"`)
		})

		Convey("Then readyz reports ready", func() {
			w := get(mux, "/readyz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ready"`)
		})

		Convey("Then every response carries a request id", func() {
			w := get(mux, "/groups")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
		})

		Convey("Then unknown routes are not found", func() {
			w := get(mux, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then non-GET methods are not found", func() {
			req := httptest.NewRequest(http.MethodPost, "/analyze?q=310", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(deps.calls, ShouldEqual, 0)
		})
	})

	Convey("Given a server whose data is not loaded", t, func() {
		deps := &mockDependencies{stats: types.Stats{State: "unavailable", LastError: "load: missing file"}}
		mux := newMux(deps)

		Convey("Then readyz answers 503 with the load error", func() {
			w := get(mux, "/readyz")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			So(w.Body.String(), ShouldContainSubstring, `"status":"not_ready"`)
			So(w.Body.String(), ShouldContainSubstring, "missing file")
		})
	})
}

func TestAnalyzeHandler(t *testing.T) {
	Convey("Given an analyze endpoint", t, func() {
		deps := &mockDependencies{ready: true}
		mux := newMux(deps, api.WithMaxTop(6))

		Convey("When all parameters are given", func() {
			w := get(mux, "/analyze?q=310&mode=prefix&window=7&top=3&all=true")

			Convey("Then they reach the service", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery, ShouldEqual, "310")
				So(deps.lastOpts, ShouldResemble, analysis.Options{Mode: match.Prefix, WindowDays: 7, TopN: 3, AllGroups: true})
			})

			Convey("Then the result is JSON", func() {
				var out types.Analysis
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.Groups[0].PredictedNumbers, ShouldResemble, []string{"3105", "3100", "3104"})
			})

			Convey("Then the request id reaches the service context", func() {
				So(deps.lastReqID, ShouldEqual, w.Header().Get(api.RequestIDHeader))
			})
		})

		Convey("When only q is given", func() {
			w := get(mux, "/analyze?q=10")

			Convey("Then options stay zero for the service defaults", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOpts, ShouldResemble, analysis.Options{})
			})
		})

		Convey("When the caller supplies a request id", func() {
			req := httptest.NewRequest(http.MethodGet, "/analyze?q=1", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it is echoed", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
				So(deps.lastReqID, ShouldEqual, "abc-123")
			})
		})

		cases := []struct {
			target string
			code   string
		}{
			{"/analyze", "invalid_query"},
			{"/analyze?q=310&mode=suffix", "invalid_mode"},
			{"/analyze?q=310&window=0", "bad_request"},
			{"/analyze?q=310&window=x", "bad_request"},
			{"/analyze?q=310&top=7", "bad_request"},
			{"/analyze?q=310&top=-1", "bad_request"},
			{"/analyze?q=310&all=maybe", "bad_request"},
		}
		for _, tc := range cases {
			Convey(fmt.Sprintf("When requesting %s", tc.target), func() {
				w := get(mux, tc.target)

				Convey("Then it is rejected before the service is called", func() {
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(decodeError(w)["code"], ShouldEqual, tc.code)
					So(deps.calls, ShouldEqual, 0)
				})
			})
		}
	})

	Convey("Given a service that returns errors", t, func() {
		deps := &mockDependencies{}
		mux := newMux(deps)

		errs := []struct {
			err    error
			status int
			code   string
		}{
			{fmt.Errorf("analyze: %w", analysis.ErrInvalidQuery), http.StatusBadRequest, "invalid_query"},
			{fmt.Errorf("analyze: %w", analysis.ErrInvalidMode), http.StatusBadRequest, "invalid_mode"},
			{analysis.ErrNoData, http.StatusServiceUnavailable, "no_data"},
			{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		}
		for _, tc := range errs {
			Convey(fmt.Sprintf("When the service fails with %v", tc.err), func() {
				deps.err = tc.err
				w := get(mux, "/analyze?q=31a")

				Convey("Then the error is classified", func() {
					So(w.Code, ShouldEqual, tc.status)
					So(decodeError(w)["code"], ShouldEqual, tc.code)
				})
			})
		}
	})
}

func TestErrors(t *testing.T) {
	Convey("Given an API error with kind and cause", t, func() {
		cause := errors.New("disk gone")
		err := api.WrapKind("api.analyze", api.ErrNotReady, cause)

		Convey("Then both match with errors.Is", func() {
			So(errors.Is(err, api.ErrNotReady), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.analyze: data not loaded: disk gone")
		})
	})

	Convey("Given the other constructors", t, func() {
		So(api.NewKind("op", api.ErrBadRequest).Error(), ShouldEqual, "op: bad request")
		So(api.Wrap("op", nil), ShouldBeNil)
		So(errors.Is(api.Wrap("op", api.ErrInternal), api.ErrInternal), ShouldBeTrue)
	})
}
