package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with defaults", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pre_"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.loadErrors.Inc()

			Convey("Then names and labels follow the options", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_pre_load_errors_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then registering again panics", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording analyses", func() {
			before := testutil.ToFloat64(globalManager.analyses.WithLabelValues("prefix", "ok"))
			RecordAnalysis("prefix", "ok")
			RecordAnalysis("prefix", "ok")
			RecordAnalysisLatency(1.5)
			RecordAnalysisMatches(12)
			RecordPrediction("sequential")

			Convey("Then the counters move", func() {
				after := testutil.ToFloat64(globalManager.analyses.WithLabelValues("prefix", "ok"))
				So(after-before, ShouldEqual, 2)
				So(testutil.ToFloat64(globalManager.predictions.WithLabelValues("sequential")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When publishing a dataset", func() {
			latest := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
			UpdateDataset(120, 3, 1, latest)
			RecordLoad("json", 4.2)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(globalManager.datasetRecords), ShouldEqual, 120)
				So(testutil.ToFloat64(globalManager.datasetSkipped), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.datasetDuplicates), ShouldEqual, 1)
				So(testutil.ToFloat64(globalManager.datasetLatestUnix), ShouldEqual, float64(latest.Unix()))
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			Convey("Then nothing panics", func() {
				So(func() {
					RecordHTTPRequest("/analyze", "GET", "200")
					RecordHTTPRequestDuration("/analyze", "GET", "200", 3.1)
					RecordErrorByComponent("source", "load")
					RecordErrorByEndpoint("/analyze", "GET", "invalid_query")
					RecordLoadError()
				}, ShouldNotPanic)
			})
		})

		Convey("When collecting system metrics", func() {
			CollectSystemMetrics()

			Convey("Then goroutines and memory are reported", func() {
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the collector runs until cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			StartSystemCollector(ctx)
			cancel()

			Convey("Then it stops without panicking", func() {
				So(ctx.Err(), ShouldNotBeNil)
			})
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordAnalysis("contains", "ok")

		Convey("Then it exposes drawscope metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			var names []string
			for _, f := range families {
				names = append(names, f.GetName())
			}
			So(strings.Join(names, ","), ShouldContainSubstring, "drawscope_engine_analyses_total")
		})

		Convey("Then memory converts to mebibytes", func() {
			So(MemoryMB(3<<20), ShouldEqual, 3)
		})
	})
}
