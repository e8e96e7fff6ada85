package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "podsmith")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors carry the custom names and labels", func() {
				manager.podsCreated.Add(2)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_namespace_test_subsystem_pods_created_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetValue(), ShouldEqual, "test")
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global recorders", t, func() {
		Convey("When recording a generation outcome", func() {
			before := valueOf(globalManager.podsCreated)
			RecordGeneration("preview")
			RecordGenerationLatency(1.5)
			RecordGenerationOutcome(3, 12, 2, 1)

			Convey("Then the counters move", func() {
				So(valueOf(globalManager.podsCreated)-before, ShouldEqual, 3)
				So(valueOf(globalManager.generations.WithLabelValues("preview")), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When updating the roster size", func() {
			UpdateRosterSize(17)

			Convey("Then the gauge reflects it", func() {
				So(valueOf(globalManager.rosterSize), ShouldEqual, 17)
			})
		})

		Convey("When recording HTTP, error and system metrics", func() {
			So(func() {
				RecordHTTPRequest("pods", "POST", "200")
				RecordHTTPRequestDuration("pods", "POST", "200", 4)
				RecordErrorByComponent("engine", "invalid_group")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("pods", "POST", "client_error")
				RecordErrorLatency("http", "client_error", 2)
				RecordInvalidGroups(1)
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})

		Convey("When gathering the custom registry", func() {
			RecordInvalidGroups(1)
			families, err := GetRegistry().Gather()

			Convey("Then only podsmith metrics are present", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
				for _, f := range families {
					So(strings.HasPrefix(f.GetName(), "podsmith_"), ShouldBeTrue)
				}
			})
		})
	})
}

func valueOf(c prometheus.Metric) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	if m.Counter != nil {
		return m.GetCounter().GetValue()
	}
	return m.GetGauge().GetValue()
}
