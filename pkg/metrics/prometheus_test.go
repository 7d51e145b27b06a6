package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	"github.com/mindora/acumen/pkg/metrics"
)

func gatherNames(t *testing.T) map[string]bool {
	t.Helper()
	families, err := metrics.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	return names
}

func TestMetrics_Global(t *testing.T) {
	convey.Convey("Given the global metrics manager", t, func() {
		convey.Convey("When recording across the pipeline", func() {
			metrics.RecordExtraction("question")
			metrics.RecordVectorCacheHit()
			metrics.RecordVectorCacheMiss()
			metrics.RecordTraining("difficulty")
			metrics.RecordTrainingLatency("difficulty", 12.5)
			metrics.UpdateTrainingExamples("difficulty", 20)
			metrics.RecordPrediction("score")
			metrics.RecordAggregation()
			metrics.RecordBatchItem("succeeded")
			metrics.RecordBatchDuration(42)

			convey.Convey("Then the registry exposes the recorded families", func() {
				names := gatherNames(t)
				convey.So(names["acumen_inference_extractions_total"], convey.ShouldBeTrue)
				convey.So(names["acumen_inference_vector_cache_hits_total"], convey.ShouldBeTrue)
				convey.So(names["acumen_inference_trainings_total"], convey.ShouldBeTrue)
				convey.So(names["acumen_inference_predictions_total"], convey.ShouldBeTrue)
				convey.So(names["acumen_inference_aggregations_total"], convey.ShouldBeTrue)
				convey.So(names["acumen_inference_batch_items_total"], convey.ShouldBeTrue)
			})
		})
	})
}

func TestManager_Options(t *testing.T) {
	convey.Convey("Given a manager with a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithNamespace("testns"),
			metrics.WithSubsystem("core"),
			metrics.WithPrometheusRegistry(registry),
		)
		convey.So(m, convey.ShouldNotBeNil)

		convey.Convey("Then its families register under the custom namespace", func() {
			families, err := registry.Gather()
			convey.So(err, convey.ShouldBeNil)
			// Gauges with no observations may be absent until first use, but
			// registration itself must not have panicked or collided.
			for _, f := range families {
				convey.So(f.GetName(), convey.ShouldStartWith, "testns_core_")
			}
		})
	})
}
