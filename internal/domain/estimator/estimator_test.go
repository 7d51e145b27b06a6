package estimator_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/mindora/acumen/internal/domain/estimator"
)

// twoBlobs returns linearly separable examples around two centers.
func twoBlobs(n int) []estimator.Example {
	rng := rand.New(rand.NewSource(1))
	out := make([]estimator.Example, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, estimator.Example{
			Features: []float64{rng.Float64()*0.5 - 3, rng.Float64()*0.5 - 3},
			Label:    "easy",
		})
		out = append(out, estimator.Example{
			Features: []float64{rng.Float64()*0.5 + 3, rng.Float64()*0.5 + 3},
			Label:    "hard",
		})
	}
	return out
}

func TestSplit(t *testing.T) {
	convey.Convey("Given a set of examples", t, func() {
		examples := make([]estimator.Example, 10)
		for i := range examples {
			examples[i] = estimator.Example{Features: []float64{float64(i)}}
		}

		convey.Convey("When splitting", func() {
			train, eval := estimator.Split(examples)

			convey.Convey("Then the partition sizes follow the eval fraction", func() {
				convey.So(len(train), convey.ShouldEqual, 8)
				convey.So(len(eval), convey.ShouldEqual, 2)
			})

			convey.Convey("Then the split is reproducible", func() {
				train2, eval2 := estimator.Split(examples)
				convey.So(train2, convey.ShouldResemble, train)
				convey.So(eval2, convey.ShouldResemble, eval)
			})
		})

		convey.Convey("When splitting two examples", func() {
			train, eval := estimator.Split(examples[:2])

			convey.Convey("Then the eval partition still holds one example", func() {
				convey.So(len(train), convey.ShouldEqual, 1)
				convey.So(len(eval), convey.ShouldEqual, 1)
			})
		})
	})
}

func TestScaler(t *testing.T) {
	convey.Convey("Given rows with a constant column", t, func() {
		rows := [][]float64{{1, 5}, {3, 5}, {5, 5}}
		scaler := estimator.FitScaler(rows)

		convey.Convey("Then the varying column standardizes to zero mean", func() {
			transformed := scaler.TransformAll(rows)
			sum := 0.0
			for _, row := range transformed {
				sum += row[0]
			}
			convey.So(sum, convey.ShouldAlmostEqual, 0)
		})

		convey.Convey("Then the constant column transforms without dividing by zero", func() {
			out := scaler.Transform([]float64{3, 5})
			convey.So(out[1], convey.ShouldEqual, 0)
		})
	})
}

func TestSoftmaxClassifier(t *testing.T) {
	convey.Convey("Given linearly separable training data", t, func() {
		examples := twoBlobs(30)
		scaler := estimator.FitScaler(estimator.Features(examples))
		rows := scaler.TransformAll(estimator.Features(examples))
		labels := make([]string, len(examples))
		for i, ex := range examples {
			labels[i] = ex.Label
		}

		clf, err := estimator.FitClassifier(rows, labels)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then it classifies both blobs correctly", func() {
			label, _ := clf.Predict(scaler.Transform([]float64{-3, -3}))
			convey.So(label, convey.ShouldEqual, "easy")
			label, _ = clf.Predict(scaler.Transform([]float64{3, 3}))
			convey.So(label, convey.ShouldEqual, "hard")
		})

		convey.Convey("Then the class probabilities sum to one", func() {
			_, probs := clf.Predict(scaler.Transform([]float64{0.5, -0.2}))
			sum := 0.0
			for _, p := range probs {
				convey.So(p, convey.ShouldBeGreaterThanOrEqualTo, 0)
				sum += p
			}
			convey.So(sum, convey.ShouldAlmostEqual, 1)
		})

		convey.Convey("Then refitting the same data yields identical weights", func() {
			again, err := estimator.FitClassifier(rows, labels)
			convey.So(err, convey.ShouldBeNil)
			convey.So(again, convey.ShouldResemble, clf)
		})
	})
}

func TestRidgeRegressor(t *testing.T) {
	convey.Convey("Given targets that depend linearly on one feature", t, func() {
		rng := rand.New(rand.NewSource(2))
		rows := make([][]float64, 60)
		targets := make([]float64, 60)
		for i := range rows {
			x := rng.Float64()*2 - 1
			rows[i] = []float64{x}
			targets[i] = 0.5 + 0.4*x
		}

		reg, err := estimator.FitRegressor(rows, targets)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then predictions track the underlying line", func() {
			for _, x := range []float64{-0.8, 0, 0.8} {
				got := reg.Predict([]float64{x})
				want := 0.5 + 0.4*x
				convey.So(got, convey.ShouldAlmostEqual, want, 0.1)
			}
		})

		convey.Convey("Then predictions clamp to the unit interval", func() {
			convey.So(reg.Predict([]float64{100}), convey.ShouldBeLessThanOrEqualTo, 1)
			convey.So(reg.Predict([]float64{-100}), convey.ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}

func TestKMeans(t *testing.T) {
	convey.Convey("Given two well separated clusters", t, func() {
		rng := rand.New(rand.NewSource(3))
		rows := make([][]float64, 0, 40)
		for i := 0; i < 20; i++ {
			rows = append(rows, []float64{rng.Float64()*0.2 - 5, rng.Float64() * 0.2})
			rows = append(rows, []float64{rng.Float64()*0.2 + 5, rng.Float64() * 0.2})
		}

		km, err := estimator.FitKMeans(rows, 2)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then points from the same blob share a cluster", func() {
			a, _, _ := km.Assign([]float64{-5, 0})
			b, _, _ := km.Assign([]float64{-4.9, 0.1})
			c, _, _ := km.Assign([]float64{5, 0})
			convey.So(a, convey.ShouldEqual, b)
			convey.So(a, convey.ShouldNotEqual, c)
		})

		convey.Convey("Then distances cover every centroid", func() {
			_, nearest, all := km.Assign([]float64{-5, 0})
			convey.So(len(all), convey.ShouldEqual, 2)
			convey.So(nearest, convey.ShouldBeLessThanOrEqualTo, all[0])
			convey.So(nearest, convey.ShouldBeLessThanOrEqualTo, all[1])
		})

		convey.Convey("Then confidence decays with distance", func() {
			convey.So(estimator.Confidence(0), convey.ShouldEqual, 1)
			convey.So(estimator.Confidence(1), convey.ShouldAlmostEqual, 0.5)
			convey.So(estimator.Confidence(9), convey.ShouldAlmostEqual, 0.1)
		})

		convey.Convey("Then refitting the same rows yields identical centroids", func() {
			again, err := estimator.FitKMeans(rows, 2)
			convey.So(err, convey.ShouldBeNil)
			convey.So(again, convey.ShouldResemble, km)
		})
	})

	convey.Convey("Given fewer rows than clusters", t, func() {
		_, err := estimator.FitKMeans([][]float64{{1}, {2}}, 5)

		convey.Convey("Then fitting fails", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestMetrics(t *testing.T) {
	convey.Convey("Given predictions and truths", t, func() {
		convey.Convey("Then accuracy counts exact matches", func() {
			got := estimator.Accuracy(
				[]string{"easy", "hard", "easy", "medium"},
				[]string{"easy", "hard", "hard", "medium"},
			)
			convey.So(got, convey.ShouldAlmostEqual, 0.75)
		})

		convey.Convey("Then a perfect classifier scores full macro PRF", func() {
			p, r, f1 := estimator.MacroPRF(
				[]string{"easy", "hard", "medium"},
				[]string{"easy", "hard", "medium"},
			)
			convey.So(p, convey.ShouldAlmostEqual, 1)
			convey.So(r, convey.ShouldAlmostEqual, 1)
			convey.So(f1, convey.ShouldAlmostEqual, 1)
		})

		convey.Convey("Then a perfect regressor scores R squared of one", func() {
			preds := []float64{0.1, 0.5, 0.9}
			convey.So(estimator.RSquared(preds, preds), convey.ShouldAlmostEqual, 1)
			convey.So(estimator.MeanAbsoluteError(preds, preds), convey.ShouldEqual, 0)
		})

		convey.Convey("Then predicting the mean scores R squared of zero", func() {
			truth := []float64{0.2, 0.4, 0.6}
			preds := []float64{0.4, 0.4, 0.4}
			convey.So(estimator.RSquared(preds, truth), convey.ShouldAlmostEqual, 0)
		})
	})
}

func BenchmarkFitClassifier(b *testing.B) {
	examples := twoBlobs(100)
	rows := estimator.Features(examples)
	labels := make([]string, len(examples))
	for i, ex := range examples {
		labels[i] = ex.Label
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := estimator.FitClassifier(rows, labels); err != nil {
			b.Fatal(err)
		}
	}
}

func ExampleAccuracy() {
	fmt.Println(estimator.Accuracy([]string{"easy", "hard"}, []string{"easy", "easy"}))
	// Output: 0.5
}
