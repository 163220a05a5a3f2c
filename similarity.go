package vectordb

import (
	"math"

	"github.com/viterin/vek/vek32"
)

// Metric names one of the kernel's supported similarity functions.
type Metric string

const (
	MetricCosine     Metric = "cosine"
	MetricEuclidean  Metric = "euclidean"
	MetricDotProduct Metric = "dot_product"
)

// ValidMetric reports whether m is one of the kernel's known metrics.
func ValidMetric(m Metric) bool {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return true
	default:
		return false
	}
}

// Compute returns (distance, similarity) for two equal-length vectors under
// metric m. Lower distance always means a better match, regardless of
// metric. Callers are responsible for ensuring len(u) == len(v); this
// kernel does not validate lengths itself (spec.md §4.1: "length mismatch
// is the caller's responsibility (indexes enforce it)").
func Compute(m Metric, u, v []float32) (distance, similarity float64, err error) {
	switch m {
	case MetricCosine:
		return cosine(u, v), cosineSim(u, v), nil
	case MetricEuclidean:
		d := euclideanDistance(u, v)
		return d, 1.0 / (1.0 + d), nil
	case MetricDotProduct:
		sim := float64(vek32.Dot(u, v))
		return -sim, sim, nil
	default:
		return 0, 0, newError("similarity.Compute", KindInvalidMetric, nil)
	}
}

// cosineSim and cosine share the zero-vector policy documented in spec.md
// §9: a zero-norm vector on either side yields distance=1, similarity=0
// rather than dividing by zero.
func cosineSim(u, v []float32) float64 {
	normU := math.Sqrt(float64(vek32.Dot(u, u)))
	normV := math.Sqrt(float64(vek32.Dot(v, v)))
	if normU == 0 || normV == 0 {
		return 0.0
	}
	dot := float64(vek32.Dot(u, v))
	return dot / (normU * normV)
}

func cosine(u, v []float32) float64 {
	normU := math.Sqrt(float64(vek32.Dot(u, u)))
	normV := math.Sqrt(float64(vek32.Dot(v, v)))
	if normU == 0 || normV == 0 {
		return 1.0
	}
	dot := float64(vek32.Dot(u, v))
	return 1.0 - dot/(normU*normV)
}

func euclideanDistance(u, v []float32) float64 {
	var sum float64
	n := len(u)
	if len(v) < n {
		n = len(v)
	}
	for i := 0; i < n; i++ {
		d := float64(u[i]) - float64(v[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
