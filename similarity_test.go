package vectordb

import (
	"math"
	"testing"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name         string
		a, b         []float32
		metric       Metric
		wantDist     float64
		wantSim      float64
		epsilon      float64
	}{
		{
			name:     "cosine identical vectors",
			a:        []float32{1, 0, 0},
			b:        []float32{1, 0, 0},
			metric:   MetricCosine,
			wantDist: 0.0,
			wantSim:  1.0,
			epsilon:  1e-6,
		},
		{
			name:     "cosine orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			metric:   MetricCosine,
			wantDist: 1.0,
			wantSim:  0.0,
			epsilon:  1e-6,
		},
		{
			name:     "euclidean identical vectors",
			a:        []float32{3, 4},
			b:        []float32{3, 4},
			metric:   MetricEuclidean,
			wantDist: 0.0,
			wantSim:  1.0,
			epsilon:  1e-6,
		},
		{
			name:     "euclidean 3-4-5 triangle",
			a:        []float32{0, 0},
			b:        []float32{3, 4},
			metric:   MetricEuclidean,
			wantDist: 5.0,
			wantSim:  1.0 / 6.0,
			epsilon:  1e-6,
		},
		{
			name:     "dot product ordering is negated similarity",
			a:        []float32{2, 0},
			b:        []float32{3, 0},
			metric:   MetricDotProduct,
			wantDist: -6.0,
			wantSim:  6.0,
			epsilon:  1e-6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, sim, err := Compute(tt.metric, tt.a, tt.b)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if math.Abs(dist-tt.wantDist) > tt.epsilon {
				t.Errorf("distance = %v, want %v", dist, tt.wantDist)
			}
			if math.Abs(sim-tt.wantSim) > tt.epsilon {
				t.Errorf("similarity = %v, want %v", sim, tt.wantSim)
			}
		})
	}
}

func TestComputeZeroVectorPolicy(t *testing.T) {
	zero := []float32{0, 0, 0}
	other := []float32{1, 2, 3}

	dist, sim, err := Compute(MetricCosine, zero, other)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if dist != 1.0 || sim != 0.0 {
		t.Errorf("zero-vector cosine = (%v, %v), want (1.0, 0.0)", dist, sim)
	}

	dist, sim, err = Compute(MetricCosine, zero, zero)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if dist != 1.0 || sim != 0.0 {
		t.Errorf("both-zero cosine = (%v, %v), want (1.0, 0.0)", dist, sim)
	}
}

func TestComputeUnknownMetric(t *testing.T) {
	_, _, err := Compute(Metric("bm25"), []float32{1}, []float32{1})
	if !IsKind(err, KindInvalidMetric) {
		t.Errorf("expected KindInvalidMetric, got %v", err)
	}
}

func TestComputeAlwaysFinite(t *testing.T) {
	vectors := [][]float32{
		{0, 0, 0},
		{1e10, -1e10, 1e10},
		{1, 2, 3},
	}
	for _, m := range []Metric{MetricCosine, MetricEuclidean, MetricDotProduct} {
		for _, a := range vectors {
			for _, b := range vectors {
				dist, sim, err := Compute(m, a, b)
				if err != nil {
					t.Fatalf("Compute(%s) error = %v", m, err)
				}
				if math.IsNaN(dist) || math.IsInf(dist, 0) {
					t.Errorf("Compute(%s, %v, %v) distance not finite: %v", m, a, b, dist)
				}
				if math.IsNaN(sim) || math.IsInf(sim, 0) {
					t.Errorf("Compute(%s, %v, %v) similarity not finite: %v", m, a, b, sim)
				}
			}
		}
	}
}
