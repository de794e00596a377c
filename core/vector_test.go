package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length result", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		var mag float64
		for _, val := range v {
			mag += float64(val) * float64(val)
		}
		if math.Abs(math.Sqrt(mag)-1) > 1e-6 {
			t.Errorf("normalized magnitude = %f, want 1", math.Sqrt(mag))
		}
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		for i, val := range v {
			if val != 0 {
				t.Errorf("component %d = %f, want 0", i, val)
			}
		}
	})

	t.Run("empty vector", func(t *testing.T) {
		if v := NormalizeVector(nil); len(v) != 0 {
			t.Errorf("expected empty result")
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)
		if in[0] != 3 || in[1] != 4 {
			t.Errorf("input mutated: %v", in)
		}
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{
			name: "identical vectors",
			a:    []float32{1, 2, 3},
			b:    []float32{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float32{1, 0},
			b:    []float32{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors",
			a:    []float32{1, 0},
			b:    []float32{-1, 0},
			want: -1,
		},
		{
			name: "mismatched lengths",
			a:    []float32{1, 0},
			b:    []float32{1, 0, 0},
			want: 0,
		},
		{
			name: "zero vector",
			a:    []float32{0, 0},
			b:    []float32{1, 1},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CosineSimilarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	t.Run("mean of vectors", func(t *testing.T) {
		c := Centroid([][]float32{{1, 0}, {0, 1}})
		if len(c) != 2 || c[0] != 0.5 || c[1] != 0.5 {
			t.Errorf("Centroid() = %v, want [0.5 0.5]", c)
		}
	})

	t.Run("empty set", func(t *testing.T) {
		if c := Centroid(nil); c != nil {
			t.Errorf("Centroid(nil) = %v, want nil", c)
		}
	})

	t.Run("skips mismatched lengths", func(t *testing.T) {
		c := Centroid([][]float32{{2, 2}, {1, 2, 3}, {4, 4}})
		if len(c) != 2 || c[0] != 3 || c[1] != 3 {
			t.Errorf("Centroid() = %v, want [3 3]", c)
		}
	})
}
