package compute

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	tests := []struct {
		kind    string
		name    string
		wantErr bool
	}{
		{KindSerial, "serial", false},
		{KindParallel, "parallel (3 workers)", false},
		{"cuda", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			b, err := New(tt.kind, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, b.Name())
			assert.True(t, b.Available())
		})
	}
}

func TestAutoSelectBackend(t *testing.T) {
	assert.Equal(t, KindSerial, AutoSelectBackend(1).Name())
	assert.Contains(t, AutoSelectBackend(4).Name(), KindParallel)
}

func TestForCoversRangeOnce(t *testing.T) {
	backends := []Backend{NewSerial(), NewParallel(4), NewParallel(7)}
	sizes := []int{0, 1, 255, 256, 1000, 4099}

	for _, b := range backends {
		for _, n := range sizes {
			hits := make([]int32, n)
			b.For(n, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			})
			for i, h := range hits {
				if h != 1 {
					t.Fatalf("%s n=%d: index %d visited %d times", b.Name(), n, i, h)
				}
			}
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	n := 5000
	in := make([]float64, n)
	for i := range in {
		in[i] = float64(i%17) * 0.25
	}

	run := func(b Backend) []float64 {
		out := make([]float64, n)
		b.For(n, func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = in[i]*in[i] - 3*in[i]
			}
		})
		return out
	}

	assert.Equal(t, run(NewSerial()), run(NewParallel(8)))
}
