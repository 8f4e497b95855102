package analysis_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kpmqt/internal/analysis"
)

var _ = Describe("Series", func() {
	Describe("RunningIntegral", func() {
		It("starts at zero", func() {
			out := analysis.RunningIntegral([]float64{3, 1, 4}, 0.5)
			Expect(out[0]).To(BeZero())
		})

		It("integrates a line exactly", func() {
			dt := 0.25
			series := make([]float64, 9)
			for i := range series {
				series[i] = 2 * float64(i) * dt
			}
			out := analysis.RunningIntegral(series, dt)
			for i, v := range out {
				t := float64(i) * dt
				Expect(v).To(BeNumerically("~", t*t, 1e-12))
			}
		})

		It("handles empty input", func() {
			Expect(analysis.RunningIntegral(nil, 1)).To(BeEmpty())
		})
	})

	Describe("Derivative", func() {
		It("differentiates a quadratic exactly in the interior", func() {
			dt := 0.1
			series := make([]float64, 11)
			for i := range series {
				t := float64(i) * dt
				series[i] = t * t
			}
			out := analysis.Derivative(series, dt)
			for i := 1; i < len(out)-1; i++ {
				Expect(out[i]).To(BeNumerically("~", 2*float64(i)*dt, 1e-12))
			}
		})

		It("inverts RunningIntegral for smooth curves", func() {
			dt := 0.01
			series := make([]float64, 200)
			for i := range series {
				series[i] = 1 + 0.5*float64(i)*dt
			}
			back := analysis.Derivative(analysis.RunningIntegral(series, dt), dt)
			for i := 1; i < len(back)-1; i++ {
				Expect(back[i]).To(BeNumerically("~", series[i], 1e-6))
			}
		})

		It("returns zeros for a single sample", func() {
			Expect(analysis.Derivative([]float64{5}, 1)).To(Equal([]float64{0}))
		})
	})

	Describe("Divide", func() {
		It("zeroes entries with a vanishing denominator", func() {
			out, err := analysis.Divide([]float64{1, 2, 3}, []float64{2, 0, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal([]float64{0.5, 0, 1}))
		})

		It("rejects mismatched lengths", func() {
			_, err := analysis.Divide([]float64{1}, []float64{1, 2})
			Expect(errors.Is(err, analysis.ErrShape)).To(BeTrue())
		})
	})

	Describe("Column", func() {
		It("reads one index across rows", func() {
			rows := [][]float64{{1, 2}, {3, 4}, {5}}
			Expect(analysis.Column(rows, 1)).To(Equal([]float64{2, 4, 0}))
		})
	})
})
