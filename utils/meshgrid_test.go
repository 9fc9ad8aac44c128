package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestGrid2D(t *testing.T) {
	grid := Grid2D([]float64{0, 0.5, 1}, []float64{0, 1})
	rows, cols := grid.Dims()
	test.That(t, rows, test.ShouldEqual, 6)
	test.That(t, cols, test.ShouldEqual, 2)
	// x varies fastest
	test.That(t, grid.RawRowView(0), test.ShouldResemble, []float64{0, 0})
	test.That(t, grid.RawRowView(1), test.ShouldResemble, []float64{0.5, 0})
	test.That(t, grid.RawRowView(3), test.ShouldResemble, []float64{0, 1})
	test.That(t, grid.RawRowView(5), test.ShouldResemble, []float64{1, 1})
}

func TestSubFor(t *testing.T) {
	test.That(t, SubFor(nil, 5, []int{2, 3}), test.ShouldResemble, []int{1, 2})
	test.That(t, SubFor(nil, 0, []int{2, 3}), test.ShouldResemble, []int{0, 0})
	test.That(t, func() { SubFor(nil, 6, []int{2, 3}) }, test.ShouldPanic)
	test.That(t, func() { SubFor(nil, 0, []int{0, 3}) }, test.ShouldPanic)
}
