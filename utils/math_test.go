package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestFloat64AlmostEqual(t *testing.T) {
	test.That(t, Float64AlmostEqual(1, 1.0000001, 1e-6), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.1, 1e-6), test.ShouldBeFalse)
}

func TestIsFinite(t *testing.T) {
	test.That(t, IsFinite(), test.ShouldBeTrue)
	test.That(t, IsFinite(1, -2, 0), test.ShouldBeTrue)
	test.That(t, IsFinite(1, math.NaN()), test.ShouldBeFalse)
	test.That(t, IsFinite(math.Inf(-1)), test.ShouldBeFalse)
}
