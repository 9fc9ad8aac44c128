package patch

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/JerryBerry12/substrata/spatialmath"
)

func TestGenerate(t *testing.T) {
	t.Run("single cell", func(t *testing.T) {
		vertices, indices, err := Generate(1, 1)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, vertices, test.ShouldResemble, []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 1, 0,
		})
		test.That(t, indices, test.ShouldResemble, []uint32{0, 1, 3, 0, 3, 2})
	})

	t.Run("counts", func(t *testing.T) {
		vertices, indices, err := Generate(4, 3)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, len(vertices), test.ShouldEqual, 5*4*Stride)
		test.That(t, len(indices), test.ShouldEqual, 4*3*6)
		test.That(t, vertices[len(vertices)-3:], test.ShouldResemble, []float32{1, 1, 0})
	})

	t.Run("winding and coverage", func(t *testing.T) {
		vertices, indices, err := Generate(3, 2)
		test.That(t, err, test.ShouldBeNil)
		soup, err := spatialmath.NewTriangleSoup(vertices, indices, 0, Stride)
		test.That(t, err, test.ShouldBeNil)
		area := 0.
		for _, tri := range soup.Triangles() {
			test.That(t, tri.Normal().Z, test.ShouldAlmostEqual, 1)
			area += tri.Area()
		}
		test.That(t, area, test.ShouldAlmostEqual, 1)
	})

	t.Run("every interior point is covered", func(t *testing.T) {
		vertices, indices, err := Generate(2, 2)
		test.That(t, err, test.ShouldBeNil)
		bvh, err := spatialmath.NewBVHFromBuffers(vertices, indices, 0, Stride)
		test.That(t, err, test.ShouldBeNil)
		for _, pt := range []r3.Vector{{X: 0.1, Y: 0.1}, {X: 0.5, Y: 0.5}, {X: 0.9, Y: 0.3}, {X: 0.3, Y: 0.9}} {
			_, ok := bvh.IntersectRay(spatialmath.NewRay(pt.Add(r3.Vector{Z: 1}), r3.Vector{Z: -1}))
			test.That(t, ok, test.ShouldBeTrue)
		}
	})

	t.Run("invalid dimensions", func(t *testing.T) {
		_, _, err := Generate(0, 1)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "0x1")
		_, _, err = Generate(2, -1)
		test.That(t, err, test.ShouldNotBeNil)
	})
}
