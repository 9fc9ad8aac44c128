package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBasicTriangleFunctions(t *testing.T) {
	expectedPts := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}}
	tri := NewTriangle(expectedPts[0], expectedPts[1], expectedPts[2])

	expectedNormal := r3.Vector{X: 0, Y: 0, Z: 1}
	expectedArea := 4.5
	expectedCentroid := r3.Vector{X: 1, Y: 1, Z: 0}

	t.Run("constructor", func(t *testing.T) {
		test.That(t, tri.Points(), test.ShouldResemble, expectedPts)
		// the cross product of the normal with what is expected should result in nothing
		test.That(t, tri.Normal().Cross(expectedNormal), test.ShouldResemble, r3.Vector{})
	})

	t.Run("area", func(t *testing.T) {
		test.That(t, tri.Area(), test.ShouldEqual, expectedArea)
	})

	t.Run("centroid", func(t *testing.T) {
		test.That(t, tri.Centroid(), test.ShouldResemble, expectedCentroid)
	})

	t.Run("closest triangle inside point", func(t *testing.T) {
		// interior
		closestPoint, isInside := tri.ClosestInsidePoint(r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// above edge
		closestPoint, isInside = tri.ClosestInsidePoint(r3.Vector{X: 2, Y: 0, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 2, Y: 0, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// outside (obtuse with triangle)
		_, isInside = tri.ClosestInsidePoint(r3.Vector{X: 1, Y: -1, Z: 1})
		test.That(t, isInside, test.ShouldBeFalse)
	})

	t.Run("closest triangle point", func(t *testing.T) {
		// double check on interior point
		closestPoint := tri.ClosestPointToPoint(r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})

		// closest point is edge
		closestPoint = tri.ClosestPointToPoint(r3.Vector{X: 3, Y: 2, Z: 1})
		test.That(t, R3VectorAlmostEqual(closestPoint, r3.Vector{X: 2, Y: 1, Z: 0}, 1e-9), test.ShouldBeTrue)

		// closest point is vertex
		closestPoint = tri.ClosestPointToPoint(r3.Vector{X: -1, Y: -1, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 0, Y: 0, Z: 0})
	})

	t.Run("barycentric", func(t *testing.T) {
		w := tri.Barycentric(r3.Vector{X: 1, Y: 1, Z: 0})
		test.That(t, w.X, test.ShouldAlmostEqual, 1./3.)
		test.That(t, w.Y, test.ShouldAlmostEqual, 1./3.)
		test.That(t, w.Z, test.ShouldAlmostEqual, 1./3.)

		w = tri.Barycentric(r3.Vector{X: 3, Y: 0, Z: 0})
		test.That(t, R3VectorAlmostEqual(w, r3.Vector{X: 0, Y: 1, Z: 0}, 1e-12), test.ShouldBeTrue)
	})
}

func TestTriangleIntersectRay(t *testing.T) {
	tri := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}, r3.Vector{X: 0, Y: 1, Z: 0})
	down := r3.Vector{X: 0, Y: 0, Z: -1}

	t.Run("straight down through interior", func(t *testing.T) {
		dist, u, v, ok := tri.intersectRay(r3.Vector{X: 0.25, Y: 0.25, Z: 2}, down, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, dist, test.ShouldAlmostEqual, 2)
		test.That(t, u, test.ShouldAlmostEqual, 0.25)
		test.That(t, v, test.ShouldAlmostEqual, 0.25)
	})

	t.Run("back face is hit too", func(t *testing.T) {
		dist, _, _, ok := tri.intersectRay(r3.Vector{X: 0.25, Y: 0.25, Z: -2}, down.Mul(-1), math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, dist, test.ShouldAlmostEqual, 2)
	})

	t.Run("outside the triangle", func(t *testing.T) {
		_, _, _, ok := tri.intersectRay(r3.Vector{X: 0.75, Y: 0.75, Z: 2}, down, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("behind the origin", func(t *testing.T) {
		_, _, _, ok := tri.intersectRay(r3.Vector{X: 0.25, Y: 0.25, Z: -2}, down, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("beyond the segment end", func(t *testing.T) {
		_, _, _, ok := tri.intersectRay(r3.Vector{X: 0.25, Y: 0.25, Z: 2}, down, 1.5)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("parallel to the plane", func(t *testing.T) {
		_, _, _, ok := tri.intersectRay(r3.Vector{X: -1, Y: 0.25, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("zero area triangle is never hit", func(t *testing.T) {
		flat := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}, r3.Vector{X: 2, Y: 0, Z: 0})
		test.That(t, flat.Area(), test.ShouldEqual, 0)
		_, _, _, ok := flat.intersectRay(r3.Vector{X: 0.5, Y: 0, Z: 1}, down, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})
}
