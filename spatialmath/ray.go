package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Ray is a half line, or a segment when MaxDistance is finite. Direction is always unit length
// for rays built with NewRay or NewSegment.
type Ray struct {
	Origin      r3.Vector
	Direction   r3.Vector
	MaxDistance float64
}

// NewRay returns an unbounded ray. A zero direction yields a ray that never hits anything.
func NewRay(origin, direction r3.Vector) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), MaxDistance: math.Inf(1)}
}

// NewSegment returns the ray from `from` that stops at `to`.
func NewSegment(from, to r3.Vector) Ray {
	delta := to.Sub(from)
	return Ray{Origin: from, Direction: delta.Normalize(), MaxDistance: delta.Norm()}
}

// PointAt returns the point at distance t along the ray.
func (r Ray) PointAt(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

func (r Ray) valid() bool {
	return isFinite(r.Origin) && isFinite(r.Direction) && r.Direction.Norm2() > 0 &&
		!math.IsNaN(r.MaxDistance) && r.MaxDistance >= 0
}

// Hit describes where a query touched the mesh.
type Hit struct {
	// Distance is measured in the frame the query was issued in.
	Distance float64
	Point    r3.Vector
	// Triangle indexes into the soup the index was built from.
	Triangle int
	// Barycentric holds the weights of the triangle's first, second and third vertex.
	Barycentric r3.Vector
}

// String returns a human readable string that represents the hit.
func (h Hit) String() string {
	return fmt.Sprintf("Hit: Triangle %d | Distance %.6f | Point X:%.6f, Y:%.6f, Z:%.6f",
		h.Triangle, h.Distance, h.Point.X, h.Point.Y, h.Point.Z)
}
