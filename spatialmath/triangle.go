package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// determinants below this are treated as a ray parallel to (or a degenerate) triangle.
const rayTriangleEpsilon = 1e-12

// Triangle is three points and the unit normal of the plane they span.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
}

// NewTriangle creates a Triangle from three points. Winding follows the right hand rule.
func NewTriangle(p0, p1, p2 r3.Vector) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
	}
}

// Points returns the three vertices of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal. It is the zero vector for a zero-area triangle.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// Centroid returns the mean of the three vertices.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3.)
}

// intersectRay is the Möller–Trumbore test. It returns the ray parameter and the barycentric weights
// of p1 and p2 at the hit. Hits behind the origin or beyond maxT are rejected, as is any ray
// parallel to the triangle plane, which also covers zero-area triangles.
func (t *Triangle) intersectRay(origin, dir r3.Vector, maxT float64) (float64, float64, float64, bool) {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < rayTriangleEpsilon {
		return 0, 0, 0, false
	}
	invDet := 1 / det

	tvec := origin.Sub(t.p0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	dist := e2.Dot(qvec) * invDet
	if dist < 0 || dist > maxT {
		return 0, 0, 0, false
	}
	return dist, u, v, true
}

// ClosestPointToPoint takes a point, and returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(point r3.Vector) r3.Vector {
	closestPtInside, inside := t.ClosestInsidePoint(point)
	if inside {
		return closestPtInside
	}

	// If the closest point is outside the triangle, it must be on an edge, so we
	// check each triangle edge for a closest point to the point pt.
	closestPt := ClosestPointSegmentPoint(t.p0, t.p1, point)
	bestDist := point.Sub(closestPt).Norm2()

	newPt := ClosestPointSegmentPoint(t.p1, t.p2, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		closestPt = newPt
		bestDist = newDist
	}

	newPt = ClosestPointSegmentPoint(t.p2, t.p0, point)
	if newDist := point.Sub(newPt).Norm2(); newDist < bestDist {
		return newPt
	}
	return closestPt
}

// ClosestInsidePoint returns the closest point on a triangle IF AND ONLY IF the query point's projection overlaps the triangle.
// Otherwise it will return the query point's projection onto the triangle plane along with false.
func (t *Triangle) ClosestInsidePoint(point r3.Vector) (r3.Vector, bool) {
	eps := 1e-6

	// Parametrize the triangle s.t. a point inside the triangle is
	// Q = p0 + u * e0 + v * e1, when 0 <= u <= 1, 0 <= v <= 1, and
	// 0 <= u + v <= 1. Let e0 = (p1 - p0) and e1 = (p2 - p0).
	// We analytically minimize the distance between the point pt and Q.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := point.Sub(t.p0)
	// The determinant is 0 only if the angle between e1 and e0 is 0
	// (i.e. the triangle has overlapping lines).
	det := (a*c - b*b)
	if det < floatEpsilon*floatEpsilon {
		return point, false
	}
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+eps) && (u <= 1+eps) && (0 <= v+eps) && (v <= 1+eps) && (u+v <= 1+eps)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

// Barycentric returns the weights (w0, w1, w2) of p0, p1 and p2 for a point lying on the triangle.
// Weights are clamped to [0,1] and renormalized so they always sum to 1. A zero-area triangle
// reports all weight on p0.
func (t *Triangle) Barycentric(pt r3.Vector) r3.Vector {
	v0 := t.p1.Sub(t.p0)
	v1 := t.p2.Sub(t.p0)
	v2 := pt.Sub(t.p0)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if denom < floatEpsilon*floatEpsilon {
		return r3.Vector{X: 1}
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return normalizeWeights(1-v-w, v, w)
}

func normalizeWeights(w0, w1, w2 float64) r3.Vector {
	w0 = math.Max(0, math.Min(1, w0))
	w1 = math.Max(0, math.Min(1, w1))
	w2 = math.Max(0, math.Min(1, w2))
	sum := w0 + w1 + w2
	if sum == 0 {
		return r3.Vector{X: 1}
	}
	return r3.Vector{X: w0 / sum, Y: w1 / sum, Z: w2 / sum}
}
