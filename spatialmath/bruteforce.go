package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// BruteForceIntersectRay tests every triangle of the soup against the ray, applying the same
// nearest-hit and lowest-index tie rules as (*BVH).IntersectRay. It is the reference answer the
// hierarchy is checked against.
func BruteForceIntersectRay(soup *TriangleSoup, ray Ray) (Hit, bool) {
	if !ray.valid() {
		return Hit{}, false
	}
	best := newBestHit(ray.MaxDistance)
	for id := 0; id < soup.TriangleCount(); id++ {
		t, u, v, ok := soup.Triangle(id).intersectRay(ray.Origin, ray.Direction, best.limit())
		if ok {
			best.offer(candidate{dist: t, id: id, bary: normalizeWeights(1-u-v, u, v), point: ray.PointAt(t)})
		}
	}
	return best.result()
}

// BruteForceClosestPoint is the exhaustive counterpart of (*BVH).ClosestPoint.
func BruteForceClosestPoint(soup *TriangleSoup, pt r3.Vector) (Hit, bool) {
	best := newBestHit(math.Inf(1))
	for id := 0; id < soup.TriangleCount(); id++ {
		offerClosest(soup.Triangle(id), id, pt, best)
	}
	return best.result()
}
