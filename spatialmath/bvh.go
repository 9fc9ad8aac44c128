package spatialmath

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

const (
	// A node holding this many triangles or fewer is not split further.
	bvhLeafSize = 4
	// Nodes at this depth become leaves regardless of how many triangles they hold.
	bvhMaxDepth = 32
)

// bvhNode is either a leaf owning triangle indices or an internal node owning two children.
type bvhNode struct {
	min, max    r3.Vector
	left, right *bvhNode
	// triangles is sorted ascending and only set on leaves.
	triangles []int
}

func (n *bvhNode) isLeaf() bool {
	return n.left == nil
}

// BVHStats summarizes the shape of a built hierarchy.
type BVHStats struct {
	Triangles int
	Nodes     int
	Leaves    int
	Depth     int
}

// BVH is a bounding volume hierarchy over a triangle soup. It is built once and never modified,
// so a single BVH may be queried from any number of goroutines without locking.
//
// Traversal visits the child whose box the query reaches first (the left child on equal
// distance). Every hit within a relative 1e-9 of the nearest hit distance counts as a tie, and
// ties go to the lowest triangle index, so the result does not depend on traversal order.
type BVH struct {
	soup      *TriangleSoup
	triangles []*Triangle
	root      *bvhNode
	stats     BVHStats
}

// NewBVH builds the hierarchy over an already validated soup.
func NewBVH(soup *TriangleSoup) *BVH {
	triangles := soup.Triangles()
	b := &BVH{
		soup:      soup,
		triangles: triangles,
		stats:     BVHStats{Triangles: len(triangles)},
	}
	b.root = b.build(allIndices(len(triangles)), centroids(triangles), 0)
	return b
}

// NewBVHFromBuffers validates raw buffers and builds a hierarchy over them.
func NewBVHFromBuffers(vertices []float32, indices []uint32, offset, stride int) (*BVH, error) {
	soup, err := NewTriangleSoup(vertices, indices, offset, stride)
	if err != nil {
		return nil, err
	}
	return NewBVH(soup), nil
}

// buildBVH builds an unattached hierarchy, returning nil when there is nothing to bound.
func buildBVH(triangles []*Triangle) *bvhNode {
	b := &BVH{triangles: triangles}
	return b.build(allIndices(len(triangles)), centroids(triangles), 0)
}

func (b *BVH) build(ids []int, cents []r3.Vector, depth int) *bvhNode {
	if len(ids) == 0 {
		return nil
	}
	b.stats.Nodes++
	b.stats.Depth = max(b.stats.Depth, depth)

	node := &bvhNode{}
	node.min, node.max = b.bounds(ids)

	if len(ids) <= bvhLeafSize || depth >= bvhMaxDepth {
		b.stats.Leaves++
		node.triangles = append([]int(nil), ids...)
		sort.Ints(node.triangles)
		return node
	}

	axis := widestAxis(node.min, node.max)
	sorted := append([]int(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool {
		ci := component(cents[sorted[i]], axis)
		cj := component(cents[sorted[j]], axis)
		if ci != cj {
			return ci < cj
		}
		return sorted[i] < sorted[j]
	})
	mid := len(sorted) / 2
	node.left = b.build(sorted[:mid], cents, depth+1)
	node.right = b.build(sorted[mid:], cents, depth+1)
	return node
}

func (b *BVH) bounds(ids []int) (r3.Vector, r3.Vector) {
	tris := make([]*Triangle, len(ids))
	for i, id := range ids {
		tris[i] = b.triangles[id]
	}
	return computeTrianglesAABB(tris)
}

// Soup returns the triangles the index was built from.
func (b *BVH) Soup() *TriangleSoup {
	return b.soup
}

// TriangleCount returns the number of indexed triangles.
func (b *BVH) TriangleCount() int {
	return len(b.triangles)
}

// Stats returns node counts and the depth of the hierarchy.
func (b *BVH) Stats() BVHStats {
	return b.stats
}

// Bounds returns the box enclosing every triangle. ok is false for an empty index.
func (b *BVH) Bounds() (min, max r3.Vector, ok bool) {
	if b.root == nil {
		return r3.Vector{}, r3.Vector{}, false
	}
	return b.root.min, b.root.max, true
}

// IntersectRay returns the nearest hit along the ray in the index's own frame.
func (b *BVH) IntersectRay(ray Ray) (Hit, bool) {
	if b.root == nil || !ray.valid() {
		return Hit{}, false
	}
	best := newBestHit(ray.MaxDistance)
	if _, ok := rayAABB(ray, b.root.min, b.root.max, best.limit()); ok {
		b.intersectNode(b.root, ray, best)
	}
	return best.result()
}

func (b *BVH) intersectNode(node *bvhNode, ray Ray, best *bestHit) {
	if node.isLeaf() {
		for _, id := range node.triangles {
			t, u, v, ok := b.triangles[id].intersectRay(ray.Origin, ray.Direction, best.limit())
			if ok {
				best.offer(candidate{dist: t, id: id, bary: normalizeWeights(1-u-v, u, v), point: ray.PointAt(t)})
			}
		}
		return
	}

	tLeft, okLeft := rayAABB(ray, node.left.min, node.left.max, best.limit())
	tRight, okRight := rayAABB(ray, node.right.min, node.right.max, best.limit())
	near, far := node.left, node.right
	tFar := tRight
	okNear, okFar := okLeft, okRight
	if okRight && (!okLeft || tRight < tLeft) {
		near, far = far, near
		tFar = tLeft
		okNear, okFar = okFar, okNear
	}
	if okNear {
		b.intersectNode(near, ray, best)
	}
	// The near subtree may have tightened the bound enough to skip the far one.
	if okFar && tFar <= best.limit() {
		b.intersectNode(far, ray, best)
	}
}

// ClosestPoint returns the point on the mesh nearest to pt. Distance is measured from pt.
func (b *BVH) ClosestPoint(pt r3.Vector) (Hit, bool) {
	if b.root == nil || !isFinite(pt) {
		return Hit{}, false
	}
	best := newBestHit(math.Inf(1))
	b.closestNode(b.root, pt, best)
	return best.result()
}

func (b *BVH) closestNode(node *bvhNode, pt r3.Vector, best *bestHit) {
	if node.isLeaf() {
		for _, id := range node.triangles {
			offerClosest(b.triangles[id], id, pt, best)
		}
		return
	}

	dLeft := aabbDistance(pt, pt, node.left.min, node.left.max)
	dRight := aabbDistance(pt, pt, node.right.min, node.right.max)
	near, far := node.left, node.right
	dNear, dFar := dLeft, dRight
	if dRight < dLeft {
		near, far = far, near
		dNear, dFar = dFar, dNear
	}
	if dNear <= best.limit() {
		b.closestNode(near, pt, best)
	}
	if dFar <= best.limit() {
		b.closestNode(far, pt, best)
	}
}

func offerClosest(tri *Triangle, id int, pt r3.Vector, best *bestHit) {
	cp := tri.ClosestPointToPoint(pt)
	if d := pt.Distance(cp); d <= best.limit() {
		best.offer(candidate{dist: d, id: id, bary: tri.Barycentric(cp), point: cp})
	}
}

// TrianglesInBox returns, in ascending order, the triangles whose bounding boxes overlap the box.
func (b *BVH) TrianglesInBox(min, max r3.Vector) []int {
	var found []int
	var walk func(node *bvhNode)
	walk = func(node *bvhNode) {
		if node == nil || !aabbOverlap(node.min, node.max, min, max) {
			return
		}
		if node.isLeaf() {
			for _, id := range node.triangles {
				tMin, tMax := computeTrianglesAABB([]*Triangle{b.triangles[id]})
				if aabbOverlap(tMin, tMax, min, max) {
					found = append(found, id)
				}
			}
			return
		}
		walk(node.left)
		walk(node.right)
	}
	walk(b.root)
	sort.Ints(found)
	return found
}

// candidate is one triangle's answer to a query.
type candidate struct {
	dist  float64
	id    int
	bary  r3.Vector
	point r3.Vector
}

// bestHit keeps every candidate whose distance lies within the tie band of the nearest distance
// seen so far. The band is anchored at that nearest distance, so the winner, the lowest index in
// the final band, is the same whatever order candidates arrive in.
type bestHit struct {
	nearest float64
	maxDist float64
	band    []candidate
}

func newBestHit(maxDist float64) *bestHit {
	return &bestHit{nearest: math.Inf(1), maxDist: maxDist}
}

func tieTolerance(d float64) float64 {
	return 1e-9 * math.Max(1, math.Abs(d))
}

// limit is the farthest distance at which a candidate can still end up in the band. It never
// grows as candidates are offered.
func (bh *bestHit) limit() float64 {
	if len(bh.band) == 0 {
		return bh.maxDist
	}
	return math.Min(bh.maxDist, bh.nearest+tieTolerance(bh.nearest))
}

func (bh *bestHit) offer(c candidate) {
	if c.dist > bh.limit() {
		return
	}
	if c.dist < bh.nearest {
		bh.nearest = c.dist
		cutoff := c.dist + tieTolerance(c.dist)
		bh.band = lo.Filter(bh.band, func(k candidate, _ int) bool { return k.dist <= cutoff })
	}
	bh.band = append(bh.band, c)
}

// result returns the lowest indexed candidate in the band.
func (bh *bestHit) result() (Hit, bool) {
	if len(bh.band) == 0 {
		return Hit{}, false
	}
	c := lo.MinBy(bh.band, func(a, b candidate) bool { return a.id < b.id })
	return Hit{Distance: c.dist, Point: c.point, Triangle: c.id, Barycentric: c.bary}, true
}

// rayAABB is the slab test. It returns the distance at which the ray enters the box, clamped to
// zero when the origin is inside.
func rayAABB(ray Ray, min, max r3.Vector, maxT float64) (float64, bool) {
	tNear, tFar := 0.0, maxT
	for axis := 0; axis < 3; axis++ {
		o := component(ray.Origin, axis)
		d := component(ray.Direction, axis)
		low := component(min, axis)
		high := component(max, axis)
		if d == 0 {
			if o < low || o > high {
				return 0, false
			}
			continue
		}
		t1 := (low - o) / d
		t2 := (high - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}
	return tNear, true
}

func widestAxis(min, max r3.Vector) int {
	extent := max.Sub(min)
	switch {
	case extent.X >= extent.Y && extent.X >= extent.Z:
		return 0
	case extent.Y >= extent.Z:
		return 1
	default:
		return 2
	}
}

func allIndices(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func centroids(triangles []*Triangle) []r3.Vector {
	cents := make([]r3.Vector, len(triangles))
	for i, t := range triangles {
		cents[i] = t.Centroid()
	}
	return cents
}

// computeTrianglesAABB returns the tight axis aligned box around the triangles.
func computeTrianglesAABB(triangles []*Triangle) (r3.Vector, r3.Vector) {
	min := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, t := range triangles {
		for _, p := range []r3.Vector{t.p0, t.p1, t.p2} {
			min = r3.Vector{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
			max = r3.Vector{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
		}
	}
	return min, max
}

func aabbOverlap(min1, max1, min2, max2 r3.Vector) bool {
	return min1.X <= max2.X && max1.X >= min2.X &&
		min1.Y <= max2.Y && max1.Y >= min2.Y &&
		min1.Z <= max2.Z && max1.Z >= min2.Z
}

// aabbDistance returns the euclidean gap between two boxes, zero if they overlap.
func aabbDistance(min1, max1, min2, max2 r3.Vector) float64 {
	gap := func(lo1, hi1, lo2, hi2 float64) float64 {
		return math.Max(0, math.Max(lo2-hi1, lo1-hi2))
	}
	return r3.Vector{
		X: gap(min1.X, max1.X, min2.X, max2.X),
		Y: gap(min1.Y, max1.Y, min2.Y, max2.Y),
		Z: gap(min1.Z, max1.Z, min2.Z, max2.Z),
	}.Norm()
}

// transformAABB returns the axis aligned box enclosing the given box after transformation by m.
func transformAABB(min, max r3.Vector, m mgl64.Mat4) (r3.Vector, r3.Vector) {
	newMin := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	newMax := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := min
		if i&1 != 0 {
			corner.X = max.X
		}
		if i&2 != 0 {
			corner.Y = max.Y
		}
		if i&4 != 0 {
			corner.Z = max.Z
		}
		p := fromVec3(mgl64.TransformCoordinate(toVec3(corner), m))
		newMin = r3.Vector{X: math.Min(newMin.X, p.X), Y: math.Min(newMin.Y, p.Y), Z: math.Min(newMin.Z, p.Z)}
		newMax = r3.Vector{X: math.Max(newMax.X, p.X), Y: math.Max(newMax.Y, p.Y), Z: math.Max(newMax.Z, p.Z)}
	}
	return newMin, newMax
}
