// Package ground implements a movable collision surface. A single BVH is built over a small local
// mesh when the surface is created; moving the surface only replaces its local-to-world transform.
//
// Every query is issued in world coordinates, answered against the index in local coordinates
// and mapped back. Distances in the returned hits are always measured in the world frame.
package ground

import (
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/JerryBerry12/substrata/config"
	"github.com/JerryBerry12/substrata/logging"
	"github.com/JerryBerry12/substrata/patch"
	"github.com/JerryBerry12/substrata/spatialmath"
	"github.com/JerryBerry12/substrata/utils"
)

// down is the world direction gravity pulls in; the surface lies in the world XY plane.
var down = r3.Vector{Z: -1}

// minContactTolerance is the smallest vertical reach OnGround tests with.
const minContactTolerance = 1e-9

// Ground is a surface whose geometry never changes but whose placement does.
//
// The index is immutable and may be shared freely. The placement is swapped atomically, but a
// caller that needs a query to see a particular Reposition must order the two calls itself.
type Ground struct {
	index        *spatialmath.BVH
	scale        r3.Vector
	heightOffset float64
	logger       logging.Logger

	mu        sync.RWMutex
	position  r3.Vector
	transform *spatialmath.Transform
}

// New builds the stock patch described by cfg and places it at cfg.InitialPosition.
func New(cfg config.Config, logger logging.Logger) (*Ground, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vertices, indices, err := patch.Generate(cfg.Patch.Cols, cfg.Patch.Rows)
	if err != nil {
		return nil, err
	}
	return NewFromBuffers(vertices, indices, 0, patch.Stride, cfg, logger)
}

// NewFromBuffers is like New but indexes caller supplied geometry instead of generating a patch.
// The buffers are copied, so the caller may reuse them afterwards.
func NewFromBuffers(
	vertices []float32,
	indices []uint32,
	offset, stride int,
	cfg config.Config,
	logger logging.Logger,
) (*Ground, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	index, err := spatialmath.NewBVHFromBuffers(vertices, indices, offset, stride)
	if err != nil {
		return nil, errors.Wrap(err, "cannot build ground index")
	}
	stats := index.Stats()
	logger.Infow("built ground index",
		"triangles", stats.Triangles, "nodes", stats.Nodes, "leaves", stats.Leaves, "depth", stats.Depth)

	g := &Ground{
		index:        index,
		scale:        cfg.Scale.R3(),
		heightOffset: cfg.HeightOffset,
		logger:       logger,
	}
	if err := g.Reposition(cfg.InitialPosition.R3()); err != nil {
		return nil, err
	}
	return g, nil
}

// Reposition moves the surface so its local origin sits under worldPosition. Only X and Y are
// followed; the height is always the configured offset. The mesh and index are left untouched.
// On error the previous placement is kept.
func (g *Ground) Reposition(worldPosition r3.Vector) error {
	if !utils.IsFinite(worldPosition.X, worldPosition.Y, worldPosition.Z) {
		return errors.Errorf("cannot move ground to non-finite position %v", worldPosition)
	}
	position := r3.Vector{X: worldPosition.X, Y: worldPosition.Y, Z: g.heightOffset}
	transform, err := spatialmath.NewTransform(spatialmath.TranslateScale(position, g.scale))
	if err != nil {
		return errors.Wrapf(err, "cannot move ground to %v", worldPosition)
	}

	g.mu.Lock()
	g.position = position
	g.transform = transform
	g.mu.Unlock()

	g.logger.Debugw("moved ground", "x", position.X, "y", position.Y, "z", position.Z)
	return nil
}

// Transform returns the current placement. The returned value is immutable and stays valid
// after later calls to Reposition.
func (g *Ground) Transform() *spatialmath.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.transform
}

// LocalToWorld returns the current object-to-world matrix, for renderers.
func (g *Ground) LocalToWorld() mgl64.Mat4 {
	return g.Transform().LocalToWorld()
}

// WorldToLocal returns the current world-to-object matrix.
func (g *Ground) WorldToLocal() mgl64.Mat4 {
	return g.Transform().WorldToLocal()
}

// Position returns the world position of the local origin, including the height offset.
func (g *Ground) Position() r3.Vector {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.position
}

// Index returns the index over the local mesh. Queries against it are in local coordinates.
func (g *Ground) Index() *spatialmath.BVH {
	return g.index
}

// Mesh returns the local geometry the surface was built from.
func (g *Ground) Mesh() *spatialmath.TriangleSoup {
	return g.index.Soup()
}

// IntersectRay returns the nearest hit of a world space ray or segment with the surface.
//
// The hit distance is recomputed in the world frame from the mapped back hit point. The distance
// found in the local frame is discarded because any scale makes it wrong.
func (g *Ground) IntersectRay(worldRay spatialmath.Ray) (spatialmath.Hit, bool) {
	transform := g.Transform()
	hit, ok := g.index.IntersectRay(transform.RayToLocal(worldRay))
	if !ok {
		return spatialmath.Hit{}, false
	}
	return transform.HitToWorld(hit, worldRay.Origin), true
}

// Below casts a ray straight down from worldPoint and returns the surface point underneath it.
func (g *Ground) Below(worldPoint r3.Vector) (spatialmath.Hit, bool) {
	return g.IntersectRay(spatialmath.NewRay(worldPoint, down))
}

// OnGround reports whether the surface passes within tolerance of worldPoint, measured vertically.
// The returned hit is the crossing closest to the top of the tested span. Tolerances smaller than
// a nanometer are raised to one, so a point lying on the surface always touches it.
func (g *Ground) OnGround(worldPoint r3.Vector, tolerance float64) (spatialmath.Hit, bool) {
	tolerance = math.Max(math.Abs(tolerance), minContactTolerance)
	from := worldPoint.Add(r3.Vector{Z: tolerance})
	to := worldPoint.Sub(r3.Vector{Z: tolerance})
	hit, ok := g.IntersectRay(spatialmath.NewSegment(from, to))
	if !ok {
		return spatialmath.Hit{}, false
	}
	// Report the gap from the queried point rather than from the top of the span.
	hit.Distance = hit.Point.Distance(worldPoint)
	return hit, true
}

// WorldBounds returns the world axis aligned box around the surface at its current placement.
// ok is false when the surface has no triangles.
func (g *Ground) WorldBounds() (min, max r3.Vector, ok bool) {
	localMin, localMax, ok := g.index.Bounds()
	if !ok {
		return r3.Vector{}, r3.Vector{}, false
	}
	min, max = g.Transform().BoxToWorld(localMin, localMax)
	return min, max, true
}

// SphereContacts returns, nearest first, the closest point of every triangle that lies within
// radius of worldCenter. Equally distant contacts are ordered by triangle index.
//
// Candidates come from the index using the sphere's box mapped into the local frame. Each
// candidate is then mapped whole into the world frame before its closest point is found, so the
// distances are exact under any scale.
func (g *Ground) SphereContacts(worldCenter r3.Vector, radius float64) ([]spatialmath.Hit, error) {
	if !utils.IsFinite(worldCenter.X, worldCenter.Y, worldCenter.Z) {
		return nil, errors.Errorf("cannot test contacts around non-finite point %v", worldCenter)
	}
	if !utils.IsFinite(radius) || radius < 0 {
		return nil, errors.Errorf("contact radius must be a non-negative finite number, got %v", radius)
	}
	transform := g.Transform()
	reach := r3.Vector{X: radius, Y: radius, Z: radius}
	localMin, localMax := transform.BoxToLocal(worldCenter.Sub(reach), worldCenter.Add(reach))

	var contacts []spatialmath.Hit
	for _, id := range g.index.TrianglesInBox(localMin, localMax) {
		pts := lo.Map(g.Mesh().Triangle(id).Points(), func(p r3.Vector, _ int) r3.Vector {
			return transform.PointToWorld(p)
		})
		tri := spatialmath.NewTriangle(pts[0], pts[1], pts[2])
		cp := tri.ClosestPointToPoint(worldCenter)
		if d := cp.Distance(worldCenter); d <= radius {
			contacts = append(contacts, spatialmath.Hit{
				Distance:    d,
				Point:       cp,
				Triangle:    id,
				Barycentric: tri.Barycentric(cp),
			})
		}
	}
	// TrianglesInBox yields ascending ids, so a stable sort keeps ties in index order.
	sort.SliceStable(contacts, func(i, j int) bool { return contacts[i].Distance < contacts[j].Distance })
	return contacts, nil
}
