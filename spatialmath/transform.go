package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// determinants smaller than this in magnitude are considered singular.
const singularDetEpsilon = 1e-12

// Transform holds a local-to-world matrix together with its inverse. The pair is only ever
// created together, so WorldToLocal is always the inverse of LocalToWorld. A Transform is
// immutable; moving an object means replacing its Transform.
type Transform struct {
	localToWorld mgl64.Mat4
	worldToLocal mgl64.Mat4
}

// NewIdentityTransform returns a transform that maps every point to itself.
func NewIdentityTransform() *Transform {
	return &Transform{localToWorld: mgl64.Ident4(), worldToLocal: mgl64.Ident4()}
}

// NewTransform inverts localToWorld. Matrices with non-finite entries or no usable inverse are
// rejected rather than allowed to propagate NaN into queries.
func NewTransform(localToWorld mgl64.Mat4) (*Transform, error) {
	if !finiteMat4(localToWorld) {
		return nil, newSingularTransformError(math.NaN())
	}
	det := localToWorld.Det()
	if math.Abs(det) < singularDetEpsilon {
		return nil, newSingularTransformError(det)
	}
	worldToLocal := localToWorld.Inv()
	if !finiteMat4(worldToLocal) {
		return nil, newSingularTransformError(det)
	}
	return &Transform{localToWorld: localToWorld, worldToLocal: worldToLocal}, nil
}

// TranslateScale returns the matrix that scales about the local origin and then translates.
func TranslateScale(translation, scale r3.Vector) mgl64.Mat4 {
	return mgl64.Translate3D(translation.X, translation.Y, translation.Z).
		Mul4(mgl64.Scale3D(scale.X, scale.Y, scale.Z))
}

// LocalToWorld returns a copy of the object-to-world matrix.
func (t *Transform) LocalToWorld() mgl64.Mat4 {
	return t.localToWorld
}

// WorldToLocal returns a copy of the world-to-object matrix.
func (t *Transform) WorldToLocal() mgl64.Mat4 {
	return t.worldToLocal
}

// Translation returns the world position of the local origin.
func (t *Transform) Translation() r3.Vector {
	return fromVec3(t.localToWorld.Col(3).Vec3())
}

// PointToWorld maps a local point into the world frame.
func (t *Transform) PointToWorld(p r3.Vector) r3.Vector {
	return fromVec3(mgl64.TransformCoordinate(toVec3(p), t.localToWorld))
}

// PointToLocal maps a world point into the local frame.
func (t *Transform) PointToLocal(p r3.Vector) r3.Vector {
	return fromVec3(mgl64.TransformCoordinate(toVec3(p), t.worldToLocal))
}

// DirectionToWorld maps a local direction into the world frame, ignoring translation. The result
// is not normalized.
func (t *Transform) DirectionToWorld(d r3.Vector) r3.Vector {
	return fromVec3(t.localToWorld.Mul4x1(toVec3(d).Vec4(0)).Vec3())
}

// DirectionToLocal maps a world direction into the local frame, ignoring translation. The result
// is not normalized.
func (t *Transform) DirectionToLocal(d r3.Vector) r3.Vector {
	return fromVec3(t.worldToLocal.Mul4x1(toVec3(d).Vec4(0)).Vec3())
}

// RayToLocal maps a world ray into the local frame. The local direction is renormalized and a
// finite segment length is recomputed from the transformed end point, since scale changes lengths.
func (t *Transform) RayToLocal(ray Ray) Ray {
	origin := t.PointToLocal(ray.Origin)
	local := Ray{
		Origin:      origin,
		Direction:   t.DirectionToLocal(ray.Direction).Normalize(),
		MaxDistance: math.Inf(1),
	}
	if !math.IsInf(ray.MaxDistance, 1) {
		local.MaxDistance = t.PointToLocal(ray.PointAt(ray.MaxDistance)).Sub(origin).Norm()
	}
	return local
}

// HitToWorld maps a hit found in the local frame back to the world frame. The distance is
// re-derived from the world hit point and the world query origin. The local distance is
// never carried over, because it is wrong under any scaling transform.
func (t *Transform) HitToWorld(hit Hit, worldOrigin r3.Vector) Hit {
	worldPoint := t.PointToWorld(hit.Point)
	return Hit{
		Distance:    worldPoint.Sub(worldOrigin).Norm(),
		Point:       worldPoint,
		Triangle:    hit.Triangle,
		Barycentric: hit.Barycentric,
	}
}

// BoxToWorld returns the world axis aligned box enclosing a local box.
func (t *Transform) BoxToWorld(min, max r3.Vector) (r3.Vector, r3.Vector) {
	return transformAABB(min, max, t.localToWorld)
}

// BoxToLocal returns the local axis aligned box enclosing a world box.
func (t *Transform) BoxToLocal(min, max r3.Vector) (r3.Vector, r3.Vector) {
	return transformAABB(min, max, t.worldToLocal)
}

// AlmostEqual returns whether both matrices of the two transforms agree within epsilon.
func (t *Transform) AlmostEqual(other *Transform, epsilon float64) bool {
	return t.localToWorld.ApproxEqualThreshold(other.localToWorld, epsilon) &&
		t.worldToLocal.ApproxEqualThreshold(other.worldToLocal, epsilon)
}

func finiteMat4(m mgl64.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
