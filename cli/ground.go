package cli

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/JerryBerry12/substrata/ground"
	"github.com/JerryBerry12/substrata/spatialmath"
)

// hitOutput is the JSON shape printed by the query commands. Everything is in world coordinates.
type hitOutput struct {
	Hit          bool        `json:"hit"`
	Distance     float64     `json:"distance,omitempty"`
	Point        *vectorJSON `json:"point,omitempty"`
	Triangle     *int        `json:"triangle,omitempty"`
	Barycentric  *vectorJSON `json:"barycentric,omitempty"`
	Position     vectorJSON  `json:"ground_position"`
	LocalToWorld [16]float64 `json:"local_to_world"`
}

type vectorJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func toVectorJSON(v r3.Vector) *vectorJSON {
	return &vectorJSON{X: v.X, Y: v.Y, Z: v.Z}
}

func newHitOutput(g *ground.Ground, hit spatialmath.Hit, ok bool) hitOutput {
	out := hitOutput{
		Hit:          ok,
		Position:     *toVectorJSON(g.Position()),
		LocalToWorld: g.LocalToWorld(),
	}
	if ok {
		triangle := hit.Triangle
		out.Distance = hit.Distance
		out.Point = toVectorJSON(hit.Point)
		out.Triangle = &triangle
		out.Barycentric = toVectorJSON(hit.Barycentric)
	}
	return out
}

// ProbeAction casts a single world space ray against the ground.
func ProbeAction(cCtx *cli.Context) error {
	origin, err := vectorFlag(cCtx, probeFlagOrigin)
	if err != nil {
		return err
	}
	direction, err := vectorFlag(cCtx, probeFlagDirection)
	if err != nil {
		return err
	}
	if direction.Norm2() == 0 {
		return errors.Errorf("--%s must not be the zero vector", probeFlagDirection)
	}
	maxDistance := cCtx.Float64(probeFlagMaxDistance)
	if maxDistance < 0 || math.IsNaN(maxDistance) {
		return errors.Errorf("--%s must not be negative", probeFlagMaxDistance)
	}

	g, err := loadGround(cCtx)
	if err != nil {
		return err
	}
	ray := spatialmath.NewRay(origin, direction)
	if maxDistance > 0 {
		ray.MaxDistance = maxDistance
	}
	hit, ok := g.IntersectRay(ray)
	return printJSON(cCtx.App.Writer, newHitOutput(g, hit, ok))
}

// OnGroundAction reports whether a world point is within a vertical tolerance of the ground.
func OnGroundAction(cCtx *cli.Context) error {
	point, err := vectorFlag(cCtx, probeFlagOrigin)
	if err != nil {
		return err
	}
	g, err := loadGround(cCtx)
	if err != nil {
		return err
	}
	hit, ok := g.OnGround(point, cCtx.Float64(probeFlagTolerance))
	return printJSON(cCtx.App.Writer, newHitOutput(g, hit, ok))
}
