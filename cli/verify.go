package cli

import (
	"math/rand"
	"sync/atomic"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/JerryBerry12/substrata/ground"
	"github.com/JerryBerry12/substrata/spatialmath"
	"github.com/JerryBerry12/substrata/utils"
)

// pointTolerance is how far apart the indexed and exhaustive hit points may be, in world units.
const pointTolerance = 1e-6

type verifyResult struct {
	Rays       int64 `json:"rays"`
	Hits       int64 `json:"hits"`
	Mismatches int64 `json:"mismatches"`
}

// VerifyAction casts random world rays at the ground and compares every answer with an exhaustive
// search over the mesh. The index is shared by all workers without locking.
func VerifyAction(cCtx *cli.Context) error {
	rays := cCtx.Int(verifyFlagRays)
	workers := cCtx.Int(verifyFlagWorkers)
	if rays < 1 || workers < 1 {
		return errors.Errorf("--%s and --%s must be positive", verifyFlagRays, verifyFlagWorkers)
	}
	g, err := loadGround(cCtx)
	if err != nil {
		return err
	}

	res := verifyGround(g, rays, workers, cCtx.Int64(verifyFlagSeed))
	if err := printJSON(cCtx.App.Writer, res); err != nil {
		return err
	}
	if res.Mismatches > 0 {
		return errors.Errorf("%d of %d rays disagreed with the exhaustive search", res.Mismatches, res.Rays)
	}
	return nil
}

func verifyGround(g *ground.Ground, rays, workers int, seed int64) verifyResult {
	var hits, mismatches atomic.Int64
	low, high, ok := g.WorldBounds()
	if !ok {
		low, high = g.Position(), g.Position()
	}
	size := high.Sub(low)
	// Widen the sampling box so some rays miss.
	low = low.Sub(size.Mul(0.25)).Sub(r3.Vector{Z: 1})
	size = size.Mul(1.5).Add(r3.Vector{Z: 2})

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		rng := rand.New(rand.NewSource(seed + int64(w)))
		count := rays / workers
		if w < rays%workers {
			count++
		}
		eg.Go(func() error {
			transform := g.Transform()
			for i := 0; i < count; i++ {
				origin := r3.Vector{
					X: low.X + rng.Float64()*size.X,
					Y: low.Y + rng.Float64()*size.Y,
					Z: low.Z + rng.Float64()*size.Z,
				}
				dir := r3.Vector{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
				ray := spatialmath.NewRay(origin, dir)

				got, ok := g.IntersectRay(ray)
				want, wantOK := spatialmath.BruteForceIntersectRay(g.Mesh(), transform.RayToLocal(ray))
				if ok {
					hits.Add(1)
				}
				switch {
				case ok != wantOK:
					mismatches.Add(1)
				case ok:
					wantPoint := transform.PointToWorld(want.Point)
					if got.Triangle != want.Triangle ||
						!spatialmath.R3VectorAlmostEqual(got.Point, wantPoint, pointTolerance) ||
						!utils.Float64AlmostEqual(got.Distance, wantPoint.Distance(origin), pointTolerance) {
						mismatches.Add(1)
					}
				}
			}
			return nil
		})
	}
	//nolint:errcheck
	eg.Wait()
	return verifyResult{Rays: int64(rays), Hits: hits.Load(), Mismatches: mismatches.Load()}
}
