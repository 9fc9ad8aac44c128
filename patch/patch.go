// Package patch generates flat rectangular meshes used as ground surfaces.
package patch

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/JerryBerry12/substrata/utils"
)

// Stride is the number of float32 components per generated vertex.
const Stride = 3

// Generate returns the unit square [0,1]x[0,1] in the local XY plane at z=0, split into
// cols x rows cells of two triangles each. Vertices are tightly packed positions, row by row
// along +X, and every triangle winds counter-clockwise when seen from +Z.
func Generate(cols, rows int) ([]float32, []uint32, error) {
	if cols < 1 || rows < 1 {
		return nil, nil, errors.Errorf("patch must have at least one column and one row, got %dx%d", cols, rows)
	}
	xs := floats.Span(make([]float64, cols+1), 0, 1)
	ys := floats.Span(make([]float64, rows+1), 0, 1)
	grid := utils.Grid2D(xs, ys)

	n, _ := grid.Dims()
	vertices := make([]float32, 0, n*Stride)
	for i := 0; i < n; i++ {
		vertices = append(vertices, float32(grid.At(i, 0)), float32(grid.At(i, 1)), 0)
	}

	indices := make([]uint32, 0, cols*rows*6)
	rowLen := uint32(cols + 1)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			bl := uint32(r)*rowLen + uint32(c)
			br := bl + 1
			tl := bl + rowLen
			tr := tl + 1
			indices = append(indices, bl, br, tr, bl, tr, tl)
		}
	}
	return vertices, indices, nil
}
