package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
)

// TriangleSoup is an immutable set of triangles described by a packed vertex buffer and an index
// buffer of triples. Offset and stride are counted in float32 components, so a stride of 3 is a
// tightly packed 12 byte position and larger strides skip interleaved attributes.
type TriangleSoup struct {
	vertices []float32
	indices  []uint32
	offset   int
	stride   int
}

// NewTriangleSoup validates the buffers once and takes a private copy of them. Nothing about the
// soup is checked again after this returns.
func NewTriangleSoup(vertices []float32, indices []uint32, offset, stride int) (*TriangleSoup, error) {
	if stride < 3 || offset < 0 || offset+3 > stride {
		return nil, newBadStrideError(offset, stride)
	}
	if len(vertices)%stride != 0 {
		return nil, newVertexBufferLengthError(len(vertices), stride)
	}
	if len(indices)%3 != 0 {
		return nil, newIndexCountError(len(indices))
	}
	vertexCount := len(vertices) / stride
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return nil, newIndexOutOfRangeError(i, idx, vertexCount)
		}
	}
	for i := 0; i < vertexCount; i++ {
		base := i*stride + offset
		for _, c := range vertices[base : base+3] {
			if math.IsNaN(float64(c)) || math.IsInf(float64(c), 0) {
				return nil, newNonFiniteVertexError(i)
			}
		}
	}
	return &TriangleSoup{
		vertices: append([]float32(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
		offset:   offset,
		stride:   stride,
	}, nil
}

// VertexCount returns the number of vertices.
func (s *TriangleSoup) VertexCount() int {
	return len(s.vertices) / s.stride
}

// TriangleCount returns the number of triangles.
func (s *TriangleSoup) TriangleCount() int {
	return len(s.indices) / 3
}

// IsEmpty returns true if the soup has no triangles.
func (s *TriangleSoup) IsEmpty() bool {
	return len(s.indices) == 0
}

// Offset returns the component offset of the position inside each vertex.
func (s *TriangleSoup) Offset() int {
	return s.offset
}

// Stride returns the number of float32 components per vertex.
func (s *TriangleSoup) Stride() int {
	return s.stride
}

// Vertex returns the position of vertex i.
func (s *TriangleSoup) Vertex(i int) r3.Vector {
	base := i*s.stride + s.offset
	return r3.Vector{
		X: float64(s.vertices[base]),
		Y: float64(s.vertices[base+1]),
		Z: float64(s.vertices[base+2]),
	}
}

// Triangle returns triangle i built from its three indexed vertices.
func (s *TriangleSoup) Triangle(i int) *Triangle {
	return NewTriangle(
		s.Vertex(int(s.indices[3*i])),
		s.Vertex(int(s.indices[3*i+1])),
		s.Vertex(int(s.indices[3*i+2])),
	)
}

// Triangles returns every triangle in index buffer order.
func (s *TriangleSoup) Triangles() []*Triangle {
	return lo.Times(s.TriangleCount(), s.Triangle)
}

// Vertices returns a copy of the vertex buffer, for renderers.
func (s *TriangleSoup) Vertices() []float32 {
	return append([]float32(nil), s.vertices...)
}

// Indices returns a copy of the index buffer, for renderers.
func (s *TriangleSoup) Indices() []uint32 {
	return append([]uint32(nil), s.indices...)
}
