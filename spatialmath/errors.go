package spatialmath

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidSoup is the cause of every error returned while validating a triangle soup.
	ErrInvalidSoup = errors.New("invalid triangle soup")

	// ErrSingularTransform is returned when a local-to-world matrix has no usable inverse.
	ErrSingularTransform = errors.New("transform is not invertible")
)

func newBadStrideError(offset, stride int) error {
	return errors.Wrapf(ErrInvalidSoup, "stride %d with component offset %d cannot hold 3 position components", stride, offset)
}

func newVertexBufferLengthError(length, stride int) error {
	return errors.Wrapf(ErrInvalidSoup, "vertex buffer length %d is not a multiple of stride %d", length, stride)
}

func newIndexCountError(count int) error {
	return errors.Wrapf(ErrInvalidSoup, "index count %d is not a multiple of 3", count)
}

func newIndexOutOfRangeError(position int, index uint32, vertexCount int) error {
	return errors.Wrapf(ErrInvalidSoup, "index %d at position %d is out of range for %d vertices", index, position, vertexCount)
}

func newNonFiniteVertexError(vertex int) error {
	return errors.Wrapf(ErrInvalidSoup, "vertex %d has a non-finite coordinate", vertex)
}

func newSingularTransformError(det float64) error {
	return errors.Wrapf(ErrSingularTransform, "determinant %g", det)
}
