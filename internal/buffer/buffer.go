package buffer

// Buffer defines a simple float buffer that acts like a constant size queue
type Buffer struct {
	ring *Ring[float64]
}

// NewBuffer creates a new buffer.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		ring: NewRing[float64](size),
	}
}

// Push adds an element to the buffer.
// It returns the element that dropped out of the buffer, if any.
func (b *Buffer) Push(x float64) (float64, bool) {
	return b.ring.Push(x)
}

// Len returns the current length of the buffer.
func (b *Buffer) Len() int {
	return b.ring.Size()
}

// Get returns the buffer elements in the order they were added.
func (b *Buffer) Get() []float64 {
	return b.ring.Get()
}

// Mean returns the average of the buffer elements, 0 for an empty buffer.
func (b *Buffer) Mean() float64 {
	size := b.ring.Size()
	if size == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < size; i++ {
		sum += b.ring.At(i)
	}
	return sum / float64(size)
}

// MultiBuffer defines a simple float slice buffer that acts like a constant size queue
type MultiBuffer struct {
	ring *Ring[[]float64]
}

// NewMultiBuffer creates a new buffer.
func NewMultiBuffer(size int) *MultiBuffer {
	return &MultiBuffer{
		ring: NewRing[[]float64](size),
	}
}

// Push adds an element to the buffer.
// The values are copied, so callers may reuse the slice.
func (b *MultiBuffer) Push(x ...float64) ([]float64, bool) {
	v := make([]float64, len(x))
	copy(v, x)
	return b.ring.Push(v)
}

// Get returns the buffer elements in the order they were added.
func (b *MultiBuffer) Get() [][]float64 {
	return b.ring.Get()
}

// Column returns the i-th value of every element in the order they were added.
func (b *MultiBuffer) Column(i int) []float64 {
	size := b.ring.Size()
	vv := make([]float64, size)
	for j := 0; j < size; j++ {
		vv[j] = b.ring.At(j)[i]
	}
	return vv
}

// Len returns the current length of the buffer.
func (b *MultiBuffer) Len() int {
	return b.ring.Size()
}
