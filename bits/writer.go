package bits

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BitWriter encodes fixed-width values into a caller-supplied buffer.
// Growing is opt-in; with growing disabled an overflow panics.
type BitWriter struct {
	pos   int
	data  []byte
	size  int
	order binary.ByteOrder

	growingEnabled bool
}

func NewEncodeBuffer(buf []byte, order binary.ByteOrder) BitWriter {

	result := BitWriter{}

	result.data = buf
	result.pos = 0
	result.size = len(buf)
	result.order = order

	return result
}

func (w *BitWriter) EnableGrowing() {
	w.growingEnabled = true
}

func (w *BitWriter) Reset() {
	w.pos = 0
}

func (w *BitWriter) Position() int {
	return w.pos
}

func (w *BitWriter) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *BitWriter) grow(atLeast int) {

	newSize := w.size * 2
	if atLeast > newSize {
		newSize += atLeast
	}

	newBuf := make([]byte, newSize)

	copy(newBuf, w.data[:w.pos])
	w.data = newBuf
	w.size = newSize
}

func (w *BitWriter) tryGrow(n int) {
	if (w.pos + n) > w.size {
		if w.growingEnabled {
			w.grow(n)
		} else {
			panic(fmt.Sprintf("bit writer growing is disabled on pos : %d, try grow %d, from size : %d", w.pos, n, w.size))
		}
	}
}

func (w *BitWriter) WriteByte(v byte) error {
	w.tryGrow(1)
	w.data[w.pos] = v
	w.pos++
	return nil
}

func (w *BitWriter) Write(v []byte) (int, error) {
	w.tryGrow(len(v))
	copy(w.data[w.pos:], v)
	w.pos += len(v)
	return len(v), nil
}

func (w *BitWriter) PutUint16(v uint16) {
	w.tryGrow(2)
	w.order.PutUint16(w.data[w.pos:], v)
	w.pos += 2
}

func (w *BitWriter) PutUint32(v uint32) {
	w.tryGrow(4)
	w.order.PutUint32(w.data[w.pos:], v)
	w.pos += 4
}

func (w *BitWriter) PutUint64(v uint64) {
	w.tryGrow(8)
	w.order.PutUint64(w.data[w.pos:], v)
	w.pos += 8
}

func (w *BitWriter) PutFloat64(v float64) {
	w.PutUint64(math.Float64bits(v))
}

// EmptyBytes advances over n reserved bytes, zeroing them.
func (w *BitWriter) EmptyBytes(n int) {
	w.tryGrow(n)
	for i := 0; i < n; i++ {
		w.data[w.pos+i] = 0
	}
	w.pos += n
}
