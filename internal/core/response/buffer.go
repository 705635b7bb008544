package response

import "io"

// InitialCapacity is the capacity of a freshly allocated Buffer.
const InitialCapacity = 1024

// Buffer is an append-only byte buffer used to assemble one outgoing message.
// It is owned by a single connection handler and is not safe for concurrent use.
//
// Capacity starts at InitialCapacity and only grows, by doubling, until the
// next append fits. Bytes already appended are never moved relative to each
// other or modified.
type Buffer struct {
	items []byte
}

// NewBuffer allocates a Buffer with InitialCapacity and zero length.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.alloc()
	return b
}

func (b *Buffer) alloc() {
	b.items = make([]byte, 0, InitialCapacity)
}

// Append copies p to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	if b.items == nil {
		b.alloc()
	}

	newSize := len(b.items) + len(p)
	if newSize > cap(b.items) {
		newCap := cap(b.items) * 2
		for newCap < newSize {
			newCap *= 2
		}
		grown := make([]byte, len(b.items), newCap)
		copy(grown, b.items)
		b.items = grown
	}

	b.items = append(b.items, p...)
}

// AppendString copies the bytes of s to the end of the buffer.
func (b *Buffer) AppendString(s string) {
	b.Append([]byte(s))
}

// Bytes returns the buffered content. The slice is only valid until the next
// Append or Release.
func (b *Buffer) Bytes() []byte {
	return b.items
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.items)
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return cap(b.items)
}

// WriteTo writes the whole buffer to w in a single Write call.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.items)
	if err == nil && n < len(b.items) {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

// Release drops the storage. Calling it more than once is a no-op.
func (b *Buffer) Release() {
	if b.items == nil {
		return
	}
	b.items = nil
}
