// Package framing implements a head/tail delimited byte framer: accumulate
// bytes, extract complete head…payload…tail messages, and queue them for a
// caller to drain. It holds no lock and spawns no goroutine of its own —
// transport.Connection supplies the mutex that makes it safe to share
// between a listener and its callers, per spec.md §4.B.
package framing

import (
	"bytes"
	"errors"
)

// ErrEmpty is returned by Read when the frame queue holds nothing.
var ErrEmpty = errors.New("framing: no frame buffered")

// Buffer accumulates a byte stream up to Capacity and extracts head…tail
// delimited frames from it in arrival order.
type Buffer struct {
	head, tail []byte
	capacity   int

	acc    []byte
	frames [][]byte

	send func([]byte) error
}

// New returns a Buffer bounded at capacity bytes of pending (unframed)
// input. send is called by Send with the fully framed wire bytes
// (head ∥ payload ∥ tail); it is typically a Port.Write.
func New(head, tail []byte, capacity int, send func([]byte) error) *Buffer {
	h := append([]byte(nil), head...)
	t := append([]byte(nil), tail...)
	return &Buffer{head: h, tail: t, capacity: capacity, send: send}
}

// Feed appends data to the accumulator, discarding the oldest bytes first
// if that would exceed Capacity, then extracts every complete frame it can
// find. A frame is the earliest head…tail pair; bytes preceding an
// unmatched head (or preceding the first head entirely) are discarded —
// they can never become part of a frame. Partial frames are left in the
// accumulator for a later Feed call.
func (b *Buffer) Feed(data []byte) {
	b.acc = append(b.acc, data...)
	if over := len(b.acc) - b.capacity; over > 0 {
		b.acc = b.acc[over:]
	}

	for {
		hi := bytes.Index(b.acc, b.head)
		if hi < 0 {
			// No complete head in the accumulator. Keep only a trailing
			// partial match of head (if any) so a head split across two
			// Feed calls still completes correctly; everything before
			// that can never become part of a frame.
			b.acc = b.acc[partialPrefixKeep(b.acc, b.head):]
			return
		}
		payloadStart := hi + len(b.head)
		ti := bytes.Index(b.acc[payloadStart:], b.tail)
		if ti < 0 {
			// Head seen but no tail yet: drop bytes before the head (they
			// can't be part of any frame) and wait for more data.
			b.acc = b.acc[hi:]
			return
		}
		payloadEnd := payloadStart + ti
		frame := append([]byte(nil), b.acc[payloadStart:payloadEnd]...)
		b.frames = append(b.frames, frame)
		b.acc = b.acc[payloadEnd+len(b.tail):]
	}
}

// Readable reports whether at least one complete frame is queued.
func (b *Buffer) Readable() bool {
	return len(b.frames) > 0
}

// Read removes and returns the oldest queued frame.
func (b *Buffer) Read() ([]byte, error) {
	if len(b.frames) == 0 {
		return nil, ErrEmpty
	}
	frame := b.frames[0]
	b.frames = b.frames[1:]
	return frame, nil
}

// Send frames payload as head ∥ payload ∥ tail and hands it to the
// configured sink.
func (b *Buffer) Send(payload []byte) error {
	wire := make([]byte, 0, len(b.head)+len(payload)+len(b.tail))
	wire = append(wire, b.head...)
	wire = append(wire, payload...)
	wire = append(wire, b.tail...)
	return b.send(wire)
}

// partialPrefixKeep returns the index from which buf might still be the
// start of needle (the longest suffix of buf that is also a prefix of
// needle), so Feed never throws away a head delimiter split across calls.
func partialPrefixKeep(buf, needle []byte) int {
	max := len(needle) - 1
	if max > len(buf) {
		max = len(buf)
	}
	for l := max; l > 0; l-- {
		if bytes.Equal(buf[len(buf)-l:], needle[:l]) {
			return len(buf) - l
		}
	}
	return len(buf)
}
