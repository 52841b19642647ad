// Package transport composes a serial.Port and a framing.Buffer into a
// Connection: a background listener drains the port and feeds the framer,
// while readable/read/send give callers a thread-safe view of the result.
// It mirrors the teacher's Port in shape — same open/close lifecycle, same
// idea of a single background reader — but the reader here is a goroutine
// guarded by a mutex and condition variable instead of a raw fd wrapper.
package transport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fedddot/mcu-client-go/framing"
	"github.com/fedddot/mcu-client-go/serial"
)

// defaultReadableTimeout bounds how long Readable will wait for a frame
// before giving up, per spec.md §4.C. The per-poll timeout inside the
// listener's read loop lives in serial.Port.ReadAvailable instead, since
// that's where the actual poll(2) call happens.
const defaultReadableTimeout = 5 * time.Second

// Config describes the serial link and framing a Connection should use.
type Config struct {
	Path     string
	Baud     serial.Baud
	Head     []byte
	Tail     []byte
	Capacity int

	// ReadableTimeout overrides defaultReadableTimeout when non-zero.
	ReadableTimeout time.Duration
}

// Connection owns a serial port, a frame buffer, and the listener goroutine
// that keeps the two in sync. It is the thread-safe surface spec.md §4.C
// describes: readable/read/send may be called from any goroutine, and a
// single background listener is the port's only reader.
type Connection struct {
	port    *serial.Port
	buf     *framing.Buffer
	log     *logrus.Entry
	timeout time.Duration

	mu        sync.Mutex
	cond      *sync.Cond
	listening atomic.Bool
	done      chan struct{}

	listenerErr atomic.Value // error
}

// New opens the configured port, wires a frame buffer to it, and starts the
// listener goroutine. The returned Connection is ready to use immediately.
func New(cfg Config) (*Connection, error) {
	port, err := serial.Open(cfg.Path, cfg.Baud)
	if err != nil {
		return nil, err
	}
	return newFromPort(port, cfg), nil
}

// NewFromPort wires a Connection around an already-open port instead of
// calling serial.Open itself. It exists for the PTY loopback harness —
// tests open a master/slave pty pair with serial.OpenPTY and hand the
// master straight in, with no real hardware involved.
func NewFromPort(port *serial.Port, head, tail []byte, capacity int, readableTimeout time.Duration) *Connection {
	return newFromPort(port, Config{Head: head, Tail: tail, Capacity: capacity, ReadableTimeout: readableTimeout})
}

func newFromPort(port *serial.Port, cfg Config) *Connection {
	c := &Connection{
		port:    port,
		log:     logrus.WithField("component", "transport.Connection").WithField("path", cfg.Path),
		timeout: cfg.ReadableTimeout,
		done:    make(chan struct{}),
	}
	if c.timeout <= 0 {
		c.timeout = defaultReadableTimeout
	}
	c.cond = sync.NewCond(&c.mu)
	c.buf = framing.New(cfg.Head, cfg.Tail, cfg.Capacity, port.Write)

	c.listening.Store(true)
	go c.listen()
	return c
}

// Send frames payload and writes it to the port, serialized against the
// listener's own writes (there are none) and against other Send callers.
// Once the listener has died, Send fails fast with the same
// ListenerDeadError Err reports, rather than writing into a connection
// nothing is draining anymore.
func (c *Connection) Send(payload []byte) error {
	if err := c.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Send(payload)
}

// Readable blocks until a complete frame is queued or the connection's
// readable-wait timeout elapses, then reports which happened. Once the
// listener has died, Readable returns false immediately instead of
// waiting out the timeout — there is nothing left to feed the buffer.
func (c *Connection) Readable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf.Readable() {
		return true
	}
	if c.Err() != nil {
		return false
	}

	timer := time.AfterFunc(c.timeout, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer timer.Stop()
	c.cond.Wait()
	return c.buf.Readable()
}

// Read removes and returns the oldest queued frame. Callers normally call
// Readable first. Read on an empty queue returns framing.ErrEmpty, unless
// the listener has since died, in which case it returns the
// ListenerDeadError Err reports instead — the queue will never fill
// again.
func (c *Connection) Read() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	frame, err := c.buf.Read()
	if err != nil {
		if lerr := c.Err(); lerr != nil {
			return nil, lerr
		}
	}
	return frame, err
}

// Err returns the error that killed the listener goroutine, if any. A
// live connection returns nil.
func (c *Connection) Err() error {
	if v := c.listenerErr.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Destroy stops the listener, joins it, and closes the port. It is
// idempotent-safe to call once; it never leaves the descriptor or the
// goroutine behind even if the close fails.
func (c *Connection) Destroy() error {
	if c.listening.Swap(false) {
		<-c.done
	}
	return c.port.Close()
}

// listen is the sole reader of the port for the life of the connection. It
// polls, drains, feeds the framer under the mutex, and wakes any waiter in
// Readable when a new frame completes.
func (c *Connection) listen() {
	defer close(c.done)
	for c.listening.Load() {
		data, err := c.port.ReadAvailable()
		if err != nil {
			c.log.WithError(err).Error("listener: read failed, stopping")
			c.mu.Lock()
			c.listenerErr.Store(newListenerDeadError(err))
			c.cond.Broadcast()
			c.mu.Unlock()
			return
		}
		if len(data) == 0 {
			continue
		}

		c.mu.Lock()
		c.buf.Feed(data)
		if c.buf.Readable() {
			c.cond.Broadcast()
		}
		c.mu.Unlock()
		c.log.WithField("bytes", len(data)).Debug("listener: fed data")
	}
}
