package serial

import (
	ioctl "github.com/daedaluz/goioctl"
	"golang.org/x/sys/unix"
	"sync/atomic"
	"syscall"
	"unsafe"
)

// Baud is one of the two rates spec.md recognizes for this transport.
type Baud int

const (
	Baud9600 Baud = iota
	Baud115200
)

func (b Baud) String() string {
	switch b {
	case Baud9600:
		return "9600"
	case Baud115200:
		return "115200"
	default:
		return "unknown"
	}
}

func (b Baud) cflag() (CFlag, bool) {
	switch b {
	case Baud9600:
		return B9600, true
	case Baud115200:
		return B115200, true
	default:
		return 0, false
	}
}

// pollTimeoutMillis bounds a single ReadAvailable poll, per spec §4.A / §5(a).
const pollTimeoutMillis = 100

// Port is a raw, unbuffered handle on a Linux TTY device. It does no
// framing and spawns no goroutines; see the transport package for that.
type Port struct {
	fd     int
	closed atomic.Bool
}

// Open configures path for raw, non-canonical, no-echo, no-flow-control,
// 8N1 operation at baud and returns a ready-to-use handle. The read
// discipline (VMIN=0, VTIME=10) makes a Read return as soon as any byte
// is available, with at most ~1s spent waiting for the first one —
// matching original_source's init_tty exactly.
func Open(path string, baud Baud) (*Port, error) {
	cbaud, ok := baud.cflag()
	if !ok {
		return nil, newUnsupportedBaudError(baud)
	}

	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, newPortOpenError(path, err)
	}

	p := &Port{fd: fd}
	attrs, err := p.GetAttr()
	if err != nil {
		syscall.Close(fd)
		return nil, newPortConfigError("read tty attributes", err)
	}

	attrs.Cflag &= ^(PARENB | CSTOPB | CSIZE | CRTSCTS)
	attrs.Cflag |= CS8 | CREAD | CLOCAL
	attrs.Lflag &= ^(ICANON | ECHO | ECHOE | ECHONL | ISIG)
	attrs.Iflag &= ^(IXON | IXOFF | IXANY | IGNBRK | BRKINT | PARMRK | ISTRIP | INLCR | IGNCR | ICRNL)
	attrs.Oflag &= ^(OPOST | ONLCR)
	attrs.Cc[VTIME] = 10
	attrs.Cc[VMIN] = 0
	attrs.SetSpeed(cbaud)

	if err := p.SetAttr(TCSANOW, attrs); err != nil {
		syscall.Close(fd)
		return nil, newPortConfigError("write tty attributes", err)
	}
	return p, nil
}

// ReadAvailable drains whatever is currently readable without blocking
// the caller beyond pollTimeoutMillis; it returns an empty slice (not an
// error) if nothing was available within that window.
func (p *Port) ReadAvailable() ([]byte, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	pfd := []unix.PollFd{{Fd: int32(p.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(pfd, pollTimeoutMillis)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 || pfd[0].Revents&unix.POLLIN == 0 {
		return nil, nil
	}

	buf := make([]byte, 4096)
	var out []byte
	for {
		rn, err := syscall.Read(p.fd, buf)
		if rn > 0 {
			out = append(out, buf[:rn]...)
		}
		if rn < len(buf) || err != nil {
			break
		}
	}
	return out, nil
}

// Write writes all of data or returns ShortWriteError.
func (p *Port) Write(data []byte) error {
	if p.closed.Load() {
		return ErrClosed
	}
	n, err := syscall.Write(p.fd, data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return newShortWriteError(len(data), n)
	}
	return nil
}

// Close is idempotent.
func (p *Port) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return syscall.Close(p.fd)
}

func (p *Port) Fd() int {
	if p.closed.Load() {
		return -1
	}
	return p.fd
}

func (p *Port) GetAttr() (*Termios, error) {
	attrs := &Termios{}
	if err := ioctl.Ioctl(uintptr(p.fd), tcgets, uintptr(unsafe.Pointer(attrs))); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (p *Port) SetAttr(when Action, attrs *Termios) error {
	return ioctl.Ioctl(uintptr(p.fd), tcsets+uintptr(when), uintptr(unsafe.Pointer(attrs)))
}
