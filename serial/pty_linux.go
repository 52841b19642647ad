package serial

import (
	ioctl "github.com/daedaluz/goioctl"
	"syscall"
	"unsafe"
)

// Winsize mirrors struct winsize from <asm-generic/termios.h>; only used
// by the PTY loopback harness below.
type Winsize struct {
	Row, Col       uint16
	Xpixel, Ypixel uint16
}

// SetLockPT controls the lock flag on a ptmx master (TIOCSPTLCK);
// unlocking is required before the slave can be opened by path or peer fd.
func (p *Port) SetLockPT(lock bool) error {
	var v int32
	if lock {
		v = 1
	}
	return ioctl.Ioctl(uintptr(p.fd), tiocsptlck, uintptr(unsafe.Pointer(&v)))
}

// GetPTPeer opens the slave end of a ptmx master directly via TIOCGPTPEER,
// avoiding a race against another process renaming/removing /dev/pts/N.
// TIOCGPTPEER returns the new fd as the ioctl's own return value rather
// than through a pointer argument, so it goes through the raw syscall
// instead of goioctl's Ioctl (which only reports success/failure).
func (p *Port) GetPTPeer(flags int) (*Port, error) {
	r, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(p.fd), uintptr(tiocgptpeer), uintptr(flags))
	if errno != 0 {
		return nil, errno
	}
	return &Port{fd: int(r)}, nil
}

// SetWinSize applies a window size to the Port (meaningful on PTY slaves).
func (p *Port) SetWinSize(w *Winsize) error {
	return ioctl.Ioctl(uintptr(p.fd), tiocswinsz, uintptr(unsafe.Pointer(w)))
}

// GetWinSize reads back the window size.
func (p *Port) GetWinSize() (*Winsize, error) {
	w := &Winsize{}
	if err := ioctl.Ioctl(uintptr(p.fd), tiocgwinsz, uintptr(unsafe.Pointer(w))); err != nil {
		return nil, err
	}
	return w, nil
}

// OpenPTY finds an available pseudoterminal and returns a master and slave
// port. It exists to let tests stand a scripted MCU stub up on the slave
// side and drive a real transport.Connection against the master — no
// physical hardware required. If termp is non-nil, the slave port is
// configured with the given termios.
func OpenPTY(termp *Termios) (master, slave *Port, err error) {
	master, err = openRaw("/dev/ptmx")
	if err != nil {
		return nil, nil, err
	}
	if err := master.SetLockPT(false); err != nil {
		master.Close()
		return nil, nil, err
	}
	slave, err = master.GetPTPeer(syscall.O_RDWR | syscall.O_NOCTTY)
	if err != nil {
		master.Close()
		return nil, nil, err
	}
	if termp != nil {
		if err := slave.SetAttr(TCSANOW, termp); err != nil {
			master.Close()
			slave.Close()
			return nil, nil, err
		}
	}
	return master, slave, nil
}

// openRaw opens path with no termios configuration applied, used for
// /dev/ptmx which isn't itself a terminal.
func openRaw(path string) (*Port, error) {
	fd, err := syscall.Open(path, syscall.O_RDWR|syscall.O_NOCTTY, 0)
	if err != nil {
		return nil, newPortOpenError(path, err)
	}
	return &Port{fd: fd}, nil
}
