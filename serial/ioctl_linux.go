package serial

import (
	ioctl "github.com/daedaluz/goioctl"
	"unsafe"
)

// ioctl request numbers, trimmed to what Open/GetAttr/SetAttr and the PTY
// harness need. tcgets/tcsets are the plain (non-struct-encoded) numbers
// Linux has used unchanged since the first termios ABI, so they are
// hardcoded rather than derived via ioctl.IOR/IOW the way the newer ptmx
// ones are.
var (
	tcgets = uintptr(0x5401)
	tcsets = uintptr(0x5402)

	tiocsptlck  = ioctl.IOW('T', 0x31, unsafe.Sizeof(int32(0)))
	tiocgptpeer = ioctl.IO('T', 0x41)

	tiocswinsz = uintptr(0x5414)
	tiocgwinsz = uintptr(0x5413)
)
