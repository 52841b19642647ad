// Package mcuconfig loads a PortConfig from YAML, the way
// feiyuluoye-mutil-modbus's collector package loads its RootConfig:
// read the file, unmarshal with gopkg.in/yaml.v3, apply defaults,
// validate.
package mcuconfig

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fedddot/mcu-client-go/serial"
	"github.com/fedddot/mcu-client-go/transport"
)

// defaultCapacity is applied when a config omits buffer_capacity.
const defaultCapacity = 4096

// PortConfig mirrors the fields spec.md §3 assigns a connection: the
// device path, baud rate, head/tail framing markers, and accumulator
// capacity.
type PortConfig struct {
	Path           string `yaml:"path"`
	BaudRate       int    `yaml:"baud"`
	Head           string `yaml:"head"`
	Tail           string `yaml:"tail"`
	BufferCapacity int    `yaml:"buffer_capacity"`
}

// Load reads and validates a PortConfig from path.
func Load(path string) (PortConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return PortConfig{}, err
	}
	var cfg PortConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return PortConfig{}, err
	}
	if cfg.BufferCapacity <= 0 {
		cfg.BufferCapacity = defaultCapacity
	}
	if err := cfg.validate(); err != nil {
		return PortConfig{}, err
	}
	return cfg, nil
}

// validate enforces spec.md §3: path must be non-blank, head must be
// non-empty, tail must be non-empty, head must not equal tail, and
// neither may be a prefix of the other.
func (c PortConfig) validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return fmt.Errorf("mcuconfig: path is required")
	}
	if c.Head == "" {
		return fmt.Errorf("mcuconfig: head must be non-empty")
	}
	if c.Tail == "" {
		return fmt.Errorf("mcuconfig: tail must be non-empty")
	}
	if c.Head == c.Tail {
		return fmt.Errorf("mcuconfig: head and tail must differ")
	}
	if strings.HasPrefix(c.Tail, c.Head) || strings.HasPrefix(c.Head, c.Tail) {
		return fmt.Errorf("mcuconfig: head and tail must not be prefixes of each other")
	}
	return nil
}

// Baud resolves the configured integer rate to a serial.Baud constant.
func (c PortConfig) Baud() (serial.Baud, error) {
	switch c.BaudRate {
	case 9600:
		return serial.Baud9600, nil
	case 115200:
		return serial.Baud115200, nil
	default:
		return 0, fmt.Errorf("mcuconfig: unsupported baud rate %d", c.BaudRate)
	}
}

// Connection opens a transport.Connection from the validated config.
func (c PortConfig) Connection() (*transport.Connection, error) {
	baud, err := c.Baud()
	if err != nil {
		return nil, err
	}
	return transport.New(transport.Config{
		Path:     c.Path,
		Baud:     baud,
		Head:     []byte(c.Head),
		Tail:     []byte(c.Tail),
		Capacity: c.BufferCapacity,
	})
}
