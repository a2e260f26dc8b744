package dummy

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devaccess/devaccess-go/pkg/accessor"
)

// Access is the access right of a register.
type Access string

const (
	AccessReadWrite Access = "rw"
	AccessReadOnly  Access = "ro"
	AccessWriteOnly Access = "wo"
)

// Readable reports whether the register may be read.
func (a Access) Readable() bool { return a != AccessWriteOnly }

// Writeable reports whether the register may be written.
func (a Access) Writeable() bool { return a != AccessReadOnly }

// RegisterInfo describes one register of a map file.
type RegisterInfo struct {
	Name           string `yaml:"name"`
	Address        uint32 `yaml:"address"`
	Words          int    `yaml:"words,omitempty"`
	Access         Access `yaml:"access,omitempty"`
	Push           bool   `yaml:"push,omitempty"`
	FractionalBits int    `yaml:"fractional_bits,omitempty"`
	Type           string `yaml:"type,omitempty"`
}

// Kind returns the user type suggested for the register.
func (r RegisterInfo) Kind() accessor.Kind {
	if r.Type == "" {
		if r.FractionalBits > 0 {
			return accessor.KindFloat64
		}
		return accessor.KindInt32
	}
	k, err := accessor.ParseKind(r.Type)
	if err != nil {
		return accessor.KindInvalid
	}
	return k
}

// Map is a parsed register map.
type Map struct {
	Device    string         `yaml:"device"`
	Registers []RegisterInfo `yaml:"registers"`
}

// Map errors.
var (
	ErrInvalidMap      = errors.New("invalid register map")
	ErrUnknownRegister = errors.New("unknown register")
)

// LoadMap reads and parses a register map file.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read register map: %w", err)
	}
	return ParseMap(data)
}

// ParseMap parses and validates a YAML register map. Missing word counts
// default to 1, missing access rights to read-write.
func ParseMap(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}
	if err := m.normalise(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Map) normalise() error {
	seen := make(map[string]bool, len(m.Registers))
	for i := range m.Registers {
		r := &m.Registers[i]
		if r.Name == "" {
			return fmt.Errorf("%w: register %d has no name", ErrInvalidMap, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate register %q", ErrInvalidMap, r.Name)
		}
		seen[r.Name] = true

		if r.Words == 0 {
			r.Words = 1
		}
		if r.Words < 0 {
			return fmt.Errorf("%w: register %q: negative word count", ErrInvalidMap, r.Name)
		}
		switch r.Access {
		case "":
			r.Access = AccessReadWrite
		case AccessReadWrite, AccessReadOnly, AccessWriteOnly:
		default:
			return fmt.Errorf("%w: register %q: unknown access %q", ErrInvalidMap, r.Name, r.Access)
		}
		if r.FractionalBits < 0 || r.FractionalBits > 30 {
			return fmt.Errorf("%w: register %q: fractional bits out of range", ErrInvalidMap, r.Name)
		}
		if r.Kind() == accessor.KindInvalid {
			return fmt.Errorf("%w: register %q: unknown type %q", ErrInvalidMap, r.Name, r.Type)
		}
	}
	return nil
}

// Register returns the register named name.
func (m *Map) Register(name string) (RegisterInfo, error) {
	for _, r := range m.Registers {
		if r.Name == name {
			return r, nil
		}
	}
	return RegisterInfo{}, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
}
