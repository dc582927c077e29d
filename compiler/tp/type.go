package tp

import (
	"fmt"
	"strconv"
)

type (
	Type interface {
		Size() int
		String() string
	}

	// Auto is to be inferred from the value.
	Auto struct{}

	// Named is a type name not resolved yet.
	Named string

	Int struct {
		Bits   int16
		Signed bool
	}
)

// Parse resolves builtin integer type names: u8..u64 and s8..s64.
// Anything else is left Named for a later pass.
func Parse(name string) Type {
	if name == "auto" {
		return Auto{}
	}

	if len(name) < 2 || name[0] != 'u' && name[0] != 's' {
		return Named(name)
	}

	bits, err := strconv.Atoi(name[1:])
	if err != nil {
		return Named(name)
	}

	switch bits {
	case 8, 16, 32, 64:
	default:
		return Named(name)
	}

	return Int{
		Bits:   int16(bits),
		Signed: name[0] == 's',
	}
}

func (Auto) Size() int { return 0 }

func (Auto) String() string { return "auto" }

func (Named) Size() int { return 0 }

func (x Named) String() string { return string(x) }

func (x Int) Size() int {
	return int(x.Bits) / 8
}

func (x Int) String() string {
	if x.Signed {
		return fmt.Sprintf("s%d", x.Bits)
	}

	return fmt.Sprintf("u%d", x.Bits)
}
