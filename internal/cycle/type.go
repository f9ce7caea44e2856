package cycle

import (
	"fmt"
	"strings"
)

// Type is the shape of one loading excursion.
type Type int

const (
	// Push loads one way: 0 -> +peak.
	Push Type = iota
	// Half loads there and back: 0 -> +peak -> 0.
	Half
	// Full adds the reverse excursion: 0 -> +peak -> 0 -> -peak -> 0.
	Full
)

var typeNames = [...]string{
	Push: "Push",
	Half: "Half",
	Full: "Full",
}

func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is one of the three known cycle types.
func (t Type) Valid() bool {
	return t >= Push && t <= Full
}

// Phases is the number of peakSteps-long legs the cycle walks.
func (t Type) Phases() int {
	switch t {
	case Push:
		return 1
	case Half:
		return 2
	case Full:
		return 4
	}
	return 0
}

// ParseType matches the exact labels "Push", "Half" and "Full".
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if s == name {
			return Type(i), nil
		}
	}
	return Push, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownType, s, strings.Join(typeNames[:], ", "))
}

// ParseTypeLenient accepts any label. Only the exact strings "Half" and
// "Full" enable the extra phases; everything else runs Push only.
func ParseTypeLenient(s string) Type {
	switch s {
	case "Half":
		return Half
	case "Full":
		return Full
	default:
		return Push
	}
}

func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(typeNames[t]), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
