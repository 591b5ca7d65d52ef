package creature

import "fmt"

// Kind is the elemental type of a creature.
type Kind uint8

const (
	Fire Kind = iota + 1
	Water
	Grass
	Electric
)

var kindNames = map[Kind]string{
	Fire:     "Fire",
	Water:    "Water",
	Grass:    "Grass",
	Electric: "Electric",
}

var kindLabels = map[Kind]string{
	Fire:     "Feu",
	Water:    "Eau",
	Grass:    "Plante",
	Electric: "Electrik",
}

// Kinds returns every valid Kind in declaration order.
func Kinds() []Kind {
	return []Kind{Fire, Water, Grass, Electric}
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// String returns the persisted name of k ("Fire", "Water", ...).
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Label returns the display label used when rendering a creature.
func (k Kind) Label() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return k.String()
}

// ParseKind converts a persisted kind name into a Kind.
//
// Postcondition: Returns a valid Kind or a non-nil error.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q: must be one of [Fire, Water, Grass, Electric]", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
