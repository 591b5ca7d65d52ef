package creature

import "fmt"

// Gender of a creature. Breeding requires one of each.
type Gender uint8

const (
	Male Gender = iota + 1
	Female
)

// Genders returns both genders; index 0 is Male.
func Genders() []Gender {
	return []Gender{Male, Female}
}

// Valid reports whether g is Male or Female.
func (g Gender) Valid() bool {
	return g == Male || g == Female
}

// String returns the persisted name of g.
func (g Gender) String() string {
	switch g {
	case Male:
		return "Male"
	case Female:
		return "Female"
	}
	return fmt.Sprintf("Gender(%d)", uint8(g))
}

// Label returns the display label used when rendering a creature.
func (g Gender) Label() string {
	if g == Female {
		return "Femelle"
	}
	return g.String()
}

// ParseGender converts a persisted gender name into a Gender.
func ParseGender(s string) (Gender, error) {
	switch s {
	case "Male":
		return Male, nil
	case "Female":
		return Female, nil
	}
	return 0, fmt.Errorf("unknown gender %q: must be one of [Male, Female]", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Gender) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid gender %d", uint8(g))
	}
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
