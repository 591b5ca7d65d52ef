package roster

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/hatchery/internal/game/creature"
)

// yamlSeedFile is the top-level YAML structure for seed files.
type yamlSeedFile struct {
	Creatures []yamlCreature `yaml:"creatures"`
}

// yamlCreature is the YAML representation of a seeded creature.
type yamlCreature struct {
	Name       string `yaml:"name"`
	Level      uint32 `yaml:"level"`
	Kind       string `yaml:"kind"`
	Gender     string `yaml:"gender"`
	Experience uint32 `yaml:"experience"`
}

// LoadSeedFile reads a YAML seed file and builds a Roster from it.
//
// Precondition: path must point to a YAML seed file.
// Postcondition: Returns a Roster or a non-nil error.
func LoadSeedFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	return LoadSeedBytes(data)
}

// LoadSeedBytes parses YAML seed data. Seeded experience is applied through
// GainExperience, so 250 experience at level 3 yields level 5 with 50 experience.
//
// Postcondition: Returns a Roster with every seeded creature in file order, or
// a non-nil error naming the first invalid entry.
func LoadSeedBytes(data []byte) (*Roster, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file yamlSeedFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("parsing seed YAML: %w", err)
	}
	if len(file.Creatures) == 0 {
		return nil, errors.New("seed file lists no creatures")
	}

	r := New()
	for i, yc := range file.Creatures {
		c, err := convertYAMLCreature(yc)
		if err != nil {
			return nil, fmt.Errorf("seed creature %d: %w", i, err)
		}
		r.Add(c)
	}
	return r, nil
}

func convertYAMLCreature(yc yamlCreature) (*creature.Creature, error) {
	name := strings.TrimSpace(yc.Name)
	if name == "" {
		return nil, errors.New("name must not be empty")
	}
	if yc.Level < 1 {
		return nil, fmt.Errorf("%s: level must be >= 1", name)
	}
	kind, err := creature.ParseKind(yc.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	gender, err := creature.ParseGender(yc.Gender)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c := creature.New(name, yc.Level, kind, gender)
	c.GainExperience(yc.Experience)
	return c, nil
}

// Starters returns the four-creature demonstration roster.
func Starters() *Roster {
	r := New()
	r.Add(creature.New("Salamèche", 5, creature.Fire, creature.Male))
	r.Add(creature.New("Carapuce", 6, creature.Water, creature.Female))
	r.Add(creature.New("Bulbizarre", 7, creature.Grass, creature.Male))
	r.Add(creature.New("Pikachu", 5, creature.Electric, creature.Female))
	return r
}
