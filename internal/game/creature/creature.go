// Package creature defines the breedable creature model and its leveling rules.
package creature

import (
	"errors"
	"fmt"
	"math"
)

// ExperiencePerLevel is the amount of experience converted into one level.
const ExperiencePerLevel = 100

// Creature is a single breedable entity.
//
// Invariant: Experience < ExperiencePerLevel after every mutation through GainExperience.
type Creature struct {
	Name       string
	Level      uint32
	Kind       Kind
	Experience uint32
	Gender     Gender
}

// New constructs a Creature with zero experience.
//
// Precondition: level >= 1.
// Postcondition: Returns a Creature with Experience == 0.
func New(name string, level uint32, kind Kind, gender Gender) *Creature {
	return &Creature{
		Name:   name,
		Level:  level,
		Kind:   kind,
		Gender: gender,
	}
}

// GainExperience adds amount to the creature's experience and converts every
// full ExperiencePerLevel into one level. It returns the number of levels gained.
// Level saturates at math.MaxUint32; the experience remainder is still kept.
//
// Postcondition: Level increases by floor((Experience+amount)/100), clamped to
// math.MaxUint32, and Experience == (Experience+amount) mod 100.
func (c *Creature) GainExperience(amount uint32) uint32 {
	total := uint64(c.Experience) + uint64(amount)
	gained := total / ExperiencePerLevel
	if headroom := uint64(math.MaxUint32 - c.Level); gained > headroom {
		gained = headroom
	}
	c.Level += uint32(gained)
	c.Experience = uint32(total % ExperiencePerLevel)
	return uint32(gained)
}

// String renders the creature as a one-line summary, e.g.
//
//	"Pikachu (Niveau 5 - Electrik - XP: 50 - Femelle)"
func (c *Creature) String() string {
	return fmt.Sprintf("%s (Niveau %d - %s - XP: %d - %s)",
		c.Name, c.Level, c.Kind.Label(), c.Experience, c.Gender.Label())
}

// Validate reports whether c satisfies the model invariants.
func (c *Creature) Validate() error {
	var errs []error
	if c.Level < 1 {
		errs = append(errs, errors.New("level must be >= 1"))
	}
	if c.Experience >= ExperiencePerLevel {
		errs = append(errs, fmt.Errorf("experience must be < %d, got %d", ExperiencePerLevel, c.Experience))
	}
	if !c.Kind.Valid() {
		errs = append(errs, fmt.Errorf("unknown kind %d", c.Kind))
	}
	if !c.Gender.Valid() {
		errs = append(errs, fmt.Errorf("unknown gender %d", c.Gender))
	}
	return errors.Join(errs...)
}
