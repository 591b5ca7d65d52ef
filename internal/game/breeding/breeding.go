// Package breeding holds the pairwise eligibility and offspring rules.
//
// The rules are free functions over two borrowed creatures so that no creature
// holds a reference to another. Neither parent is mutated.
package breeding

import (
	"fmt"

	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/rng"
)

const (
	// MinLevel is the minimum level both parents must have reached.
	MinLevel = 5
	// OffspringName is the placeholder name given to every newborn.
	OffspringName = "Mystere"
)

// CanBreed reports whether a and b may produce offspring: same kind,
// different gender, and both at MinLevel or above.
//
// Precondition: a and b must be non-nil.
func CanBreed(a, b *creature.Creature) bool {
	return a.Kind == b.Kind &&
		a.Gender != b.Gender &&
		a.Level >= MinLevel &&
		b.Level >= MinLevel
}

// Reasons lists every eligibility condition a and b fail, in a stable order.
// It returns an empty slice exactly when CanBreed(a, b) is true.
func Reasons(a, b *creature.Creature) []string {
	reasons := make([]string, 0, 4)
	if a.Kind != b.Kind {
		reasons = append(reasons, fmt.Sprintf("kinds differ (%s vs %s)", a.Kind, b.Kind))
	}
	if a.Gender == b.Gender {
		reasons = append(reasons, fmt.Sprintf("both are %s", a.Gender))
	}
	if a.Level < MinLevel {
		reasons = append(reasons, fmt.Sprintf("%s is below level %d", a.Name, MinLevel))
	}
	if b.Level < MinLevel {
		reasons = append(reasons, fmt.Sprintf("%s is below level %d", b.Name, MinLevel))
	}
	return reasons
}

// Breed produces a level 1 offspring of a and b when they are eligible.
//
// The offspring inherits a's kind; argument order matters. Its gender is drawn
// from src with equal odds.
//
// Precondition: a, b and src must be non-nil.
// Postcondition: Returns (nil, false) iff !CanBreed(a, b). src is only drawn from
// when the pair is eligible.
func Breed(a, b *creature.Creature, src rng.Source) (*creature.Creature, bool) {
	if !CanBreed(a, b) {
		return nil, false
	}
	gender := creature.Female
	if rng.Bool(src) {
		gender = creature.Male
	}
	return creature.New(OffspringName, 1, a.Kind, gender), true
}
