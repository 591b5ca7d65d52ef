package breeding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hatchery/internal/game/breeding"
	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/rng"
)

func TestCanBreed_EligiblePair(t *testing.T) {
	a := creature.New("A", 5, creature.Fire, creature.Male)
	b := creature.New("B", 5, creature.Fire, creature.Female)
	assert.True(t, breeding.CanBreed(a, b))
	assert.True(t, breeding.CanBreed(b, a))
	assert.Empty(t, breeding.Reasons(a, b))
}

func TestCanBreed_NegativeCases(t *testing.T) {
	tests := []struct {
		name    string
		a, b    *creature.Creature
		reasons int
	}{
		{"kinds differ",
			creature.New("A", 5, creature.Fire, creature.Male),
			creature.New("B", 5, creature.Water, creature.Female), 1},
		{"same gender",
			creature.New("A", 5, creature.Fire, creature.Male),
			creature.New("B", 5, creature.Fire, creature.Male), 1},
		{"first below level",
			creature.New("A", 4, creature.Fire, creature.Male),
			creature.New("B", 5, creature.Fire, creature.Female), 1},
		{"second below level",
			creature.New("A", 5, creature.Fire, creature.Male),
			creature.New("B", 4, creature.Fire, creature.Female), 1},
		{"kinds differ and same gender",
			creature.New("A", 5, creature.Grass, creature.Female),
			creature.New("B", 5, creature.Electric, creature.Female), 2},
		{"everything wrong",
			creature.New("A", 1, creature.Grass, creature.Female),
			creature.New("B", 2, creature.Electric, creature.Female), 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, breeding.CanBreed(tt.a, tt.b))
			assert.Len(t, breeding.Reasons(tt.a, tt.b), tt.reasons)
			baby, ok := breeding.Breed(tt.a, tt.b, rng.Fixed(0))
			assert.False(t, ok)
			assert.Nil(t, baby)
		})
	}
}

func TestBreed_OffspringAttributes(t *testing.T) {
	a := creature.New("A", 5, creature.Fire, creature.Male)
	b := creature.New("B", 5, creature.Fire, creature.Female)

	baby, ok := breeding.Breed(a, b, rng.Fixed(0))
	require.True(t, ok)
	assert.Equal(t, breeding.OffspringName, baby.Name)
	assert.Equal(t, creature.Fire, baby.Kind)
	assert.Equal(t, uint32(1), baby.Level)
	assert.Equal(t, uint32(0), baby.Experience)
	assert.Equal(t, creature.Male, baby.Gender)

	baby, ok = breeding.Breed(a, b, rng.Fixed(1))
	require.True(t, ok)
	assert.Equal(t, creature.Female, baby.Gender)
}

func TestBreed_DoesNotMutateParents(t *testing.T) {
	a := creature.New("A", 9, creature.Water, creature.Male)
	a.GainExperience(42)
	b := creature.New("B", 6, creature.Water, creature.Female)
	before := []creature.Creature{*a, *b}

	_, ok := breeding.Breed(a, b, rng.NewCryptoSource())
	require.True(t, ok)
	assert.Equal(t, before, []creature.Creature{*a, *b})
}

func TestBreed_IneligibleDoesNotDrawRandomness(t *testing.T) {
	src := rng.Fixed(0)
	_, ok := breeding.Breed(
		creature.New("A", 5, creature.Fire, creature.Male),
		creature.New("B", 5, creature.Grass, creature.Female),
		src,
	)
	assert.False(t, ok)
	assert.Equal(t, 0, src.Calls())
}

// Property: Breed succeeds exactly when CanBreed holds, and the offspring always
// carries the first parent's kind at level 1 with no experience.
func TestBreed_Property(t *testing.T) {
	gen := func(rt *rapid.T, label string) *creature.Creature {
		return creature.New(label,
			rapid.Uint32Range(1, 10).Draw(rt, label+".level"),
			rapid.SampledFrom(creature.Kinds()).Draw(rt, label+".kind"),
			rapid.SampledFrom(creature.Genders()).Draw(rt, label+".gender"),
		)
	}
	rapid.Check(t, func(rt *rapid.T) {
		a, b := gen(rt, "a"), gen(rt, "b")
		seed := rapid.Uint64().Draw(rt, "seed")

		expected := a.Kind == b.Kind && a.Gender != b.Gender && a.Level >= 5 && b.Level >= 5
		assert.Equal(rt, expected, breeding.CanBreed(a, b))
		assert.Equal(rt, expected, len(breeding.Reasons(a, b)) == 0)

		baby, ok := breeding.Breed(a, b, rng.NewSeededSource(seed))
		assert.Equal(rt, expected, ok)
		if ok {
			assert.Equal(rt, a.Kind, baby.Kind)
			assert.Equal(rt, uint32(1), baby.Level)
			assert.Equal(rt, uint32(0), baby.Experience)
			assert.True(rt, baby.Gender.Valid())
		}
	})
}
