package creature_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hatchery/internal/game/creature"
)

func TestNew_StartsWithZeroExperience(t *testing.T) {
	c := creature.New("Salamèche", 5, creature.Fire, creature.Male)
	assert.Equal(t, "Salamèche", c.Name)
	assert.Equal(t, uint32(5), c.Level)
	assert.Equal(t, creature.Fire, c.Kind)
	assert.Equal(t, creature.Male, c.Gender)
	assert.Equal(t, uint32(0), c.Experience)
}

func TestGainExperience_BelowThreshold(t *testing.T) {
	c := creature.New("Pikachu", 5, creature.Electric, creature.Female)
	gained := c.GainExperience(50)
	assert.Equal(t, uint32(0), gained)
	assert.Equal(t, uint32(5), c.Level)
	assert.Equal(t, uint32(50), c.Experience)
}

func TestGainExperience_ExactlyOneLevel(t *testing.T) {
	c := creature.New("Pikachu", 5, creature.Electric, creature.Female)
	c.GainExperience(60)
	gained := c.GainExperience(40)
	assert.Equal(t, uint32(1), gained)
	assert.Equal(t, uint32(6), c.Level)
	assert.Equal(t, uint32(0), c.Experience)
}

func TestGainExperience_MultipleLevelsInOneCall(t *testing.T) {
	c := creature.New("Carapuce", 1, creature.Water, creature.Female)
	gained := c.GainExperience(350)
	assert.Equal(t, uint32(3), gained)
	assert.Equal(t, uint32(4), c.Level)
	assert.Equal(t, uint32(50), c.Experience)
}

func TestGainExperience_MaxAmountDoesNotOverflowExperience(t *testing.T) {
	c := creature.New("Bulbizarre", 1, creature.Grass, creature.Male)
	c.GainExperience(99)
	c.GainExperience(^uint32(0))
	assert.Less(t, c.Experience, uint32(creature.ExperiencePerLevel))
}

// Property: newLevel = L + floor((E+gain)/100) and newExperience = (E+gain) mod 100.
func TestGainExperience_LevelingInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		level := rapid.Uint32Range(1, 1000).Draw(rt, "level")
		exp := rapid.Uint32Range(0, 99).Draw(rt, "experience")
		gain := rapid.Uint32Range(0, 100_000).Draw(rt, "gain")

		c := creature.New("x", level, creature.Fire, creature.Male)
		c.Experience = exp
		gained := c.GainExperience(gain)

		total := exp + gain
		assert.Equal(rt, level+total/100, c.Level)
		assert.Equal(rt, total%100, c.Experience)
		assert.Equal(rt, total/100, gained)
	})
}

// Property: splitting a gain across two calls lands on the same state as one call.
func TestGainExperience_SplitGainsAreEquivalent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Uint32Range(0, 10_000).Draw(rt, "a")
		b := rapid.Uint32Range(0, 10_000).Draw(rt, "b")

		once := creature.New("x", 1, creature.Water, creature.Female)
		once.GainExperience(a + b)
		twice := creature.New("x", 1, creature.Water, creature.Female)
		twice.GainExperience(a)
		twice.GainExperience(b)

		assert.Equal(rt, *once, *twice)
	})
}

func TestString_Format(t *testing.T) {
	c := creature.New("Pikachu", 5, creature.Electric, creature.Female)
	c.GainExperience(50)
	assert.Equal(t, "Pikachu (Niveau 5 - Electrik - XP: 50 - Femelle)", c.String())

	d := creature.New("Salamèche", 7, creature.Fire, creature.Male)
	assert.Equal(t, "Salamèche (Niveau 7 - Feu - XP: 0 - Male)", d.String())
}

func TestValidate(t *testing.T) {
	require.NoError(t, creature.New("ok", 1, creature.Grass, creature.Male).Validate())

	tests := []struct {
		name string
		c    creature.Creature
	}{
		{"zero level", creature.Creature{Name: "a", Level: 0, Kind: creature.Fire, Gender: creature.Male}},
		{"experience at threshold", creature.Creature{Name: "a", Level: 1, Experience: 100, Kind: creature.Fire, Gender: creature.Male}},
		{"unknown kind", creature.Creature{Name: "a", Level: 1, Kind: 0, Gender: creature.Male}},
		{"unknown gender", creature.Creature{Name: "a", Level: 1, Kind: creature.Fire, Gender: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.c.Validate())
		})
	}
}

func TestGainExperience_SaturatesAtMaxLevel(t *testing.T) {
	c := creature.New("x", math.MaxUint32-10, creature.Fire, creature.Male)
	gained := c.GainExperience(5050)
	assert.Equal(t, uint32(10), gained)
	assert.Equal(t, uint32(math.MaxUint32), c.Level)
	assert.Equal(t, uint32(50), c.Experience)

	assert.Equal(t, uint32(0), c.GainExperience(math.MaxUint32))
	assert.Equal(t, uint32(math.MaxUint32), c.Level)
	assert.Less(t, c.Experience, uint32(creature.ExperiencePerLevel))
}
