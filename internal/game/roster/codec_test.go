package roster_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/roster"
)

func genCreature(rt *rapid.T, label string) *creature.Creature {
	c := creature.New(
		rapid.String().Draw(rt, label+".name"),
		rapid.Uint32Range(1, 1_000_000).Draw(rt, label+".level"),
		rapid.SampledFrom(creature.Kinds()).Draw(rt, label+".kind"),
		rapid.SampledFrom(creature.Genders()).Draw(rt, label+".gender"),
	)
	c.Experience = rapid.Uint32Range(0, 99).Draw(rt, label+".experience")
	return c
}

// Property: Decode(Encode(m)) equals m by all five attributes, in order.
func TestCodec_RoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "n")
		members := make([]*creature.Creature, n)
		for i := range members {
			members[i] = genCreature(rt, "c")
		}

		data, err := roster.Encode(members)
		require.NoError(rt, err)
		decoded, err := roster.Decode(data)
		require.NoError(rt, err)

		require.Len(rt, decoded, n)
		for i := range members {
			assert.Equal(rt, *members[i], *decoded[i])
		}
	})
}

func TestEncode_FieldsByName(t *testing.T) {
	c := creature.New("Pikachu", 5, creature.Electric, creature.Female)
	c.GainExperience(50)
	data, err := roster.Encode([]*creature.Creature{c})
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, map[string]any{
		"name":       "Pikachu",
		"level":      float64(5),
		"kind":       "Electric",
		"experience": float64(50),
		"gender":     "Female",
	}, doc[0])
}

func TestEncode_EmptyRosterIsEmptyArray(t *testing.T) {
	data, err := roster.Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	members, err := roster.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestDecode_FieldOrderIrrelevant(t *testing.T) {
	members, err := roster.Decode([]byte(`[
		{"gender": "Male", "experience": 12, "kind": "Grass", "level": 7, "name": "Bulbizarre"}
	]`))
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, creature.Creature{
		Name: "Bulbizarre", Level: 7, Kind: creature.Grass, Experience: 12, Gender: creature.Male,
	}, *members[0])
}

func TestDecode_LegacyDocument(t *testing.T) {
	members, err := roster.Decode([]byte(`{
	  "pokemon_list": [
	    {"name": "Salamèche", "level": 5, "pokemon_type": "Fire", "xp": 50, "gender": "Male"},
	    {"name": "Carapuce", "level": 6, "pokemon_type": "Water", "xp": 50, "gender": "Female"}
	  ]
	}`))
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Salamèche", members[0].Name)
	assert.Equal(t, creature.Fire, members[0].Kind)
	assert.Equal(t, uint32(50), members[0].Experience)
	assert.Equal(t, creature.Female, members[1].Gender)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		record int
		field  string
	}{
		{"empty", ``, -1, ""},
		{"not json", `not json`, -1, ""},
		{"scalar", `42`, -1, ""},
		{"trailing garbage", `[] []`, -1, ""},
		{"record not object", `[5]`, 0, ""},
		{"null record", `[null]`, 0, ""},
		{"missing name", `[{"level":1,"kind":"Fire","experience":0,"gender":"Male"}]`, 0, "name"},
		{"null level", `[{"name":"a","level":null,"kind":"Fire","experience":0,"gender":"Male"}]`, 0, "level"},
		{"negative level", `[{"name":"a","level":-1,"kind":"Fire","experience":0,"gender":"Male"}]`, 0, "level"},
		{"fractional experience", `[{"name":"a","level":1,"kind":"Fire","experience":1.5,"gender":"Male"}]`, 0, "experience"},
		{"level as string", `[{"name":"a","level":"5","kind":"Fire","experience":0,"gender":"Male"}]`, 0, "level"},
		{"unknown kind", `[{"name":"a","level":1,"kind":"Psychic","experience":0,"gender":"Male"}]`, 0, "kind"},
		{"unknown gender", `[{"name":"a","level":1,"kind":"Fire","experience":0,"gender":"Other"}]`, 0, "gender"},
		{"unknown field", `[{"name":"a","level":1,"kind":"Fire","experience":0,"gender":"Male","shiny":true}]`, 0, "shiny"},
		{"zero level", `[{"name":"a","level":0,"kind":"Fire","experience":0,"gender":"Male"}]`, 0, ""},
		{"experience not normalised", `[{"name":"a","level":1,"kind":"Fire","experience":100,"gender":"Male"}]`, 0, ""},
		{"second record bad", `[{"name":"a","level":1,"kind":"Fire","experience":0,"gender":"Male"},{"name":"b"}]`, 1, "level"},
		{"legacy missing list", `{"members": []}`, -1, "pokemon_list"},
		{"legacy extra key", `{"pokemon_list": [], "version": 2}`, -1, ""},
		{"legacy uses current names", `{"pokemon_list": [{"name":"a","level":1,"kind":"Fire","experience":0,"gender":"Male"}]}`, 0, "experience"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members, err := roster.Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, members, "decode must be all-or-nothing")
			assert.ErrorIs(t, err, roster.ErrDecode)

			var de *roster.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.record, de.Record)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}
