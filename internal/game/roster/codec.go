package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/hatchery/internal/game/creature"
)

// record is the persisted form of one creature.
type record struct {
	Name       string          `json:"name"`
	Level      uint32          `json:"level"`
	Kind       creature.Kind   `json:"kind"`
	Experience uint32          `json:"experience"`
	Gender     creature.Gender `json:"gender"`
}

// schema names the JSON keys of the five creature attributes.
type schema struct {
	name, level, kind, experience, gender string
}

func (s schema) keys() []string {
	return []string{s.name, s.level, s.kind, s.experience, s.gender}
}

var (
	currentSchema = schema{name: "name", level: "level", kind: "kind", experience: "experience", gender: "gender"}
	// legacySchema is the layout written by earlier versions of the tool, nested
	// under a top-level "pokemon_list" key.
	legacySchema = schema{name: "name", level: "level", kind: "pokemon_type", experience: "xp", gender: "gender"}
)

const legacyListKey = "pokemon_list"

// Encode renders members as an indented JSON array of records.
//
// Postcondition: Decode(Encode(m)) reproduces m attribute for attribute, in order.
func Encode(members []*creature.Creature) ([]byte, error) {
	records := make([]record, len(members))
	for i, c := range members {
		records[i] = record{
			Name:       c.Name,
			Level:      c.Level,
			Kind:       c.Kind,
			Experience: c.Experience,
			Gender:     c.Gender,
		}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Decode parses a roster document. It accepts the current top-level array form
// and the legacy {"pokemon_list": [...]} form. Every field is required, unknown
// fields are rejected, and each creature must satisfy creature.Validate.
//
// Postcondition: Returns every member or a *DecodeError; never a partial roster.
func Decode(data []byte) ([]*creature.Creature, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Record: -1, Err: errors.New("empty document")}
	}
	switch trimmed[0] {
	case '[':
		return decodeList(trimmed, currentSchema)
	case '{':
		return decodeLegacy(trimmed)
	}
	return nil, &DecodeError{Record: -1, Err: fmt.Errorf("expected a JSON array or object, found %q", trimmed[0])}
}

func decodeLegacy(data []byte) ([]*creature.Creature, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Record: -1, Err: err}
	}
	list, ok := doc[legacyListKey]
	if !ok {
		return nil, &DecodeError{Record: -1, Field: legacyListKey, Err: errMissingField}
	}
	if extra := unknownKeys(doc, []string{legacyListKey}); len(extra) > 0 {
		return nil, &DecodeError{Record: -1, Err: fmt.Errorf("unknown fields %v", extra)}
	}
	return decodeList(list, legacySchema)
}

func decodeList(data []byte, s schema) ([]*creature.Creature, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &DecodeError{Record: -1, Err: err}
	}
	members := make([]*creature.Creature, 0, len(raws))
	for i, raw := range raws {
		c, err := decodeRecord(i, raw, s)
		if err != nil {
			return nil, err
		}
		members = append(members, c)
	}
	return members, nil
}

func decodeRecord(i int, raw json.RawMessage, s schema) (*creature.Creature, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &DecodeError{Record: i, Err: err}
	}
	if fields == nil {
		return nil, &DecodeError{Record: i, Err: errors.New("record is null")}
	}
	if extra := unknownKeys(fields, s.keys()); len(extra) > 0 {
		return nil, &DecodeError{Record: i, Field: extra[0], Err: errors.New("unknown field")}
	}

	var (
		c                    creature.Creature
		kindName, genderName string
	)
	targets := []struct {
		key string
		dst any
	}{
		{s.name, &c.Name},
		{s.level, &c.Level},
		{s.kind, &kindName},
		{s.experience, &c.Experience},
		{s.gender, &genderName},
	}
	for _, tgt := range targets {
		if err := decodeField(i, fields, tgt.key, tgt.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if c.Kind, err = creature.ParseKind(kindName); err != nil {
		return nil, &DecodeError{Record: i, Field: s.kind, Err: err}
	}
	if c.Gender, err = creature.ParseGender(genderName); err != nil {
		return nil, &DecodeError{Record: i, Field: s.gender, Err: err}
	}
	if err := c.Validate(); err != nil {
		return nil, &DecodeError{Record: i, Err: err}
	}
	return &c, nil
}

func decodeField(i int, fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return &DecodeError{Record: i, Field: key, Err: errMissingField}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &DecodeError{Record: i, Field: key, Err: err}
	}
	return nil
}

// unknownKeys returns the keys of m not in allowed, sorted.
func unknownKeys(m map[string]json.RawMessage, allowed []string) []string {
	var extra []string
	for k := range m {
		if !slices.Contains(allowed, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return extra
}
