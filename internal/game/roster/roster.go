// Package roster manages an ordered collection of creatures: training,
// filtering, breeding, and persistence round-trips.
package roster

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hatchery/internal/game/breeding"
	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/rng"
)

// Roster is an ordered sequence of creatures. Insertion order defines display
// order and the positional indices used by AttemptBreeding and RemoveAt.
//
// A Roster is owned by a single caller and is not safe for concurrent use.
type Roster struct {
	members []*creature.Creature
	logger  *zap.Logger
}

// New returns an empty Roster.
func New() *Roster {
	return &Roster{logger: zap.NewNop()}
}

// FromMembers returns a Roster holding members in the given order.
// The slice is copied; the creatures are not.
func FromMembers(members []*creature.Creature) *Roster {
	r := New()
	r.members = append(make([]*creature.Creature, 0, len(members)), members...)
	return r
}

// WithLogger sets the logger used for debug tracing and returns r.
//
// Precondition: logger must be non-nil.
func (r *Roster) WithLogger(logger *zap.Logger) *Roster {
	r.logger = logger
	return r
}

// Add appends c to the end of the roster.
func (r *Roster) Add(c *creature.Creature) {
	r.members = append(r.members, c)
}

// Len returns the number of members.
func (r *Roster) Len() int {
	return len(r.members)
}

// At returns the member at index i.
//
// Postcondition: Returns (c, nil) or (nil, *IndexError).
func (r *Roster) At(i int) (*creature.Creature, error) {
	if i < 0 || i >= len(r.members) {
		return nil, &IndexError{Index: i, Len: len(r.members)}
	}
	return r.members[i], nil
}

// Members returns the members in roster order. The returned slice is a copy;
// the creatures are shared.
func (r *Roster) Members() []*creature.Creature {
	return append(make([]*creature.Creature, 0, len(r.members)), r.members...)
}

// TrainAll grants amount experience to every member in roster order.
func (r *Roster) TrainAll(amount uint32) {
	for _, c := range r.members {
		if gained := c.GainExperience(amount); gained > 0 {
			r.logger.Debug("creature leveled up",
				zap.String("name", c.Name),
				zap.Uint32("levels", gained),
				zap.Uint32("level", c.Level),
			)
		}
	}
}

// FilterByMinLevel returns the members whose level is at least min, in roster order.
//
// Postcondition: Returns a non-nil slice (may be empty) of shared references.
func (r *Roster) FilterByMinLevel(min uint32) []*creature.Creature {
	return r.filter(func(c *creature.Creature) bool { return c.Level >= min })
}

// FilterByKind returns the members of exactly kind, in roster order.
//
// Postcondition: Returns a non-nil slice (may be empty) of shared references.
func (r *Roster) FilterByKind(kind creature.Kind) []*creature.Creature {
	return r.filter(func(c *creature.Creature) bool { return c.Kind == kind })
}

func (r *Roster) filter(keep func(*creature.Creature) bool) []*creature.Creature {
	out := make([]*creature.Creature, 0)
	for _, c := range r.members {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Pair returns the members at indices i and j.
//
// Postcondition: Returns both members, or a *IndexError for the first bad index.
func (r *Roster) Pair(i, j int) (*creature.Creature, *creature.Creature, error) {
	a, err := r.At(i)
	if err != nil {
		return nil, nil, err
	}
	b, err := r.At(j)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// AttemptBreeding breeds the members at indices i and j, in that order.
// An out-of-range index yields no offspring, as does an ineligible pair.
// The offspring is not added to the roster.
//
// Precondition: src must be non-nil.
func (r *Roster) AttemptBreeding(i, j int, src rng.Source) (*creature.Creature, bool) {
	a, b, err := r.Pair(i, j)
	if err != nil {
		r.logger.Debug("breeding skipped", zap.Error(err))
		return nil, false
	}
	baby, ok := breeding.Breed(a, b, src)
	if !ok {
		r.logger.Debug("breeding pair ineligible",
			zap.String("first", a.Name),
			zap.String("second", b.Name),
			zap.Strings("reasons", breeding.Reasons(a, b)),
		)
		return nil, false
	}
	r.logger.Debug("offspring born",
		zap.String("first", a.Name),
		zap.String("second", b.Name),
		zap.Stringer("kind", baby.Kind),
		zap.Stringer("gender", baby.Gender),
	)
	return baby, true
}

// RemoveAt removes and returns the member at index i. Later members shift down
// by one position.
func (r *Roster) RemoveAt(i int) (*creature.Creature, error) {
	c, err := r.At(i)
	if err != nil {
		return nil, err
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return c, nil
}

// RemoveByName removes every member called name and returns how many were removed.
func (r *Roster) RemoveByName(name string) int {
	kept := r.members[:0]
	removed := 0
	for _, c := range r.members {
		if c.Name == name {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(r.members); i++ {
		r.members[i] = nil
	}
	r.members = kept
	return removed
}

// RenderAll returns one rendered line per member, in roster order.
func (r *Roster) RenderAll() []string {
	lines := make([]string, len(r.members))
	for i, c := range r.members {
		lines[i] = c.String()
	}
	return lines
}

// SaveTo encodes the whole roster and writes it to w in a single write.
//
// Postcondition: Returns nil, a *IOError if w fails, or an encoding error if a
// member holds an invalid kind or gender.
func (r *Roster) SaveTo(w io.Writer) error {
	data, err := Encode(r.members)
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// LoadFrom reads the whole of src and decodes it into a new Roster.
// Decoding is all-or-nothing.
//
// Postcondition: Returns a Roster, a *IOError if src fails, or a *DecodeError.
func LoadFrom(src io.Reader) (*Roster, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, &IOError{Op: "read", Err: err}
	}
	members, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return FromMembers(members), nil
}
