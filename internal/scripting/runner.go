package scripting

import (
	"fmt"
	"math"
	"os"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/hatchery/internal/game/breeding"
	"github.com/cory-johannsen/hatchery/internal/game/creature"
	"github.com/cory-johannsen/hatchery/internal/game/rng"
	"github.com/cory-johannsen/hatchery/internal/game/roster"
)

// Runner executes Lua scripts with a `roster` global bound to one Roster.
// Script indices are 1-based. Mutations made before a script error are kept.
type Runner struct {
	roster    *roster.Roster
	src       rng.Source
	logger    *zap.Logger
	instLimit int
}

// NewRunner creates a Runner.
//
// Precondition: r, src and logger must be non-nil; instLimit >= 0.
func NewRunner(r *roster.Roster, src rng.Source, logger *zap.Logger, instLimit int) *Runner {
	return &Runner{roster: r, src: src, logger: logger, instLimit: instLimit}
}

// RunFile reads and runs the script at path.
func (rn *Runner) RunFile(path string) error {
	code, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting: reading %q: %w", path, err)
	}
	return rn.Run(path, string(code))
}

// Run executes code in a fresh sandbox. name identifies the script in errors.
//
// Postcondition: Returns nil, or an error for Lua syntax/runtime failures and
// instruction limit exhaustion.
func (rn *Runner) Run(name, code string) error {
	L, cancel := NewSandboxedState(rn.instLimit)
	defer cancel()
	defer L.Close()

	rn.register(L)

	before := rn.roster.Len()
	if err := L.DoString(code); err != nil {
		rn.logger.Warn("scripting: Lua error",
			zap.String("script", name),
			zap.Error(err),
		)
		return fmt.Errorf("scripting: running %q: %w", name, err)
	}
	rn.logger.Debug("scripting: script finished",
		zap.String("script", name),
		zap.Int("members_before", before),
		zap.Int("members_after", rn.roster.Len()),
	)
	return nil
}

func (rn *Runner) register(L *lua.LState) {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"add":          rn.luaAdd,
		"adopt":        rn.luaAdopt,
		"train":        rn.luaTrain,
		"breed":        rn.luaBreed,
		"can_breed":    rn.luaCanBreed,
		"count":        rn.luaCount,
		"get":          rn.luaGet,
		"remove":       rn.luaRemove,
		"filter_level": rn.luaFilterLevel,
		"filter_kind":  rn.luaFilterKind,
		"render":       rn.luaRender,
	})
	L.SetGlobal("roster", mod)
	L.SetGlobal("log", L.NewFunction(rn.luaLog))
}

// roster.add(name, level, kind, gender) -> count
func (rn *Runner) luaAdd(L *lua.LState) int {
	name := L.CheckString(1)
	level := checkUint32(L, 2, 1)
	kind := checkKind(L, 3)
	gender := checkGender(L, 4)
	rn.roster.Add(creature.New(name, level, kind, gender))
	L.Push(lua.LNumber(rn.roster.Len()))
	return 1
}

// roster.adopt(t) -> count; t is a creature table such as one returned by breed.
func (rn *Runner) luaAdopt(L *lua.LState) int {
	t := L.CheckTable(1)
	c, err := tableCreature(t)
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	rn.roster.Add(c)
	L.Push(lua.LNumber(rn.roster.Len()))
	return 1
}

// roster.train(amount)
func (rn *Runner) luaTrain(L *lua.LState) int {
	rn.roster.TrainAll(checkUint32(L, 1, 0))
	return 0
}

// roster.breed(i, j) -> creature table or nil. The offspring is not added.
func (rn *Runner) luaBreed(L *lua.LState) int {
	i, j := L.CheckInt(1), L.CheckInt(2)
	baby, ok := rn.roster.AttemptBreeding(i-1, j-1, rn.src)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(creatureTable(L, baby))
	return 1
}

// roster.can_breed(i, j) -> bool, {reasons}
func (rn *Runner) luaCanBreed(L *lua.LState) int {
	a, b, err := rn.roster.Pair(L.CheckInt(1)-1, L.CheckInt(2)-1)
	reasons := L.NewTable()
	if err != nil {
		reasons.Append(lua.LString(err.Error()))
		L.Push(lua.LFalse)
		L.Push(reasons)
		return 2
	}
	for _, r := range breeding.Reasons(a, b) {
		reasons.Append(lua.LString(r))
	}
	L.Push(lua.LBool(breeding.CanBreed(a, b)))
	L.Push(reasons)
	return 2
}

// roster.count() -> n
func (rn *Runner) luaCount(L *lua.LState) int {
	L.Push(lua.LNumber(rn.roster.Len()))
	return 1
}

// roster.get(i) -> creature table or nil
func (rn *Runner) luaGet(L *lua.LState) int {
	c, err := rn.roster.At(L.CheckInt(1) - 1)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(creatureTable(L, c))
	return 1
}

// roster.remove(i) -> creature table or nil
func (rn *Runner) luaRemove(L *lua.LState) int {
	c, err := rn.roster.RemoveAt(L.CheckInt(1) - 1)
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(creatureTable(L, c))
	return 1
}

// roster.filter_level(min) -> {creature tables}
func (rn *Runner) luaFilterLevel(L *lua.LState) int {
	L.Push(creatureList(L, rn.roster.FilterByMinLevel(checkUint32(L, 1, 0))))
	return 1
}

// roster.filter_kind(kind) -> {creature tables}
func (rn *Runner) luaFilterKind(L *lua.LState) int {
	L.Push(creatureList(L, rn.roster.FilterByKind(checkKind(L, 1))))
	return 1
}

// roster.render() -> {strings}
func (rn *Runner) luaRender(L *lua.LState) int {
	t := L.NewTable()
	for _, line := range rn.roster.RenderAll() {
		t.Append(lua.LString(line))
	}
	L.Push(t)
	return 1
}

// log(msg)
func (rn *Runner) luaLog(L *lua.LState) int {
	rn.logger.Info("script", zap.String("msg", L.CheckString(1)))
	return 0
}

func checkUint32(L *lua.LState, n int, min int) uint32 {
	v := L.CheckInt(n)
	if v < min || int64(v) > math.MaxUint32 {
		L.ArgError(n, fmt.Sprintf("must be between %d and %d", min, uint32(math.MaxUint32)))
	}
	return uint32(v)
}

func checkKind(L *lua.LState, n int) creature.Kind {
	k, err := creature.ParseKind(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return k
}

func checkGender(L *lua.LState, n int) creature.Gender {
	g, err := creature.ParseGender(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return g
}

func creatureTable(L *lua.LState, c *creature.Creature) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("level", lua.LNumber(c.Level))
	t.RawSetString("kind", lua.LString(c.Kind.String()))
	t.RawSetString("experience", lua.LNumber(c.Experience))
	t.RawSetString("gender", lua.LString(c.Gender.String()))
	return t
}

func creatureList(L *lua.LState, cs []*creature.Creature) *lua.LTable {
	t := L.NewTable()
	for _, c := range cs {
		t.Append(creatureTable(L, c))
	}
	return t
}

func tableCreature(t *lua.LTable) (*creature.Creature, error) {
	name, ok := t.RawGetString("name").(lua.LString)
	if !ok || name == "" {
		return nil, fmt.Errorf("name must be a non-empty string")
	}
	level, ok := t.RawGetString("level").(lua.LNumber)
	if !ok || level < 1 || level > math.MaxUint32 || level != lua.LNumber(math.Trunc(float64(level))) {
		return nil, fmt.Errorf("level must be a positive integer")
	}
	kind, err := creature.ParseKind(lua.LVAsString(t.RawGetString("kind")))
	if err != nil {
		return nil, err
	}
	gender, err := creature.ParseGender(lua.LVAsString(t.RawGetString("gender")))
	if err != nil {
		return nil, err
	}
	c := creature.New(string(name), uint32(level), kind, gender)
	if xp, ok := t.RawGetString("experience").(lua.LNumber); ok {
		if xp < 0 || xp > math.MaxUint32 {
			return nil, fmt.Errorf("experience must be a non-negative integer")
		}
		c.GainExperience(uint32(xp))
	}
	return c, nil
}
