// Package scripting runs roster batch scripts in a restricted GopherLua VM.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit caps the opcodes a roster script may run when
// scripting.instruction_limit is left at 0.
const DefaultInstructionLimit = 100_000

// scriptLibs are the only standard libraries a roster script sees.
var scriptLibs = []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath}

// blockedGlobals are the base-library loaders and hooks removed after OpenBase.
// Scripts report through log instead of print.
var blockedGlobals = []string{"dofile", "loadfile", "load", "loadstring", "require", "collectgarbage", "print"}

// opBudget is the VM context. GopherLua polls Done once per opcode, so the
// budget runs out after exactly its starting number of opcodes.
type opBudget struct {
	context.Context
	cancel context.CancelFunc
	left   atomic.Int64
}

func (b *opBudget) Done() <-chan struct{} {
	if b.left.Add(-1) <= 0 {
		b.cancel()
	}
	return b.Context.Done()
}

// NewSandboxedState returns a VM for one roster script run.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller must call L.Close() and the returned cancel
// function. Calling cancel early aborts a running script.
func NewSandboxedState(instLimit int) (*lua.LState, context.CancelFunc) {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, open := range scriptLibs {
		open(L)
	}
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	b := &opBudget{}
	b.Context, b.cancel = context.WithCancel(context.Background())
	b.left.Store(int64(instLimit))
	L.SetContext(b)

	return L, b.cancel
}
