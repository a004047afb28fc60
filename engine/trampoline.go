package engine

import (
	"fmt"

	"github.com/ebitengine/purego"

	wasmengine "github.com/wasmfoundry/wasm-engine"
)

// syscallMaxArgs is purego's argument limit for SyscallN.
const syscallMaxArgs = 15

// trampoline bridges a resolved native symbol into the Callable surface.
// Values cross the boundary as raw 64-bit words; the generated code uses
// the platform C calling convention, so up to two results come back in the
// ABI's return register pair.
type trampoline struct {
	name    string
	ptr     uintptr
	params  int
	results int
	sink    wasmengine.TrapSink
}

func (t *trampoline) Call(args []uint64) ([]uint64, error) {
	if len(args) != t.params {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", t.name, t.params, len(args))
	}
	if len(args) > syscallMaxArgs {
		return nil, fmt.Errorf("%s: %d arguments exceed the native call limit of %d", t.name, len(args), syscallMaxArgs)
	}
	if t.results > 2 {
		return nil, fmt.Errorf("%s: %d results exceed the native return limit of 2", t.name, t.results)
	}

	raw := make([]uintptr, len(args))
	for i, a := range args {
		raw[i] = uintptr(a)
	}

	r1, r2, _ := purego.SyscallN(t.ptr, raw...)

	// Compiled code reports traps through the runtime's trap intrinsic, not
	// native exceptions. A pending trap invalidates whatever came back.
	if t.sink != nil {
		if trap := t.sink.PendingTrap(); trap != nil {
			return nil, trap
		}
	}

	switch t.results {
	case 0:
		return nil, nil
	case 1:
		return []uint64{uint64(r1)}, nil
	default:
		return []uint64{uint64(r1), uint64(r2)}, nil
	}
}
