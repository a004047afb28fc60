package engine

import "sort"

// Runtime intrinsics are host functions the generated code may call for
// operations it cannot perform inline. The set is pre-declared: an object
// may only reference intrinsics named here, and the native image these
// symbols resolve against is expected to provide all of them.
const (
	IntrinsicTrap       = "wasm_rt_trap"
	IntrinsicMemoryGrow = "wasm_rt_memory_grow"
	IntrinsicMemorySize = "wasm_rt_memory_size"
	IntrinsicMemoryCopy = "wasm_rt_memory_copy"
	IntrinsicMemoryFill = "wasm_rt_memory_fill"
	IntrinsicMemoryInit = "wasm_rt_memory_init"
	IntrinsicDataDrop   = "wasm_rt_data_drop"
	IntrinsicTableGrow  = "wasm_rt_table_grow"
	IntrinsicTableSize  = "wasm_rt_table_size"
	IntrinsicElemDrop   = "wasm_rt_elem_drop"
)

var intrinsicSet = map[string]struct{}{
	IntrinsicTrap:       {},
	IntrinsicMemoryGrow: {},
	IntrinsicMemorySize: {},
	IntrinsicMemoryCopy: {},
	IntrinsicMemoryFill: {},
	IntrinsicMemoryInit: {},
	IntrinsicDataDrop:   {},
	IntrinsicTableGrow:  {},
	IntrinsicTableSize:  {},
	IntrinsicElemDrop:   {},
}

// IsIntrinsic reports whether name is a pre-declared runtime intrinsic.
func IsIntrinsic(name string) bool {
	_, ok := intrinsicSet[name]
	return ok
}

// Intrinsics returns the pre-declared intrinsic symbol names.
func Intrinsics() []string {
	out := make([]string, 0, len(intrinsicSet))
	for name := range intrinsicSet {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
