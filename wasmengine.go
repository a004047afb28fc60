package wasmengine

// RelocKind identifies what a relocation refers to.
type RelocKind byte

const (
	// RelocFunction targets another function in the same module, by index.
	RelocFunction RelocKind = iota
	// RelocIntrinsic targets a runtime-provided intrinsic resolved by the
	// native linker against the host process (memory growth, trap reporting).
	RelocIntrinsic
)

// Relocation is a fix-up the object writer must record so the native linker
// can patch a call site once final addresses are known.
type Relocation struct {
	// Offset is the byte offset of the call site within the function body.
	Offset uint32
	Kind   RelocKind
	// FunctionIndex is the callee for RelocFunction relocations.
	FunctionIndex uint32
	// Intrinsic is the pre-declared symbol name for RelocIntrinsic relocations.
	Intrinsic string
}

// CompiledFunction is one function's machine code as produced by the code
// generator, together with its relocation requirements. The code generator is
// an external collaborator; this layer only packages its output.
type CompiledFunction struct {
	Code   []byte
	Relocs []Relocation
}

// Symbol is a named location inside an object image.
type Symbol struct {
	Name string
	// FunctionIndex is the function this symbol labels.
	FunctionIndex uint32
}

// ObjectWriter serializes machine code plus relocation and symbol metadata
// into a relocatable object image (ELF, COFF, Mach-O or similar). It is an
// existing collaborator: implementations live outside this module.
type ObjectWriter interface {
	Emit(code []CompiledFunction, syms []Symbol) ([]byte, error)
}

// NativeLinker combines relocatable object images into a single dynamically
// loadable shared image and returns its path. Linking is a bounded,
// synchronous operation: it may block the calling thread, and cancellation
// mid-link is not supported.
type NativeLinker interface {
	Link(objects [][]byte, outDir string) (string, error)
}

// Loader is the OS dynamic-loading facility behind a narrow interface.
type Loader interface {
	Load(path string) (Handle, error)
}

// Handle is a loaded shared image. Resolve maps a symbol name to a function
// pointer; Close unloads the image. The artifact that created a handle owns
// it exclusively.
type Handle interface {
	Resolve(name string) (uintptr, error)
	Close() error
}

// TrapSink is the runtime's designated trap channel. Compiled code reports
// traps through a runtime intrinsic rather than native exceptions; after each
// native call the trampoline asks the sink whether a trap is pending.
type TrapSink interface {
	// PendingTrap returns the trap raised during the last native call and
	// clears it, or nil when the call completed normally.
	PendingTrap() error
}
