package engine

import (
	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/artifact"
	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// Engine is one execution strategy. Implementations differ in what their
// artifacts carry and whether exports are actually executable, but expose
// the same compile, serialize and resolve surface.
type Engine interface {
	// Name identifies the strategy, for diagnostics.
	Name() string

	// Compile packages validated module metadata and generated machine code
	// into an artifact. The dummy engine ignores code entirely.
	Compile(meta *metadata.Module, code []wasmengine.CompiledFunction) (*artifact.Artifact, error)

	// Deserialize reconstructs an artifact from container bytes. It fails
	// when the container was produced by a different strategy or targets an
	// incompatible platform.
	Deserialize(data []byte) (*artifact.Artifact, error)

	// IsCompatible reports whether this engine can load artifacts built for
	// the given target triple.
	IsCompatible(t target.Triple) bool

	// ResolveExports makes an artifact's exports callable. For the
	// object-file engine this links and loads the native image; the
	// artifact performs that transition at most once.
	ResolveExports(a *artifact.Artifact) (*ExportSet, error)
}

// Serialize encodes an artifact into the versioned container format. It is
// engine-independent: the container records which payload the artifact
// carries, so any engine's artifact serializes the same way.
func Serialize(a *artifact.Artifact) ([]byte, error) {
	return artifact.Encode(a)
}

// Callable is an invocable export. Arguments and results are raw 64-bit
// values; narrower types occupy the low bits and floats travel as their bit
// patterns. Traps surface through the error return.
type Callable interface {
	Call(args []uint64) ([]uint64, error)
}

// ExportSet is the resolved exports of one artifact, in metadata export
// order. HasCode reports whether the callables are backed by native code;
// a shape-only artifact yields an empty set with HasCode false.
type ExportSet struct {
	names   []string
	fns     map[string]Callable
	hasCode bool
}

// HasCode reports whether the set's callables execute native code.
func (s *ExportSet) HasCode() bool { return s.hasCode }

// Len returns the number of resolved exports.
func (s *ExportSet) Len() int { return len(s.names) }

// Names returns export names in their metadata declaration order.
func (s *ExportSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns the callable for an export name.
func (s *ExportSet) Get(name string) (Callable, bool) {
	fn, ok := s.fns[name]
	return fn, ok
}

// Call invokes a named export directly.
func (s *ExportSet) Call(name string, args ...uint64) ([]uint64, error) {
	fn, ok := s.fns[name]
	if !ok {
		return nil, errors.LinkageInvariant(name, "export not present in set")
	}
	return fn.Call(args)
}

func newExportSet(hasCode bool) *ExportSet {
	return &ExportSet{fns: make(map[string]Callable), hasCode: hasCode}
}

func (s *ExportSet) add(name string, fn Callable) {
	if _, dup := s.fns[name]; dup {
		return
	}
	s.names = append(s.names, name)
	s.fns[name] = fn
}
