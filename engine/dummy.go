package engine

import (
	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/artifact"
	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// DummyEngine produces shape-only artifacts: metadata travels through the
// full compile/serialize/deserialize cycle, but no code is generated and no
// export is executable. It never touches the filesystem, the linker or the
// loader, which makes it usable for validation pipelines and on hosts where
// native loading is unavailable.
type DummyEngine struct{}

// NewDummyEngine creates a dummy engine.
func NewDummyEngine() *DummyEngine {
	return &DummyEngine{}
}

// Name implements Engine.
func (*DummyEngine) Name() string { return "dummy" }

// Compile validates the metadata and wraps it in a shape-only artifact.
// Machine code, if any was passed, is discarded.
func (*DummyEngine) Compile(meta *metadata.Module, _ []wasmengine.CompiledFunction) (*artifact.Artifact, error) {
	if meta == nil {
		return nil, errors.Compilationf("no module metadata")
	}
	if err := meta.Validate(); err != nil {
		return nil, errors.Compilation("invalid module metadata", err)
	}
	return artifact.NewShapeOnly(meta), nil
}

// Deserialize reconstructs a shape-only artifact. Containers carrying object
// code belong to the object-file engine and are rejected rather than being
// stripped down to their metadata.
func (*DummyEngine) Deserialize(data []byte) (*artifact.Artifact, error) {
	a, err := artifact.Decode(data)
	if err != nil {
		return nil, err
	}
	if a.HasCode() {
		return nil, errors.EngineMismatch("container carries object code, built by the object-file engine")
	}
	return a, nil
}

// IsCompatible implements Engine. Shape-only artifacts are host-independent.
func (*DummyEngine) IsCompatible(target.Triple) bool { return true }

// ResolveExports returns an empty export set. The artifact's exports exist
// in its metadata but none of them is executable.
func (*DummyEngine) ResolveExports(a *artifact.Artifact) (*ExportSet, error) {
	if a == nil {
		return nil, errors.Invariant(errors.PhaseResolve, "nil artifact")
	}
	if a.HasCode() {
		return nil, errors.EngineMismatch("artifact carries object code, resolve it with the object-file engine")
	}
	return newExportSet(false), nil
}
