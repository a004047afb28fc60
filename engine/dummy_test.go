package engine_test

import (
	"testing"

	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/engine"
	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// addModule is a module with one imported function, one defined function
// and one function export.
func addModule() *metadata.Module {
	return &metadata.Module{
		Signatures: []metadata.FuncType{
			{Params: []metadata.ValType{metadata.ValI32, metadata.ValI32}, Results: []metadata.ValType{metadata.ValI32}},
		},
		Imports: []metadata.ImportDecl{
			{Module: "env", Name: "log", Kind: metadata.KindFunc, SigIndex: 0},
		},
		Funcs: []uint32{0},
		Exports: []metadata.ExportDecl{
			{Name: "add", Kind: metadata.KindFunc, Index: 1},
		},
	}
}

func TestDummyCompile(t *testing.T) {
	eng := engine.NewDummyEngine()

	a, err := eng.Compile(addModule(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if a.HasCode() {
		t.Error("dummy artifact must not carry code")
	}
	if !a.Triple().IsZero() {
		t.Errorf("triple = %v, want zero", a.Triple())
	}
	if _, ok := a.Meta().FindExport("add"); !ok {
		t.Error("metadata should survive compilation")
	}
}

func TestDummyCompileDiscardsCode(t *testing.T) {
	eng := engine.NewDummyEngine()
	code := []wasmengine.CompiledFunction{{Code: []byte{0xc3}}}

	a, err := eng.Compile(addModule(), code)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if a.HasCode() {
		t.Error("machine code passed to the dummy engine must be discarded")
	}
}

func TestDummyCompileInvalid(t *testing.T) {
	eng := engine.NewDummyEngine()

	if _, err := eng.Compile(nil, nil); !errors.IsCompilation(err) {
		t.Errorf("nil metadata = %v, want compilation error", err)
	}

	bad := addModule()
	bad.Exports[0].Index = 99
	if _, err := eng.Compile(bad, nil); !errors.IsCompilation(err) {
		t.Errorf("invalid metadata = %v, want compilation error", err)
	}
}

func TestDummyRoundTrip(t *testing.T) {
	eng := engine.NewDummyEngine()

	a, err := eng.Compile(addModule(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	data, err := engine.Serialize(a)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := eng.Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.HasCode() {
		t.Error("round trip must preserve the shape-only payload")
	}
	if _, ok := got.Meta().FindExport("add"); !ok {
		t.Error("round trip lost metadata")
	}

	set, err := eng.ResolveExports(got)
	if err != nil {
		t.Fatalf("ResolveExports: %v", err)
	}
	if set.HasCode() {
		t.Error("dummy export set must report no code")
	}
	if set.Len() != 0 {
		t.Errorf("set.Len() = %d, want 0", set.Len())
	}
}

func TestDummyIsCompatible(t *testing.T) {
	eng := engine.NewDummyEngine()
	for _, tr := range []target.Triple{
		{},
		target.Host(),
		{Arch: "riscv64", OS: "plan9"},
	} {
		if !eng.IsCompatible(tr) {
			t.Errorf("IsCompatible(%v) = false, want true", tr)
		}
	}
}

func TestDummyRejectsObjectCode(t *testing.T) {
	dummy := engine.NewDummyEngine()
	obj, err := engine.NewObjectFileEngine(engine.Config{Writer: &fakeWriter{}})
	if err != nil {
		t.Fatalf("NewObjectFileEngine: %v", err)
	}

	a, err := obj.Compile(addModule(), []wasmengine.CompiledFunction{{Code: []byte{0xc3}}})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	data, err := engine.Serialize(a)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if _, err := dummy.Deserialize(data); !errors.IsEngineMismatch(err) {
		t.Errorf("Deserialize(object container) = %v, want engine mismatch", err)
	}
	if _, err := dummy.ResolveExports(a); !errors.IsEngineMismatch(err) {
		t.Errorf("ResolveExports(object artifact) = %v, want engine mismatch", err)
	}
}
