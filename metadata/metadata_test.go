package metadata_test

import (
	"bytes"
	"testing"

	"github.com/wasmfoundry/wasm-engine/metadata"
)

// sample builds a module with one imported function, two defined functions,
// a memory and two exports.
func sample() *metadata.Module {
	return &metadata.Module{
		Signatures: []metadata.FuncType{
			{Params: []metadata.ValType{metadata.ValI32}, Results: []metadata.ValType{metadata.ValI32}},
			{Params: nil, Results: nil},
		},
		Funcs: []uint32{0, 1},
		Imports: []metadata.ImportDecl{
			{Module: "env", Name: "log", Kind: metadata.KindFunc, SigIndex: 1},
		},
		Exports: []metadata.ExportDecl{
			{Name: "echo", Kind: metadata.KindFunc, Index: 1},
			{Name: "mem", Kind: metadata.KindMemory, Index: 0},
		},
		Memories: []metadata.Limits{{Min: 1, Max: 4, HasMax: true}},
	}
}

func TestSignatureOf(t *testing.T) {
	m := sample()

	// Function 0 is the import with signature 1.
	sig, ok := m.SignatureOf(0)
	if !ok || len(sig.Params) != 0 {
		t.Fatalf("SignatureOf(0) = %+v, %v; want void signature", sig, ok)
	}

	// Function 1 is the first defined function with signature 0.
	sig, ok = m.SignatureOf(1)
	if !ok || len(sig.Params) != 1 || sig.Params[0] != metadata.ValI32 {
		t.Fatalf("SignatureOf(1) = %+v, %v; want (i32)->(i32)", sig, ok)
	}

	if _, ok := m.SignatureOf(99); ok {
		t.Error("SignatureOf(99) should report out of range")
	}
}

func TestFuncTypeEqual(t *testing.T) {
	a := metadata.FuncType{Params: []metadata.ValType{metadata.ValI32}, Results: []metadata.ValType{metadata.ValI32}}
	b := metadata.FuncType{Params: []metadata.ValType{metadata.ValI32}, Results: []metadata.ValType{metadata.ValI32}}
	c := metadata.FuncType{Params: []metadata.ValType{metadata.ValI64}, Results: []metadata.ValType{metadata.ValI32}}

	if !a.Equal(b) {
		t.Error("identical signatures should be equal")
	}
	if a.Equal(c) {
		t.Error("different signatures should not be equal")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*metadata.Module)
		wantErr bool
	}{
		{"valid", func(m *metadata.Module) {}, false},
		{"func references missing signature", func(m *metadata.Module) {
			m.Funcs[0] = 9
		}, true},
		{"import references missing signature", func(m *metadata.Module) {
			m.Imports[0].SigIndex = 9
		}, true},
		{"export func index out of range", func(m *metadata.Module) {
			m.Exports[0].Index = 3
		}, true},
		{"export memory index out of range", func(m *metadata.Module) {
			m.Exports[1].Index = 1
		}, true},
		{"duplicate export name", func(m *metadata.Module) {
			m.Exports[1].Name = "echo"
		}, true},
		{"memory max below min", func(m *metadata.Module) {
			m.Memories[0] = metadata.Limits{Min: 4, Max: 1, HasMax: true}
		}, true},
		{"data segment targets missing memory", func(m *metadata.Module) {
			m.Data = []metadata.SegmentDecl{{Index: 5, Size: 16}}
		}, true},
		{"passive data segment is unchecked", func(m *metadata.Module) {
			m.Data = []metadata.SegmentDecl{{Index: 5, Size: 16, Passive: true}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sample()
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := sample().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := sample().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical modules should encode to identical bytes")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	m := sample()
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := metadata.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if len(got.Signatures) != len(m.Signatures) ||
		len(got.Funcs) != len(m.Funcs) ||
		len(got.Imports) != len(m.Imports) ||
		len(got.Exports) != len(m.Exports) ||
		len(got.Memories) != len(m.Memories) {
		t.Fatalf("round trip changed shape: %+v", got)
	}
	if got.Exports[0].Name != "echo" || got.Exports[0].Kind != metadata.KindFunc {
		t.Errorf("export 0 = %+v", got.Exports[0])
	}
	if !got.Memories[0].HasMax || got.Memories[0].Max != 4 {
		t.Errorf("memory limits = %+v", got.Memories[0])
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := metadata.Decode([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Error("decoding garbage should fail")
	}
}

func TestFindExport(t *testing.T) {
	m := sample()
	if exp, ok := m.FindExport("echo"); !ok || exp.Index != 1 {
		t.Errorf("FindExport(echo) = %+v, %v", exp, ok)
	}
	if _, ok := m.FindExport("missing"); ok {
		t.Error("FindExport should miss unknown names")
	}
}

func TestExportedFunctions(t *testing.T) {
	fns := sample().ExportedFunctions()
	if len(fns) != 1 || fns[0].Name != "echo" {
		t.Errorf("ExportedFunctions = %+v", fns)
	}
}
