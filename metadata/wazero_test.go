package metadata_test

import (
	"context"
	"testing"

	"github.com/wasmfoundry/wasm-engine/metadata"
)

// echoModule is a minimal core module exporting "echo": (func (param i32) (result i32) local.get 0).
var echoModule = []byte{
	0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7F, 0x01, 0x7F, // type: (i32)->(i32)
	0x03, 0x02, 0x01, 0x00, // func 0 uses type 0
	0x07, 0x08, 0x01, 0x04, 0x65, 0x63, 0x68, 0x6F, 0x00, 0x00, // export "echo" func 0
	0x0A, 0x06, 0x01, 0x04, 0x00, 0x20, 0x00, 0x0B, // code: local.get 0, end
}

func TestFromBinary(t *testing.T) {
	m, err := metadata.FromBinary(context.Background(), echoModule)
	if err != nil {
		t.Fatalf("FromBinary: %v", err)
	}

	if got := m.NumFunctions(); got != 1 {
		t.Fatalf("NumFunctions = %d, want 1", got)
	}

	exp, ok := m.FindExport("echo")
	if !ok {
		t.Fatal("export echo not found")
	}
	if exp.Kind != metadata.KindFunc || exp.Index != 0 {
		t.Errorf("export = %+v", exp)
	}

	sig, ok := m.SignatureOf(exp.Index)
	if !ok {
		t.Fatal("SignatureOf(export) missing")
	}
	if len(sig.Params) != 1 || sig.Params[0] != metadata.ValI32 ||
		len(sig.Results) != 1 || sig.Results[0] != metadata.ValI32 {
		t.Errorf("signature = %+v, want (i32)->(i32)", sig)
	}
}

func TestFromBinaryDeterministic(t *testing.T) {
	a, err := metadata.FromBinary(context.Background(), echoModule)
	if err != nil {
		t.Fatalf("FromBinary: %v", err)
	}
	b, err := metadata.FromBinary(context.Background(), echoModule)
	if err != nil {
		t.Fatalf("FromBinary: %v", err)
	}

	ab, err := a.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	bb, err := b.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(ab) != string(bb) {
		t.Error("metadata derived from the same binary should encode identically")
	}
}

func TestFromBinaryRejectsGarbage(t *testing.T) {
	if _, err := metadata.FromBinary(context.Background(), []byte("not wasm")); err == nil {
		t.Error("FromBinary should reject a malformed binary")
	}
}
