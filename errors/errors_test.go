package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindLinkageInvariant,
				Symbol: "wasmfn_3",
				Detail: "symbol not found after successful link",
			},
			contains: []string{"[resolve]", "linkage_invariant", "wasmfn_3", "symbol not found"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDeserialize,
				Kind:  KindDeserialization,
			},
			contains: []string{"[deserialize]", "deserialization"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLink,
				Kind:   KindLink,
				Detail: "linker exited with status 1",
				Cause:  errors.New("undefined symbol wasm_rt_trap"),
			},
			contains: []string{"[link]", "linker exited", "caused by", "wasm_rt_trap"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Link("linking failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestError_Is_MatchesByKind(t *testing.T) {
	a := EngineMismatch("object-code artifact handed to dummy engine")
	b := &Error{Kind: KindEngineMismatch}

	if !errors.Is(a, b) {
		t.Error("errors with the same kind should match")
	}

	c := &Error{Kind: KindLink}
	if errors.Is(a, c) {
		t.Error("errors with different kinds should not match")
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
		want bool
	}{
		{"compilation", Compilation("no bodies", nil), IsCompilation, true},
		{"compilationf", Compilationf("export %d out of range", 7), IsCompilation, true},
		{"deserialization", Deserialization("bad magic %x", 0xdead), IsDeserialization, true},
		{"unsupported version is deserialization", UnsupportedVersion(0, 1), IsDeserialization, true},
		{"unsupported version", UnsupportedVersion(0, 1), IsUnsupportedVersion, true},
		{"link", Link("cc not found", nil), IsLink, true},
		{"linkage invariant", LinkageInvariant("wasmfn_0", "missing"), IsLinkageInvariant, true},
		{"engine mismatch", EngineMismatch("payload has code"), IsEngineMismatch, true},
		{"target mismatch", TargetMismatch("arm64-darwin", "amd64-linux"), IsTargetMismatch, true},
		{"wrapped still matches", fmt.Errorf("outer: %w", Link("inner", nil)), IsLink, true},
		{"foreign error", errors.New("plain"), IsLink, false},
		{"kind crosstalk", Link("x", nil), IsCompilation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v for %v", got, tt.want, tt.err)
			}
		})
	}
}

func TestTargetMismatch_Message(t *testing.T) {
	err := TargetMismatch("arm64-darwin", "amd64-linux-gnu")
	msg := err.Error()
	if !strings.Contains(msg, "arm64-darwin") || !strings.Contains(msg, "amd64-linux-gnu") {
		t.Errorf("message should name both triples: %q", msg)
	}
}
