package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile     Phase = "compile"     // module intake and code packaging
	PhaseSerialize   Phase = "serialize"   // artifact to bytes
	PhaseDeserialize Phase = "deserialize" // bytes to artifact
	PhaseLink        Phase = "link"        // native linker invocation
	PhaseLoad        Phase = "load"        // dynamic loading
	PhaseResolve     Phase = "resolve"     // export symbol resolution
)

// Kind categorizes the error
type Kind string

const (
	// KindCompilation covers bad or missing input to Compile: malformed
	// metadata, out-of-range indices, absent function bodies.
	KindCompilation Kind = "compilation"
	// KindDeserialization covers malformed or version-incompatible bytes.
	KindDeserialization Kind = "deserialization"
	// KindUnsupportedVersion is a deserialization failure on a container
	// whose format version is below the lowest supported one.
	KindUnsupportedVersion Kind = "unsupported_version"
	// KindLink covers external linker failures: missing tool, unresolved
	// symbol, incompatible target.
	KindLink Kind = "link"
	// KindLinkageInvariant marks a contract breach between the code
	// generator and the object writer. Always a defect, never user-caused.
	KindLinkageInvariant Kind = "linkage_invariant"
	// KindEngineMismatch means an artifact's engine-specific expectations
	// do not match the engine asked to handle it.
	KindEngineMismatch Kind = "engine_mismatch"
	// KindTargetMismatch means the artifact's target triple does not match
	// the host at load time.
	KindTargetMismatch Kind = "target_mismatch"
	// KindInvariant marks an internal invariant violation outside the
	// generator/writer contract, e.g. serializing a malformed artifact.
	KindInvariant Kind = "invariant"
)

// Error is the structured error type used throughout the engine
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	// Symbol is the linker-visible symbol name involved, if any.
	Symbol string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Symbol != "" {
		b.WriteString(" at symbol ")
		b.WriteString(e.Symbol)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Two engine errors match when
// their Kind matches; Phase is informational.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind && (t.Phase == "" || e.Phase == t.Phase)
	}
	return false
}

// Taxonomy constructors

// Compilation creates a compilation error for bad or missing compile input.
func Compilation(detail string, cause error) *Error {
	return &Error{Phase: PhaseCompile, Kind: KindCompilation, Detail: detail, Cause: cause}
}

// Compilationf creates a compilation error with a formatted detail message.
func Compilationf(format string, args ...any) *Error {
	return &Error{Phase: PhaseCompile, Kind: KindCompilation, Detail: fmt.Sprintf(format, args...)}
}

// Deserialization creates a deserialization error with a formatted detail.
func Deserialization(format string, args ...any) *Error {
	return &Error{Phase: PhaseDeserialize, Kind: KindDeserialization, Detail: fmt.Sprintf(format, args...)}
}

// DeserializationCause wraps an underlying decode failure.
func DeserializationCause(detail string, cause error) *Error {
	return &Error{Phase: PhaseDeserialize, Kind: KindDeserialization, Detail: detail, Cause: cause}
}

// UnsupportedVersion creates an error for a container version below the
// lowest supported format version. No best-effort decode is attempted.
func UnsupportedVersion(got, min uint32) *Error {
	return &Error{
		Phase:  PhaseDeserialize,
		Kind:   KindUnsupportedVersion,
		Detail: fmt.Sprintf("format version %d below minimum supported %d", got, min),
	}
}

// Link creates an external linker failure.
func Link(detail string, cause error) *Error {
	return &Error{Phase: PhaseLink, Kind: KindLink, Detail: detail, Cause: cause}
}

// LinkageInvariant reports a generator/writer contract breach, such as an
// exported symbol missing from a successfully linked image.
func LinkageInvariant(symbol, detail string) *Error {
	return &Error{Phase: PhaseResolve, Kind: KindLinkageInvariant, Symbol: symbol, Detail: detail}
}

// EngineMismatch reports an artifact handed to the wrong engine variant.
func EngineMismatch(detail string) *Error {
	return &Error{Phase: PhaseDeserialize, Kind: KindEngineMismatch, Detail: detail}
}

// TargetMismatch reports a target-triple incompatibility discovered before
// any code is loaded.
func TargetMismatch(artifact, host string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindTargetMismatch,
		Detail: fmt.Sprintf("artifact built for %q, host is %q", artifact, host),
	}
}

// Invariant reports an internal invariant violation.
func Invariant(phase Phase, detail string) *Error {
	return &Error{Phase: phase, Kind: KindInvariant, Detail: detail}
}

// Predicates

// IsCompilation reports whether err is a compilation error.
func IsCompilation(err error) bool { return isKind(err, KindCompilation) }

// IsDeserialization reports whether err is a deserialization failure,
// including unsupported-version failures.
func IsDeserialization(err error) bool {
	return isKind(err, KindDeserialization) || isKind(err, KindUnsupportedVersion)
}

// IsUnsupportedVersion reports whether err is an unsupported format version.
func IsUnsupportedVersion(err error) bool { return isKind(err, KindUnsupportedVersion) }

// IsLink reports whether err is an external linker failure.
func IsLink(err error) bool { return isKind(err, KindLink) }

// IsLinkageInvariant reports whether err is a generator/writer contract breach.
func IsLinkageInvariant(err error) bool { return isKind(err, KindLinkageInvariant) }

// IsEngineMismatch reports whether err is an engine mismatch.
func IsEngineMismatch(err error) bool { return isKind(err, KindEngineMismatch) }

// IsTargetMismatch reports whether err is a target-triple mismatch.
func IsTargetMismatch(err error) bool { return isKind(err, KindTargetMismatch) }

func isKind(err error, kind Kind) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
