package artifact

import (
	"github.com/wasmfoundry/wasm-engine/artifact/internal/binary"
	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// Container format constants.
const (
	// Magic is the container tag, "WAEF" in little-endian.
	Magic uint32 = 0x46454157

	// FormatVersion is the version written by Encode.
	FormatVersion uint32 = 1

	// MinFormatVersion is the lowest version Decode accepts. Anything older
	// fails with an unsupported-version error rather than a best-effort
	// decode.
	MinFormatVersion uint32 = 1
)

// Encode serializes an artifact into the versioned container format:
//
//	magic | format version | target triple | payload tag |
//	[object code | symbol table]           | module metadata
//
// Encoding is deterministic. It fails only on internal invariant violations,
// never on a valid artifact.
func Encode(a *Artifact) ([]byte, error) {
	if a == nil || a.meta == nil {
		return nil, errors.Invariant(errors.PhaseSerialize, "artifact has no module metadata")
	}
	if a.HasCode() && a.triple.IsZero() {
		return nil, errors.Invariant(errors.PhaseSerialize, "object-code artifact has no target triple")
	}

	metaBytes, err := a.meta.Encode()
	if err != nil {
		return nil, errors.Invariant(errors.PhaseSerialize, "metadata encoding failed: "+err.Error())
	}

	w := binary.NewWriter()
	w.U32LE(Magic)
	w.U32(FormatVersion)
	w.String(a.triple.String())

	if a.HasCode() {
		w.Byte(byte(PayloadObjectCode))
		w.Block(a.objectCode)
		w.U32(uint32(len(a.symbols)))
		for _, sym := range a.symbols {
			w.U32(sym.ExportIndex)
			w.String(sym.Symbol)
		}
	} else {
		w.Byte(byte(PayloadNone))
	}

	w.Block(metaBytes)
	return w.Bytes(), nil
}

// Decode parses a container produced by Encode. Magic and version are
// validated before any other field is touched, the metadata must validate
// structurally, and every symbol table entry must reference an export the
// metadata declares. On any failure no artifact is returned: decoding never
// partially constructs one.
func Decode(data []byte) (*Artifact, error) {
	r := binary.NewReader(data)

	magic, err := r.U32LE()
	if err != nil {
		return nil, errors.DeserializationCause("reading magic", err)
	}
	if magic != Magic {
		return nil, errors.Deserialization("bad magic 0x%08x", magic)
	}

	version, err := r.U32()
	if err != nil {
		return nil, errors.DeserializationCause("reading format version", err)
	}
	if version < MinFormatVersion {
		return nil, errors.UnsupportedVersion(version, MinFormatVersion)
	}
	if version > FormatVersion {
		return nil, errors.Deserialization("format version %d newer than supported %d", version, FormatVersion)
	}

	tripleStr, err := r.String()
	if err != nil {
		return nil, errors.DeserializationCause("reading target triple", err)
	}
	triple, err := target.Parse(tripleStr)
	if err != nil {
		return nil, errors.DeserializationCause("parsing target triple", err)
	}

	tagByte, err := r.Byte()
	if err != nil {
		return nil, errors.DeserializationCause("reading payload tag", err)
	}

	var objectCode []byte
	var symbols []SymbolEntry
	switch PayloadTag(tagByte) {
	case PayloadNone:
	case PayloadObjectCode:
		objectCode, err = r.Block()
		if err != nil {
			return nil, errors.DeserializationCause("reading object code", err)
		}
		count, err := r.U32()
		if err != nil {
			return nil, errors.DeserializationCause("reading symbol count", err)
		}
		if int(count) > r.Remaining() {
			return nil, errors.Deserialization("symbol count %d exceeds remaining input", count)
		}
		symbols = make([]SymbolEntry, 0, count)
		for i := uint32(0); i < count; i++ {
			idx, err := r.U32()
			if err != nil {
				return nil, errors.DeserializationCause("reading symbol index", err)
			}
			name, err := r.String()
			if err != nil {
				return nil, errors.DeserializationCause("reading symbol name", err)
			}
			symbols = append(symbols, SymbolEntry{ExportIndex: idx, Symbol: name})
		}
	default:
		return nil, errors.Deserialization("unknown payload tag 0x%02x", tagByte)
	}

	metaBytes, err := r.Block()
	if err != nil {
		return nil, errors.DeserializationCause("reading module metadata", err)
	}
	meta, err := metadata.Decode(metaBytes)
	if err != nil {
		return nil, errors.DeserializationCause("decoding module metadata", err)
	}
	if err := r.ExpectEOF(); err != nil {
		return nil, errors.DeserializationCause("container", err)
	}
	if err := meta.Validate(); err != nil {
		return nil, errors.DeserializationCause("validating module metadata", err)
	}
	for _, sym := range symbols {
		if int(sym.ExportIndex) >= len(meta.Exports) {
			return nil, errors.Deserialization("symbol %q references export %d of %d", sym.Symbol, sym.ExportIndex, len(meta.Exports))
		}
	}

	if objectCode == nil {
		a := NewShapeOnly(meta)
		a.triple = triple
		return a, nil
	}
	return New(triple, meta, objectCode, symbols), nil
}
