package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"

	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// PayloadTag identifies what an artifact carries.
type PayloadTag byte

const (
	// PayloadNone marks an artifact with module shape metadata only.
	PayloadNone PayloadTag = 0
	// PayloadObjectCode marks an artifact carrying a relocatable object
	// image that has not been loaded yet.
	PayloadObjectCode PayloadTag = 1
	// PayloadLoadedImage marks an artifact whose object code has been
	// linked and loaded into the process. This state is ephemeral and is
	// never serialized.
	PayloadLoadedImage PayloadTag = 2
)

// SymbolEntry maps an export index to its linker-visible symbol name.
type SymbolEntry struct {
	ExportIndex uint32
	Symbol      string
}

// Artifact is the unit this layer owns end to end: target triple, module
// metadata, and optionally a relocatable object image with its export symbol
// table.
type Artifact struct {
	triple     target.Triple
	meta       *metadata.Module
	objectCode []byte
	symbols    []SymbolEntry

	load loadState
}

// New creates an object-code artifact. The symbol table is kept sorted by
// export index so encoding stays deterministic.
func New(triple target.Triple, meta *metadata.Module, objectCode []byte, symbols []SymbolEntry) *Artifact {
	sorted := append([]SymbolEntry(nil), symbols...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ExportIndex < sorted[j].ExportIndex })
	a := &Artifact{triple: triple, meta: meta, objectCode: objectCode, symbols: sorted}
	a.load.init()
	return a
}

// NewShapeOnly creates an artifact that carries metadata and no compiled
// code, as produced by the dummy engine and by headless deserialization.
func NewShapeOnly(meta *metadata.Module) *Artifact {
	a := &Artifact{meta: meta}
	a.load.init()
	return a
}

// Triple returns the target the compiled code was produced for. The zero
// triple means the artifact carries no code.
func (a *Artifact) Triple() target.Triple {
	return a.triple
}

// Meta returns the module metadata. Always present, even without code.
func (a *Artifact) Meta() *metadata.Module {
	return a.meta
}

// HasCode is the capability flag callers must check before asking an
// artifact to resolve callable functions.
func (a *Artifact) HasCode() bool {
	return a.objectCode != nil
}

// Payload reports the artifact's current payload state.
func (a *Artifact) Payload() PayloadTag {
	if a.objectCode == nil {
		return PayloadNone
	}
	if _, ok := a.Image(); ok {
		return PayloadLoadedImage
	}
	return PayloadObjectCode
}

// ObjectCode returns the relocatable object image, or nil.
func (a *Artifact) ObjectCode() []byte {
	return a.objectCode
}

// Symbols returns the export symbol table, ordered by export index. It is
// only meaningful when the artifact carries code.
func (a *Artifact) Symbols() []SymbolEntry {
	return a.symbols
}

// ContentHash returns the hex sha256 of the deterministic encoding, for
// content-addressed caching by callers.
func (a *Artifact) ContentHash() (string, error) {
	data, err := Encode(a)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Close tears down the loaded image, if any, releasing the mapped library
// and removing its backing file unless persistence was requested. Artifacts
// that never loaded are unaffected.
func (a *Artifact) Close() error {
	img, ok := a.Image()
	if !ok {
		return nil
	}
	return img.Close()
}
