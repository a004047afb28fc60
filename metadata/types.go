package metadata

// ValType is a WebAssembly value type, using the binary-format encoding.
type ValType byte

// Value type encodings as defined in the WebAssembly binary format.
const (
	ValI32 ValType = 0x7F // 32-bit integer
	ValI64 ValType = 0x7E // 64-bit integer
	ValF32 ValType = 0x7D // 32-bit float
	ValF64 ValType = 0x7C // 64-bit float
)

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	default:
		return "unknown"
	}
}

// ExternKind identifies the kind of an imported or exported item.
type ExternKind byte

const (
	KindFunc   ExternKind = 0
	KindTable  ExternKind = 1
	KindMemory ExternKind = 2
	KindGlobal ExternKind = 3
)

func (k ExternKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType `cbor:"1,keyasint,omitempty"`
	Results []ValType `cbor:"2,keyasint,omitempty"`
}

// Equal reports whether two signatures are identical.
func (f FuncType) Equal(other FuncType) bool {
	if len(f.Params) != len(other.Params) || len(f.Results) != len(other.Results) {
		return false
	}
	for i, p := range f.Params {
		if p != other.Params[i] {
			return false
		}
	}
	for i, r := range f.Results {
		if r != other.Results[i] {
			return false
		}
	}
	return true
}

// Limits bounds a memory, in pages. Max of zero with HasMax false means
// unbounded.
type Limits struct {
	Min    uint32 `cbor:"1,keyasint"`
	Max    uint32 `cbor:"2,keyasint,omitempty"`
	HasMax bool   `cbor:"3,keyasint,omitempty"`
}

// TableLimits bounds a table, in elements.
type TableLimits struct {
	Min    uint32 `cbor:"1,keyasint"`
	Max    uint32 `cbor:"2,keyasint,omitempty"`
	HasMax bool   `cbor:"3,keyasint,omitempty"`
}

// ImportDecl declares one imported item. For function imports SigIndex points
// into Module.Signatures; for memory and table imports the limits fields
// apply.
type ImportDecl struct {
	Module   string      `cbor:"1,keyasint"`
	Name     string      `cbor:"2,keyasint"`
	Kind     ExternKind  `cbor:"3,keyasint"`
	SigIndex uint32      `cbor:"4,keyasint,omitempty"`
	Memory   Limits      `cbor:"5,keyasint,omitempty"`
	Table    TableLimits `cbor:"6,keyasint,omitempty"`
}

// ExportDecl declares one exported item. Index is into the combined index
// space of the export's kind (imports first, then definitions).
type ExportDecl struct {
	Name  string     `cbor:"1,keyasint"`
	Kind  ExternKind `cbor:"2,keyasint"`
	Index uint32     `cbor:"3,keyasint"`
}

// SegmentDecl describes a data or element segment: which memory or table it
// initializes, at what constant offset, and how many bytes or elements.
type SegmentDecl struct {
	Index   uint32 `cbor:"1,keyasint"`
	Offset  uint32 `cbor:"2,keyasint"`
	Size    uint32 `cbor:"3,keyasint"`
	Passive bool   `cbor:"4,keyasint,omitempty"`
}

// Module is the immutable description of a validated WebAssembly module.
// It is produced by the parser/validator collaborator and owned read-only by
// an engine during compilation.
type Module struct {
	// Signatures is the ordered function type space.
	Signatures []FuncType `cbor:"1,keyasint,omitempty"`
	// Funcs maps each defined function (in definition order) to a signature
	// index. Imported functions are not listed here; they carry their
	// signature on the ImportDecl.
	Funcs    []uint32      `cbor:"2,keyasint,omitempty"`
	Imports  []ImportDecl  `cbor:"3,keyasint,omitempty"`
	Exports  []ExportDecl  `cbor:"4,keyasint,omitempty"`
	Memories []Limits      `cbor:"5,keyasint,omitempty"`
	Tables   []TableLimits `cbor:"6,keyasint,omitempty"`
	Data     []SegmentDecl `cbor:"7,keyasint,omitempty"`
	Elements []SegmentDecl `cbor:"8,keyasint,omitempty"`
}

// NumImported returns how many imports of the given kind the module has.
func (m *Module) NumImported(kind ExternKind) uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Kind == kind {
			n++
		}
	}
	return n
}

// NumFunctions returns the size of the function index space: imported
// functions followed by defined functions.
func (m *Module) NumFunctions() uint32 {
	return m.NumImported(KindFunc) + uint32(len(m.Funcs))
}

// SignatureOf returns the signature of the function at funcIndex in the
// combined function index space. The second result is false when the index
// is out of range or references a missing signature.
func (m *Module) SignatureOf(funcIndex uint32) (FuncType, bool) {
	var sigIndex uint32
	numImported := m.NumImported(KindFunc)
	switch {
	case funcIndex < numImported:
		var seen uint32
		for _, imp := range m.Imports {
			if imp.Kind != KindFunc {
				continue
			}
			if seen == funcIndex {
				sigIndex = imp.SigIndex
			}
			seen++
		}
	case funcIndex < m.NumFunctions():
		sigIndex = m.Funcs[funcIndex-numImported]
	default:
		return FuncType{}, false
	}
	if int(sigIndex) >= len(m.Signatures) {
		return FuncType{}, false
	}
	return m.Signatures[sigIndex], true
}

// ExportedFunctions returns the function exports in declaration order.
func (m *Module) ExportedFunctions() []ExportDecl {
	var out []ExportDecl
	for _, exp := range m.Exports {
		if exp.Kind == KindFunc {
			out = append(out, exp)
		}
	}
	return out
}

// FindExport returns the export with the given name, if any.
func (m *Module) FindExport(name string) (ExportDecl, bool) {
	for _, exp := range m.Exports {
		if exp.Name == name {
			return exp, true
		}
	}
	return ExportDecl{}, false
}
