package metadata

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// FromBinary parses and validates a core WebAssembly binary with wazero and
// derives its module metadata. wazero acts as the external parser/validator
// here; this package never inspects the binary format itself.
func FromBinary(ctx context.Context, wasmBytes []byte) (*Module, error) {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("metadata: compile module: %w", err)
	}
	defer compiled.Close(ctx)

	return FromCompiled(compiled)
}

// FromCompiled derives module metadata from a wazero-compiled module.
//
// wazero's public API exposes imported and exported definitions only, so
// tables, globals and interior (non-exported) functions are not described:
// interior functions are recorded with a placeholder void signature. Callers
// that need the complete function space must obtain metadata from the code
// generator path instead.
func FromCompiled(compiled wazero.CompiledModule) (*Module, error) {
	m := &Module{}
	sigIndex := make(map[string]uint32)

	internSig := func(params, results []api.ValueType) (uint32, error) {
		ft, err := funcTypeOf(params, results)
		if err != nil {
			return 0, err
		}
		key := sigKey(ft)
		if idx, ok := sigIndex[key]; ok {
			return idx, nil
		}
		idx := uint32(len(m.Signatures))
		m.Signatures = append(m.Signatures, ft)
		sigIndex[key] = idx
		return idx, nil
	}

	numImportedFuncs := uint32(len(compiled.ImportedFunctions()))

	for _, def := range compiled.ImportedFunctions() {
		modName, name, _ := def.Import()
		idx, err := internSig(def.ParamTypes(), def.ResultTypes())
		if err != nil {
			return nil, err
		}
		m.Imports = append(m.Imports, ImportDecl{
			Module: modName, Name: name, Kind: KindFunc, SigIndex: idx,
		})
	}

	for _, def := range compiled.ImportedMemories() {
		modName, name, _ := def.Import()
		max, hasMax := def.Max()
		m.Imports = append(m.Imports, ImportDecl{
			Module: modName, Name: name, Kind: KindMemory,
			Memory: Limits{Min: def.Min(), Max: max, HasMax: hasMax},
		})
	}

	// Exported functions come back as a map; order by function index so the
	// derived metadata is deterministic.
	exported := make([]api.FunctionDefinition, 0, len(compiled.ExportedFunctions()))
	for _, def := range compiled.ExportedFunctions() {
		exported = append(exported, def)
	}
	sort.Slice(exported, func(i, j int) bool { return exported[i].Index() < exported[j].Index() })

	// Size the defined-function space from the largest exported index.
	var numDefined uint32
	for _, def := range exported {
		if def.Index() >= numImportedFuncs && def.Index()-numImportedFuncs+1 > numDefined {
			numDefined = def.Index() - numImportedFuncs + 1
		}
	}
	if numDefined > 0 {
		void, err := internSig(nil, nil)
		if err != nil {
			return nil, err
		}
		m.Funcs = make([]uint32, numDefined)
		for i := range m.Funcs {
			m.Funcs[i] = void
		}
	}

	seenExports := make(map[string]struct{})
	for _, def := range exported {
		idx, err := internSig(def.ParamTypes(), def.ResultTypes())
		if err != nil {
			return nil, err
		}
		if def.Index() >= numImportedFuncs {
			m.Funcs[def.Index()-numImportedFuncs] = idx
		}
		names := append([]string(nil), def.ExportNames()...)
		sort.Strings(names)
		for _, name := range names {
			if _, dup := seenExports[name]; dup {
				continue
			}
			seenExports[name] = struct{}{}
			m.Exports = append(m.Exports, ExportDecl{Name: name, Kind: KindFunc, Index: def.Index()})
		}
	}

	// Defined memories appear among exported memory definitions.
	memDefs := make([]api.MemoryDefinition, 0, len(compiled.ExportedMemories()))
	for _, def := range compiled.ExportedMemories() {
		memDefs = append(memDefs, def)
	}
	sort.Slice(memDefs, func(i, j int) bool { return memDefs[i].Index() < memDefs[j].Index() })

	seenMemories := make(map[uint32]struct{})
	for _, def := range memDefs {
		if _, _, imported := def.Import(); !imported {
			if _, dup := seenMemories[def.Index()]; !dup {
				seenMemories[def.Index()] = struct{}{}
				max, hasMax := def.Max()
				m.Memories = append(m.Memories, Limits{Min: def.Min(), Max: max, HasMax: hasMax})
			}
		}
		names := append([]string(nil), def.ExportNames()...)
		sort.Strings(names)
		for _, name := range names {
			if _, dup := seenExports[name]; dup {
				continue
			}
			seenExports[name] = struct{}{}
			m.Exports = append(m.Exports, ExportDecl{Name: name, Kind: KindMemory, Index: def.Index()})
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("metadata: derived module invalid: %w", err)
	}
	return m, nil
}

func funcTypeOf(params, results []api.ValueType) (FuncType, error) {
	ft := FuncType{}
	for _, p := range params {
		v, err := valTypeOf(p)
		if err != nil {
			return FuncType{}, err
		}
		ft.Params = append(ft.Params, v)
	}
	for _, r := range results {
		v, err := valTypeOf(r)
		if err != nil {
			return FuncType{}, err
		}
		ft.Results = append(ft.Results, v)
	}
	return ft, nil
}

func valTypeOf(v api.ValueType) (ValType, error) {
	switch v {
	case api.ValueTypeI32:
		return ValI32, nil
	case api.ValueTypeI64:
		return ValI64, nil
	case api.ValueTypeF32:
		return ValF32, nil
	case api.ValueTypeF64:
		return ValF64, nil
	default:
		return 0, fmt.Errorf("metadata: unsupported value type 0x%x", byte(v))
	}
}

func sigKey(ft FuncType) string {
	key := make([]byte, 0, len(ft.Params)+len(ft.Results)+1)
	for _, p := range ft.Params {
		key = append(key, byte(p))
	}
	key = append(key, 0)
	for _, r := range ft.Results {
		key = append(key, byte(r))
	}
	return string(key)
}
