package engine

import (
	"fmt"

	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
)

// Extern is a host-provided definition an import can resolve to.
type Extern struct {
	Kind metadata.ExternKind

	// Sig is the function signature for KindFunc externs.
	Sig metadata.FuncType
	// Memory describes KindMemory externs.
	Memory metadata.Limits
	// Table describes KindTable externs.
	Table metadata.TableLimits

	// Fn is the callable behind a KindFunc extern, when one exists.
	Fn Callable
}

// Resolver connects module imports with available externs. The index is the
// position of the import in the module, which disambiguates modules that
// import the same module/field pair more than once.
type Resolver interface {
	Resolve(index uint32, module, field string) (Extern, bool)
}

// NamedResolver resolves imports by module and field name alone.
type NamedResolver interface {
	ResolveByName(module, field string) (Extern, bool)
}

// ByName adapts a NamedResolver into a Resolver, dismissing the index.
func ByName(r NamedResolver) Resolver {
	return namedAdapter{r}
}

type namedAdapter struct {
	r NamedResolver
}

func (a namedAdapter) Resolve(_ uint32, module, field string) (Extern, bool) {
	return a.r.ResolveByName(module, field)
}

// NullResolver resolves nothing.
type NullResolver struct{}

func (NullResolver) Resolve(uint32, string, string) (Extern, bool) {
	return Extern{}, false
}

// MapResolver resolves by name from a two-level module -> field map.
type MapResolver map[string]map[string]Extern

func (m MapResolver) ResolveByName(module, field string) (Extern, bool) {
	fields, ok := m[module]
	if !ok {
		return Extern{}, false
	}
	ext, ok := fields[field]
	return ext, ok
}

// ChainResolvers tries each resolver in order and returns the first hit.
func ChainResolvers(resolvers ...NamedResolver) NamedResolver {
	return resolverChain(resolvers)
}

type resolverChain []NamedResolver

func (c resolverChain) ResolveByName(module, field string) (Extern, bool) {
	for _, r := range c {
		if ext, ok := r.ResolveByName(module, field); ok {
			return ext, ok
		}
	}
	return Extern{}, false
}

// ResolveImports matches every import of a module against definitions from
// the resolver. On success the resolved externs come back in import order;
// an unknown import or an incompatible definition fails the whole
// resolution with a link error.
func ResolveImports(meta *metadata.Module, r Resolver) ([]Extern, error) {
	if meta == nil {
		return nil, errors.Invariant(errors.PhaseLink, "nil module metadata")
	}
	resolved := make([]Extern, len(meta.Imports))
	for i, imp := range meta.Imports {
		ext, ok := r.Resolve(uint32(i), imp.Module, imp.Name)
		if !ok {
			return nil, errors.Link(fmt.Sprintf("unknown import %s.%s", imp.Module, imp.Name), nil)
		}
		if ext.Kind != imp.Kind {
			return nil, errors.Link(fmt.Sprintf("import %s.%s expects %s, resolver provided %s",
				imp.Module, imp.Name, kindName(imp.Kind), kindName(ext.Kind)), nil)
		}
		switch imp.Kind {
		case metadata.KindFunc:
			if int(imp.SigIndex) >= len(meta.Signatures) {
				return nil, errors.Link(fmt.Sprintf("import %s.%s references unknown signature %d",
					imp.Module, imp.Name, imp.SigIndex), nil)
			}
			want := meta.Signatures[imp.SigIndex]
			if !ext.Sig.Equal(want) {
				return nil, errors.Link(fmt.Sprintf("import %s.%s has incompatible function signature",
					imp.Module, imp.Name), nil)
			}
		case metadata.KindMemory:
			if !limitsSatisfy(ext.Memory, imp.Memory) {
				return nil, errors.Link(fmt.Sprintf("import %s.%s memory limits not satisfied",
					imp.Module, imp.Name), nil)
			}
		case metadata.KindTable:
			if !limitsSatisfy(metadata.Limits(ext.Table), metadata.Limits(imp.Table)) {
				return nil, errors.Link(fmt.Sprintf("import %s.%s table limits not satisfied",
					imp.Module, imp.Name), nil)
			}
		}
		resolved[i] = ext
	}
	return resolved, nil
}

// limitsSatisfy reports whether a provided extern's limits satisfy the
// limits an import demands: at least the demanded minimum, and within the
// demanded maximum when the import declares one.
func limitsSatisfy(provided, demanded metadata.Limits) bool {
	if provided.Min < demanded.Min {
		return false
	}
	if demanded.HasMax {
		if !provided.HasMax || provided.Max > demanded.Max {
			return false
		}
	}
	return true
}

func kindName(k metadata.ExternKind) string {
	switch k {
	case metadata.KindFunc:
		return "function"
	case metadata.KindTable:
		return "table"
	case metadata.KindMemory:
		return "memory"
	case metadata.KindGlobal:
		return "global"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}
