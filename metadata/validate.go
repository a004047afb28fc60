package metadata

import "fmt"

// Validate checks the module description for structural validity: every
// signature, import and export index must be in range. Engines reject modules
// that fail validation before doing any work.
func (m *Module) Validate() error {
	if err := m.validateFuncs(); err != nil {
		return err
	}
	if err := m.validateImports(); err != nil {
		return err
	}
	if err := m.validateExports(); err != nil {
		return err
	}
	if err := m.validateSegments(); err != nil {
		return err
	}
	return nil
}

func (m *Module) validateFuncs() error {
	for i, sigIndex := range m.Funcs {
		if int(sigIndex) >= len(m.Signatures) {
			return fmt.Errorf("function %d references signature %d, have %d", i, sigIndex, len(m.Signatures))
		}
	}
	return nil
}

func (m *Module) validateImports() error {
	for i, imp := range m.Imports {
		switch imp.Kind {
		case KindFunc:
			if int(imp.SigIndex) >= len(m.Signatures) {
				return fmt.Errorf("import %d (%s.%s) references signature %d, have %d",
					i, imp.Module, imp.Name, imp.SigIndex, len(m.Signatures))
			}
		case KindMemory:
			if imp.Memory.HasMax && imp.Memory.Max < imp.Memory.Min {
				return fmt.Errorf("import %d (%s.%s): memory max %d below min %d",
					i, imp.Module, imp.Name, imp.Memory.Max, imp.Memory.Min)
			}
		case KindTable:
			if imp.Table.HasMax && imp.Table.Max < imp.Table.Min {
				return fmt.Errorf("import %d (%s.%s): table max %d below min %d",
					i, imp.Module, imp.Name, imp.Table.Max, imp.Table.Min)
			}
		case KindGlobal:
			// No shape to check.
		default:
			return fmt.Errorf("import %d (%s.%s): unknown kind %d", i, imp.Module, imp.Name, imp.Kind)
		}
	}
	return nil
}

func (m *Module) validateExports() error {
	seen := make(map[string]struct{}, len(m.Exports))
	for i, exp := range m.Exports {
		if _, dup := seen[exp.Name]; dup {
			return fmt.Errorf("duplicate export name %q", exp.Name)
		}
		seen[exp.Name] = struct{}{}

		var space uint32
		switch exp.Kind {
		case KindFunc:
			space = m.NumFunctions()
		case KindMemory:
			space = m.NumImported(KindMemory) + uint32(len(m.Memories))
		case KindTable:
			space = m.NumImported(KindTable) + uint32(len(m.Tables))
		case KindGlobal:
			// Globals are opaque to this layer; only imported ones are known.
			space = m.NumImported(KindGlobal)
			if exp.Index >= space {
				// Defined globals live past the imports; accept them.
				continue
			}
		default:
			return fmt.Errorf("export %d (%q): unknown kind %d", i, exp.Name, exp.Kind)
		}
		if exp.Kind != KindGlobal && exp.Index >= space {
			return fmt.Errorf("export %d (%q): %s index %d out of range (space %d)",
				i, exp.Name, exp.Kind, exp.Index, space)
		}
	}

	for i, mem := range m.Memories {
		if mem.HasMax && mem.Max < mem.Min {
			return fmt.Errorf("memory %d: max %d below min %d", i, mem.Max, mem.Min)
		}
	}
	for i, tbl := range m.Tables {
		if tbl.HasMax && tbl.Max < tbl.Min {
			return fmt.Errorf("table %d: max %d below min %d", i, tbl.Max, tbl.Min)
		}
	}
	return nil
}

func (m *Module) validateSegments() error {
	numMemories := m.NumImported(KindMemory) + uint32(len(m.Memories))
	for i, seg := range m.Data {
		if !seg.Passive && seg.Index >= numMemories {
			return fmt.Errorf("data segment %d targets memory %d, have %d", i, seg.Index, numMemories)
		}
	}
	numTables := m.NumImported(KindTable) + uint32(len(m.Tables))
	for i, seg := range m.Elements {
		if !seg.Passive && seg.Index >= numTables {
			return fmt.Errorf("element segment %d targets table %d, have %d", i, seg.Index, numTables)
		}
	}
	return nil
}
