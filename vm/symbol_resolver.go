package vm

import (
	"fmt"
	"sort"
)

// SymbolTable provides address<->name lookup for the disassembler, trace
// emitter, and debugger, built from an ELF image's .symtab when present.
// Absence of symbols is not an error (spec.md §6): an empty table answers
// every query with "not found" and callers fall back to raw addresses.
type SymbolTable struct {
	byName    map[string]uint32
	byAddress map[uint32]string
	sorted    []uint32
}

// NewSymbolTable builds a table from name->address pairs, typically read
// from an ELF .symtab/.strtab pair by the loader.
func NewSymbolTable(symbols map[string]uint32) *SymbolTable {
	if symbols == nil {
		symbols = make(map[string]uint32)
	}

	byAddress := make(map[uint32]string, len(symbols))
	for name, addr := range symbols {
		byAddress[addr] = name
	}

	sorted := make([]uint32, 0, len(byAddress))
	for addr := range byAddress {
		sorted = append(sorted, addr)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &SymbolTable{byName: symbols, byAddress: byAddress, sorted: sorted}
}

// Lookup returns the address bound to name.
func (t *SymbolTable) Lookup(name string) (uint32, bool) {
	addr, ok := t.byName[name]
	return addr, ok
}

// Resolve finds the nearest symbol at or before address and the offset from
// it, by binary search over the sorted address list.
func (t *SymbolTable) Resolve(address uint32) (name string, offset uint32, found bool) {
	if name, ok := t.byAddress[address]; ok {
		return name, 0, true
	}
	if len(t.sorted) == 0 {
		return "", 0, false
	}

	idx := sort.Search(len(t.sorted), func(i int) bool { return t.sorted[i] > address })
	if idx == 0 {
		return "", 0, false
	}

	nearest := t.sorted[idx-1]
	return t.byAddress[nearest], address - nearest, true
}

// FormatAddressCompact renders "symbol+offset" when a symbol is found at or
// before address, otherwise the raw hex address. Used as the disassembler's
// optional symbol-lookup callback.
func (t *SymbolTable) FormatAddressCompact(address uint32) string {
	name, offset, found := t.Resolve(address)
	if !found {
		return fmt.Sprintf("0x%08x", address)
	}
	if offset == 0 {
		return name
	}
	return fmt.Sprintf("%s+%d", name, offset)
}

// Len reports how many symbols the table holds.
func (t *SymbolTable) Len() int {
	return len(t.byName)
}

// All returns the table's name->address mapping, for callers (the debugger)
// that need the whole set rather than point lookups.
func (t *SymbolTable) All() map[string]uint32 {
	return t.byName
}
