package lang

import "sort"

// SymbolTable is the runtime variable store for one Program.
// An absent entry and an entry holding a KindNone value both mean the
// variable has not been initialized yet.
type SymbolTable struct {
	values map[string]Value
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{values: make(map[string]Value)}
}

// Get returns the current value of name and whether it is initialized.
func (s *SymbolTable) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	if !ok || v.IsNone() {
		return Value{}, false
	}
	return v, true
}

// Set stores v under name, replacing any previous value.
func (s *SymbolTable) Set(name string, v Value) {
	s.values[name] = v
}

// Names returns the stored names in sorted order.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
