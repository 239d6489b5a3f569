package models

// MappingSource records how a FieldMapping entry came to exist.
type MappingSource string

const (
	SourceScored      MappingSource = "scored"
	SourcePromoted    MappingSource = "promoted"
	SourceAutoHandled MappingSource = "auto_handled"
)

// AutoAction is an instruction for internal/values to compute a concrete
// value without a full scoring pass (checkbox/select choices, confirmation
// copy fields, required-field rescue, ...).
type AutoAction struct {
	Kind   string // "check", "uncheck", "select_index", "select_by_algorithm", "fill", "copy_from"
	Value  string // literal value for "fill"/"select_index"/"select_by_algorithm"
	Source string // source field name for "copy_from"
}

// FieldMapping is one entry in the per-request field→element assignment
// produced by internal/mapper and internal/unmapped.
type FieldMapping struct {
	FieldName string
	Element   ElementDescriptor
	Selector  string
	Score     int

	TagName   string
	InputType string
	Name      string
	ID        string
	Required  bool
	Visible   bool
	Enabled   bool

	DefaultValue string
	AutoAction   *AutoAction
	Source       MappingSource
}

// Mapping is the full field→mapping table for one submission attempt.
// Invariant: no two entries reference the same ElementDescriptor.ElementID.
type Mapping struct {
	entries map[string]*FieldMapping
}

// NewMapping returns an empty mapping table.
func NewMapping() *Mapping {
	return &Mapping{entries: make(map[string]*FieldMapping)}
}

// Get returns the mapping for a logical field, if any.
func (m *Mapping) Get(fieldName string) (*FieldMapping, bool) {
	fm, ok := m.entries[fieldName]
	return fm, ok
}

// HasElement reports whether elementID is already claimed by any field.
func (m *Mapping) HasElement(elementID string) bool {
	for _, fm := range m.entries {
		if fm.Element.ElementID == elementID {
			return true
		}
	}
	return false
}

// Set assigns fm to fieldName, overwriting any previous assignment for that
// field. Callers are responsible for the duplicate-prevention invariant
// (internal/mapper and internal/unmapped check HasElement before calling).
func (m *Mapping) Set(fieldName string, fm *FieldMapping) {
	m.entries[fieldName] = fm
}

// Delete removes a field's mapping, used by promotion/demotion.
func (m *Mapping) Delete(fieldName string) {
	delete(m.entries, fieldName)
}

// Fields returns the set of currently mapped logical field names.
func (m *Mapping) Fields() []string {
	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Len returns the number of mapped fields.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Each iterates all entries in unspecified order.
func (m *Mapping) Each(fn func(fieldName string, fm *FieldMapping)) {
	for k, v := range m.entries {
		fn(k, v)
	}
}
