package types

// Model kinds. A model describes either the physical or the appearance aspect
// of a material.
const (
	ModelPhysical   = "Physical"
	ModelAppearance = "Appearance"
)

// Model is a named, typed, inheritable property schema. Only the model's own
// (non-inherited) property definitions are stored; callers walk the Inherited
// edges to assemble the effective property set.
type Model struct {
	UUID        string // Caller-supplied identifier, stable across updates.
	Type        string // ModelPhysical or ModelAppearance.
	Name        string
	URL         string
	Description string
	DOI         string
	Directory   string // Slash-joined folder path within the owning library.

	// Inherited lists the UUIDs of the models this model extends.
	Inherited []string

	// Properties holds the model's own property definitions keyed by name.
	Properties map[string]*ModelProperty
}

// AddInheritance records an inheritance edge to another model.
func (m *Model) AddInheritance(uuid string) {
	m.Inherited = append(m.Inherited, uuid)
}

// AddProperty adds a property definition to the model's own set.
func (m *Model) AddProperty(prop *ModelProperty) {
	if m.Properties == nil {
		m.Properties = make(map[string]*ModelProperty)
	}
	m.Properties[prop.Name] = prop
}

// ModelProperty is a named, typed slot declared by a model. When the property
// is itself a table of named sub-properties, Columns carries the column
// definitions with the same shape.
type ModelProperty struct {
	Name        string
	DisplayName string
	Type        string // Free-form kind tag, e.g. "Quantity", "List", "2DArray".
	Units       string
	URL         string
	Description string

	// Inherited marks definitions that come from an inherited model. They are
	// never persisted with the declaring model.
	Inherited bool

	Columns []*ModelProperty
}

// AddColumn appends a column definition.
func (p *ModelProperty) AddColumn(col *ModelProperty) {
	p.Columns = append(p.Columns, col)
}
