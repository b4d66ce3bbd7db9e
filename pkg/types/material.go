package types

// Material is a concrete, folder-placed, tagged instance referencing zero or
// more models and holding property values.
type Material struct {
	UUID        string // Caller-supplied identifier, stable across updates.
	Name        string
	Author      string
	License     string
	Parent      string // Optional parent material UUID; not expanded here.
	Description string
	URL         string
	Reference   string
	Directory   string // Slash-joined folder path within the owning library.

	// Tags are deduplicated by name across the whole library set.
	Tags []string

	// Model references split by role. The role is derived from the referenced
	// model's own kind and is not stored redundantly.
	PhysicalModels   []string
	AppearanceModels []string

	// Properties holds concrete property values keyed by property name.
	Properties map[string]*PropertyValue
}

// AddTag appends a tag, skipping duplicates.
func (m *Material) AddTag(tag string) {
	for _, t := range m.Tags {
		if t == tag {
			return
		}
	}
	m.Tags = append(m.Tags, tag)
}

// AddPhysicalModel records a reference to a physical model.
func (m *Material) AddPhysicalModel(uuid string) {
	m.PhysicalModels = append(m.PhysicalModels, uuid)
}

// AddAppearanceModel records a reference to an appearance model.
func (m *Material) AddAppearanceModel(uuid string) {
	m.AppearanceModels = append(m.AppearanceModels, uuid)
}

// SetValue stores a property value under the given name. At most one value
// exists per name.
func (m *Material) SetValue(name string, value *PropertyValue) {
	if m.Properties == nil {
		m.Properties = make(map[string]*PropertyValue)
	}
	m.Properties[name] = value
}
