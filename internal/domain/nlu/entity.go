package nlu

// ClassifiedEntity is one entity annotation on a sentence. Start and End are
// rune offsets into the sentence text, End exclusive. Composite entities carry
// their parts in SubEntities with offsets relative to the parent value.
type ClassifiedEntity struct {
	Type        string             `json:"type"`
	Role        string             `json:"role"`
	Start       int                `json:"start"`
	End         int                `json:"end"`
	SubEntities []ClassifiedEntity `json:"sub_entities,omitempty"`
}

// EntityDefinition identifies an entity kind by its type and role pair.
type EntityDefinition struct {
	Type string `json:"type"`
	Role string `json:"role"`
}

// Is reports whether the annotation matches the given type and role pair.
func (e ClassifiedEntity) Is(def EntityDefinition) bool {
	return e.Type == def.Type && e.Role == def.Role
}

// RenameEntities rewrites every annotation matching from so it carries to's
// type and role instead. Non-matching annotations keep their relative order;
// renamed ones are appended after them. Sub-entity annotations are left
// untouched.
func RenameEntities(entities []ClassifiedEntity, from, to EntityDefinition) ([]ClassifiedEntity, bool) {
	var kept, renamed []ClassifiedEntity
	for _, e := range entities {
		if !e.Is(from) {
			kept = append(kept, e)
			continue
		}
		e.Type = to.Type
		e.Role = to.Role
		renamed = append(renamed, e)
	}
	if len(renamed) == 0 {
		return entities, false
	}
	return append(kept, renamed...), true
}

// RemoveEntities drops every top-level annotation matching def, keeping the
// rest in order. The second result reports whether anything was dropped.
func RemoveEntities(entities []ClassifiedEntity, def EntityDefinition) ([]ClassifiedEntity, bool) {
	kept := make([]ClassifiedEntity, 0, len(entities))
	for _, e := range entities {
		if e.Is(def) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(entities) {
		return entities, false
	}
	return kept, true
}

// SwitchEntity renames matching annotations in place and reports whether the
// sentence changed.
func (s *ClassifiedSentence) SwitchEntity(from, to EntityDefinition) bool {
	next, changed := RenameEntities(s.Entities, from, to)
	if changed {
		s.Entities = next
	}
	return changed
}

// RemoveEntity drops matching top-level annotations in place and reports
// whether the sentence changed.
func (s *ClassifiedSentence) RemoveEntity(def EntityDefinition) bool {
	next, changed := RemoveEntities(s.Entities, def)
	if changed {
		s.Entities = next
	}
	return changed
}
