package models

// Entity is an opaque data record owned by the caller and the local cache.
// The sync core never interprets its contents beyond the configured id and
// metadata attributes.
type Entity map[string]any

// ID returns the entity's unique identifier stored under idAttribute, or an
// empty string when the attribute is absent or not a string.
func (e Entity) ID(idAttribute string) string {
	if e == nil {
		return ""
	}
	id, _ := e[idAttribute].(string)
	return id
}

// SetID stores id under idAttribute.
func (e Entity) SetID(idAttribute, id string) {
	e[idAttribute] = id
}

// IsLocal reports whether the entity carries the local-origin marker inside
// its metadata attribute, i.e. its id was generated on this device and has
// not yet been confirmed by the remote store.
func (e Entity) IsLocal(kmdAttribute string) bool {
	kmd, ok := e[kmdAttribute].(map[string]any)
	if !ok {
		return false
	}
	local, _ := kmd["local"].(bool)
	return local
}

// MarkLocal sets the local-origin marker inside the metadata attribute,
// creating the metadata map when missing.
func (e Entity) MarkLocal(kmdAttribute string) {
	kmd, ok := e[kmdAttribute].(map[string]any)
	if !ok {
		kmd = make(map[string]any, 1)
		e[kmdAttribute] = kmd
	}
	kmd["local"] = true
}

// ClearLocal removes the local-origin marker, dropping the metadata attribute
// entirely when the marker was its only content.
func (e Entity) ClearLocal(kmdAttribute string) {
	kmd, ok := e[kmdAttribute].(map[string]any)
	if !ok {
		return
	}
	delete(kmd, "local")
	if len(kmd) == 0 {
		delete(e, kmdAttribute)
	}
}

// Clone returns a copy of the entity one level deep, with nested maps copied
// as well so the clone can be mutated without affecting the original.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	clone := make(Entity, len(e))
	for k, v := range e {
		if nested, ok := v.(map[string]any); ok {
			inner := make(map[string]any, len(nested))
			for nk, nv := range nested {
				inner[nk] = nv
			}
			clone[k] = inner
			continue
		}
		clone[k] = v
	}
	return clone
}
