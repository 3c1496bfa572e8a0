package gather

import (
	"reflect"
	"slices"
)

// WorldReader is the read-only view of a world snapshot. Entities are
// always reported in ascending id order so repeated scans of the same
// snapshot agree.
type WorldReader interface {
	// Resource returns the singleton resource whose type is t.
	Resource(t reflect.Type) (any, bool)
	// Component returns a pointer to the entity's component of type t.
	Component(entityId EntityId, t reflect.Type) (any, bool)
	// Entities lists entities carrying every one of types.
	Entities(types ...reflect.Type) []EntityId
}

func (w *World) Resource(t reflect.Type) (any, bool) {
	r, ok := w.resources[t]
	return r, ok
}

func (w *World) Component(entityId EntityId, t reflect.Type) (any, bool) {
	archId, ok := w.entityIndex[entityId]
	if !ok {
		return nil, false
	}
	compId, ok := w.lookupComponentId(t)
	if !ok {
		return nil, false
	}
	arch := w.archetypes[archId]
	data, ok := arch.componentData[compId]
	if !ok {
		return nil, false
	}
	return reflectSliceGet(data, int(arch.entities[entityId])).Addr().Interface(), true
}

func (w *World) Entities(types ...reflect.Type) []EntityId {
	ids := make([]componentId, 0, len(types))
	for _, t := range types {
		id, ok := w.lookupComponentId(t)
		if !ok {
			return nil
		}
		ids = append(ids, id)
	}

	var res []EntityId
	for _, arch := range w.archetypes {
		if !archetypeHas(arch, ids) {
			continue
		}
		for entityId := range arch.entities {
			res = append(res, entityId)
		}
	}
	slices.Sort(res)
	return res
}

func archetypeHas(arch *archetype, ids []componentId) bool {
	for _, id := range ids {
		if _, ok := arch.componentData[id]; !ok {
			return false
		}
	}
	return true
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// GetResource returns the resource of type T, if present.
func GetResource[T any](r WorldReader) (*T, bool) {
	res, ok := r.Resource(typeOf[T]())
	if !ok {
		return nil, false
	}
	typed, ok := res.(*T)
	return typed, ok
}

// GetComponent returns the entity's component of type T, if present.
func GetComponent[T any](r WorldReader, entityId EntityId) (*T, bool) {
	c, ok := r.Component(entityId, typeOf[T]())
	if !ok {
		return nil, false
	}
	typed, ok := c.(*T)
	return typed, ok
}

type Query1[A any] struct{ r WorldReader }
type Query2[A, B any] struct{ r WorldReader }

func MakeQuery1[A any](r WorldReader) Query1[A]       { return Query1[A]{r: r} }
func MakeQuery2[A, B any](r WorldReader) Query2[A, B] { return Query2[A, B]{r: r} }

// Map visits matches in ascending entity order until m returns false.
func (q Query1[A]) Map(m func(EntityId, *A) bool) {
	for _, entityId := range q.r.Entities(typeOf[A]()) {
		a, _ := GetComponent[A](q.r, entityId)
		if !m(entityId, a) {
			return
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool) {
	for _, entityId := range q.r.Entities(typeOf[A](), typeOf[B]()) {
		a, _ := GetComponent[A](q.r, entityId)
		b, _ := GetComponent[B](q.r, entityId)
		if !m(entityId, a, b) {
			return
		}
	}
}

// First returns the lowest-id match.
func (q Query2[A, B]) First() (EntityId, *A, *B, bool) {
	var (
		id    EntityId
		a     *A
		b     *B
		found bool
	)
	q.Map(func(entityId EntityId, ca *A, cb *B) bool {
		id, a, b, found = entityId, ca, cb, true
		return false
	})
	return id, a, b, found
}
