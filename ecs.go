package gather

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int

// World is the entity/component/resource store gatherers read from.
type World struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId
	resources   map[reflect.Type]any

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdLock    sync.Mutex
	componentIdCounter componentId
	componentTypeIdMap map[reflect.Type]componentId
	componentIdTypeMap map[componentId]reflect.Type
}

func NewWorld() *World {
	return &World{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		resources:          make(map[reflect.Type]any),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // typed slices via reflection
	recycled      []row
}

// Spawn creates an entity carrying components. Components are structs or
// pointers to structs; pointers are dereferenced and stored by value.
func (w *World) Spawn(components ...any) EntityId {
	entityId := w.nextEntityId()
	archId, arch := w.archetypeFor(w.keyOf(components...))

	r := w.reserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		w.writeComponent(arch, r, component)
	}
	w.entityIndex[entityId] = archId
	return entityId
}

func (w *World) Alive(entityId EntityId) bool {
	_, ok := w.entityIndex[entityId]
	return ok
}

func (w *World) Despawn(entityId EntityId) {
	if !w.Alive(entityId) {
		return
	}
	w.release(entityId)
}

// Insert adds or overwrites components on an existing entity.
func (w *World) Insert(entityId EntityId, components ...any) {
	srcArch, srcRow := w.locate(entityId)
	dstArchId, dstArch := w.archetypeFor(combineArchetypeKeys(srcArch.key, w.keyOf(components...)))

	if dstArch == srcArch {
		for _, component := range components {
			w.writeComponent(srcArch, srcRow, component)
		}
		return
	}

	dstRow := w.reserveRow(dstArch)
	moveComponents(srcArch, srcRow, dstArch, dstRow)
	for _, component := range components {
		w.writeComponent(dstArch, dstRow, component)
	}
	w.release(entityId)

	dstArch.entities[entityId] = dstRow
	w.entityIndex[entityId] = dstArchId
}

// Remove drops the components of the given types from an entity.
func (w *World) Remove(entityId EntityId, components ...any) {
	srcArch, srcRow := w.locate(entityId)

	removeSet := make(map[componentId]struct{})
	for _, c := range components {
		removeSet[w.getComponentId(structType(c))] = struct{}{}
	}

	var dstKey archetypeKey
	for _, compId := range srcArch.key {
		if _, shouldRemove := removeSet[compId]; !shouldRemove {
			dstKey = append(dstKey, compId)
		}
	}

	dstArchId, dstArch := w.archetypeFor(dstKey)
	if dstArch == srcArch {
		return
	}
	dstRow := w.reserveRow(dstArch)
	moveComponents(srcArch, srcRow, dstArch, dstRow)
	w.release(entityId)

	dstArch.entities[entityId] = dstRow
	w.entityIndex[entityId] = dstArchId
}

func (w *World) locate(entityId EntityId) (*archetype, row) {
	archId, ok := w.entityIndex[entityId]
	if !ok {
		panic(fmt.Sprintf("entity %d does not exist", entityId))
	}
	arch := w.archetypes[archId]
	return arch, arch.entities[entityId]
}

// moveComponents copies the components both archetypes share.
func moveComponents(srcArch *archetype, srcRow row, dstArch *archetype, dstRow row) {
	for _, compId := range srcArch.key {
		dstData, ok := dstArch.componentData[compId]
		if !ok {
			continue
		}
		srcValue := reflectSliceGet(srcArch.componentData[compId], int(srcRow))
		reflectSliceSet(dstData, int(dstRow), srcValue)
	}
}

func (w *World) writeComponent(dstArch *archetype, dstRow row, component any) {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	compId := w.getComponentId(structType(component))
	reflectSliceSet(dstArch.componentData[compId], int(dstRow), value)
}

// release frees the entity's row, zeroing it so stale values are not
// visible through a recycled row.
func (w *World) release(entityId EntityId) {
	arch, r := w.locate(entityId)
	for _, compId := range arch.key {
		reflectSliceSet(arch.componentData[compId], int(r), reflect.Zero(w.componentIdTypeMap[compId]))
	}
	arch.recycled = append(arch.recycled, r)

	delete(arch.entities, entityId)
	delete(w.entityIndex, entityId)
}

func (w *World) archetypeFor(key archetypeKey) (archetypeId, *archetype) {
	id := getArchetypeId(key)
	if arch, ok := w.archetypes[id]; ok {
		return id, arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any),
	}
	for _, compId := range key {
		arch.componentData[compId] = reflectSliceMake(w.componentIdTypeMap[compId])
	}
	w.archetypes[id] = arch
	return id, arch
}

func (w *World) reserveRow(arch *archetype) row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(len(arch.entities))
	for _, compId := range arch.key {
		arch.componentData[compId] = reflectSliceAppend(
			arch.componentData[compId],
			reflect.Zero(w.componentIdTypeMap[compId]),
		)
	}
	return r
}

// Archetype's "canonical" key is the sorted list of its component ids.
// The archetype id is a hash of the key: faster to look up, but only the
// key is guaranteed unique.
func (w *World) keyOf(components ...any) archetypeKey {
	var res archetypeKey
	for _, component := range components {
		res = append(res, w.getComponentId(structType(component)))
	}
	return dedupAndSortArchetypeKey(res)
}

func structType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component must not be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", t.Kind()))
	}
	return t
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	return dedupAndSortArchetypeKey(append(slices.Clone(a), b...))
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	b := make([]byte, 8)
	for _, compId := range key {
		binary.LittleEndian.PutUint64(b, uint64(compId))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (w *World) nextEntityId() EntityId {
	w.idGeneratorLock.Lock()
	defer w.idGeneratorLock.Unlock()

	id := w.entityIdCounter
	w.entityIdCounter += 1
	return id
}

func (w *World) getComponentId(componentType reflect.Type) componentId {
	w.componentIdLock.Lock()
	defer w.componentIdLock.Unlock()

	if id, ok := w.componentTypeIdMap[componentType]; ok {
		return id
	}
	id := w.componentIdCounter
	w.componentIdCounter += 1

	w.componentTypeIdMap[componentType] = id
	w.componentIdTypeMap[id] = componentType
	return id
}

// lookupComponentId does not register unknown types, so read paths never
// mutate the world.
func (w *World) lookupComponentId(componentType reflect.Type) (componentId, bool) {
	w.componentIdLock.Lock()
	defer w.componentIdLock.Unlock()

	id, ok := w.componentTypeIdMap[componentType]
	return id, ok
}

func reflectSliceMake(elem reflect.Type) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), 0, 1).Interface()
}

func reflectSliceGet(slice any, idx int) reflect.Value {
	return reflect.ValueOf(slice).Index(idx)
}

func reflectSliceSet(slice any, idx int, val reflect.Value) {
	reflect.ValueOf(slice).Index(idx).Set(val)
}

func reflectSliceAppend(slice any, val reflect.Value) any {
	return reflect.Append(reflect.ValueOf(slice), val).Interface()
}
