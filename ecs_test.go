package gather

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorld_NewWorld(t *testing.T) {
	w := NewWorld()

	assert.Empty(t, w.archetypes)
	assert.Empty(t, w.entityIndex)
	assert.Empty(t, w.resources)
	assert.Equal(t, EntityId(0), w.entityIdCounter)
	assert.Equal(t, componentId(0), w.componentIdCounter)
}

func TestWorld_Spawn(t *testing.T) {
	type TestComponent struct{ x string }

	w := NewWorld()
	empty := w.Spawn()
	withComp := w.Spawn(TestComponent{x: "test"})

	require.True(t, w.Alive(empty))
	require.True(t, w.Alive(withComp))
	assert.NotEqual(t, w.entityIndex[empty], w.entityIndex[withComp],
		"entities with different components ended up in the same archetype")

	c, ok := GetComponent[TestComponent](w, withComp)
	require.True(t, ok)
	assert.Equal(t, "test", c.x)
}

func TestWorld_SpawnInvalidComponentPanics(t *testing.T) {
	w := NewWorld()
	assert.Panics(t, func() { w.Spawn(123) })
	assert.Panics(t, func() { w.Spawn(nil) })
}

func TestWorld_Insert(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	w := NewWorld()
	eid := w.Spawn(TestComponent0{a: 1337})
	w.Insert(eid, TestComponent1{x: "test"}, TestComponent2{y: "hello"})
	w.Insert(eid, &TestComponent3{z: "test-2"})

	arch := w.archetypes[w.entityIndex[eid]]
	assert.Len(t, arch.componentData, 4)

	c0, ok := GetComponent[TestComponent0](w, eid)
	require.True(t, ok, "components must survive the archetype move")
	assert.Equal(t, 1337, c0.a)

	// overwrite in place
	w.Insert(eid, TestComponent0{a: 7})
	c0, _ = GetComponent[TestComponent0](w, eid)
	assert.Equal(t, 7, c0.a)
	assert.Len(t, w.archetypes[w.entityIndex[eid]].componentData, 4)
}

func TestWorld_Remove(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	w := NewWorld()
	eid := w.Spawn(Position{1, 2}, Velocity{3, 4})
	w.Remove(eid, Velocity{})

	_, ok := GetComponent[Velocity](w, eid)
	assert.False(t, ok)
	pos, ok := GetComponent[Position](w, eid)
	require.True(t, ok)
	assert.Equal(t, Position{1, 2}, *pos)
}

func TestWorld_DespawnRecyclesRow(t *testing.T) {
	type Position struct{ X, Y float64 }

	w := NewWorld()
	first := w.Spawn(Position{1, 2})
	w.Despawn(first)
	w.Despawn(first)

	assert.False(t, w.Alive(first))
	_, ok := GetComponent[Position](w, first)
	assert.False(t, ok)

	second := w.Spawn(Position{5, 6})
	assert.NotEqual(t, first, second)
	pos, ok := GetComponent[Position](w, second)
	require.True(t, ok)
	assert.Equal(t, Position{5, 6}, *pos)
}

func TestWorld_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	w := NewWorld()
	id1 := w.getComponentId(reflect.TypeOf(Position{}))
	id2 := w.getComponentId(reflect.TypeOf(Position{}))
	assert.Equal(t, id1, id2)

	_, ok := w.lookupComponentId(reflect.TypeOf(struct{ z int }{}))
	assert.False(t, ok, "lookups must not register types")
}

func TestWorld_ArchetypeKeys(t *testing.T) {
	assert.Equal(t, archetypeKey{1, 2, 3}, dedupAndSortArchetypeKey(archetypeKey{3, 1, 2, 1, 3}))
	assert.Equal(t, archetypeKey{1, 2, 3, 4}, combineArchetypeKeys(archetypeKey{1, 2, 3}, archetypeKey{4, 3, 2, 1}))
	assert.Equal(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(archetypeKey{1, 2}))
	assert.NotEqual(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(archetypeKey{2, 1}))
}

func TestWorld_Resources(t *testing.T) {
	type Settings struct{ Name string }

	w := NewWorld()
	w.AddResources(&Settings{Name: "a"})

	require.PanicsWithValue(t, "*gather.Settings is already in resources", func() {
		w.AddResources(&Settings{Name: "b"})
	})
	assert.Panics(t, func() { w.AddResources(Settings{}) })

	w.SetResource(&Settings{Name: "c"})
	s, ok := GetResource[Settings](w)
	require.True(t, ok)
	assert.Equal(t, "c", s.Name)

	w.RemoveResource(Settings{})
	_, ok = GetResource[Settings](w)
	assert.False(t, ok)
}
