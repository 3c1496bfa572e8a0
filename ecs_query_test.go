package gather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	w := NewWorld()
	w.Spawn(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := w.Spawn(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := w.Spawn(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	w.Spawn(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	w.Spawn(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	var ids []EntityId
	var as []Comp1
	var bs []Comp2
	MakeQuery2[Comp1, Comp2](w).Map(func(eid EntityId, c1 *Comp1, c2 *Comp2) bool {
		ids = append(ids, eid)
		as = append(as, *c1)
		bs = append(bs, *c2)
		return true
	})

	assert.Equal(t, []EntityId{id2, id3}, ids)
	assert.Equal(t, []Comp1{{a: 2}, {a: 3}}, as)
	assert.Equal(t, []Comp2{{b: 1.37}, {b: 4.20}}, bs)
}

func TestQuery_OrderIsStableAcrossArchetypes(t *testing.T) {
	type A struct{ n int }
	type B struct{}
	type C struct{}

	w := NewWorld()
	var want []EntityId
	for i := 0; i < 20; i++ {
		switch i % 3 {
		case 0:
			want = append(want, w.Spawn(A{n: i}))
		case 1:
			want = append(want, w.Spawn(A{n: i}, B{}))
		default:
			want = append(want, w.Spawn(C{}, A{n: i}))
		}
	}

	for run := 0; run < 5; run++ {
		var got []EntityId
		MakeQuery1[A](w).Map(func(eid EntityId, a *A) bool {
			got = append(got, eid)
			return true
		})
		assert.Equal(t, want, got)
	}
}

func TestQuery_FirstAndEarlyStop(t *testing.T) {
	type A struct{ n int }
	type B struct{}

	w := NewWorld()
	w.Spawn(A{n: 0})
	first := w.Spawn(A{n: 1}, B{})
	w.Spawn(A{n: 2}, B{})

	eid, a, b, ok := MakeQuery2[A, B](w).First()
	assert.True(t, ok)
	assert.Equal(t, first, eid)
	assert.Equal(t, 1, a.n)
	assert.NotNil(t, b)

	visited := 0
	MakeQuery1[A](w).Map(func(EntityId, *A) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)

	type Unknown struct{}
	_, _, _, ok = MakeQuery2[A, Unknown](w).First()
	assert.False(t, ok)
}
