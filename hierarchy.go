package gather

import (
	"github.com/gekko3d/gather/num"
)

// maxHierarchyDepth bounds parent chains; anything deeper is treated as a cycle.
const maxHierarchyDepth = 64

// TransformHierarchySystem resolves every Transform[N] through its Parent
// chain and caches the result as the global matrix. Entities whose parent
// is missing or lacks a transform are treated as roots.
func TransformHierarchySystem[N num.Real](w *World) {
	logger := LoggerOf(w)
	resolved := make(map[EntityId]num.Mat4[N])

	var resolve func(eid EntityId, depth int) num.Mat4[N]
	resolve = func(eid EntityId, depth int) num.Mat4[N] {
		if m, ok := resolved[eid]; ok {
			return m
		}
		tr, _ := GetComponent[Transform[N]](w, eid)
		local := tr.LocalMatrix()

		global := local
		if parent, ok := GetComponent[Parent](w, eid); ok {
			if _, parentHasTransform := GetComponent[Transform[N]](w, parent.Entity); parentHasTransform {
				if depth >= maxHierarchyDepth {
					logger.Warnf("transform hierarchy deeper than %d at entity %v, treating as root", maxHierarchyDepth, eid)
				} else {
					global = resolve(parent.Entity, depth+1).Mul4(local)
				}
			}
		}

		resolved[eid] = global
		tr.SetGlobalMatrix(global)
		return global
	}

	MakeQuery1[Transform[N]](w).Map(func(eid EntityId, _ *Transform[N]) bool {
		resolve(eid, 0)
		return true
	})
}
