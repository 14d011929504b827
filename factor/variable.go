package factor

import (
	"fmt"
	"sort"
)

// Variable describes one discrete random variable.
//
// Identity and total order are defined solely by ID; two Variable values with
// the same ID denote the same variable. Card is the number of states (≥ 1).
// Variable is a small value type: domains copy it, nothing points at it.
type Variable struct {
	ID   int // stable identity inside one Arena
	Card int // number of states
}

// String implements fmt.Stringer ("X3[2]").
func (v Variable) String() string {
	return fmt.Sprintf("X%d[%d]", v.ID, v.Card)
}

// Evidence fixes observed values: variable id → observed state.
type Evidence map[int]int

// Keys returns the evidence variable ids in ascending order.
// Complexity: O(k log k).
func (e Evidence) Keys() []int {
	keys := make([]int, 0, len(e))
	for id := range e {
		keys = append(keys, id)
	}
	sort.Ints(keys)

	return keys
}

// Clone returns an independent copy of e.
func (e Evidence) Clone() Evidence {
	out := make(Evidence, len(e))
	for id, val := range e {
		out[id] = val
	}

	return out
}

// SortByID sorts vars in place by ascending ID and returns the slice.
func SortByID(vars []Variable) []Variable {
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })

	return vars
}

// IDs returns the ids of vars, in the same order.
func IDs(vars []Variable) []int {
	ids := make([]int, len(vars))
	for i, v := range vars {
		ids[i] = v.ID
	}

	return ids
}
