package toml

import (
	"math"
	"time"
)

// Equal reports whether two values hold the same data. Tables compare by
// their entries regardless of order, arrays element by element. Input
// positions and how a table or array was written are ignored. NaN equals
// NaN, and offset date-times must agree on both instant and offset.
func Equal(a, b any) bool {
	switch a := a.(type) {
	case *Table:
		b, ok := b.(*Table)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for k, ea := range a.entries {
			eb, ok := b.entries[k]
			if !ok || !Equal(ea.value, eb.value) {
				return false
			}
		}
		return true
	case *Array:
		b, ok := b.(*Array)
		if !ok || a.Len() != b.Len() {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i].value, b.elems[i].value) {
				return false
			}
		}
		return true
	case float64:
		b, ok := b.(float64)
		if !ok {
			return false
		}
		if math.IsNaN(a) || math.IsNaN(b) {
			return math.IsNaN(a) && math.IsNaN(b)
		}
		return a == b
	case time.Time:
		b, ok := b.(time.Time)
		if !ok {
			return false
		}
		_, oa := a.Zone()
		_, ob := b.Zone()
		return a.Equal(b) && oa == ob
	case string, int64, bool, LocalDate, LocalTime, LocalDateTime:
		return a == b
	}
	return false
}
