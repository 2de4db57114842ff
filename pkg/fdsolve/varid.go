package fdsolve

// VarID is an opaque, dense handle into the domain store. It is stable for
// the life of the Model: once assigned it is never reused or renumbered.
type VarID int32

// VarKind tags what kind of value a VarID carries. Boolean variables are a
// distinguished kind rather than an int domain restricted to {0,1} so that
// propagator preconditions (e.g. reification) can assert on the kind
// directly instead of inspecting bounds.
type VarKind uint8

const (
	KindInt VarKind = iota
	KindFloat
	KindBool
)

func (k VarKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}
