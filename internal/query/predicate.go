package query

// Op identifies the kind of a predicate node
type Op int

const (
	OpAll Op = iota
	OpEq
	OpNe
	OpIn
	OpContains
	OpGt
	OpLt
	OpAnd
)

// Predicate is a storage-agnostic condition over JSON documents.
// Field names are the documents' JSON keys. The zero value matches everything.
type Predicate struct {
	Op     Op
	Field  string
	Fields []string
	Value  any
	Values []any
	Nodes  []Predicate
}

// All matches every document
func All() Predicate { return Predicate{Op: OpAll} }

// Eq matches documents whose field equals value
func Eq(field string, value any) Predicate {
	return Predicate{Op: OpEq, Field: field, Value: value}
}

// Ne matches documents whose field differs from value
func Ne(field string, value any) Predicate {
	return Predicate{Op: OpNe, Field: field, Value: value}
}

// In matches documents whose array field shares at least one element with values
func In(field string, values ...any) Predicate {
	return Predicate{Op: OpIn, Field: field, Values: values}
}

// Contains matches documents where any of fields contains text, ignoring case
func Contains(text string, fields ...string) Predicate {
	return Predicate{Op: OpContains, Fields: fields, Value: text}
}

// Gt matches documents whose field is strictly greater than value
func Gt(field string, value any) Predicate {
	return Predicate{Op: OpGt, Field: field, Value: value}
}

// Lt matches documents whose field is strictly less than value
func Lt(field string, value any) Predicate {
	return Predicate{Op: OpLt, Field: field, Value: value}
}

// And combines predicates. Match-all operands are dropped; a single
// remaining operand is returned unwrapped.
func And(preds ...Predicate) Predicate {
	nodes := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		switch p.Op {
		case OpAll:
			continue
		case OpAnd:
			nodes = append(nodes, p.Nodes...)
		default:
			nodes = append(nodes, p)
		}
	}
	switch len(nodes) {
	case 0:
		return All()
	case 1:
		return nodes[0]
	}
	return Predicate{Op: OpAnd, Nodes: nodes}
}

// IsAll reports whether p matches every document
func (p Predicate) IsAll() bool { return p.Op == OpAll }

// Direction is a sort direction
type Direction int

const (
	Desc Direction = -1
	Asc  Direction = 1
)

// SortSpec orders a result set by one field. Stores break ties by id so
// repeated queries return identical orderings.
type SortSpec struct {
	Field     string
	Direction Direction
}

// Sort builds a SortSpec
func Sort(field string, dir Direction) SortSpec {
	return SortSpec{Field: field, Direction: dir}
}

// Query is a full read request against one collection
type Query struct {
	Where Predicate
	Sort  []SortSpec
	Skip  int
	Limit int // 0 means unbounded
}
