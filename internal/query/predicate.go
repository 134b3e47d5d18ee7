// Package query describes backend-agnostic student queries: a composable
// predicate tree, the typed filter that produces it and pagination
// normalisation.
package query

// Predicate is a node of the condition tree handed to the persistence layer.
type Predicate interface {
	isPredicate()
}

// And matches when every child matches. An empty And matches everything.
type And []Predicate

// Or matches when at least one child matches. An empty Or matches everything.
type Or []Predicate

// Contains is a case-insensitive substring match on a student column.
type Contains struct {
	Field string
	Value string
}

// Equals is an exact match on a student column.
type Equals struct {
	Field string
	Value interface{}
}

// RelatedIDEquals matches when the identity of the named relation equals Value.
type RelatedIDEquals struct {
	Relation string
	Value    interface{}
}

func (And) isPredicate()             {}
func (Or) isPredicate()              {}
func (Contains) isPredicate()        {}
func (Equals) isPredicate()          {}
func (RelatedIDEquals) isPredicate() {}

// MatchAll returns the empty predicate.
func MatchAll() Predicate {
	return And{}
}

// IsEmpty reports whether the predicate imposes no condition at all.
func IsEmpty(p Predicate) bool {
	switch node := p.(type) {
	case nil:
		return true
	case And:
		for _, child := range node {
			if !IsEmpty(child) {
				return false
			}
		}
		return true
	case Or:
		for _, child := range node {
			if !IsEmpty(child) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
