package types

// Role is the position a term occupies within a fact pattern
type Role string

const (
	RoleSubject   Role = "subject"
	RolePredicate Role = "predicate"
	RoleObject    Role = "object"
)

// IsPredicate reports whether the role is the predicate position
func (r Role) IsPredicate() bool {
	return r == RolePredicate
}

// Column names a fact-store column a filter or join may reference
type Column string

const (
	ColumnDocumentID         Column = "document_id"
	ColumnSubjectID          Column = "subject_id"
	ColumnSubjectType        Column = "subject_type"
	ColumnPredicateCanonical Column = "predicate_canonicalized"
	ColumnObjectID           Column = "object_id"
	ColumnObjectType         Column = "object_type"
)

// Columns lists every column a request may reference
var Columns = []Column{
	ColumnDocumentID,
	ColumnSubjectID,
	ColumnSubjectType,
	ColumnPredicateCanonical,
	ColumnObjectID,
	ColumnObjectType,
}

// IDColumn returns the column holding the identity of the role's value
func (r Role) IDColumn() Column {
	switch r {
	case RoleSubject:
		return ColumnSubjectID
	case RoleObject:
		return ColumnObjectID
	default:
		return ColumnPredicateCanonical
	}
}

// TypeColumn returns the entity type column of the role; predicates have none
func (r Role) TypeColumn() (Column, bool) {
	switch r {
	case RoleSubject:
		return ColumnSubjectType, true
	case RoleObject:
		return ColumnObjectType, true
	default:
		return "", false
	}
}

// ColumnRef addresses a column of one slot
type ColumnRef struct {
	Slot   int
	Column Column
}

// Filter constrains a slot column to a literal value
type Filter struct {
	Slot   int
	Column Column
	Value  string
}

// Join requires two slot columns to be equal
type Join struct {
	Left  ColumnRef
	Right ColumnRef
}

// Request is a backend-neutral fact-store query: Slots row sources, all
// restricted to Collection, constrained by Filters and Joins. Limit 0 means
// unbounded.
type Request struct {
	Collection string
	Slots      int
	Filters    []Filter
	Joins      []Join
	Limit      int
}

// VariableBinding records where a variable was first bound
type VariableBinding struct {
	Name string
	Slot int
	Role Role
	Type string
}

// CompiledQuery is a validated graph query and the request that executes it
type CompiledQuery struct {
	Query     *GraphQuery
	Request   *Request
	Variables []VariableBinding
}

// VariableNames returns the bound variable names in binding order
func (c *CompiledQuery) VariableNames() []string {
	names := make([]string, len(c.Variables))
	for i, v := range c.Variables {
		names[i] = v.Name
	}
	return names
}

// SlotValues are the columns one slot contributes to a raw row
type SlotValues struct {
	RowID              int64
	SubjectID          string
	SubjectStr         string
	SubjectType        string
	PredicateCanonical string
	Predicate          string
	ObjectID           string
	ObjectStr          string
	ObjectType         string
	Confidence         float64
	SentenceID         int64
	Sentence           string
}

// Substitution returns the value occupying role in this slot
func (s SlotValues) Substitution(role Role) EntitySubstitution {
	switch role {
	case RoleSubject:
		return EntitySubstitution{EntityStr: s.SubjectStr, EntityID: s.SubjectID, EntityType: s.SubjectType}
	case RoleObject:
		return EntitySubstitution{EntityStr: s.ObjectStr, EntityID: s.ObjectID, EntityType: s.ObjectType}
	default:
		return EntitySubstitution{EntityStr: s.Predicate, EntityID: s.PredicateCanonical, EntityType: TypePredicate}
	}
}

// RawRow is one distinct match of all slots within a document
type RawRow struct {
	DocumentID       int64
	Title            string
	Authors          string
	Journals         string
	PublicationYear  int
	PublicationMonth int
	Slots            []SlotValues
}

// Confidence returns the summed confidence of every slot in the row
func (r RawRow) Confidence() float64 {
	var total float64
	for _, s := range r.Slots {
		total += s.Confidence
	}
	return total
}
