package types

import (
	"context"
	"sort"
	"strings"
)

// EntitySubstitution is the concrete entity bound to a variable in one result.
// Identity is (EntityID, EntityType); EntityStr and EntityName are display data.
type EntitySubstitution struct {
	EntityStr  string `json:"entity_str"`
	EntityID   string `json:"entity_id"`
	EntityType string `json:"entity_type"`
	EntityName string `json:"entity_name,omitempty"`
}

// Key returns the identity of the substitution
func (s EntitySubstitution) Key() string {
	return s.EntityID + "|" + s.EntityType
}

// Equal compares substitutions by identity only
func (s EntitySubstitution) Equal(other EntitySubstitution) bool {
	return s.EntityID == other.EntityID && s.EntityType == other.EntityType
}

// NameResolver looks up display names for entities
type NameResolver interface {
	DisplayNameFor(ctx context.Context, entityID, entityType string) (string, error)
}

// Resolve fills EntityName once. Lookup failures fall back to EntityStr, then EntityID.
func (s *EntitySubstitution) Resolve(ctx context.Context, resolver NameResolver) {
	if s.EntityName != "" {
		return
	}
	if resolver != nil {
		if name, err := resolver.DisplayNameFor(ctx, s.EntityID, s.EntityType); err == nil && name != "" {
			s.EntityName = name
			return
		}
	}
	s.EntityName = s.DisplayName()
}

// DisplayName returns the best available label without any lookup
func (s EntitySubstitution) DisplayName() string {
	switch {
	case s.EntityName != "":
		return s.EntityName
	case s.EntityStr != "":
		return s.EntityStr
	default:
		return s.EntityID
	}
}

// SubstitutionKey renders a substitution map canonically: variables sorted
// by name, each as name=id|type, joined by ';'.
func SubstitutionKey(subs map[string]EntitySubstitution) string {
	if len(subs) == 0 {
		return ""
	}
	names := make([]string, 0, len(subs))
	for name := range subs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(subs[name].Key())
	}
	return b.String()
}

// SurfaceSeparator joins differing surface forms of merged explanations
const SurfaceSeparator = "//"

// FactExplanation is the evidence one triple occurrence contributes to a result
type FactExplanation struct {
	Position   int     `json:"position"`
	SentenceID int64   `json:"sentence_id"`
	Sentence   string  `json:"sentence,omitempty"`
	Predicate  string  `json:"predicate"`
	Relation   string  `json:"relation"`
	SubjectStr string  `json:"subject_str"`
	ObjectStr  string  `json:"object_str"`
	Confidence float64 `json:"confidence"`
	RowIDs     []int64 `json:"row_ids"`
}

// Merge folds other into e. Differing surface forms are concatenated with
// "//" instead of duplicated; row ids are unioned and kept sorted; the
// higher confidence wins.
func (e *FactExplanation) Merge(other FactExplanation) {
	e.Predicate = mergeSurface(e.Predicate, other.Predicate)
	e.SubjectStr = mergeSurface(e.SubjectStr, other.SubjectStr)
	e.ObjectStr = mergeSurface(e.ObjectStr, other.ObjectStr)
	if e.Sentence == "" {
		e.Sentence = other.Sentence
	}
	if other.Confidence > e.Confidence {
		e.Confidence = other.Confidence
	}
	e.RowIDs = unionSorted(e.RowIDs, other.RowIDs)
}

func mergeSurface(current, incoming string) string {
	if incoming == "" {
		return current
	}
	if current == "" {
		return incoming
	}
	for _, part := range strings.Split(current, SurfaceSeparator) {
		if part == incoming {
			return current
		}
	}
	return current + SurfaceSeparator + incoming
}

func unionSorted(a, b []int64) []int64 {
	seen := make(map[int64]bool, len(a)+len(b))
	out := make([]int64, 0, len(a)+len(b))
	for _, ids := range [][]int64{a, b} {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DocumentResult is one document matching the query under one full substitution
type DocumentResult struct {
	DocumentID       int64                         `json:"document_id"`
	Title            string                        `json:"title"`
	Authors          string                        `json:"authors"`
	Journals         string                        `json:"journals"`
	PublicationYear  int                           `json:"publication_year"`
	PublicationMonth int                           `json:"publication_month"`
	Substitutions    map[string]EntitySubstitution `json:"substitutions"`
	Confidence       float64                       `json:"confidence"`
	Explanations     []FactExplanation             `json:"explanations"`
}

// SubstitutionKey returns the canonical key of the result's substitutions
func (d *DocumentResult) SubstitutionKey() string {
	return SubstitutionKey(d.Substitutions)
}

// AddExplanation merges e into the explanation with the same position and
// sentence, or inserts it keeping the list ordered by position then sentence.
func (d *DocumentResult) AddExplanation(e FactExplanation) {
	for i := range d.Explanations {
		if d.Explanations[i].Position == e.Position && d.Explanations[i].SentenceID == e.SentenceID {
			d.Explanations[i].Merge(e)
			return
		}
	}

	e.RowIDs = unionSorted(nil, e.RowIDs)
	idx := sort.Search(len(d.Explanations), func(i int) bool {
		x := d.Explanations[i]
		if x.Position != e.Position {
			return x.Position > e.Position
		}
		return x.SentenceID > e.SentenceID
	})
	d.Explanations = append(d.Explanations, FactExplanation{})
	copy(d.Explanations[idx+1:], d.Explanations[idx:])
	d.Explanations[idx] = e
}

// Clone returns a deep copy so the result can be placed in a second tree position
func (d *DocumentResult) Clone() *DocumentResult {
	c := *d
	if d.Substitutions != nil {
		c.Substitutions = make(map[string]EntitySubstitution, len(d.Substitutions))
		for k, v := range d.Substitutions {
			c.Substitutions[k] = v
		}
	}
	c.Explanations = make([]FactExplanation, len(d.Explanations))
	for i, e := range d.Explanations {
		e.RowIDs = append([]int64(nil), e.RowIDs...)
		c.Explanations[i] = e
	}
	return &c
}
