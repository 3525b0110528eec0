package types

import (
	"encoding/json"

	"github.com/teranos/litgraph/errors"
)

// NodeKind is the discriminator of the record form of a result tree node
type NodeKind string

const (
	KindDocument      NodeKind = "doc"
	KindAggregate     NodeKind = "agg"
	KindAggregateList NodeKind = "agg_list"
)

// ResultNode is a node of a result tree. The set of implementations is closed:
// *DocumentResult, *Aggregate and *AggregateList.
type ResultNode interface {
	Kind() NodeKind
	// Size is the recursive number of documents under the node
	Size() int
	// ToMap returns the recursively composed record form of the node
	ToMap() map[string]interface{}

	resultNode()
}

func (*DocumentResult) resultNode() {}
func (*Aggregate) resultNode()      {}
func (*AggregateList) resultNode()  {}

// Kind implements ResultNode
func (*DocumentResult) Kind() NodeKind { return KindDocument }

// Size implements ResultNode; a document counts itself
func (*DocumentResult) Size() int { return 1 }

// ToMap implements ResultNode
func (d *DocumentResult) ToMap() map[string]interface{} {
	explanations := make([]map[string]interface{}, len(d.Explanations))
	for i, e := range d.Explanations {
		explanations[i] = map[string]interface{}{
			"position":    e.Position,
			"sentence_id": e.SentenceID,
			"sentence":    e.Sentence,
			"predicate":   e.Predicate,
			"relation":    e.Relation,
			"subject_str": e.SubjectStr,
			"object_str":  e.ObjectStr,
			"confidence":  e.Confidence,
			"row_ids":     e.RowIDs,
		}
	}
	return map[string]interface{}{
		"kind":              string(KindDocument),
		"document_id":       d.DocumentID,
		"title":             d.Title,
		"authors":           d.Authors,
		"journals":          d.Journals,
		"publication_year":  d.PublicationYear,
		"publication_month": d.PublicationMonth,
		"confidence":        d.Confidence,
		"substitutions":     substitutionsToMap(d.Substitutions),
		"explanations":      explanations,
	}
}

// Aggregate groups children that share the substitutions it carries.
// Label names synthetic groupings such as taxonomy roots or tree numbers.
type Aggregate struct {
	Substitutions map[string]EntitySubstitution
	Label         string
	Children      []ResultNode
}

// Kind implements ResultNode
func (*Aggregate) Kind() NodeKind { return KindAggregate }

// Size implements ResultNode
func (a *Aggregate) Size() int { return sizeOf(a.Children) }

// Key returns the canonical tie-break key of the aggregate
func (a *Aggregate) Key() string {
	if a.Label == "" {
		return SubstitutionKey(a.Substitutions)
	}
	return SubstitutionKey(a.Substitutions) + "#" + a.Label
}

// ToMap implements ResultNode
func (a *Aggregate) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"kind":          string(KindAggregate),
		"size":          a.Size(),
		"substitutions": substitutionsToMap(a.Substitutions),
		"children":      childrenToMaps(a.Children),
	}
	if a.Label != "" {
		m["label"] = a.Label
	}
	return m
}

// AggregateList is an ordered list of children without a substitution
type AggregateList struct {
	Children []ResultNode
}

// Kind implements ResultNode
func (*AggregateList) Kind() NodeKind { return KindAggregateList }

// Size implements ResultNode
func (l *AggregateList) Size() int { return sizeOf(l.Children) }

// ToMap implements ResultNode
func (l *AggregateList) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(KindAggregateList),
		"size":     l.Size(),
		"children": childrenToMaps(l.Children),
	}
}

// Slice replaces the children with the sub-sequence [start, end) of their
// current order, clamped to the list bounds. It is one-shot pagination: a
// second call slices the already-sliced list.
func (l *AggregateList) Slice(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(l.Children) {
		end = len(l.Children)
	}
	if start >= end {
		l.Children = []ResultNode{}
		return
	}
	sliced := make([]ResultNode, end-start)
	copy(sliced, l.Children[start:end])
	l.Children = sliced
}

func sizeOf(children []ResultNode) int {
	total := 0
	for _, c := range children {
		total += c.Size()
	}
	return total
}

func childrenToMaps(children []ResultNode) []map[string]interface{} {
	out := make([]map[string]interface{}, len(children))
	for i, c := range children {
		out[i] = c.ToMap()
	}
	return out
}

func substitutionsToMap(subs map[string]EntitySubstitution) map[string]interface{} {
	out := make(map[string]interface{}, len(subs))
	for name, s := range subs {
		out[name] = map[string]interface{}{
			"entity_str":  s.EntityStr,
			"entity_id":   s.EntityID,
			"entity_type": s.EntityType,
			"entity_name": s.DisplayName(),
		}
	}
	return out
}

// Walk visits node and every descendant depth-first, parents before children
func Walk(node ResultNode, fn func(ResultNode)) {
	fn(node)
	switch n := node.(type) {
	case *DocumentResult:
	case *Aggregate:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *AggregateList:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	}
}

// Documents returns every document leaf under node in tree order
func Documents(node ResultNode) []*DocumentResult {
	var docs []*DocumentResult
	Walk(node, func(n ResultNode) {
		if d, ok := n.(*DocumentResult); ok {
			docs = append(docs, d)
		}
	})
	return docs
}

// CachedResult is what the result cache persists for one query
type CachedResult struct {
	Tree     *AggregateList
	LimitHit bool
}

// wireNode is the JSON form of a result tree node
type wireNode struct {
	Kind          NodeKind                      `json:"kind"`
	Document      *DocumentResult               `json:"doc,omitempty"`
	Substitutions map[string]EntitySubstitution `json:"substitutions,omitempty"`
	Label         string                        `json:"label,omitempty"`
	Children      []wireNode                    `json:"children,omitempty"`
}

type wireResult struct {
	Tree     wireNode `json:"tree"`
	LimitHit bool     `json:"limit_hit"`
}

func toWire(node ResultNode) wireNode {
	switch n := node.(type) {
	case *DocumentResult:
		return wireNode{Kind: KindDocument, Document: n}
	case *Aggregate:
		return wireNode{Kind: KindAggregate, Substitutions: n.Substitutions, Label: n.Label, Children: toWireChildren(n.Children)}
	case *AggregateList:
		return wireNode{Kind: KindAggregateList, Children: toWireChildren(n.Children)}
	}
	return wireNode{}
}

func toWireChildren(children []ResultNode) []wireNode {
	out := make([]wireNode, len(children))
	for i, c := range children {
		out[i] = toWire(c)
	}
	return out
}

func fromWire(w wireNode) (ResultNode, error) {
	switch w.Kind {
	case KindDocument:
		if w.Document == nil {
			return nil, errors.New("document node without document")
		}
		return w.Document, nil
	case KindAggregate:
		children, err := fromWireChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return &Aggregate{Substitutions: w.Substitutions, Label: w.Label, Children: children}, nil
	case KindAggregateList:
		children, err := fromWireChildren(w.Children)
		if err != nil {
			return nil, err
		}
		return &AggregateList{Children: children}, nil
	}
	return nil, errors.Newf("unknown node kind %q", w.Kind)
}

func fromWireChildren(ws []wireNode) ([]ResultNode, error) {
	out := make([]ResultNode, len(ws))
	for i, w := range ws {
		n, err := fromWire(w)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// EncodeResult serialises a cached result to JSON
func EncodeResult(r *CachedResult) ([]byte, error) {
	if r == nil || r.Tree == nil {
		return nil, errors.New("cannot encode empty result")
	}
	data, err := json.Marshal(wireResult{Tree: toWire(r.Tree), LimitHit: r.LimitHit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode result tree")
	}
	return data, nil
}

// DecodeResult parses JSON produced by EncodeResult
func DecodeResult(data []byte) (*CachedResult, error) {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, errors.Wrap(err, "failed to decode result tree")
	}
	node, err := fromWire(w.Tree)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode result tree")
	}
	list, ok := node.(*AggregateList)
	if !ok {
		return nil, errors.Newf("result tree root is %q, want %q", node.Kind(), KindAggregateList)
	}
	return &CachedResult{Tree: list, LimitHit: w.LimitHit}, nil
}
