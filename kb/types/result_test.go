package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/litgraph/errors"
)

type mapResolver map[string]string

func (m mapResolver) DisplayNameFor(_ context.Context, id, _ string) (string, error) {
	if name, ok := m[id]; ok {
		return name, nil
	}
	return "", errors.NewNotFoundError("no name for %s", id)
}

func TestSubstitutionIdentity(t *testing.T) {
	a := EntitySubstitution{EntityStr: "metformin", EntityID: "MESH:D008687", EntityType: TypeDrug}
	b := EntitySubstitution{EntityStr: "Metformin HCl", EntityID: "MESH:D008687", EntityType: TypeDrug}
	c := EntitySubstitution{EntityStr: "metformin", EntityID: "MESH:D008687", EntityType: TypeChemical}

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.False(t, a.Equal(c))
}

func TestResolveFallbacks(t *testing.T) {
	resolver := mapResolver{"MESH:D003920": "Diabetes Mellitus"}

	named := EntitySubstitution{EntityStr: "diabetes", EntityID: "MESH:D003920", EntityType: TypeDisease}
	named.Resolve(context.Background(), resolver)
	assert.Equal(t, "Diabetes Mellitus", named.EntityName)

	surface := EntitySubstitution{EntityStr: "obesity", EntityID: "MESH:D009765", EntityType: TypeDisease}
	surface.Resolve(context.Background(), resolver)
	assert.Equal(t, "obesity", surface.EntityName)

	bare := EntitySubstitution{EntityID: "MESH:D009765", EntityType: TypeDisease}
	bare.Resolve(context.Background(), nil)
	assert.Equal(t, "MESH:D009765", bare.EntityName)

	preset := EntitySubstitution{EntityID: "MESH:D003920", EntityName: "kept"}
	preset.Resolve(context.Background(), resolver)
	assert.Equal(t, "kept", preset.EntityName)
}

func TestSubstitutionKeyIsOrderIndependent(t *testing.T) {
	subs := map[string]EntitySubstitution{
		"Y": {EntityID: "B", EntityType: TypeGene},
		"X": {EntityID: "A", EntityType: TypeDisease},
	}
	assert.Equal(t, "X=A|Disease;Y=B|Gene", SubstitutionKey(subs))
	assert.Equal(t, "", SubstitutionKey(nil))
}

func TestExplanationMerge(t *testing.T) {
	e := FactExplanation{Position: 0, SentenceID: 7, Predicate: "treats", SubjectStr: "metformin", ObjectStr: "T2D", Confidence: 0.5, RowIDs: []int64{3}}

	e.Merge(FactExplanation{Position: 0, SentenceID: 7, Predicate: "therapy", SubjectStr: "metformin", ObjectStr: "type 2 diabetes", Confidence: 0.9, RowIDs: []int64{1, 3}})
	e.Merge(FactExplanation{Position: 0, SentenceID: 7, Predicate: "treats", SubjectStr: "Metformin", ObjectStr: "T2D", RowIDs: []int64{2}})

	assert.Equal(t, "treats//therapy", e.Predicate)
	assert.Equal(t, "metformin//Metformin", e.SubjectStr)
	assert.Equal(t, "T2D//type 2 diabetes", e.ObjectStr)
	assert.Equal(t, []int64{1, 2, 3}, e.RowIDs)
	assert.Equal(t, 0.9, e.Confidence)
}

func TestAddExplanationOrdersByPosition(t *testing.T) {
	d := &DocumentResult{DocumentID: 10}

	d.AddExplanation(FactExplanation{Position: 1, SentenceID: 4, Predicate: "inhibits", RowIDs: []int64{9}})
	d.AddExplanation(FactExplanation{Position: 0, SentenceID: 8, Predicate: "treats", RowIDs: []int64{5}})
	d.AddExplanation(FactExplanation{Position: 0, SentenceID: 2, Predicate: "treats", RowIDs: []int64{6}})
	d.AddExplanation(FactExplanation{Position: 0, SentenceID: 8, Predicate: "treatment", RowIDs: []int64{1}})

	require.Len(t, d.Explanations, 3)
	assert.Equal(t, 0, d.Explanations[0].Position)
	assert.Equal(t, int64(2), d.Explanations[0].SentenceID)
	assert.Equal(t, int64(8), d.Explanations[1].SentenceID)
	assert.Equal(t, "treats//treatment", d.Explanations[1].Predicate)
	assert.Equal(t, []int64{1, 5}, d.Explanations[1].RowIDs)
	assert.Equal(t, 1, d.Explanations[2].Position)
}

func TestCloneIsDeep(t *testing.T) {
	d := &DocumentResult{
		DocumentID:    1,
		Substitutions: map[string]EntitySubstitution{"X": {EntityID: "A"}},
		Explanations:  []FactExplanation{{RowIDs: []int64{1}}},
	}
	c := d.Clone()
	c.Substitutions["X"] = EntitySubstitution{EntityID: "B"}
	c.Explanations[0].RowIDs[0] = 99

	assert.Equal(t, "A", d.Substitutions["X"].EntityID)
	assert.Equal(t, int64(1), d.Explanations[0].RowIDs[0])
}

func TestSlotSubstitution(t *testing.T) {
	slot := SlotValues{
		SubjectID: "MESH:D008687", SubjectStr: "metformin", SubjectType: TypeDrug,
		Predicate: "therapy", PredicateCanonical: RelationTreats,
		ObjectID: "MESH:D003920", ObjectStr: "diabetes", ObjectType: TypeDisease,
	}

	assert.Equal(t, EntitySubstitution{EntityStr: "metformin", EntityID: "MESH:D008687", EntityType: TypeDrug}, slot.Substitution(RoleSubject))
	assert.Equal(t, EntitySubstitution{EntityStr: "diabetes", EntityID: "MESH:D003920", EntityType: TypeDisease}, slot.Substitution(RoleObject))
	assert.Equal(t, EntitySubstitution{EntityStr: "therapy", EntityID: RelationTreats, EntityType: TypePredicate}, slot.Substitution(RolePredicate))

	row := RawRow{Slots: []SlotValues{{Confidence: 0.25}, {Confidence: 0.5}}}
	assert.Equal(t, 0.75, row.Confidence())
}
