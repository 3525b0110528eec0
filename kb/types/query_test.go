package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drugTreatsDisease() *GraphQuery {
	return NewGraphQuery(
		FactPattern{Subject: Entity("MESH:D008687", TypeDrug), Predicate: Predicate("treats"), Object: Var("D", TypeDisease)},
		FactPattern{Subject: Var("D", ""), Predicate: PredicateVar("p", TypeDisease, TypeGene), Object: Var("G", "")},
	)
}

func TestGraphQueryString(t *testing.T) {
	q := drugTreatsDisease()

	assert.Equal(t, "Drug:MESH:D008687 treats ?D(Disease) _AND_ ?D ?p(Disease,Gene) ?G", q.String())
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"D", "p", "G"}, q.Variables())
}

func TestGraphQueryIsImmutable(t *testing.T) {
	patterns := []FactPattern{
		{Subject: Entity("A", ""), Predicate: Predicate("treats"), Object: Var("X", "")},
	}
	q := NewGraphQuery(patterns...)
	before := q.Fingerprint()

	patterns[0].Object = Entity("B", "")
	got := q.Patterns()
	got[0].Subject = Entity("C", "")

	assert.Equal(t, before, q.Fingerprint())
	assert.Equal(t, "A", q.Patterns()[0].Subject.ID)
}

func TestFingerprintStability(t *testing.T) {
	a := drugTreatsDisease()
	b := drugTreatsDisease()

	require.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	reordered := NewGraphQuery(b.Patterns()[1], b.Patterns()[0])
	assert.NotEqual(t, a.Fingerprint(), reordered.Fingerprint())
}

func TestTermStringQuotesWhitespace(t *testing.T) {
	term := Entity("vitamin C", "")
	assert.Equal(t, `'vitamin C'`, term.String())
	assert.Equal(t, "?X", Var("X", "").String())
}

func TestNilQueryLen(t *testing.T) {
	var q *GraphQuery
	assert.Equal(t, 0, q.Len())
}

func TestCanonicalPredicate(t *testing.T) {
	tests := []struct {
		raw       string
		canonical string
		ok        bool
	}{
		{"treats", RelationTreats, true},
		{"Treatment", RelationTreats, true},
		{"interacts with", RelationInteracts, true},
		{"is-a", RelationIsA, true},
		{"metabolizes", RelationMetabolises, true},
		{"cures", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CanonicalPredicate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.canonical, got)
		})
	}
}

func TestTaxonomyHelpers(t *testing.T) {
	assert.True(t, IsTaxonomyType(TypeDisease))
	assert.False(t, IsTaxonomyType(TypeGene))
	assert.True(t, IsEntityType(TypeVaccine))
	assert.False(t, IsEntityType("Planet"))

	assert.Equal(t, 3, TreeDepth("D26.255.260"))
	assert.Equal(t, 0, TreeDepth(""))
	assert.Equal(t, "D26.255", TreePrefix("D26.255.260", 2))
	assert.Equal(t, "D26.255.260", TreePrefix("D26.255.260", 7))

	assert.Equal(t, "D", TaxonomyRoot("D26.255.260"))
	assert.Equal(t, "DF", TaxonomyRoot("DF01.2"))
	assert.Equal(t, "42", TaxonomyRoot("42.1"))
	assert.Equal(t, "Chemicals and Drugs", TaxonomyRootLabel("D"))
	assert.Equal(t, "DF", TaxonomyRootLabel("DF"))
}
