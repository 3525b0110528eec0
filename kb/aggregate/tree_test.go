package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/litgraph/errors"
	"github.com/teranos/litgraph/kb/types"
)

func twoVariableResults() []*types.DocumentResult {
	return []*types.DocumentResult{
		result(1, 2020, 1, "D", "DiseaseA", types.TypeDisease, "G", "Gene1", types.TypeGene),
		result(2, 2021, 1, "D", "DiseaseA", types.TypeDisease, "G", "Gene1", types.TypeGene),
		result(3, 2019, 1, "D", "DiseaseA", types.TypeDisease, "G", "Gene2", types.TypeGene),
		result(4, 2018, 1, "D", "DiseaseB", types.TypeDisease, "G", "Gene1", types.TypeGene),
		result(5, 2022, 1, "D", "DiseaseA", types.TypeDisease, "G", "Gene3", types.TypeGene),
		result(6, 2022, 1, "D", "DiseaseA", types.TypeDisease, "G", "Gene1", types.TypeGene),
	}
}

func findChild(t *testing.T, children []types.ResultNode, variable, id string) *types.Aggregate {
	t.Helper()
	for _, c := range children {
		if agg, ok := c.(*types.Aggregate); ok && agg.Substitutions[variable].EntityID == id {
			return agg
		}
	}
	t.Fatalf("no child with %s=%s", variable, id)
	return nil
}

func TestTreeSharesPrefixNodes(t *testing.T) {
	tree, err := SubstitutionTree{}.Aggregate(twoVariableResults(), []string{"D", "G"}, true)
	require.NoError(t, err)

	require.Len(t, tree.Children, 2, "one node per distinct D")
	diseaseA := tree.Children[0].(*types.Aggregate)
	assert.Equal(t, "DiseaseA", diseaseA.Substitutions["D"].EntityID)
	assert.Equal(t, 5, diseaseA.Size())
	require.Len(t, diseaseA.Children, 3)

	gene1 := diseaseA.Children[0].(*types.Aggregate)
	assert.Equal(t, "Gene1", gene1.Substitutions["G"].EntityID)
	assert.Equal(t, []int64{6, 2, 1}, docIDs(gene1), "leaves ordered by date")
}

func TestTreeFlatConsistency(t *testing.T) {
	results := twoVariableResults()
	tree, err := SubstitutionTree{}.Aggregate(results, []string{"D", "G"}, true)
	require.NoError(t, err)
	flat := Substitution{}.Aggregate(results, true)

	for _, c := range flat.Children {
		bucket := c.(*types.Aggregate)
		d := bucket.Substitutions["D"].EntityID
		g := bucket.Substitutions["G"].EntityID

		level1 := findChild(t, tree.Children, "D", d)
		level2 := findChild(t, level1.Children, "G", g)
		assert.Equal(t, bucket.Size(), level2.Size(), "path D=%s G=%s", d, g)
	}
	assert.Equal(t, flat.Size(), tree.Size())
}

func TestTreeReversedOrder(t *testing.T) {
	tree, err := SubstitutionTree{}.Aggregate(twoVariableResults(), []string{"G", "D"}, true)
	require.NoError(t, err)

	gene1 := tree.Children[0].(*types.Aggregate)
	assert.Equal(t, "Gene1", gene1.Substitutions["G"].EntityID)
	assert.Equal(t, 4, gene1.Size())
	require.Len(t, gene1.Children, 2)
}

func TestTreeAscending(t *testing.T) {
	tree, err := SubstitutionTree{}.Aggregate(twoVariableResults(), []string{"D", "G"}, false)
	require.NoError(t, err)
	assert.Equal(t, "DiseaseB", tree.Children[0].(*types.Aggregate).Substitutions["D"].EntityID)
}

func TestTreeInvalidOrder(t *testing.T) {
	results := twoVariableResults()

	_, err := SubstitutionTree{}.Aggregate(results, nil, true)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = SubstitutionTree{}.Aggregate(results, []string{"D", "X"}, true)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = SubstitutionTree{}.Aggregate(results, []string{"D", "D"}, true)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestTreeSliceAppliesToRootOnly(t *testing.T) {
	tree, err := SubstitutionTree{}.Aggregate(twoVariableResults(), []string{"D", "G"}, true)
	require.NoError(t, err)

	tree.Slice(0, 1)
	require.Len(t, tree.Children, 1)
	assert.Len(t, tree.Children[0].(*types.Aggregate).Children, 3)
}
