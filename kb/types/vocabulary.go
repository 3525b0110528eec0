package types

import "strings"

// Entity types tagged in the knowledge base
const (
	TypeChemical    = "Chemical"
	TypeDisease     = "Disease"
	TypeDrug        = "Drug"
	TypeGene        = "Gene"
	TypeSpecies     = "Species"
	TypeDosageForm  = "DosageForm"
	TypeExcipient   = "Excipient"
	TypeMethod      = "Method"
	TypeLabMethod   = "LabMethod"
	TypePlantFamily = "PlantFamily"
	TypeTarget      = "Target"
	TypeTissue      = "Tissue"
	TypeOrganism    = "Organism"
	TypeVaccine     = "Vaccine"
)

// TypePredicate is the substitution type of variables bound in predicate position
const TypePredicate = "Predicate"

// EntityTypes lists every known entity type
var EntityTypes = []string{
	TypeChemical, TypeDisease, TypeDrug, TypeGene, TypeSpecies, TypeDosageForm, TypeExcipient,
	TypeMethod, TypeLabMethod, TypePlantFamily, TypeTarget, TypeTissue, TypeOrganism, TypeVaccine,
}

var entityTypeSet = func() map[string]bool {
	m := make(map[string]bool, len(EntityTypes))
	for _, t := range EntityTypes {
		m[t] = true
	}
	return m
}()

// IsEntityType reports whether t names a known entity type
func IsEntityType(t string) bool {
	return entityTypeSet[t]
}

// Canonical relations
const (
	RelationAdministered = "administered"
	RelationAssociated   = "associated"
	RelationDecreases    = "decreases"
	RelationExpresses    = "expresses"
	RelationIncreases    = "increases"
	RelationInduces      = "induces"
	RelationInhibits     = "inhibits"
	RelationInteracts    = "interacts"
	RelationIsA          = "is_a"
	RelationMetabolises  = "metabolises"
	RelationMethod       = "method"
	RelationTreats       = "treats"
)

// predicateSynonyms maps normalised raw predicate text to its canonical relation
var predicateSynonyms = map[string]string{
	"administered":    RelationAdministered,
	"administration":  RelationAdministered,
	"administered_by": RelationAdministered,
	"associated":      RelationAssociated,
	"associated_with": RelationAssociated,
	"association":     RelationAssociated,
	"correlates":      RelationAssociated,
	"decreases":       RelationDecreases,
	"reduces":         RelationDecreases,
	"lowers":          RelationDecreases,
	"expresses":       RelationExpresses,
	"expression":      RelationExpresses,
	"increases":       RelationIncreases,
	"raises":          RelationIncreases,
	"elevates":        RelationIncreases,
	"induces":         RelationInduces,
	"induce":          RelationInduces,
	"causes":          RelationInduces,
	"cause":           RelationInduces,
	"inhibits":        RelationInhibits,
	"inhibit":         RelationInhibits,
	"blocks":          RelationInhibits,
	"interacts":       RelationInteracts,
	"interact":        RelationInteracts,
	"interacts_with":  RelationInteracts,
	"is_a":            RelationIsA,
	"isa":             RelationIsA,
	"metabolises":     RelationMetabolises,
	"metabolizes":     RelationMetabolises,
	"metabolism":      RelationMetabolises,
	"method":          RelationMethod,
	"uses_method":     RelationMethod,
	"treats":          RelationTreats,
	"treat":           RelationTreats,
	"treatment":       RelationTreats,
	"therapy":         RelationTreats,
}

// CanonicalPredicate maps raw predicate text to its canonical relation.
// Matching ignores case and treats spaces and hyphens as underscores.
func CanonicalPredicate(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	canonical, ok := predicateSynonyms[key]
	return canonical, ok
}
