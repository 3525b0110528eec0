package types

import "strings"

// Substitution types of synthetic ontology aggregates
const (
	TypeTaxonomyRoot = "TaxonomyRoot"
	TypeOntologyNode = "OntologyNode"
	TypeMiscBucket   = "Misc"
)

// taxonomyTypes are the entity types whose ids carry tree numbers
var taxonomyTypes = map[string]bool{
	TypeChemical:   true,
	TypeDisease:    true,
	TypeDosageForm: true,
	TypeMethod:     true,
	TypeLabMethod:  true,
	TypeTissue:     true,
}

// IsTaxonomyType reports whether entities of type t are placed in the ontology
func IsTaxonomyType(t string) bool {
	return taxonomyTypes[t]
}

// meshCategories labels the MeSH top-level tree categories
var meshCategories = map[string]string{
	"A": "Anatomy",
	"B": "Organisms",
	"C": "Diseases",
	"D": "Chemicals and Drugs",
	"E": "Analytical, Diagnostic and Therapeutic Techniques, and Equipment",
	"F": "Psychiatry and Psychology",
	"G": "Phenomena and Processes",
	"H": "Disciplines and Occupations",
	"I": "Anthropology, Education, Sociology, and Social Phenomena",
	"J": "Technology, Industry, and Agriculture",
	"K": "Humanities",
	"L": "Information Science",
	"M": "Named Groups",
	"N": "Health Care",
	"V": "Publication Characteristics",
	"Z": "Geographicals",
}

// OntologyEntry is the concept registered for a tree-number prefix
type OntologyEntry struct {
	ID   string // descriptor id
	Name string // display heading
}

// TreeNumberSeparator splits tree numbers into hierarchy segments
const TreeNumberSeparator = "."

// TreeDepth returns the number of segments in a tree number
func TreeDepth(treeNumber string) int {
	if treeNumber == "" {
		return 0
	}
	return strings.Count(treeNumber, TreeNumberSeparator) + 1
}

// TreePrefix returns the first n segments of a tree number
func TreePrefix(treeNumber string, n int) string {
	segments := strings.Split(treeNumber, TreeNumberSeparator)
	if n >= len(segments) {
		return treeNumber
	}
	return strings.Join(segments[:n], TreeNumberSeparator)
}

// TaxonomyRoot returns the top-level category of a tree number: the leading
// letters of its first segment ("D26.255" -> "D", "DF01.2" -> "DF").
func TaxonomyRoot(treeNumber string) string {
	first := TreePrefix(treeNumber, 1)
	end := strings.IndexFunc(first, func(r rune) bool {
		return r < 'A' || (r > 'Z' && r < 'a') || r > 'z'
	})
	if end <= 0 {
		return first
	}
	return first[:end]
}

// TaxonomyRootLabel returns the display label of a taxonomy root
func TaxonomyRootLabel(root string) string {
	if label, ok := meshCategories[root]; ok {
		return label
	}
	return root
}
