package testutil

import (
	"database/sql"
	"testing"
)

// Collection is the collection every fixture lives in unless stated otherwise
const Collection = "PubMed"

// Document is a document fixture
type Document struct {
	ID         int64
	Collection string
	Title      string
	Year       int
	Month      int
}

// Fact is a predication fixture. Ids and types double as surface forms.
type Fact struct {
	ID          int64
	DocumentID  int64
	Collection  string
	SubjectID   string
	SubjectType string
	Predicate   string
	ObjectID    string
	ObjectType  string
	Confidence  float64
	SentenceID  int64
}

// Sentence is a sentence fixture
type Sentence struct {
	ID         int64
	DocumentID int64
	Position   int
	Text       string
}

// Fixtures groups everything LoadFixtures inserts
type Fixtures struct {
	Documents []Document
	Facts     []Fact
	Sentences []Sentence
	// MeshTree rows are (descriptor id, heading, tree number)
	MeshTree [][3]string
	// Names rows are (entity id, entity type, name)
	Names [][3]string
}

func collectionOr(c string) string {
	if c == "" {
		return Collection
	}
	return c
}

// LoadFixtures inserts test fixtures into the database
func LoadFixtures(t *testing.T, db *sql.DB, f Fixtures) {
	t.Helper()
	exec := func(query string, args ...interface{}) {
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("Failed to insert fixture: %v", err)
		}
	}

	for _, d := range f.Documents {
		exec(`INSERT INTO document (id, collection, title, publication_year, publication_month) VALUES (?, ?, ?, ?, ?)`,
			d.ID, collectionOr(d.Collection), d.Title, d.Year, d.Month)
	}
	for _, s := range f.Sentences {
		exec(`INSERT INTO sentence (id, document_id, document_collection, position, text) VALUES (?, ?, ?, ?, ?)`,
			s.ID, s.DocumentID, Collection, s.Position, s.Text)
	}
	for _, p := range f.Facts {
		exec(`INSERT INTO predication (
				id, document_id, document_collection,
				subject_id, subject_str, subject_type,
				predicate, predicate_canonicalized,
				object_id, object_str, object_type,
				confidence, sentence_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.DocumentID, collectionOr(p.Collection),
			p.SubjectID, p.SubjectID, p.SubjectType,
			p.Predicate, p.Predicate,
			p.ObjectID, p.ObjectID, p.ObjectType,
			p.Confidence, p.SentenceID)
	}
	for _, m := range f.MeshTree {
		exec(`INSERT INTO mesh_tree (descriptor_id, heading, tree_number) VALUES (?, ?, ?)`, m[0], m[1], m[2])
	}
	for _, n := range f.Names {
		exec(`INSERT INTO entity_name (entity_id, entity_type, name) VALUES (?, ?, ?)`, n[0], n[1], n[2])
	}
}

// DrugDiseaseFixtures is a small corpus: Drug1 treats DiseaseA in documents
// 10 and 11 and DiseaseB in document 12; document 13 lives in another
// collection.
func DrugDiseaseFixtures() Fixtures {
	return Fixtures{
		Documents: []Document{
			{ID: 10, Title: "Drug1 in DiseaseA", Year: 2019, Month: 5},
			{ID: 11, Title: "Drug1 revisited", Year: 2020, Month: 3},
			{ID: 12, Title: "Drug1 and DiseaseB", Year: 2021, Month: 1},
			{ID: 13, Collection: "PMC", Title: "Other collection", Year: 2021, Month: 1},
		},
		Sentences: []Sentence{
			{ID: 100, DocumentID: 10, Position: 1, Text: "Drug1 treats DiseaseA."},
			{ID: 110, DocumentID: 11, Position: 2, Text: "Drug1 was effective for DiseaseA."},
			{ID: 120, DocumentID: 12, Position: 1, Text: "Drug1 treats DiseaseB."},
		},
		Facts: []Fact{
			{ID: 1, DocumentID: 10, SubjectID: "Drug1", SubjectType: "Drug", Predicate: "treats", ObjectID: "DiseaseA", ObjectType: "Disease", Confidence: 0.9, SentenceID: 100},
			{ID: 2, DocumentID: 11, SubjectID: "Drug1", SubjectType: "Drug", Predicate: "treats", ObjectID: "DiseaseA", ObjectType: "Disease", Confidence: 0.8, SentenceID: 110},
			{ID: 3, DocumentID: 12, SubjectID: "Drug1", SubjectType: "Drug", Predicate: "treats", ObjectID: "DiseaseB", ObjectType: "Disease", Confidence: 0.7, SentenceID: 120},
			{ID: 4, DocumentID: 13, Collection: "PMC", SubjectID: "Drug1", SubjectType: "Drug", Predicate: "treats", ObjectID: "DiseaseC", ObjectType: "Disease", Confidence: 0.5},
			{ID: 5, DocumentID: 10, SubjectID: "DiseaseA", SubjectType: "Disease", Predicate: "associated", ObjectID: "GeneX", ObjectType: "Gene", Confidence: 0.6, SentenceID: 100},
			{ID: 6, DocumentID: 12, SubjectID: "DiseaseB", SubjectType: "Disease", Predicate: "associated", ObjectID: "GeneY", ObjectType: "Gene", Confidence: 0.4, SentenceID: 120},
		},
		MeshTree: [][3]string{
			{"MESH:D001", "Disease A", "C04.557"},
			{"MESH:D002", "Disease B", "C04.588"},
			{"MESH:D000", "Neoplasms", "C04"},
		},
		Names: [][3]string{
			{"Drug1", "Drug", "Drug One"},
			{"DiseaseA", "Disease", "Disease A"},
		},
	}
}
