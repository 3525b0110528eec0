// Package kb is the fact-graph query engine over the literature knowledge base.
//
// A graph query is a conjunction of fact patterns such as
//
//	Drug:MESH:D008687 treats ?D(Disease) _AND_ ?D associated ?G(Gene)
//
// The engine compiles it into a single fact-store request (kb/compile),
// folds the returned rows into one DocumentResult per document and
// substitution (kb/fold), and arranges those results into a result tree
// (kb/aggregate): flat, grouped by substitution, nested along an ordered
// list of variables, or along the MeSH taxonomy.
//
// This package holds the collaborator interfaces the pipeline consumes.
// Production implementations live in kb/storage; the no-op implementations
// below let every component run without them.
package kb
