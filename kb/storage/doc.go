// Package storage implements the kb interfaces on top of SQLite.
//
// SQLFactStore renders compiled requests into a self-join over the
// predication table, MeshIndex serves taxonomy lookups from an immutable
// in-memory copy of mesh_tree, NameStore resolves display headings from
// entity_name and SQLResultCache persists compressed result trees.
package storage
