// Package registry holds named table declarations on top of the store.
//
// Applications define their tables once at startup, call EnsureAll to
// declare them against the engine, and insert rows through
// InsertWithID to get generated string identifiers instead of relying
// on engine rowids.
package registry
