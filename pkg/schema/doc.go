// Package schema holds the JSON-schema-like tree that drives form
// construction, the parallel UI hint tree, and the document/source plumbing
// used to load both from JSON or YAML payloads.
package schema
