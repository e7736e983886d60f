// Package openapi exposes the contracts for reading form schemas out of
// OpenAPI documents. The kin-openapi backed implementation lives under
// internal/openapi so the dependency stays hidden from consumers.
package openapi
