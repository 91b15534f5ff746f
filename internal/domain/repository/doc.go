// Package repository defines the domain types, sparse-update inputs and
// repository contracts of the service layer, plus the error taxonomy every
// implementation maps storage failures into.
//
// Update inputs use pointer fields: a nil pointer means "leave this field
// unchanged", a non-nil pointer means the caller intends to set it. The
// distinction is load-bearing — an explicitly provided empty string is a
// validation error, not an omission.
package repository
