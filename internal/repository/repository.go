// Package repository defines the persistence collaborator used by the services.
// Implementations live in subpackages (postgres) and contain no business logic.
package repository

// FindOptions controls read operations.
type FindOptions struct {
	// WithRelations eagerly loads related records in the same query.
	WithRelations bool
}
