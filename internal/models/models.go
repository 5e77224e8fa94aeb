package models

// Entity is implemented by everything a [Repository] persists.
type Entity interface {
	Validate() error // Validate checks the entity's invariants and returns an error if one is broken
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific entity types.
type Repository[T Entity] interface {
	Create(entity T) error                     // Create assigns an ID and inserts the entity
	Get(id string) (T, error)                  // Get retrieves an entity by its ID
	Update(entity T) error                     // Update modifies an existing entity
	Delete(id string) error                    // Delete soft-deletes an entity by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all entities matching the given criteria
}
