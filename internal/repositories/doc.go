// Package repositories implements SQLite persistence for the catalog.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// Repositories soft delete via deleted_at timestamps and exclude deleted records from queries.
//
//   - [ItemRepository] : catalog items and their ordered tags
//   - [ImportJobRepository] : import history with status tracking
//   - [ItemImportAdapter] : title and platform deduplication for imports
//
// [NextSequence] atomically increments per-table counters kept in dedicated sequence tables.
package repositories
