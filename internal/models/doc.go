// Package models defines the domain entities and persistence interfaces for the shelf game-collection tracker.
//
// The package contains two kinds of types:
//
// 1. Catalog data: plain value types that flow through the collection view engine
//   - [Item] : one catalog entry (game or accessory) with status, prices, tags and scores
//   - [Status] : the fixed lifecycle enumeration that decides which KPI bucket and price field apply
//
// 2. Bookkeeping entities: records the application keeps about its own operations
//   - [ImportJob] : one library import, with progress counters and outcome
//
// Entities validate themselves at the write boundary through [Entity.Validate]; readers such as the
// view engine never re-validate. The [Repository] interface defines the standard CRUD operations.
package models
