// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities should be free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. Mappers convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel shared by every table
// - membership.go: applications, renewals, ledger entries and archival jobs
// - identity.go: admin accounts
// - content.go: blog posts, events, resources and team profiles
// - string_list.go: text[] column type that degrades to text on sqlite
//
// Models carry no gorm default values. Every column is written explicitly,
// so inserts never need a RETURNING clause.
package models
