package registry

import "time"

// StoredSchema is a registry entry: one introspection document plus
// the metadata derived from it at import time.
type StoredSchema struct {
	ID          string
	Slug        string
	Name        string
	Description string

	// Content is the introspection JSON exactly as imported.
	Content string

	ContentHash string
	TypeCount   int
	QueryType   string
	ViewCount   int
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
