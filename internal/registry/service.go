// Package registry stores introspection documents in a local SQLite
// database and serves them to the web and TUI layers.
package registry

import (
	"fmt"

	"github.com/gqlforge/gqlforge/internal/schema"
)

// Service provides business logic for the schema registry. Every
// write path loads the content through the schema model first, so an
// invalid document never enters the registry.
type Service struct {
	repo *Repository
}

// NewService creates a new Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// CreateSchema validates content and stores it under the given name.
func (s *Service) CreateSchema(name, description string, content []byte, tags []string) (*StoredSchema, error) {
	doc, err := schema.LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	if name == "" {
		name = defaultName(doc)
	}
	stored := &StoredSchema{
		Name:        name,
		Description: description,
		Content:     string(content),
		TypeCount:   doc.Len(),
		QueryType:   doc.QueryType,
		Tags:        tags,
	}

	if err := s.repo.Create(stored); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return stored, nil
}

// GetSchema retrieves a schema by ID or slug.
func (s *Service) GetSchema(idOrSlug string) (*StoredSchema, error) {
	// Try by ID first
	stored, err := s.repo.GetByID(idOrSlug)
	if err != nil {
		return nil, err
	}
	if stored != nil {
		return stored, nil
	}

	// Try by slug
	return s.repo.GetBySlug(idOrSlug)
}

// UpdateSchema replaces the content and metadata of an existing entry.
func (s *Service) UpdateSchema(id, name, description string, content []byte, tags []string) (*StoredSchema, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("schema not found: %s", id)
	}

	doc, err := schema.LoadBytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	if name != "" {
		existing.Name = name
	}
	existing.Description = description
	existing.Content = string(content)
	existing.TypeCount = doc.Len()
	existing.QueryType = doc.QueryType
	existing.Tags = tags

	if err := s.repo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update schema: %w", err)
	}

	return existing, nil
}

// DeleteSchema removes a schema from the registry.
func (s *Service) DeleteSchema(id string) error {
	return s.repo.Delete(id)
}

// ListSchemas retrieves a paginated list of schemas.
func (s *Service) ListSchemas(page, pageSize int) ([]*StoredSchema, int, error) {
	page, pageSize = clamp(page, pageSize)
	offset := (page - 1) * pageSize
	return s.repo.List(offset, pageSize)
}

// SearchSchemas searches for schemas matching a query.
func (s *Service) SearchSchemas(query string, page, pageSize int) ([]*StoredSchema, int, error) {
	page, pageSize = clamp(page, pageSize)
	offset := (page - 1) * pageSize
	return s.repo.Search(query, offset, pageSize)
}

// ListSchemasByTag retrieves schemas carrying a specific tag.
func (s *Service) ListSchemasByTag(tag string, page, pageSize int) ([]*StoredSchema, int, error) {
	page, pageSize = clamp(page, pageSize)
	offset := (page - 1) * pageSize
	return s.repo.ListByTag(tag, offset, pageSize)
}

// ViewSchema retrieves a schema and increments its view count.
func (s *Service) ViewSchema(idOrSlug string) (*StoredSchema, error) {
	stored, err := s.GetSchema(idOrSlug)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, nil
	}

	// Increment view count (ignore errors)
	s.repo.IncrementViewCount(stored.ID)
	stored.ViewCount++

	return stored, nil
}

// GetAllTags retrieves all tags with their usage counts.
func (s *Service) GetAllTags() (map[string]int, error) {
	return s.repo.GetAllTags()
}

// ImportSchema stores an introspection document with a name derived
// from the document itself.
func (s *Service) ImportSchema(content []byte) (*StoredSchema, error) {
	return s.CreateSchema("", "", content, nil)
}

// defaultName names an import after its query root when nothing
// better is available.
func defaultName(doc *schema.Document) string {
	if doc.QueryType != "" {
		return doc.QueryType
	}
	return "Untitled Schema"
}

func clamp(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
