package registry

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const schemaColumns = "id, slug, name, description, content, content_hash, type_count, query_type, view_count, created_at, updated_at"

// Repository handles database operations for stored schemas.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new schema.
func (r *Repository) Create(s *StoredSchema) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	s.ContentHash = r.hashContent(s.Content)
	if s.Slug == "" {
		s.Slug = r.generateSlug(s.Name, s.ContentHash)
	}
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt

	_, err := r.db.Exec(`
		INSERT INTO schemas (`+schemaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Slug, s.Name, s.Description, s.Content, s.ContentHash, s.TypeCount, s.QueryType, s.ViewCount, s.CreatedAt, s.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Add tags
	if len(s.Tags) > 0 {
		if err := r.setTags(s.ID, s.Tags); err != nil {
			return fmt.Errorf("failed to set tags: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a schema by ID.
func (r *Repository) GetByID(id string) (*StoredSchema, error) {
	return r.getOne("SELECT "+schemaColumns+" FROM schemas WHERE id = ?", id)
}

// GetBySlug retrieves a schema by slug.
func (r *Repository) GetBySlug(slug string) (*StoredSchema, error) {
	return r.getOne("SELECT "+schemaColumns+" FROM schemas WHERE slug = ?", slug)
}

func (r *Repository) getOne(query string, arg interface{}) (*StoredSchema, error) {
	s := &StoredSchema{}
	err := r.db.QueryRow(query, arg).Scan(
		&s.ID, &s.Slug, &s.Name, &s.Description, &s.Content, &s.ContentHash,
		&s.TypeCount, &s.QueryType, &s.ViewCount, &s.CreatedAt, &s.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %w", err)
	}

	s.Tags, _ = r.getTags(s.ID)
	return s, nil
}

// Update updates an existing schema.
func (r *Repository) Update(s *StoredSchema) error {
	s.ContentHash = r.hashContent(s.Content)
	s.UpdatedAt = time.Now()

	_, err := r.db.Exec(`
		UPDATE schemas SET name = ?, description = ?, content = ?, content_hash = ?, type_count = ?, query_type = ?, updated_at = ?
		WHERE id = ?
	`, s.Name, s.Description, s.Content, s.ContentHash, s.TypeCount, s.QueryType, s.UpdatedAt, s.ID)

	if err != nil {
		return fmt.Errorf("failed to update schema: %w", err)
	}

	if err := r.setTags(s.ID, s.Tags); err != nil {
		return fmt.Errorf("failed to update tags: %w", err)
	}

	return nil
}

// Delete removes a schema by ID.
func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM schemas WHERE id = ?", id)
	return err
}

// List retrieves schemas with pagination, newest first.
func (r *Repository) List(offset, limit int) ([]*StoredSchema, int, error) {
	var total int
	err := r.db.QueryRow("SELECT COUNT(*) FROM schemas").Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count schemas: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT `+schemaColumns+`
		FROM schemas ORDER BY created_at DESC LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schemas: %w", err)
	}
	return r.collect(rows, total)
}

// Search performs full-text search over names and descriptions. A
// query FTS5 cannot parse falls back to a plain substring match, so
// user input never causes a syntax error.
func (r *Repository) Search(query string, offset, limit int) ([]*StoredSchema, int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM schemas_fts WHERE schemas_fts MATCH ?
	`, query).Scan(&total)
	if err != nil {
		return r.searchLike(query, offset, limit)
	}

	rows, err := r.db.Query(`
		SELECT s.id, s.slug, s.name, s.description, s.content, s.content_hash, s.type_count, s.query_type, s.view_count, s.created_at, s.updated_at
		FROM schemas s
		JOIN schemas_fts fts ON s.rowid = fts.rowid
		WHERE schemas_fts MATCH ?
		ORDER BY rank
		LIMIT ? OFFSET ?
	`, query, limit, offset)
	if err != nil {
		return r.searchLike(query, offset, limit)
	}
	return r.collect(rows, total)
}

func (r *Repository) searchLike(query string, offset, limit int) ([]*StoredSchema, int, error) {
	pattern := "%" + query + "%"

	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM schemas WHERE name LIKE ? OR description LIKE ?
	`, pattern, pattern).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT `+schemaColumns+`
		FROM schemas
		WHERE name LIKE ? OR description LIKE ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, pattern, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search schemas: %w", err)
	}
	return r.collect(rows, total)
}

// ListByTag retrieves schemas carrying a specific tag.
func (r *Repository) ListByTag(tag string, offset, limit int) ([]*StoredSchema, int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM schemas s
		JOIN schema_tags st ON s.id = st.schema_id
		JOIN tags t ON st.tag_id = t.id
		WHERE t.name = ?
	`, tag).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count schemas by tag: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT s.id, s.slug, s.name, s.description, s.content, s.content_hash, s.type_count, s.query_type, s.view_count, s.created_at, s.updated_at
		FROM schemas s
		JOIN schema_tags st ON s.id = st.schema_id
		JOIN tags t ON st.tag_id = t.id
		WHERE t.name = ?
		ORDER BY s.created_at DESC
		LIMIT ? OFFSET ?
	`, tag, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list schemas by tag: %w", err)
	}
	return r.collect(rows, total)
}

func (r *Repository) collect(rows *sql.Rows, total int) ([]*StoredSchema, int, error) {
	defer rows.Close()

	var schemas []*StoredSchema
	for rows.Next() {
		s := &StoredSchema{}
		err := rows.Scan(
			&s.ID, &s.Slug, &s.Name, &s.Description, &s.Content, &s.ContentHash,
			&s.TypeCount, &s.QueryType, &s.ViewCount, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan schema: %w", err)
		}
		s.Tags, _ = r.getTags(s.ID)
		schemas = append(schemas, s)
	}

	return schemas, total, nil
}

// IncrementViewCount increments the view count for a schema.
func (r *Repository) IncrementViewCount(id string) error {
	_, err := r.db.Exec("UPDATE schemas SET view_count = view_count + 1 WHERE id = ?", id)
	return err
}

// GetAllTags retrieves all tags with their usage counts.
func (r *Repository) GetAllTags() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT t.name, COUNT(st.schema_id) as count
		FROM tags t
		LEFT JOIN schema_tags st ON t.id = st.tag_id
		GROUP BY t.id
		ORDER BY count DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[name] = count
	}

	return tags, nil
}

func (r *Repository) getTags(schemaID string) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT t.name FROM tags t
		JOIN schema_tags st ON t.id = st.tag_id
		WHERE st.schema_id = ?
		ORDER BY t.name
	`, schemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

func (r *Repository) setTags(schemaID string, tags []string) error {
	// Remove existing tags
	_, err := r.db.Exec("DELETE FROM schema_tags WHERE schema_id = ?", schemaID)
	if err != nil {
		return err
	}

	// Add new tags
	for _, tagName := range tags {
		// Get or create tag
		var tagID int64
		err := r.db.QueryRow("SELECT id FROM tags WHERE name = ?", tagName).Scan(&tagID)
		if err == sql.ErrNoRows {
			result, err := r.db.Exec("INSERT INTO tags (name) VALUES (?)", tagName)
			if err != nil {
				return err
			}
			tagID, _ = result.LastInsertId()
		} else if err != nil {
			return err
		}

		// Link schema to tag
		_, err = r.db.Exec("INSERT OR IGNORE INTO schema_tags (schema_id, tag_id) VALUES (?, ?)", schemaID, tagID)
		if err != nil {
			return err
		}
	}

	return nil
}

// generateSlug derives a URL slug from the schema name, suffixing the
// content hash and then a counter until the slug is free.
func (r *Repository) generateSlug(name, contentHash string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, slug)

	// Remove multiple consecutive dashes
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	slug = strings.Trim(slug, "-")

	if slug == "" {
		slug = "schema-" + contentHash[:8]
	}
	if !r.slugTaken(slug) {
		return slug
	}

	slug = slug + "-" + contentHash[:8]
	baseSlug := slug
	counter := 1
	for r.slugTaken(slug) {
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
		counter++
	}

	return slug
}

func (r *Repository) slugTaken(slug string) bool {
	var count int
	r.db.QueryRow("SELECT COUNT(*) FROM schemas WHERE slug = ?", slug).Scan(&count)
	return count > 0
}

func (r *Repository) hashContent(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
