package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/codegen"
	"github.com/gqlforge/gqlforge/internal/registry"
	"github.com/gqlforge/gqlforge/internal/schema"
	"github.com/gqlforge/gqlforge/internal/sdl"
	"github.com/gqlforge/gqlforge/internal/server/middleware"
	"github.com/gqlforge/gqlforge/web"
)

// SchemasHandler handles schema registry requests.
type SchemasHandler struct {
	app *app.App
}

// NewSchemasHandler creates a new SchemasHandler.
func NewSchemasHandler(application *app.App) *SchemasHandler {
	return &SchemasHandler{app: application}
}

// typeRow is one entry in the type index on the schema detail page.
type typeRow struct {
	Name        string
	Kind        string
	Description string
}

// Browse renders the browse page.
func (h *SchemasHandler) Browse(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	tag := r.URL.Query().Get("tag")
	query := r.URL.Query().Get("q")

	var schemas []*registry.StoredSchema
	var total int
	var err error

	if query != "" {
		schemas, total, err = h.app.RegistryService.SearchSchemas(query, page, 20)
	} else if tag != "" {
		schemas, total, err = h.app.RegistryService.ListSchemasByTag(tag, page, 20)
	} else {
		schemas, total, err = h.app.RegistryService.ListSchemas(page, 20)
	}

	if err != nil {
		h.app.Logger.Error("failed to list schemas", "error", err)
	}

	// Get all tags
	tags, _ := h.app.RegistryService.GetAllTags()

	data := map[string]interface{}{
		"Title":    "Browse - gqlforge",
		"Schemas":  schemas,
		"Total":    total,
		"Page":     page,
		"Query":    query,
		"Tag":      tag,
		"Tags":     tags,
		"HasNext":  total > page*20,
		"HasPrev":  page > 1,
		"NextPage": page + 1,
		"PrevPage": page - 1,
	}

	if middleware.IsHTMXRequest(r) {
		if err := web.RenderPartial(w, "schema-list.html", data); err != nil {
			h.app.Logger.Error("failed to render schema list", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	} else {
		if err := web.RenderPage(w, "browse.html", data); err != nil {
			h.app.Logger.Error("failed to render browse page", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// View renders a single schema page.
func (h *SchemasHandler) View(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stored, err := h.app.RegistryService.ViewSchema(slug)
	if err != nil {
		h.app.Logger.Error("failed to get schema", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if stored == nil {
		http.NotFound(w, r)
		return
	}

	// Build the type index from the stored document; introspection meta
	// types would only be noise here.
	var types []typeRow
	if doc, err := schema.LoadBytes([]byte(stored.Content)); err == nil {
		for _, t := range doc.Types {
			if strings.HasPrefix(t.Name, "__") {
				continue
			}
			types = append(types, typeRow{Name: t.Name, Kind: t.Kind, Description: t.Description})
		}
	}

	data := map[string]interface{}{
		"Title":  stored.Name + " - gqlforge",
		"Schema": stored,
		"Types":  types,
	}

	if err := web.RenderPage(w, "schema.html", data); err != nil {
		h.app.Logger.Error("failed to render schema page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Create handles schema import from an upload or pasted content.
func (h *SchemasHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	var content []byte
	file, _, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		content, err = io.ReadAll(file)
		if err != nil {
			http.Error(w, "Failed to read file", http.StatusBadRequest)
			return
		}
	} else {
		content = []byte(r.FormValue("content"))
	}

	if len(content) == 0 {
		http.Error(w, "No content provided", http.StatusBadRequest)
		return
	}

	name := r.FormValue("name")

	stored, err := h.app.RegistryService.CreateSchema(name, "", content, nil)
	if err != nil {
		http.Error(w, "Failed to import schema: "+err.Error(), http.StatusBadRequest)
		return
	}

	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", "/schema/"+stored.Slug)
		w.WriteHeader(http.StatusOK)
	} else {
		http.Redirect(w, r, "/schema/"+stored.Slug, http.StatusSeeOther)
	}
}

// List returns schema metadata as JSON.
func (h *SchemasHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	schemas, total, err := h.app.RegistryService.ListSchemas(page, 20)
	if err != nil {
		h.app.Logger.Error("failed to list schemas", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	type item struct {
		ID        string   `json:"id"`
		Slug      string   `json:"slug"`
		Name      string   `json:"name"`
		TypeCount int      `json:"type_count"`
		QueryType string   `json:"query_type,omitempty"`
		Tags      []string `json:"tags,omitempty"`
	}

	items := make([]item, 0, len(schemas))
	for _, s := range schemas {
		items = append(items, item{
			ID:        s.ID,
			Slug:      s.Slug,
			Name:      s.Name,
			TypeCount: s.TypeCount,
			QueryType: s.QueryType,
			Tags:      s.Tags,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"schemas": items,
		"total":   total,
		"page":    page,
	})
}

// Delete removes a schema.
func (h *SchemasHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.app.RegistryService.DeleteSchema(id); err != nil {
		h.app.Logger.Error("failed to delete schema", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if middleware.IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", "/browse")
		w.WriteHeader(http.StatusOK)
	} else {
		http.Redirect(w, r, "/browse", http.StatusSeeOther)
	}
}

// DownloadSDL returns the schema rendered as SDL.
func (h *SchemasHandler) DownloadSDL(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stored, doc, ok := h.loadStored(w, r, slug)
	if !ok {
		return
	}

	out := sdl.FromDocument(doc)

	filename := middleware.SanitizeFilename(stored.Slug)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+".graphql\"")
	w.Write([]byte(out))
}

// DownloadGo returns the schema compiled to Go declarations.
func (h *SchemasHandler) DownloadGo(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	stored, doc, ok := h.loadStored(w, r, slug)
	if !ok {
		return
	}

	gen := codegen.New(codegen.Options{SchemaName: stored.Slug})
	out, err := gen.Generate(doc)
	if err != nil {
		h.app.Logger.Error("failed to generate code", "error", err, "slug", slug)
		http.Error(w, "Generation failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	filename := middleware.SanitizeFilename(codegen.CleanSchemaName(stored.Slug))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+".go\"")
	w.Write(out)
}

// loadStored fetches a stored schema and reloads its document, writing
// the error response itself when either step fails.
func (h *SchemasHandler) loadStored(w http.ResponseWriter, r *http.Request, slug string) (*registry.StoredSchema, *schema.Document, bool) {
	stored, err := h.app.RegistryService.GetSchema(slug)
	if err != nil {
		h.app.Logger.Error("failed to get schema", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}

	if stored == nil {
		http.NotFound(w, r)
		return nil, nil, false
	}

	doc, err := schema.LoadBytes([]byte(stored.Content))
	if err != nil {
		h.app.Logger.Error("stored schema failed to load", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, nil, false
	}

	return stored, doc, true
}
