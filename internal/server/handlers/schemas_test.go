package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/registry"
)

// importFixture stores the introspection fixture under the given name
// and returns the stored entry.
func importFixture(t *testing.T, application *app.App, name string) *registry.StoredSchema {
	t.Helper()

	stored, err := application.RegistryService.CreateSchema(name, "", []byte(introspectionFixture), nil)
	if err != nil {
		t.Fatalf("failed to store fixture schema: %v", err)
	}
	return stored
}

// schemaRouter mounts the handlers that read chi URL params.
func schemaRouter(handler *SchemasHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/schema/{slug}", handler.View)
	router.Get("/schema/{slug}/sdl", handler.DownloadSDL)
	router.Get("/schema/{slug}/go", handler.DownloadGo)
	router.Delete("/api/schema/{id}", handler.Delete)
	return router
}

func TestSchemasHandler_Create(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("name", "Star Wars API")
	writer.WriteField("content", introspectionFixture)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/schemas", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 303, got %d: %s", resp.StatusCode, string(body))
	}

	location := resp.Header.Get("Location")
	if location != "/schema/star-wars-api" {
		t.Errorf("expected redirect to the new schema, got %q", location)
	}

	stored, err := application.RegistryService.GetSchema("star-wars-api")
	if err != nil {
		t.Fatalf("failed to get stored schema: %v", err)
	}
	if stored == nil {
		t.Fatal("expected schema to be stored")
	}
	if stored.TypeCount != 2 {
		t.Errorf("expected 2 types, got %d", stored.TypeCount)
	}
	if stored.QueryType != "Query" {
		t.Errorf("expected query root Query, got %q", stored.QueryType)
	}
}

func TestSchemasHandler_Create_HTMX(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("name", "Inline Import")
	writer.WriteField("content", introspectionFixture)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/schemas", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()

	handler.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if redirect := resp.Header.Get("HX-Redirect"); !strings.HasPrefix(redirect, "/schema/") {
		t.Errorf("expected HX-Redirect to the new schema, got %q", redirect)
	}
}

func TestSchemasHandler_Create_NoContent(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("name", "Empty")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/schemas", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "No content provided") {
		t.Errorf("expected missing-content error, got: %s", string(body))
	}
}

func TestSchemasHandler_Create_InvalidContent(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("name", "Broken")
	writer.WriteField("content", "not an introspection document")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/schemas", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.Create(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Failed to import schema") {
		t.Errorf("expected import error, got: %s", string(body))
	}
}

func TestSchemasHandler_Browse(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	importFixture(t, application, "Star Wars API")

	t.Run("full page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/browse", nil)
		w := httptest.NewRecorder()

		handler.Browse(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		body, _ := io.ReadAll(resp.Body)
		bodyStr := string(body)
		if !strings.Contains(bodyStr, "<html") {
			t.Error("expected full page response")
		}
		if !strings.Contains(bodyStr, "Star Wars API") {
			t.Error("expected stored schema in the listing")
		}
	})

	t.Run("htmx partial", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/browse", nil)
		req.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()

		handler.Browse(w, req)

		resp := w.Result()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status 200, got %d", resp.StatusCode)
		}

		body, _ := io.ReadAll(resp.Body)
		bodyStr := string(body)
		if strings.Contains(bodyStr, "<html") {
			t.Error("expected partial response without page chrome")
		}
		if !strings.Contains(bodyStr, "Star Wars API") {
			t.Error("expected stored schema in the partial")
		}
	})

	t.Run("search", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/browse?q=wars", nil)
		req.Header.Set("HX-Request", "true")
		w := httptest.NewRecorder()

		handler.Browse(w, req)

		body, _ := io.ReadAll(w.Result().Body)
		if !strings.Contains(string(body), "Star Wars API") {
			t.Error("expected search to find the stored schema")
		}
	})
}

func TestSchemasHandler_View(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)
	router := schemaRouter(handler)

	stored := importFixture(t, application, "Star Wars API")

	req := httptest.NewRequest(http.MethodGet, "/schema/"+stored.Slug, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)
	if !strings.Contains(bodyStr, "Star Wars API") {
		t.Error("expected schema name on the detail page")
	}
	if !strings.Contains(bodyStr, "OBJECT") {
		t.Error("expected type index with kind badges")
	}
}

func TestSchemasHandler_View_NotFound(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)
	router := schemaRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/schema/no-such-schema", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Result().StatusCode)
	}
}

func TestSchemasHandler_DownloadSDL(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)
	router := schemaRouter(handler)

	stored := importFixture(t, application, "Star Wars API")

	req := httptest.NewRequest(http.MethodGet, "/schema/"+stored.Slug+"/sdl", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, ".graphql") {
		t.Errorf("expected SDL attachment, got %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "type Query") {
		t.Errorf("expected SDL output, got: %s", string(body))
	}
}

func TestSchemasHandler_DownloadGo(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)
	router := schemaRouter(handler)

	stored := importFixture(t, application, "Star Wars API")

	req := httptest.NewRequest(http.MethodGet, "/schema/"+stored.Slug+"/go", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "star_wars_api.go") {
		t.Errorf("expected Go attachment, got %q", cd)
	}

	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)
	if !strings.Contains(bodyStr, "package starwarsapi") {
		t.Error("expected package clause derived from the slug")
	}
	if !strings.Contains(bodyStr, "var StarWarsApi = gqlt.NewSchema()") {
		t.Error("expected schema variable declaration")
	}
}

func TestSchemasHandler_List(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)

	stored := importFixture(t, application, "Star Wars API")

	req := httptest.NewRequest(http.MethodGet, "/api/schemas", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		Schemas []struct {
			Slug      string `json:"slug"`
			Name      string `json:"name"`
			TypeCount int    `json:"type_count"`
		} `json:"schemas"`
		Total int `json:"total"`
		Page  int `json:"page"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result.Total != 1 {
		t.Errorf("expected 1 schema, got %d", result.Total)
	}
	if len(result.Schemas) != 1 || result.Schemas[0].Slug != stored.Slug {
		t.Errorf("expected stored schema in listing, got %+v", result.Schemas)
	}
}

func TestSchemasHandler_Delete(t *testing.T) {
	application := setupTestApp(t)
	handler := NewSchemasHandler(application)
	router := schemaRouter(handler)

	stored := importFixture(t, application, "Star Wars API")

	req := httptest.NewRequest(http.MethodDelete, "/api/schema/"+stored.ID, nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", resp.StatusCode)
	}

	remaining, err := application.RegistryService.GetSchema(stored.ID)
	if err != nil {
		t.Fatalf("failed to check deleted schema: %v", err)
	}
	if remaining != nil {
		t.Error("expected schema to be deleted")
	}
}
