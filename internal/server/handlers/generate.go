package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/codegen"
	"github.com/gqlforge/gqlforge/internal/schema"
	"github.com/gqlforge/gqlforge/internal/sdl"
	"github.com/gqlforge/gqlforge/internal/server/middleware"
	"github.com/gqlforge/gqlforge/web"
)

// GenerateHandler handles code generation requests.
type GenerateHandler struct {
	app *app.App
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(application *app.App) *GenerateHandler {
	return &GenerateHandler{app: application}
}

// generateRequest is the JSON body variant of the generate API.
type generateRequest struct {
	URL        string `json:"url,omitempty"`
	Content    string `json:"content,omitempty"`
	SchemaName string `json:"schema_name,omitempty"`
	Package    string `json:"package,omitempty"`
}

// Generate compiles a schema into Go source. The input comes from a
// JSON body, an uploaded file, pasted content (introspection JSON or
// SDL), or a live endpoint URL.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			h.renderError(w, r, "Failed to parse form: "+err.Error())
			return
		}

		req.URL = strings.TrimSpace(r.FormValue("url"))
		req.SchemaName = r.FormValue("schema_name")
		req.Package = r.FormValue("package")

		file, _, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				h.renderError(w, r, "Failed to read file: "+err.Error())
				return
			}
			req.Content = string(data)
		} else if req.Content == "" {
			req.Content = r.FormValue("content")
		}
	}

	var content []byte
	var source string

	switch {
	case req.URL != "":
		if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
			req.URL = "https://" + req.URL
		}
		if msg := middleware.ValidateURL(req.URL); msg != "" {
			h.renderError(w, r, msg)
			return
		}

		raw, _, err := schema.Introspect(r.Context(), h.app.GraphQLClient, req.URL, nil)
		if err != nil {
			h.renderError(w, r, "Introspection failed: "+err.Error())
			return
		}
		content = raw
		source = req.URL

	case strings.TrimSpace(req.Content) != "":
		content = []byte(req.Content)

	default:
		h.renderError(w, r, "No file, URL, or content provided")
		return
	}

	var doc *schema.Document
	var err error
	if sdl.IsSDL("", content) {
		doc, err = sdl.Parse(content)
	} else {
		doc, err = schema.LoadBytes(content)
	}
	if err != nil {
		h.renderError(w, r, "Invalid schema: "+err.Error())
		return
	}

	name := codegen.CleanSchemaName(req.SchemaName)
	gen := codegen.New(codegen.Options{
		SchemaName:  name,
		PackageName: req.Package,
		Source:      source,
	})
	out, err := gen.Generate(doc)
	if err != nil {
		h.renderError(w, r, "Generation failed: "+err.Error())
		return
	}

	if middleware.IsHTMXRequest(r) {
		data := map[string]interface{}{
			"Content":  string(out),
			"Name":     name,
			"Filename": source,
		}
		if err := web.RenderPartial(w, "code-preview.html", data); err != nil {
			h.app.Logger.Error("failed to render preview", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write(out)
}

func (h *GenerateHandler) renderError(w http.ResponseWriter, r *http.Request, msg string) {
	if middleware.IsHTMXRequest(r) {
		data := map[string]interface{}{
			"Error": msg,
		}
		web.RenderPartial(w, "error.html", data)
	} else {
		http.Error(w, msg, http.StatusBadRequest)
	}
}
