package handlers

import (
	"io"
	"net/http"

	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/merger"
	"github.com/gqlforge/gqlforge/internal/server/middleware"
	"github.com/gqlforge/gqlforge/web"
)

// MergeHandler handles schema merge requests.
type MergeHandler struct {
	app *app.App
}

// NewMergeHandler creates a new MergeHandler.
func NewMergeHandler(application *app.App) *MergeHandler {
	return &MergeHandler{app: application}
}

// Index renders the merge page.
func (h *MergeHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":     "Merge - gqlforge",
		"CSRFToken": middleware.TokenFromContext(r.Context()),
	}

	if err := web.RenderPage(w, "merge.html", data); err != nil {
		h.app.Logger.Error("failed to render merge page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Merge combines uploaded introspection documents into one.
func (h *MergeHandler) Merge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil { // 50MB max
		h.renderError(w, r, "Failed to parse form: "+err.Error())
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) < 2 {
		h.renderError(w, r, "At least 2 schema files are required for merging")
		return
	}

	var inputs [][]byte
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			h.renderError(w, r, "Failed to open file: "+err.Error())
			return
		}

		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			h.renderError(w, r, "Failed to read file: "+err.Error())
			return
		}

		inputs = append(inputs, content)
	}

	name := r.FormValue("name")

	result, err := h.app.Merger.Merge(inputs, &merger.Options{
		Name: name,
	})
	if err != nil {
		h.renderError(w, r, "Merge failed: "+err.Error())
		return
	}

	if middleware.IsHTMXRequest(r) {
		data := map[string]interface{}{
			"Content": string(result.JSON),
			"Name":    result.Name,
		}
		if err := web.RenderPartial(w, "code-preview.html", data); err != nil {
			h.app.Logger.Error("failed to render preview", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	filename := middleware.SanitizeFilename(result.Name)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+".json\"")
	w.Write(result.JSON)
}

func (h *MergeHandler) renderError(w http.ResponseWriter, r *http.Request, msg string) {
	if middleware.IsHTMXRequest(r) {
		data := map[string]interface{}{
			"Error": msg,
		}
		web.RenderPartial(w, "error.html", data)
	} else {
		http.Error(w, msg, http.StatusBadRequest)
	}
}
