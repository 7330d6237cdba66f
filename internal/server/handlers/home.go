// Package handlers provides HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gqlforge/gqlforge/internal/app"
	"github.com/gqlforge/gqlforge/internal/server/middleware"
	"github.com/gqlforge/gqlforge/web"
)

// HomeHandler handles home page requests.
type HomeHandler struct {
	app *app.App
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(application *app.App) *HomeHandler {
	return &HomeHandler{app: application}
}

// Index renders the home page.
func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	_, total, err := h.app.RegistryService.ListSchemas(1, 1)
	if err != nil {
		h.app.Logger.Error("failed to count schemas", "error", err)
	}

	data := map[string]interface{}{
		"Title":       "gqlforge",
		"Description": "Compile GraphQL introspection schemas into Go source declarations",
		"SchemaCount": total,
		"CSRFToken":   middleware.TokenFromContext(r.Context()),
	}

	if err := web.RenderPage(w, "home.html", data); err != nil {
		h.app.Logger.Error("failed to render home page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
