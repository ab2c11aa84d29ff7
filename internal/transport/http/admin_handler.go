package http

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/logging"
)

// AdminHandler exposes the read-only reporting surface. It only ever calls
// the service's accessors and never mutates session state.
type AdminHandler struct {
	service  *app.QuizService
	registry *Registry
	log      logrus.FieldLogger
}

func NewAdminHandler(service *app.QuizService, registry *Registry, log logrus.FieldLogger) *AdminHandler {
	if log == nil {
		log = logging.NewNop()
	}
	return &AdminHandler{service: service, registry: registry, log: log}
}

// Register mounts the admin routes on a mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/sessions", h.handleSessions)
	mux.HandleFunc("/admin/results", h.handleResults)
	mux.HandleFunc("/admin/catalog", h.handleCatalog)
}

func (h *AdminHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	active := h.service.Active()
	h.writeJSON(w, map[string]any{
		"activeSessions": active,
		"activeCount":    len(active),
		"liveHandlers":   h.registry.Count(),
	})
}

func (h *AdminHandler) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context())
	if err != nil {
		h.log.WithError(err).Error("results dump failed")
		http.Error(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]any{"results": results, "count": len(results)})
}

// handleCatalog serves the client-safe catalog view; even the admin dump
// goes through the answer-key-stripped form.
func (h *AdminHandler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{"questions": h.service.Questions()})
}

func (h *AdminHandler) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Warn("admin response write failed")
	}
}
