package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pullquest-dashboard/internal/service"
)

// MaintainerHandler serves the maintainer dashboard.
type MaintainerHandler struct {
	maintainers *service.MaintainerService
	pages       *Renderer
	logger      *slog.Logger
}

func NewMaintainerHandler(maintainers *service.MaintainerService, pages *Renderer, logger *slog.Logger) *MaintainerHandler {
	return &MaintainerHandler{maintainers: maintainers, pages: pages, logger: logger}
}

// HandleDashboard renders the maintainer's repositories.
//
// HTTP: GET /maintainer/dashboard
func (h *MaintainerHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	h.pages.Render(w, http.StatusOK, "maintainer_dashboard", Page{
		Title:   "Maintainer Dashboard",
		Session: &sess,
		Data:    h.maintainers.Dashboard(r.Context(), sess),
	})
}
