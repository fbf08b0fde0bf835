package http

import (
	"net/http"

	"github.com/MKhiriev/go-tech-support/internal/utils"
	"github.com/MKhiriev/go-tech-support/models"
)

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	build := h.services.AppInfo.GetBuildInfo(ctx)

	_, _ = utils.WriteJSON(w, models.VersionResponse{
		Version:     h.services.AppInfo.GetAppVersion(ctx),
		BuildDate:   build.BuildDate(),
		BuildCommit: build.BuildCommit(),
	}, http.StatusOK)
}
