package handlers

import (
	"context"
	"net/http"
)

// ReportStore runs the named read-only reports.
type ReportStore interface {
	Report(ctx context.Context, name string) (any, error)
}

type ReportHandler struct {
	store ReportStore
}

func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Report(r.Context(), r.PathValue("nome"))
	if err != nil {
		respondError(w, r, "Reports", err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
