package slides

import (
	"log/slog"
	"net/http"

	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

type Handlers struct {
	service *Service
	log     *slog.Logger
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	req, err := utils.ListRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	page, err := h.service.List(r.Context(), req)
	if err != nil {
		h.log.Error("list slides failed", "error", err)
		http.Error(w, "Failed to fetch slides", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}
