package committees

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

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

	start := time.Now()
	page, err := h.service.List(r.Context(), req)
	if err != nil {
		h.log.Error("list committees failed", "error", err)
		http.Error(w, "Failed to fetch committees", http.StatusInternalServerError)
		return
	}
	utils.AddServerTiming(w, "db", time.Since(start))
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Committee not found", http.StatusNotFound)
		return
	}
	c, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Committee not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get committee failed", "id", id, "error", err)
		http.Error(w, "Failed to fetch committee", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}
