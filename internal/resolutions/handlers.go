package resolutions

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
	featured, err := utils.TriParam(r, "featured")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	withOrdinance, err := utils.TriParam(r, "with_ordinance")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	page, err := h.service.List(r.Context(), ListParams{
		Search:        req.Search,
		Page:          req.Page,
		PageSize:      req.PageSize,
		Category:      r.URL.Query().Get("category"),
		Featured:      featured,
		WithOrdinance: withOrdinance,
	})
	if err != nil {
		h.log.Error("list resolutions failed", "error", err)
		http.Error(w, "Failed to fetch resolutions", http.StatusInternalServerError)
		return
	}
	utils.AddServerTiming(w, "db", time.Since(start))
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Resolution not found", http.StatusNotFound)
		return
	}
	res, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Resolution not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get resolution failed", "id", id, "error", err)
		http.Error(w, "Failed to fetch resolution", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

func (h *Handlers) ListOrdinances(w http.ResponseWriter, r *http.Request) {
	req, err := utils.ListRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	active, err := utils.TriParam(r, "active")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	from, err := utils.DateParam(r, "effective_from")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := utils.DateParam(r, "effective_to")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	page, err := h.service.Ordinances(r.Context(), OrdinanceParams{
		Search:        req.Search,
		Page:          req.Page,
		PageSize:      req.PageSize,
		Category:      r.URL.Query().Get("category"),
		Active:        active,
		EffectiveFrom: from,
		EffectiveTo:   to,
	})
	if err != nil {
		h.log.Error("list ordinances failed", "error", err)
		http.Error(w, "Failed to fetch ordinances", http.StatusInternalServerError)
		return
	}
	utils.AddServerTiming(w, "db", time.Since(start))
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *Handlers) GetOrdinance(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Ordinance not found", http.StatusNotFound)
		return
	}
	ord, err := h.service.Ordinance(r.Context(), id)
	if errors.Is(err, ErrOrdinanceNotFound) {
		http.Error(w, "Ordinance not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get ordinance failed", "id", id, "error", err)
		http.Error(w, "Failed to fetch ordinance", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ord)
}
