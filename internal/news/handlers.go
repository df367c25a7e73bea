package news

import (
	"encoding/json"
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
	priority, err := utils.TriParam(r, "priority")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	page, err := h.service.List(r.Context(), ListParams{
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
		Featured: featured,
		Priority: priority,
	})
	if err != nil {
		h.log.Error("list news failed", "error", err)
		http.Error(w, "Failed to fetch news", http.StatusInternalServerError)
		return
	}
	utils.AddServerTiming(w, "db", time.Since(start))
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := utils.IDParam(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "News item not found", http.StatusNotFound)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "News item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("get news failed", "id", id, "error", err)
		http.Error(w, "Failed to fetch news item", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, item)
}

func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var form NewsForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := h.service.Create(r.Context(), form)
	var ve *ValidationError
	if errors.As(err, &ve) {
		http.Error(w, ve.Message, http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error("create news failed", "error", err)
		http.Error(w, "Failed to submit news", http.StatusInternalServerError)
		return
	}
	userID, _ := utils.GetUserIDFromContext(r.Context())
	h.log.Info("news item created", "id", item.ID, "user_id", userID)
	utils.WriteJSON(w, http.StatusCreated, item)
}
