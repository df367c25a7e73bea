package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/EmpoweredVote/SB-Backend/internal/middleware"
	"github.com/EmpoweredVote/SB-Backend/internal/utils"
)

type Handlers struct {
	store  *Store
	ttl    time.Duration
	secure bool
	log    *slog.Logger
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}
	if creds.Username == "" || creds.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	session, err := h.store.Authenticate(creds.Username, creds.Password, h.ttl)
	if errors.Is(err, ErrInvalidCredentials) {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		h.log.Error("login failed", "error", err)
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.SessionID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secure,
	})

	user, err := h.store.User(session.UserID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, MeResponse{UserID: user.UserID, Username: user.Username, Role: roleOf(user)})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	if err := h.store.EndSession(cookie.Value); err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   middleware.SessionCookie,
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, MeResponse{UserID: user.UserID, Username: user.Username, Role: roleOf(user)})
}

func (h *Handlers) Role(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	role, err := h.store.FindRole(userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}
	writeJSON(w, RoleResponse{Role: role})
}

func (h *Handlers) Admin(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	isAdmin, err := h.store.IsAdmin(userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}
	writeJSON(w, AdminResponse{IsAdmin: isAdmin})
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) (User, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Failed converting ID to string", http.StatusInternalServerError)
		return User{}, false
	}
	user, err := h.store.User(userID)
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return User{}, false
	}
	return user, true
}

func roleOf(u User) string {
	if u.Role == "" {
		return DefaultRole
	}
	return u.Role
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
