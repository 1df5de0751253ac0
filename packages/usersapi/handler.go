package usersapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/abdul-hamid-achik/crudspec/packages/db"
	"github.com/go-chi/chi/v5"
)

const (
	msgNameAgeRequired = "Name and age are required"
	msgInvalidID       = "Invalid user ID"
	msgNotFound        = "User not found"
)

// Users is the storage the handlers need. *db.Client implements it.
type Users interface {
	InitUsersTable(ctx context.Context) error
	DropUsersTable(ctx context.Context) error
	CreateUser(ctx context.Context, name string, age int) (db.User, error)
	ListUsers(ctx context.Context) ([]db.User, error)
	GetUser(ctx context.Context, id int64) (db.User, error)
	UpdateUser(ctx context.Context, id int64, name string, age int) (db.User, error)
	DeleteUser(ctx context.Context, id int64) error
	DeleteAllUsers(ctx context.Context) (int64, error)
}

type Handler struct {
	users  Users
	logger *slog.Logger
}

func NewHandler(users Users, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: users, logger: logger}
}

// NewRouter wires every route of the users API
func NewRouter(users Users, logger *slog.Logger) http.Handler {
	h := NewHandler(users, logger)

	r := chi.NewRouter()
	r.Use(Logging(h.logger))

	r.Get("/", h.Root)
	r.Get("/init-users-table", h.InitTable)
	r.Delete("/drop-users-table", h.DropTable)

	r.Post("/user", h.CreateUser)
	r.Get("/users", h.ListUsers)
	r.Delete("/users/all", h.DeleteAllUsers)
	r.Get("/user/{id}", h.GetUser)
	r.Put("/user/{id}", h.UpdateUser)
	r.Delete("/user/{id}", h.DeleteUser)

	return r
}

type userRequest struct {
	Name *string `json:"name"`
	Age  *int    `json:"age"`
}

// decodeUser reads a body carrying both a non-empty name and an age
func decodeUser(r *http.Request) (string, int, bool) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", 0, false
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Age == nil {
		return "", 0, false
	}
	return *req.Name, *req.Age, true
}

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, "Users API is running")
}

func (h *Handler) InitTable(w http.ResponseWriter, r *http.Request) {
	if err := h.users.InitUsersTable(r.Context()); err != nil {
		h.storageError(w, "failed to create users table", err)
		return
	}
	respondMessage(w, "Users table created")
}

func (h *Handler) DropTable(w http.ResponseWriter, r *http.Request) {
	if err := h.users.DropUsersTable(r.Context()); err != nil {
		h.storageError(w, "failed to drop users table", err)
		return
	}
	respondMessage(w, "Users table dropped")
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	name, age, ok := decodeUser(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgNameAgeRequired)
		return
	}

	user, err := h.users.CreateUser(r.Context(), name, age)
	if err != nil {
		h.storageError(w, "failed to create user", err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.storageError(w, "failed to list users", err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.storageError(w, "failed to get user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	name, age, ok := decodeUser(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgNameAgeRequired)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), id, name, age)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.storageError(w, "failed to update user", err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	err := h.users.DeleteUser(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err != nil {
		h.storageError(w, "failed to delete user", err)
		return
	}
	respondMessage(w, "User deleted")
}

func (h *Handler) DeleteAllUsers(w http.ResponseWriter, r *http.Request) {
	n, err := h.users.DeleteAllUsers(r.Context())
	if err != nil {
		h.storageError(w, "failed to delete users", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "All users deleted",
		"deleted": n,
	})
}

func (h *Handler) storageError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, "error", err)
	respondError(w, http.StatusInternalServerError, msg)
}
