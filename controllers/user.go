package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go-courier/models"
	"go-courier/repository"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const topRidersLimit = 5

// UserStore is the user persistence the controller needs
type UserStore interface {
	Register(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	GetRole(ctx context.Context, email string) (*models.UserRole, error)
	SetRole(ctx context.Context, email string, role models.Role) (*models.WriteResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	TopRiders(ctx context.Context, limit int64) (*models.TopRiders, error)
}

// UserController handles user-related requests
type UserController struct {
	Users UserStore
	log   *slog.Logger
	now   func() time.Time
}

// NewUserController creates a new UserController
func NewUserController(users UserStore, log *slog.Logger) *UserController {
	return &UserController{Users: users, log: log, now: time.Now}
}

type registerRequest struct {
	Role      models.Role `json:"role" validate:"omitempty,role"`
	CreatedOn string      `json:"createdOn"`
	Name      string      `json:"name"`
	Photo     string      `json:"photo"`
}

// Register creates the user for the email in the path. Registering twice is not an error.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	if err := validate.Var(email, "required,email"); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid email")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeMessage(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	user := models.User{
		Email:     email,
		Name:      req.Name,
		Photo:     req.Photo,
		Role:      req.Role,
		CreatedOn: req.CreatedOn,
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.CreatedOn == "" {
		user.CreatedOn = uc.now().Format(dateLayout)
	}

	id, err := uc.Users.Register(r.Context(), &user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyRegistered) {
			writeMessage(w, http.StatusOK, "User Already Registered")
			return
		}
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"insertedId": id})
}

// GetUsers lists users, filtered by ?role= unless it is absent or "All"
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := uc.Users.ListByRole(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// GetRole returns the _id and role of a user
func (uc *UserController) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := uc.Users.GetRole(r.Context(), mux.Vars(r)["email"])
	if err != nil {
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

// UpdateRole sets the role given in ?newRole= on an existing user
func (uc *UserController) UpdateRole(w http.ResponseWriter, r *http.Request) {
	newRole := models.Role(r.URL.Query().Get("newRole"))
	if !newRole.IsValid() {
		writeMessage(w, http.StatusBadRequest, "newRole must be one of User, Rider, Admin")
		return
	}

	result, err := uc.Users.SetRole(r.Context(), mux.Vars(r)["email"], newRole)
	if err != nil {
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DeleteUser removes a user by id
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseObjectID(mux.Vars(r)["id"])
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	deleted, err := uc.Users.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}

// GetTopRiders returns the leaderboards by rating and by completed deliveries
func (uc *UserController) GetTopRiders(w http.ResponseWriter, r *http.Request) {
	riders, err := uc.Users.TopRiders(r.Context(), topRidersLimit)
	if err != nil {
		writeError(w, r, uc.log, err)
		return
	}
	writeJSON(w, http.StatusOK, riders)
}
