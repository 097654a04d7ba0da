package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/signup-otp-be/internal/models"
	"github.com/isdelr/signup-otp-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for signup and add-user requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse wraps a user with a confirmation message.
type UserResponse struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

// Signup handles new user registration.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := h.service.CreateUser(r.Context(), payload.Username, payload.Email, payload.Password); err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		respondWithError(w, statusFor(err), "Failed to create user", err)
		return
	}

	respondWithMessage(w, http.StatusCreated, "User created")
}

// AddUser creates a user and echoes its public fields.
func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to add user", errors.New("no data provided"))
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to add user")
		respondWithError(w, statusFor(err), "Failed to add user", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, UserResponse{Message: "User added", User: user})
}

// Login checks credentials. Both outcomes are reported with 200.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	_, err := h.service.AuthenticateUser(r.Context(), payload.Username, payload.Password)
	switch {
	case err == nil:
		respondWithMessage(w, http.StatusOK, "Login successful")
	case errors.Is(err, services.ErrInvalidCredentials):
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		respondWithMessage(w, http.StatusOK, "Invalid username or password")
	default:
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to authenticate user")
		respondWithError(w, http.StatusInternalServerError, "Failed to log in", err)
	}
}

// GetAll returns every user without passwords.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve users")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve users", err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// Get handles retrieving a user by their ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	user, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to get user by ID")
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve user", err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// Update handles partial updates of username and email.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	var payload services.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, payload)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to update user")
		respondWithError(w, statusFor(err), "Failed to update user", err)
		return
	}

	respondWithJSON(w, http.StatusOK, UserResponse{Message: "User updated successfully!", User: user})
}

// Delete removes a user. Missing users yield 404.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user id", err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		respondWithError(w, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	respondWithMessage(w, http.StatusOK, "User deleted successfully!")
}
