package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/signup-otp-be/internal/database"
	"github.com/isdelr/signup-otp-be/internal/models"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	CreateUser(ctx context.Context, username, email, password string) (models.User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	AuthenticateUser(ctx context.Context, username, password string) (models.User, error)
}

// UserUpdate carries a partial update; nil fields keep their stored value.
type UserUpdate struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// UserService provides business logic for user management.
type UserService struct {
	db     *database.DB
	hasher PasswordHasher
	events EventServiceProvider
}

// NewUserService creates a new UserService. events may be nil.
func NewUserService(db *database.DB, hasher PasswordHasher, events EventServiceProvider) *UserService {
	return &UserService{db: db, hasher: hasher, events: events}
}

// ListUsers returns every user ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, username, email FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, s.db.Rebind("SELECT id, username, email FROM users WHERE id = ?"), id)
	if err := row.Scan(&user.ID, &user.Username, &user.Email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateUser creates a new user, hashing their password.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return models.User{}, fmt.Errorf("missing data fields: %w", ErrInvalidInput)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{Username: username, Email: email}
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?) RETURNING id"),
		user.Username, user.Email, hashed)
	if err := row.Scan(&user.ID); err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %v", ErrUserExists, err)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	recordEvent(ctx, s.events, EventUserCreated, "info", fmt.Sprintf("User %q created", user.Username))
	return user, nil
}

// UpdateUser applies a partial update to username and/or email.
func (s *UserService) UpdateUser(ctx context.Context, id int64, update UserUpdate) (models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if update.Username != nil {
		user.Username = strings.TrimSpace(*update.Username)
	}
	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if user.Username == "" || user.Email == "" {
		return models.User{}, fmt.Errorf("username and email cannot be empty: %w", ErrInvalidInput)
	}

	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE users SET username = ?, email = ? WHERE id = ?"),
		user.Username, user.Email, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return models.User{}, fmt.Errorf("%w: %v", ErrUserExists, err)
		}
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("update user rows affected: %w", err)
	}
	// The row can disappear between the read above and this write.
	if affected == 0 {
		return models.User{}, fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
	}

	recordEvent(ctx, s.events, EventUserUpdated, "info", fmt.Sprintf("User %d updated", id))
	return user, nil
}

// DeleteUser removes a user from the database. Remaining ids are left untouched.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrUserNotFound)
	}

	recordEvent(ctx, s.events, EventUserDeleted, "info", fmt.Sprintf("User %d deleted", id))
	return nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}

	var user models.User
	row := s.db.QueryRowContext(ctx,
		s.db.Rebind("SELECT id, username, email, password_hash FROM users WHERE username = ?"), username)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}
