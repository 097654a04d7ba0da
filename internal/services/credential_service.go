package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/signup-otp-be/internal/database"
	"github.com/isdelr/signup-otp-be/internal/models"
)

// CredentialServiceProvider defines access to the SMS gateway credential.
type CredentialServiceProvider interface {
	GetActiveCredential(ctx context.Context) (models.GatewayCredential, error)
	SeedCredential(ctx context.Context, cred models.GatewayCredential) (bool, error)
}

// CredentialService reads gateway credentials from the gateway_credentials table.
type CredentialService struct {
	db *database.DB
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService(db *database.DB) *CredentialService {
	return &CredentialService{db: db}
}

// GetActiveCredential returns the first credential row. Only one is expected.
func (s *CredentialService) GetActiveCredential(ctx context.Context) (models.GatewayCredential, error) {
	var cred models.GatewayCredential
	row := s.db.QueryRowContext(ctx,
		"SELECT id, account_sid, auth_token, phone_number FROM gateway_credentials ORDER BY id LIMIT 1")
	if err := row.Scan(&cred.ID, &cred.AccountSID, &cred.AuthToken, &cred.PhoneNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.GatewayCredential{}, ErrCredentialNotFound
		}
		return models.GatewayCredential{}, fmt.Errorf("read gateway credential: %w", err)
	}
	return cred, nil
}

// SeedCredential inserts cred only when the table is empty and reports whether it did.
func (s *CredentialService) SeedCredential(ctx context.Context, cred models.GatewayCredential) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM gateway_credentials").Scan(&count); err != nil {
		return false, fmt.Errorf("count gateway credentials: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	_, err := s.db.ExecContext(ctx,
		s.db.Rebind("INSERT INTO gateway_credentials (account_sid, auth_token, phone_number) VALUES (?, ?, ?)"),
		cred.AccountSID, cred.AuthToken, cred.PhoneNumber)
	if err != nil {
		return false, fmt.Errorf("insert gateway credential: %w", err)
	}
	return true, nil
}
