package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gunjan1sharma/hmac-auth-builder/internal/core/domain"
)

// CredentialRepo implements ports.CredentialRepository.
type CredentialRepo struct {
	pool Pool
}

// NewCredentialRepo creates a new CredentialRepo.
func NewCredentialRepo(pool Pool) *CredentialRepo {
	return &CredentialRepo{pool: pool}
}

// Create inserts a new credential into the database.
func (r *CredentialRepo) Create(ctx context.Context, c *domain.Credential) error {
	query := `INSERT INTO credentials (id, label, access_key, secret_key_enc, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID, c.Label, c.AccessKey, c.SecretKeyEnc, c.Status,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	return nil
}

// GetByAccessKey fetches a credential by its public access key.
// Returns nil, nil when no credential matches.
func (r *CredentialRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Credential, error) {
	query := `SELECT id, label, access_key, secret_key_enc, status, created_at, updated_at
		FROM credentials WHERE access_key = $1`

	c := &domain.Credential{}
	err := r.pool.QueryRow(ctx, query, accessKey).Scan(
		&c.ID, &c.Label, &c.AccessKey, &c.SecretKeyEnc, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential by access_key: %w", err)
	}
	return c, nil
}

// GetByID fetches a credential by its UUID.
func (r *CredentialRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Credential, error) {
	query := `SELECT id, label, access_key, secret_key_enc, status, created_at, updated_at
		FROM credentials WHERE id = $1`

	c := &domain.Credential{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Label, &c.AccessKey, &c.SecretKeyEnc, &c.Status,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get credential by id: %w", err)
	}
	return c, nil
}

// UpdateStatus updates a credential's status.
func (r *CredentialRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CredentialStatus) error {
	query := `UPDATE credentials SET status=$1, updated_at=NOW() WHERE id=$2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update credential status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update credential status: no rows affected")
	}
	return nil
}
