// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orballo/words-backend/internal/core"
)

type Repository interface {
	UpsertCode(ctx context.Context, email, code string) (*LoginCode, error)
	GetCode(ctx context.Context, email string) (*LoginCode, error)
	DeleteCode(ctx context.Context, email string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// UpsertCode stores a fresh code for the email, replacing any pending one.
// The email is the primary key, so a second signup or signin request simply
// invalidates the code from the first.
func (r *repository) UpsertCode(
	ctx context.Context,
	email, code string,
) (*LoginCode, error) {
	query := `
		INSERT INTO login_codes (email, code, issued_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (email)
		DO UPDATE SET code = EXCLUDED.code, issued_at = NOW()
		RETURNING email, code, issued_at`

	var loginCode LoginCode
	err := r.db.GetContext(ctx, &loginCode, query, email, code)
	if err != nil {
		return nil, fmt.Errorf("upsert login code: %w", err)
	}

	return &loginCode, nil
}

func (r *repository) GetCode(
	ctx context.Context,
	email string,
) (*LoginCode, error) {
	query := `
		SELECT email, code, issued_at
		FROM login_codes
		WHERE email = $1`

	var loginCode LoginCode
	err := r.db.GetContext(ctx, &loginCode, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get login code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get login code: %w", err)
	}

	return &loginCode, nil
}

func (r *repository) DeleteCode(ctx context.Context, email string) error {
	query := `DELETE FROM login_codes WHERE email = $1`

	if _, err := r.db.ExecContext(ctx, query, email); err != nil {
		return fmt.Errorf("delete login code: %w", err)
	}

	return nil
}
