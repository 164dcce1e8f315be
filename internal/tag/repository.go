// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/orballo/words-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, t *Tag) error
	GetByID(ctx context.Context, id, author int64) (*Tag, error)
	ListByAuthor(ctx context.Context, author int64) ([]Tag, error)
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id, author int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts a tag. Names are unique per author, enforced by the
// database so concurrent creates cannot slip a duplicate through.
func (r *repository) Create(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO tags (author, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, t, query, t.Author, t.Name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create tag: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id, author int64,
) (*Tag, error) {
	query := `
		SELECT id, author, name, created_at, updated_at
		FROM tags
		WHERE id = $1 AND author = $2`

	var t Tag
	err := r.db.GetContext(ctx, &t, query, id, author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &t, nil
}

func (r *repository) ListByAuthor(
	ctx context.Context,
	author int64,
) ([]Tag, error) {
	query := `
		SELECT id, author, name, created_at, updated_at
		FROM tags
		WHERE author = $1
		ORDER BY created_at DESC`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query, author); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

func (r *repository) Update(ctx context.Context, t *Tag) error {
	query := `
		UPDATE tags
		SET name = $3, updated_at = NOW()
		WHERE id = $1 AND author = $2
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, t, query, t.ID, t.Author, t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update tag: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update tag: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update tag: %w", err)
	}

	return nil
}

// Delete removes the tag and every link pointing at it in one transaction.
// Only links owned through the tag are touched; the words stay.
func (r *repository) Delete(ctx context.Context, id, author int64) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		unlink := `
			DELETE FROM word_tags
			WHERE tag_id IN (
				SELECT id FROM tags WHERE id = $1 AND author = $2
			)`
		if _, err := tx.ExecContext(ctx, unlink, id, author); err != nil {
			return fmt.Errorf("unlink tag: %w", err)
		}

		result, err := tx.ExecContext(
			ctx,
			`DELETE FROM tags WHERE id = $1 AND author = $2`,
			id, author,
		)
		if err != nil {
			return fmt.Errorf("delete tag: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete tag: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("delete tag: %w", core.ErrNotFound)
		}

		return nil
	})
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
