// AngelaMos | 2026
// repository.go

package word

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
	Create(ctx context.Context, w *Word, tagIDs []int64) error
	GetByID(ctx context.Context, id, author int64) (*Word, error)
	ListByAuthor(ctx context.Context, author int64) ([]Word, error)
	Update(ctx context.Context, w *Word, tagIDs []int64) error
	UpdateReview(
		ctx context.Context,
		id, author int64,
		level int,
	) (*Word, error)
	Delete(ctx context.Context, id, author int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Create inserts the word and its tag links in one transaction, so a bad
// tag id leaves no orphaned word behind.
func (r *repository) Create(
	ctx context.Context,
	w *Word,
	tagIDs []int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO words (author, spelling, meaning)
			VALUES ($1, $2, $3)
			RETURNING id, level, created_at, updated_at, reviewed_at`

		err := tx.GetContext(
			ctx, w, query,
			w.Author, w.Spelling, w.Meaning,
		)
		if err != nil {
			return fmt.Errorf("create word: %w", err)
		}

		if err := linkTags(ctx, tx, w.ID, w.Author, tagIDs); err != nil {
			return err
		}

		w.Tags = normalizeTags(tagIDs)
		return nil
	})
}

func (r *repository) GetByID(
	ctx context.Context,
	id, author int64,
) (*Word, error) {
	query := `
		SELECT id, author, spelling, meaning, level,
		       created_at, updated_at, reviewed_at
		FROM words
		WHERE id = $1 AND author = $2`

	var w Word
	err := r.db.GetContext(ctx, &w, query, id, author)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get word: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}

	w.Tags, err = r.tagIDs(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) ListByAuthor(
	ctx context.Context,
	author int64,
) ([]Word, error) {
	query := `
		SELECT id, author, spelling, meaning, level,
		       created_at, updated_at, reviewed_at
		FROM words
		WHERE author = $1
		ORDER BY created_at DESC`

	words := []Word{}
	if err := r.db.SelectContext(ctx, &words, query, author); err != nil {
		return nil, fmt.Errorf("list words: %w", err)
	}

	linkQuery := `
		SELECT wt.word_id, wt.tag_id
		FROM word_tags wt
		JOIN words w ON w.id = wt.word_id
		WHERE w.author = $1`

	var links []struct {
		WordID int64 `db:"word_id"`
		TagID  int64 `db:"tag_id"`
	}
	if err := r.db.SelectContext(ctx, &links, linkQuery, author); err != nil {
		return nil, fmt.Errorf("list word tags: %w", err)
	}

	tagsByWord := make(map[int64][]int64, len(words))
	for _, link := range links {
		tagsByWord[link.WordID] = append(tagsByWord[link.WordID], link.TagID)
	}

	for i := range words {
		words[i].Tags = tagsByWord[words[i].ID]
		if words[i].Tags == nil {
			words[i].Tags = []int64{}
		}
	}

	return words, nil
}

// Update rewrites the word and replaces its tag links atomically. The
// ownership check comes first: a miss rolls back before any links move.
func (r *repository) Update(
	ctx context.Context,
	w *Word,
	tagIDs []int64,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE words
			SET spelling = $3, meaning = $4, updated_at = NOW()
			WHERE id = $1 AND author = $2
			RETURNING level, created_at, updated_at, reviewed_at`

		err := tx.GetContext(
			ctx, w, query,
			w.ID, w.Author, w.Spelling, w.Meaning,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("update word: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update word: %w", err)
		}

		unlink := `DELETE FROM word_tags WHERE word_id = $1`
		if _, err := tx.ExecContext(ctx, unlink, w.ID); err != nil {
			return fmt.Errorf("unlink word tags: %w", err)
		}

		if err := linkTags(ctx, tx, w.ID, w.Author, tagIDs); err != nil {
			return err
		}

		w.Tags = normalizeTags(tagIDs)
		return nil
	})
}

func (r *repository) UpdateReview(
	ctx context.Context,
	id, author int64,
	level int,
) (*Word, error) {
	query := `
		UPDATE words
		SET level = $3, reviewed_at = NOW()
		WHERE id = $1 AND author = $2
		RETURNING id, author, spelling, meaning, level,
		          created_at, updated_at, reviewed_at`

	var w Word
	err := r.db.GetContext(ctx, &w, query, id, author, level)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("review word: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("review word: %w", err)
	}

	w.Tags, err = r.tagIDs(ctx, w.ID)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// Delete removes the word and its tag links in one transaction. The link
// delete is scoped by ownership so a foreign word's links are never touched.
func (r *repository) Delete(ctx context.Context, id, author int64) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		unlink := `
			DELETE FROM word_tags
			WHERE word_id IN (
				SELECT id FROM words WHERE id = $1 AND author = $2
			)`
		if _, err := tx.ExecContext(ctx, unlink, id, author); err != nil {
			return fmt.Errorf("unlink word tags: %w", err)
		}

		result, err := tx.ExecContext(
			ctx,
			`DELETE FROM words WHERE id = $1 AND author = $2`,
			id, author,
		)
		if err != nil {
			return fmt.Errorf("delete word: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete word: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf("delete word: %w", core.ErrNotFound)
		}

		return nil
	})
}

func (r *repository) tagIDs(ctx context.Context, wordID int64) ([]int64, error) {
	query := `SELECT tag_id FROM word_tags WHERE word_id = $1 ORDER BY tag_id`

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, wordID); err != nil {
		return nil, fmt.Errorf("get word tags: %w", err)
	}

	return ids, nil
}

// linkTags attaches tags to a word. Tags belong to users too, so the insert
// only accepts tag ids owned by the same author; anything else is reported
// as invalid input.
func linkTags(
	ctx context.Context,
	tx *sqlx.Tx,
	wordID, author int64,
	tagIDs []int64,
) error {
	if len(tagIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO word_tags (word_id, tag_id)
		SELECT $1, id FROM tags WHERE id = $2 AND author = $3`

	for _, tagID := range tagIDs {
		result, err := tx.ExecContext(ctx, query, wordID, tagID, author)
		if err != nil {
			if isForeignKeyError(err) {
				return fmt.Errorf("link tag: %w", core.ErrInvalidInput)
			}
			return fmt.Errorf("link tag: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("link tag: %w", err)
		}

		if rows == 0 {
			return fmt.Errorf(
				"link tag %d: %w",
				tagID,
				core.ErrInvalidInput,
			)
		}
	}

	return nil
}

func normalizeTags(tagIDs []int64) []int64 {
	if tagIDs == nil {
		return []int64{}
	}
	return tagIDs
}

func isForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
