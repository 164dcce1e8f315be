// AngelaMos | 2026
// service.go

package word

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orballo/words-backend/internal/core"
)

const listCacheTTL = 5 * time.Minute

// ListCacheKey is the cache slot for one user's full word list. The tag
// package invalidates it too, since deleting a tag rewrites word links.
func ListCacheKey(author int64) string {
	return fmt.Sprintf("words:user:%d", author)
}

type Service struct {
	repo   Repository
	rdb    *redis.Client
	logger *slog.Logger
}

func NewService(
	repo Repository,
	rdb *redis.Client,
	logger *slog.Logger,
) *Service {
	return &Service{repo: repo, rdb: rdb, logger: logger}
}

func (s *Service) Create(
	ctx context.Context,
	author int64,
	req CreateWordRequest,
) (*Word, error) {
	w := &Word{
		Author:   author,
		Spelling: req.Spelling,
		Meaning:  req.Meaning,
	}

	if err := s.repo.Create(ctx, w, req.Tags); err != nil {
		return nil, err
	}

	s.invalidate(ctx, author)
	return w, nil
}

func (s *Service) Get(ctx context.Context, id, author int64) (*Word, error) {
	return s.repo.GetByID(ctx, id, author)
}

// List serves from the per-user cache when it can. A cache failure is only
// logged; the database stays the source of truth.
func (s *Service) List(ctx context.Context, author int64) ([]Word, error) {
	key := ListCacheKey(author)

	if s.rdb != nil {
		var cached []Word
		hit, err := core.CacheGet(ctx, s.rdb, key, &cached)
		if err != nil {
			s.logger.Warn("word list cache read", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	words, err := s.repo.ListByAuthor(ctx, author)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		err := core.CacheSet(ctx, s.rdb, key, words, listCacheTTL)
		if err != nil {
			s.logger.Warn("word list cache write", "error", err)
		}
	}

	return words, nil
}

func (s *Service) Edit(
	ctx context.Context,
	author int64,
	req EditWordRequest,
) (*Word, error) {
	w := &Word{
		ID:       req.ID,
		Author:   author,
		Spelling: req.Spelling,
		Meaning:  req.Meaning,
	}

	if err := s.repo.Update(ctx, w, req.Tags); err != nil {
		return nil, err
	}

	s.invalidate(ctx, author)
	return w, nil
}

func (s *Service) Review(
	ctx context.Context,
	author int64,
	req ReviewWordRequest,
) (*Word, error) {
	w, err := s.repo.UpdateReview(ctx, req.ID, author, req.Level)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, author)
	return w, nil
}

func (s *Service) Delete(ctx context.Context, id, author int64) error {
	if err := s.repo.Delete(ctx, id, author); err != nil {
		return err
	}

	s.invalidate(ctx, author)
	return nil
}

func (s *Service) invalidate(ctx context.Context, author int64) {
	if s.rdb == nil {
		return
	}

	if err := core.CacheDelete(ctx, s.rdb, ListCacheKey(author)); err != nil {
		s.logger.Warn("word list cache invalidate", "error", err)
	}
}
