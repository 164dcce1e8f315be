// AngelaMos | 2026
// service.go

package tag

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/orballo/words-backend/internal/core"
	"github.com/orballo/words-backend/internal/word"
)

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
	req CreateTagRequest,
) (*Tag, error) {
	t := &Tag{Author: author, Name: req.Name}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id, author int64) (*Tag, error) {
	return s.repo.GetByID(ctx, id, author)
}

func (s *Service) List(ctx context.Context, author int64) ([]Tag, error) {
	return s.repo.ListByAuthor(ctx, author)
}

func (s *Service) Edit(
	ctx context.Context,
	author int64,
	req EditTagRequest,
) (*Tag, error) {
	t := &Tag{ID: req.ID, Author: author, Name: req.Name}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// Delete removes the tag and drops the author's cached word list, since
// the words that carried the tag now serialize differently.
func (s *Service) Delete(ctx context.Context, id, author int64) error {
	if err := s.repo.Delete(ctx, id, author); err != nil {
		return err
	}

	if s.rdb != nil {
		key := word.ListCacheKey(author)
		if err := core.CacheDelete(ctx, s.rdb, key); err != nil {
			s.logger.Warn("word list cache invalidate", "error", err)
		}
	}

	return nil
}
