package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/eulark/eulark-site/repositories"
)

// ContentItem is the pointer form of a content model that can check its own fields.
type ContentItem[T any] interface {
	*T
	Validate() error
}

// Patch applies client-supplied fields onto an entity. Nil fields are left alone.
type Patch[T any] interface {
	Apply(item *T) error
}

// ContentService is the admin CRUD surface for rules, commands, bans and sponsors.
type ContentService[T any, P ContentItem[T]] struct {
	repo     repositories.ContentRepository[T]
	decorate func(*T)
}

func NewContentService[T any, P ContentItem[T]](repo repositories.ContentRepository[T]) *ContentService[T, P] {
	return &ContentService[T, P]{repo: repo}
}

func (s *ContentService[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list content: %w", err)
	}
	if items == nil {
		return []T{}, nil
	}
	if s.decorate != nil {
		for i := range items {
			s.decorate(&items[i])
		}
	}
	return items, nil
}

func (s *ContentService[T, P]) Create(ctx context.Context, patch Patch[T]) (*T, error) {
	item := new(T)
	if err := s.prepare(item, patch); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create content: %w", err)
	}
	s.finish(item)
	return item, nil
}

// Update loads the current row, applies patch and stores the merged result.
func (s *ContentService[T, P]) Update(ctx context.Context, id int, patch Patch[T]) (*T, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.prepare(item, patch); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update content (id: %d): %w", id, err)
	}
	s.finish(item)
	return item, nil
}

func (s *ContentService[T, P]) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete content (id: %d): %w", id, err)
	}
	return nil
}

func (s *ContentService[T, P]) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *ContentService[T, P]) get(ctx context.Context, id int) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load content (id: %d): %w", id, err)
	}
	return item, nil
}

func (s *ContentService[T, P]) prepare(item *T, patch Patch[T]) error {
	if err := patch.Apply(item); err != nil {
		return validationError(err.Error())
	}
	if err := P(item).Validate(); err != nil {
		return validationError(err.Error())
	}
	return nil
}

func (s *ContentService[T, P]) finish(item *T) {
	if s.decorate != nil {
		s.decorate(item)
	}
}
