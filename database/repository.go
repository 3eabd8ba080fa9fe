package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository is a generic CRUD base embedded by concrete repositories.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository wraps db for entity type T.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB exposes the underlying connection for custom queries.
func (r *Repository[T]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("create record: %w", err)
	}
	return nil
}

// FindByID returns ErrRecordNotFound when no row matches.
func (r *Repository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	var entity T
	result := r.db.WithContext(ctx).First(&entity, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if result.Error != nil {
		return nil, fmt.Errorf("find record (id=%v): %w", id, result.Error)
	}
	return &entity, nil
}

func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	var entities []T
	if err := r.db.WithContext(ctx).Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find all records: %w", err)
	}
	return entities, nil
}

func (r *Repository[T]) Update(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

func (r *Repository[T]) Delete(ctx context.Context, id any) error {
	var entity T
	if err := r.db.WithContext(ctx).Delete(&entity, id).Error; err != nil {
		return fmt.Errorf("delete record (id=%v): %w", id, err)
	}
	return nil
}

func (r *Repository[T]) Exists(ctx context.Context, id any) (bool, error) {
	var entity T
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check record (id=%v): %w", id, err)
	}
	return count > 0, nil
}

func (r *Repository[T]) Count(ctx context.Context) (int64, error) {
	var entity T
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

// Paginate returns one page plus the total row count. Pages are 1-based.
func (r *Repository[T]) Paginate(ctx context.Context, page, pageSize int) ([]T, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var entities []T
	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).Offset(offset).Limit(pageSize).Find(&entities).Error; err != nil {
		return nil, 0, fmt.Errorf("paginate records: %w", err)
	}
	return entities, total, nil
}

// Transaction runs fn inside a database transaction.
func (r *Repository[T]) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
