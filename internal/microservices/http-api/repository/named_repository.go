package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// NamedRepo stores name-only reference entities (measures, recipe categories).
type NamedRepo[T any] struct {
	db    *gorm.DB
	label string
}

func NewNamedRepo[T any](db *gorm.DB, label string) *NamedRepo[T] {
	return &NamedRepo[T]{db: db, label: label}
}

func (r *NamedRepo[T]) GetAll(ctx context.Context, page, pageSize int) ([]T, int64, error) {
	var list []T
	var total int64

	if err := r.db.WithContext(ctx).Model(new(T)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", r.label, err)
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", r.label, err)
	}
	return list, total, nil
}

func (r *NamedRepo[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	var v T
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *NamedRepo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", r.label, err)
	}
	return n > 0, nil
}

func (r *NamedRepo[T]) Create(ctx context.Context, v *T) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create %s: %w", r.label, err)
	}
	return nil
}

func (r *NamedRepo[T]) Rename(ctx context.Context, id int64, name string) error {
	res := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("rename %s: %w", r.label, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NamedRepo[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", r.label, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
