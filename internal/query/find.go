package query

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Page is one page of results plus the total size of the filtered set.
type Page[T any] struct {
	Items      []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// TotalPages returns ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Find counts the rows matching spec on base and then loads the requested page.
// Preloads apply to the page query only.
func Find[T any](ctx context.Context, base *gorm.DB, spec Spec, preloads ...string) (Page[T], error) {
	wrapMsg := "unable to run list query"

	where, args, err := spec.Where.ToSql()
	if err != nil {
		return Page[T]{}, errors.Wrap(err, wrapMsg)
	}

	tx := base.WithContext(ctx)

	var total int64
	if err := tx.Model(new(T)).Where(where, args...).Count(&total).Error; err != nil {
		return Page[T]{}, errors.Wrap(err, wrapMsg)
	}

	items := make([]T, 0, spec.Limit)

	q := tx.Model(new(T)).Where(where, args...)
	if len(spec.Columns) > 0 {
		q = q.Select(spec.Columns)
	}
	for _, order := range spec.Order {
		q = q.Order(order)
	}
	for _, preload := range preloads {
		q = q.Preload(preload)
	}

	if err := q.Offset(spec.Offset()).Limit(spec.Limit).Find(&items).Error; err != nil {
		return Page[T]{}, errors.Wrap(err, wrapMsg)
	}

	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       spec.Page,
		Limit:      spec.Limit,
		TotalPages: TotalPages(total, spec.Limit),
	}, nil
}

// Map converts the items of a page, keeping its pagination.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	items := make([]U, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return Page[U]{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: TotalPages(page.Total, page.Limit),
	}
}
