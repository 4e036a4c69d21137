// Package repository provides typed, soft-delete aware access to the entity store.
package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/White1313devil/medicals/internal/apperror"
	"github.com/White1313devil/medicals/prometheus"
	servertiming "github.com/mitchellh/go-server-timing"
	"gorm.io/gorm"
)

// Page sizes per listing.
const (
	ProductPageSize  = 100
	CustomerPageSize = 50
	SupplierPageSize = 50
)

// ListFilter narrows a paginated listing.
type ListFilter struct {
	Keyword      string
	CategoryName string
	// Page is 1-indexed; values below 1 are treated as 1.
	Page int
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalCount int64
}

func newPage[T any](items []T, page, pageSize int, count int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		TotalPages: int(math.Ceil(float64(count) / float64(pageSize))),
		TotalCount: count,
	}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// pastLastPage reports whether page starts beyond the last row of count.
// It avoids computing the offset, which overflows for huge page numbers.
func pastLastPage(page, pageSize int, count int64) bool {
	size := int64(pageSize)
	lastPage := (count + size - 1) / size
	return int64(page-1) >= lastPage
}

func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// containsPattern builds a LIKE pattern for a case-insensitive substring match
// against a LOWER()ed column. LIKE wildcards in keyword match literally.
func containsPattern(keyword string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(keyword))
	return "%" + escaped + "%"
}

// likeClause matches the LOWER()ed column against a containsPattern value.
func likeClause(column string) string {
	return "LOWER(" + column + ") LIKE ? ESCAPE '\\'"
}

// translate maps gorm errors onto the application error taxonomy.
func translate(err error, notFound, duplicate string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Duplicate(duplicate)
	default:
		return err
	}
}

// track times a database operation in prometheus and, when the request carries
// one, in the Server-Timing header.
func track(ctx context.Context, operation string) func() {
	stop := prometheus.TrackDBOperation(operation)
	var metric *servertiming.Metric
	if timing := servertiming.FromContext(ctx); timing != nil {
		metric = timing.NewMetric("db").WithDesc(operation).Start()
	}
	return func() {
		stop()
		if metric != nil {
			metric.Stop()
		}
	}
}
