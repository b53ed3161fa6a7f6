package core

import (
	"context"

	"github.com/techmaster-vietnam/blogcounter/models"
)

// BlogRepositoryInterface định nghĩa interface cho Blog Repository
// Cho phép mock repository trong tests
type BlogRepositoryInterface interface {
	// List returns every record ordered by ascending id
	List(ctx context.Context) ([]models.Blog, error)
	// GetByID returns gorm.ErrRecordNotFound when the id is unknown
	GetByID(ctx context.Context, id int64) (*models.Blog, error)
	// EnsureExist inserts the missing seeds; existing rows are left untouched
	EnsureExist(ctx context.Context, seeds []models.BlogSeed) (int64, error)
	// UpsertView increments views, creating the record with views=1 when absent
	UpsertView(ctx context.Context, id int64, title string) (*models.Blog, error)
	// IncrementViews returns gorm.ErrRecordNotFound when the id is unknown
	IncrementViews(ctx context.Context, id int64) (int64, error)
	// IncrementLikes returns gorm.ErrRecordNotFound when the id is unknown
	IncrementLikes(ctx context.Context, id int64) (int64, error)
}

// CounterObserver nhận thông báo khi counter thay đổi (metrics)
type CounterObserver interface {
	ViewRegistered()
	LikeRegistered()
	RecordsCreated(n int64)
}
