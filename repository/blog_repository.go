package repository

import (
	"context"

	"github.com/techmaster-vietnam/blogcounter/models"
	"gorm.io/gorm"
)

// Every mutation below is a single statement so the store serializes concurrent
// writers on the primary key. Nothing reads a row before deciding to write it.
const (
	insertSeedSQL = "INSERT INTO blogs (id, title, likes, views) VALUES (?, ?, 0, 0) ON CONFLICT (id) DO NOTHING"

	upsertViewSQL = `INSERT INTO blogs (id, title, likes, views) VALUES (?, ?, 0, 1)
ON CONFLICT (id) DO UPDATE SET views = blogs.views + 1
RETURNING id, title, likes, views`

	incrementViewsSQL = "UPDATE blogs SET views = views + 1 WHERE id = ? RETURNING views"
	incrementLikesSQL = "UPDATE blogs SET likes = likes + 1 WHERE id = ? RETURNING likes"
)

// BlogRepository handles blog database operations
type BlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// List lists all blogs ordered by id
func (r *BlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	blogs := make([]models.Blog, 0)
	err := r.db.WithContext(ctx).Order("id ASC").Find(&blogs).Error
	return blogs, err
}

// GetByID gets a blog by ID
func (r *BlogRepository) GetByID(ctx context.Context, id int64) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&blog).Error
	return &blog, err
}

// EnsureExist inserts each seed on its own, skipping ids that already exist.
// Returns how many rows were created. A failed insert stops the loop but
// leaves the rows committed before it in place.
func (r *BlogRepository) EnsureExist(ctx context.Context, seeds []models.BlogSeed) (int64, error) {
	var created int64
	for _, seed := range seeds {
		res := r.db.WithContext(ctx).Exec(insertSeedSQL, seed.ID, seed.Title)
		if res.Error != nil {
			return created, res.Error
		}
		created += res.RowsAffected
	}
	return created, nil
}

// UpsertView increments views of id, creating the row with views=1 and the given title if absent
func (r *BlogRepository) UpsertView(ctx context.Context, id int64, title string) (*models.Blog, error) {
	var blog models.Blog
	res := r.db.WithContext(ctx).Raw(upsertViewSQL, id, title).Scan(&blog)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// RETURNING always yields the row; an empty result means the driver dropped it
		return nil, gorm.ErrRecordNotFound
	}
	return &blog, nil
}

// IncrementViews increments views of an existing record
func (r *BlogRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, incrementViewsSQL, id)
}

// IncrementLikes increments likes of an existing record
func (r *BlogRepository) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	return r.increment(ctx, incrementLikesSQL, id)
}

func (r *BlogRepository) increment(ctx context.Context, query string, id int64) (int64, error) {
	var counts []int64
	res := r.db.WithContext(ctx).Raw(query, id).Scan(&counts)
	if res.Error != nil {
		return 0, res.Error
	}
	if len(counts) == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return counts[0], nil
}
